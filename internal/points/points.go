// Package points implements the automatic valuation policy for new
// listings. The value is a pure function of category and condition.
package points

import "math"

// BasePoints is the starting value before multipliers.
const BasePoints = 100

// categoryMultipliers scales the base value by clothing category.
var categoryMultipliers = map[string]float64{
	"outerwear":   1.5,
	"shoes":       1.4,
	"dresses":     1.3,
	"accessories": 1.2,
	"tops":        1.1,
	"bottoms":     1.0,
}

// conditionMultipliers scales the base value by wear condition.
var conditionMultipliers = map[string]float64{
	"like-new":  2.0,
	"excellent": 1.8,
	"very-good": 1.5,
	"good":      1.2,
	"fair":      1.0,
}

// Compute returns the automatic point value for a listing. Unknown
// categories or conditions count as multiplier 1.0. Rounds half away
// from zero.
func Compute(category, condition string) int {
	value := float64(BasePoints)
	value *= multiplier(categoryMultipliers, category)
	value *= multiplier(conditionMultipliers, condition)
	return int(math.Round(value))
}

func multiplier(table map[string]float64, key string) float64 {
	if m, ok := table[key]; ok {
		return m
	}
	return 1.0
}
