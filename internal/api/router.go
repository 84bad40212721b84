package api

import (
	"database/sql"
	"net/http"
)

// RouterConfig carries the dependencies the handlers need.
type RouterConfig struct {
	JWTSecret  string
	UploadDir  string
	BcryptCost int
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: cfg.JWTSecret, BcryptCost: cfg.BcryptCost}
	usersHandler := &UsersHandler{DB: db}
	itemsHandler := &ItemsHandler{DB: db, UploadDir: cfg.UploadDir}
	swapsHandler := &SwapsHandler{DB: db}
	wishlistHandler := &WishlistHandler{DB: db}
	adminHandler := &AdminHandler{DB: db}

	authMW := AuthMiddleware(cfg.JWTSecret, db)

	// Public: auth, browse, single item, stored images.
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(cfg.UploadDir))))

	// Authenticated routes.
	mux.Handle("GET /api/auth/user", authMW(http.HandlerFunc(authHandler.CurrentUser)))
	mux.Handle("PUT /api/auth/user", authMW(http.HandlerFunc(authHandler.UpdateProfile)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Items: create and mutate (ownership enforced in the handlers).
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("PUT /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Update)))
	mux.Handle("DELETE /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))

	// A user's own listings (self or admin).
	mux.Handle("GET /api/users/{id}/items", authMW(http.HandlerFunc(usersHandler.GetItems)))

	// Swaps (party checks in the handlers).
	mux.Handle("GET /api/swaps", authMW(http.HandlerFunc(swapsHandler.List)))
	mux.Handle("POST /api/swaps", authMW(http.HandlerFunc(swapsHandler.Create)))
	mux.Handle("PUT /api/swaps/{id}", authMW(http.HandlerFunc(swapsHandler.Update)))

	// Wishlist.
	mux.Handle("GET /api/wishlist", authMW(http.HandlerFunc(wishlistHandler.List)))
	mux.Handle("POST /api/wishlist", authMW(http.HandlerFunc(wishlistHandler.Add)))
	mux.Handle("DELETE /api/wishlist/{itemId}", authMW(http.HandlerFunc(wishlistHandler.Remove)))

	// Admin: moderation queues and aggregates.
	mux.Handle("GET /api/admin/items/pending", authMW(RequireAdmin(http.HandlerFunc(adminHandler.PendingItems))))
	mux.Handle("GET /api/admin/items/flagged", authMW(RequireAdmin(http.HandlerFunc(adminHandler.FlaggedItems))))
	mux.Handle("GET /api/admin/stats", authMW(RequireAdmin(http.HandlerFunc(adminHandler.Stats))))

	return mux
}
