package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/gabsakura/Projeto-siteProfissional/internal/auth"
)

// RouterConfig wires the handlers to their collaborators. *store.Store can
// fill every store field.
type RouterConfig struct {
	Users         UserStore
	Inventory     InventoryStore
	Financial     FinancialStore
	Kanban        KanbanStore
	Notifications NotificationStore
	Hub           Hub
	Issuer        *auth.Issuer

	UploadDir       string
	CORSOrigins     []string
	LoginRateWindow time.Duration // zero disables login rate limiting
	HashCost        int
}

// NewRouter builds the API. Chain: Logger -> Security Headers -> CORS -> Mux.
// ctx bounds background work such as the rate limiter cleanup.
func NewRouter(ctx context.Context, cfg RouterConfig) http.Handler {
	authn := Authenticator{Issuer: cfg.Issuer}
	authed, admin := authn.Require, authn.RequireAdmin

	authH := &AuthHandler{Users: cfg.Users, Issuer: cfg.Issuer}
	userH := &UserHandler{Users: cfg.Users, UploadDir: cfg.UploadDir, HashCost: cfg.HashCost}
	invH := &InventoryHandler{Items: cfg.Inventory}
	finH := &FinancialHandler{Records: cfg.Financial}
	kanH := &KanbanHandler{Board: cfg.Kanban}
	notH := &NotificationHandler{Notifications: cfg.Notifications, Hub: cfg.Hub}

	mux := http.NewServeMux()

	// Public Routes
	login := authH.Login
	if cfg.LoginRateWindow > 0 {
		login = NewRateLimiter(ctx, cfg.LoginRateWindow).Middleware(login)
	}
	mux.HandleFunc("POST /api/login", login)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.UploadDir != "" {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads", http.FileServer(http.Dir(cfg.UploadDir))))
	}

	// Users
	mux.HandleFunc("GET /api/verify-admin", authed(authH.VerifyAdmin))
	mux.HandleFunc("GET /api/users", admin(userH.List))
	mux.HandleFunc("POST /api/users/register", admin(userH.Register))
	mux.HandleFunc("GET /api/users/me", authed(userH.Me))
	mux.HandleFunc("PUT /api/users/me/password", authed(userH.ChangePassword))
	mux.HandleFunc("PUT /api/users/{id}", admin(userH.Update))
	mux.HandleFunc("DELETE /api/users/{id}", admin(userH.Delete))
	mux.HandleFunc("POST /api/users/{id}/avatar", authed(userH.UploadAvatar))

	// Financial
	mux.HandleFunc("GET /api/financial_data", authed(finH.List))
	mux.HandleFunc("POST /api/financial_data", admin(finH.Create))
	mux.HandleFunc("GET /api/financial_data/summary", authed(finH.Summary))

	// Inventory
	mux.HandleFunc("GET /api/inventory", authed(invH.List))
	mux.HandleFunc("GET /api/inventory/{id}", authed(invH.Get))
	mux.HandleFunc("POST /api/inventory", authed(invH.Create))
	mux.HandleFunc("PUT /api/inventory/{id}", authed(invH.Update))
	mux.HandleFunc("DELETE /api/inventory/{id}", authed(invH.Delete))

	// Kanban
	mux.HandleFunc("GET /api/kanban/boards", authed(kanH.ListBoards))
	mux.HandleFunc("POST /api/kanban/boards", authed(kanH.CreateBoard))
	mux.HandleFunc("GET /api/kanban/boards/{id}/columns", authed(kanH.ListColumns))
	mux.HandleFunc("POST /api/kanban/boards/{id}/columns", authed(kanH.CreateColumn))
	mux.HandleFunc("PUT /api/kanban/columns/{id}", authed(kanH.UpdateColumn))
	mux.HandleFunc("DELETE /api/kanban/columns/{id}", authed(kanH.DeleteColumn))
	mux.HandleFunc("POST /api/kanban/columns/{id}/cards", authed(kanH.CreateCard))
	mux.HandleFunc("PUT /api/kanban/cards/{id}", authed(kanH.UpdateCard))
	mux.HandleFunc("PUT /api/kanban/cards/{id}/move", authed(kanH.MoveCard))
	mux.HandleFunc("DELETE /api/kanban/cards/{id}", authed(kanH.DeleteCard))

	// Notifications
	mux.HandleFunc("GET /api/notifications", authed(notH.List))
	mux.HandleFunc("POST /api/notifications", admin(notH.Create))
	mux.HandleFunc("PUT /api/notifications/{id}/read", authed(notH.MarkRead))
	mux.HandleFunc("DELETE /api/notifications/{id}", admin(notH.Delete))
	if cfg.Hub != nil {
		ws := Authenticator{Issuer: cfg.Issuer, AllowQueryToken: true}
		mux.HandleFunc("GET /api/notifications/ws", ws.Require(notH.Stream))
	}

	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "route not found"})
	})

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         600,
	})

	return LoggingMiddleware(
		SecurityHeadersMiddleware(
			c.Handler(mux),
		),
	)
}
