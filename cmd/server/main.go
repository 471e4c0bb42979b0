package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/gabsakura/Projeto-siteProfissional/internal/auth"
	"github.com/gabsakura/Projeto-siteProfissional/internal/config"
	"github.com/gabsakura/Projeto-siteProfissional/internal/handlers"
	"github.com/gabsakura/Projeto-siteProfissional/internal/notify"
	"github.com/gabsakura/Projeto-siteProfissional/internal/store"
)

func main() {
	// TextHandler for console readability
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.NewStore(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx, store.Migrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := seedAdmin(ctx, db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			slog.Error("Failed to seed admin user", "error", err)
			os.Exit(1)
		}
	}

	hub := notify.NewHub(cfg.CORSOrigins)
	go hub.Run(ctx)

	handler := handlers.NewRouter(ctx, handlers.RouterConfig{
		Users:           db,
		Inventory:       db,
		Financial:       db,
		Kanban:          db,
		Notifications:   db,
		Hub:             hub,
		Issuer:          auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL),
		UploadDir:       cfg.UploadDir,
		CORSOrigins:     cfg.CORSOrigins,
		LoginRateWindow: cfg.LoginRateWindow,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Port, "db", cfg.DBPath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server exited gracefully.")
}

// seedAdmin creates the configured admin account on first boot.
func seedAdmin(ctx context.Context, db *store.Store, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	created, err := db.EnsureAdmin(ctx, "Administrador", email, string(hash))
	if err != nil {
		return err
	}
	if created {
		slog.Info("Admin user created", "email", email)
	}
	return nil
}
