package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	DBPath          string
	JWTSecret       []byte
	TokenTTL        time.Duration
	CORSOrigins     []string
	UploadDir       string
	AdminEmail      string
	AdminPassword   string
	LoginRateWindow time.Duration
}

// LoadConfig reads an optional .env file and then the environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{
		Port:            getEnv("PORT", "5000"),
		DBPath:          getEnv("DB_PATH", "./app.db"),
		TokenTTL:        getDuration("TOKEN_TTL", 24*time.Hour),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
		UploadDir:       getEnv("UPLOAD_DIR", "./uploads"),
		AdminEmail:      getEnv("ADMIN_EMAIL", ""),
		AdminPassword:   getEnv("ADMIN_PASSWORD", ""),
		LoginRateWindow: getDuration("LOGIN_RATE_WINDOW", time.Second),
	}

	// JWT secret: raw string or base64 with a "base64:" prefix. Short or
	// missing secrets fall back to a random one so the server still boots.
	secret := os.Getenv("JWT_SECRET")
	switch {
	case secret == "":
		slog.Warn("JWT_SECRET environment variable not set. Generating a random secret for development. Tokens will be invalid on restart. PLEASE SET JWT_SECRET IN PRODUCTION!")
		cfg.JWTSecret = generateRandomBytes(32)
	case strings.HasPrefix(secret, "base64:"):
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, "base64:"))
		if err != nil || len(decoded) < 32 {
			slog.Warn("JWT_SECRET is invalid or too short (min 32 bytes recommended). Generating a random secret for development.")
			cfg.JWTSecret = generateRandomBytes(32)
		} else {
			cfg.JWTSecret = decoded
		}
	default:
		if len(secret) < 32 {
			slog.Warn("JWT_SECRET is shorter than 32 bytes. Consider a longer secret in production.")
		}
		cfg.JWTSecret = []byte(secret)
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		slog.Error("Invalid PORT environment variable. Falling back to default.", "PORT", os.Getenv("PORT"))
		cfg.Port = "5000"
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		slog.Warn("Invalid duration in environment, using default", "key", key, "value", raw, "default", defaultValue)
		return defaultValue
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// generateRandomBytes uses crypto/rand; a failure here means the process
// cannot produce secrets at all.
func generateRandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		slog.Error("Failed to read random bytes", "error", err)
		panic(err)
	}
	return b
}
