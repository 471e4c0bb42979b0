// Package auth issues and verifies bearer tokens and carries the verified
// claims through request contexts.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gabsakura/Projeto-siteProfissional/internal/apperr"
	"github.com/gabsakura/Projeto-siteProfissional/internal/models"
)

const DefaultTTL = 24 * time.Hour

// Claims is the payload signed into every token.
type Claims struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Tipo  string `json:"tipo"`
}

func (c *Claims) IsAdmin() bool {
	return c != nil && c.Tipo == models.RoleAdmin
}

type tokenClaims struct {
	Email string `json:"email"`
	Tipo  string `json:"tipo"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 tokens with a fixed validity window.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: secret, ttl: ttl, now: time.Now}
}

// WithClock returns a copy of the issuer that reads time from now.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	cp := *i
	cp.now = now
	return &cp
}

func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

func (i *Issuer) Issue(c Claims) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Email: c.Email,
		Tipo:  c.Tipo,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(c.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	})
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, apperr.ErrMissingToken
	}

	var tc tokenClaims
	_, err := jwt.ParseWithClaims(tokenString, &tc, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Wrap(apperr.ErrInvalidToken, "token expired", err)
		}
		return nil, apperr.Wrap(apperr.ErrInvalidToken, "invalid token", err)
	}

	id, err := strconv.Atoi(tc.Subject)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInvalidToken, "invalid token subject", err)
	}
	return &Claims{ID: id, Email: tc.Email, Tipo: tc.Tipo}, nil
}

// RequireAdmin fails with ErrForbidden unless the claims carry the admin role.
func RequireAdmin(c *Claims) error {
	if c == nil {
		return apperr.ErrMissingToken
	}
	if !c.IsAdmin() {
		return apperr.Forbidden("admin access required")
	}
	return nil
}

// FromHeader extracts the bearer credential. An Authorization header with
// another scheme yields an empty string.
func FromHeader(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
