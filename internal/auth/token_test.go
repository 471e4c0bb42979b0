package auth_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/golang-jwt/jwt/v5"

	"github.com/gabsakura/Projeto-siteProfissional/internal/apperr"
	"github.com/gabsakura/Projeto-siteProfissional/internal/auth"
)

var secret = []byte("0123456789abcdef0123456789abcdef")

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	c := qt.New(t)

	issuer := auth.NewIssuer(secret, 0)
	c.Assert(issuer.TTL(), qt.Equals, 24*time.Hour)

	token, err := issuer.Issue(auth.Claims{ID: 7, Email: "ana@empresa.com", Tipo: "admin"})
	c.Assert(err, qt.IsNil)

	claims, err := issuer.Verify(token)
	c.Assert(err, qt.IsNil)
	c.Assert(*claims, qt.Equals, auth.Claims{ID: 7, Email: "ana@empresa.com", Tipo: "admin"})
	c.Assert(claims.IsAdmin(), qt.IsTrue)
}

func TestVerifyMissingToken(t *testing.T) {
	c := qt.New(t)

	_, err := auth.NewIssuer(secret, time.Hour).Verify("  ")
	c.Assert(errors.Is(err, apperr.ErrMissingToken), qt.IsTrue)
}

func TestVerifyExpiredToken(t *testing.T) {
	c := qt.New(t)

	issued := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := auth.NewIssuer(secret, 24*time.Hour).WithClock(fixedClock(issued))
	token, err := issuer.Issue(auth.Claims{ID: 1, Email: "a@b.co", Tipo: "user"})
	c.Assert(err, qt.IsNil)

	_, err = issuer.WithClock(fixedClock(issued.Add(23 * time.Hour))).Verify(token)
	c.Assert(err, qt.IsNil)

	_, err = issuer.WithClock(fixedClock(issued.Add(25 * time.Hour))).Verify(token)
	c.Assert(errors.Is(err, apperr.ErrInvalidToken), qt.IsTrue)
	c.Assert(err.Error(), qt.Contains, "token expired")
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	c := qt.New(t)

	issuer := auth.NewIssuer(secret, time.Hour)
	token, err := issuer.Issue(auth.Claims{ID: 2, Email: "u@b.co", Tipo: "user"})
	c.Assert(err, qt.IsNil)

	parts := strings.Split(token, ".")
	c.Assert(parts, qt.HasLen, 3)

	// Re-sign an escalated payload with another key.
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "2",
		"tipo": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("another-secret"))
	c.Assert(err, qt.IsNil)
	forgedParts := strings.Split(forged, ".")

	tampered := parts[0] + "." + forgedParts[1] + "." + parts[2]
	_, err = issuer.Verify(tampered)
	c.Assert(errors.Is(err, apperr.ErrInvalidToken), qt.IsTrue)

	_, err = issuer.Verify(forged)
	c.Assert(errors.Is(err, apperr.ErrInvalidToken), qt.IsTrue)

	_, err = issuer.Verify("not-a-jwt")
	c.Assert(errors.Is(err, apperr.ErrInvalidToken), qt.IsTrue)
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	c := qt.New(t)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":  "1",
		"tipo": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	c.Assert(err, qt.IsNil)

	_, err = auth.NewIssuer(secret, time.Hour).Verify(unsigned)
	c.Assert(errors.Is(err, apperr.ErrInvalidToken), qt.IsTrue)
}

func TestVerifyRejectsTokenWithoutExpiry(t *testing.T) {
	c := qt.New(t)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1"}).SignedString(secret)
	c.Assert(err, qt.IsNil)

	_, err = auth.NewIssuer(secret, time.Hour).Verify(token)
	c.Assert(errors.Is(err, apperr.ErrInvalidToken), qt.IsTrue)
}

func TestRequireAdmin(t *testing.T) {
	c := qt.New(t)

	c.Assert(auth.RequireAdmin(&auth.Claims{Tipo: "admin"}), qt.IsNil)
	c.Assert(errors.Is(auth.RequireAdmin(&auth.Claims{Tipo: "user"}), apperr.ErrForbidden), qt.IsTrue)
	c.Assert(errors.Is(auth.RequireAdmin(nil), apperr.ErrMissingToken), qt.IsTrue)
}

func TestFromHeader(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc.def.ghi", "abc.def.ghi"},
		{"bearer abc", "abc"},
		{"Basic dXNlcjpwYXNz", ""},
		{"Bearer", ""},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			c := qt.New(t)
			r := httptest.NewRequest("GET", "/api/inventory", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			c.Assert(auth.FromHeader(r), qt.Equals, tt.want)
		})
	}
}

func TestClaimsContext(t *testing.T) {
	c := qt.New(t)

	_, ok := auth.ClaimsFrom(context.Background())
	c.Assert(ok, qt.IsFalse)
	c.Assert(func() { auth.MustClaims(context.Background()) }, qt.PanicMatches, "claims not found.*")

	ctx := auth.WithClaims(context.Background(), &auth.Claims{ID: 3})
	got, ok := auth.ClaimsFrom(ctx)
	c.Assert(ok, qt.IsTrue)
	c.Assert(got.ID, qt.Equals, 3)
}
