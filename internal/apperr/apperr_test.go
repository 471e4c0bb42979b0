package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/gabsakura/Projeto-siteProfissional/internal/apperr"
)

func TestStatus(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"missing token", apperr.ErrMissingToken, http.StatusUnauthorized},
		{"invalid token", fmt.Errorf("verify: %w", apperr.ErrInvalidToken), http.StatusUnauthorized},
		{"forbidden", apperr.Forbidden("no"), http.StatusForbidden},
		{"invalid input", apperr.Invalid("bad", "item: is required"), http.StatusBadRequest},
		{"not found", apperr.NotFound("card"), http.StatusNotFound},
		{"conflict", apperr.Conflict("email already registered"), http.StatusConflict},
		{"unexpected", apperr.Wrap(apperr.ErrUnexpected, "db", errors.New("disk full")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			c.Assert(apperr.Status(tt.err), qt.Equals, tt.want)
		})
	}
}

func TestErrorUnwrapsKindAndCause(t *testing.T) {
	c := qt.New(t)

	cause := errors.New("driver failure")
	err := apperr.Wrap(apperr.ErrUnexpected, "listing users", cause)

	c.Assert(errors.Is(err, apperr.ErrUnexpected), qt.IsTrue)
	c.Assert(errors.Is(err, cause), qt.IsTrue)
	c.Assert(err.Error(), qt.Equals, "listing users: driver failure")
}

func TestMessageHidesInternalCauses(t *testing.T) {
	c := qt.New(t)

	c.Assert(apperr.Message(apperr.Wrap(apperr.ErrUnexpected, "query failed", errors.New("secret"))), qt.Equals, "internal server error")
	c.Assert(apperr.Message(errors.New("raw")), qt.Equals, "internal server error")
	c.Assert(apperr.Message(apperr.NotFound("inventory item")), qt.Equals, "inventory item not found")
	c.Assert(apperr.Message(fmt.Errorf("x: %w", apperr.ErrForbidden)), qt.Equals, "access denied")
}

func TestDetails(t *testing.T) {
	c := qt.New(t)

	err := fmt.Errorf("create: %w", apperr.Invalid("invalid user", "email: must be a valid email address"))
	c.Assert(apperr.Details(err), qt.DeepEquals, []string{"email: must be a valid email address"})
	c.Assert(apperr.Details(errors.New("x")), qt.IsNil)
}

func TestKindForStatus(t *testing.T) {
	c := qt.New(t)

	c.Assert(apperr.KindForStatus(http.StatusUnauthorized), qt.Equals, apperr.ErrInvalidToken)
	c.Assert(apperr.KindForStatus(http.StatusConflict), qt.Equals, apperr.ErrConflict)
	c.Assert(apperr.KindForStatus(http.StatusBadGateway), qt.Equals, apperr.ErrUnexpected)
}
