package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/gabsakura/Projeto-siteProfissional/internal/apperr"
	"github.com/gabsakura/Projeto-siteProfissional/internal/auth"
	"github.com/gabsakura/Projeto-siteProfissional/internal/models"
)

// dummyHash keeps the cost of a login with an unknown email close to one
// with a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.MinCost)

type AuthHandler struct {
	Users  UserStore
	Issuer *auth.Issuer
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

var errBadCredentials = apperr.New(apperr.ErrInvalidToken, "invalid email or password")

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, r, apperr.Invalid("email and password are required"))
		return
	}

	user, err := h.Users.GetUserByEmail(r.Context(), req.Email)
	if errors.Is(err, apperr.ErrNotFound) {
		bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
		slog.Info("Login failed: unknown email", "email", req.Email)
		writeError(w, r, errBadCredentials)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		slog.Info("Login failed: wrong password", "user_id", user.ID)
		writeError(w, r, errBadCredentials)
		return
	}
	if !user.Verified {
		slog.Info("Login refused: account not verified", "user_id", user.ID)
		writeError(w, r, apperr.New(apperr.ErrInvalidToken, "account not verified"))
		return
	}

	token, err := h.Issuer.Issue(auth.Claims{ID: user.ID, Email: user.Email, Tipo: user.Tipo})
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("Login successful", "user_id", user.ID)
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

func (h *AuthHandler) VerifyAdmin(w http.ResponseWriter, r *http.Request) {
	claims := auth.MustClaims(r.Context())
	writeJSON(w, http.StatusOK, map[string]bool{"isAdmin": claims.IsAdmin()})
}
