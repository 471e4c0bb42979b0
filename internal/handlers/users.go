package handlers

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"golang.org/x/crypto/bcrypt"

	"github.com/gabsakura/Projeto-siteProfissional/internal/apperr"
	"github.com/gabsakura/Projeto-siteProfissional/internal/auth"
	"github.com/gabsakura/Projeto-siteProfissional/internal/models"
	"github.com/gabsakura/Projeto-siteProfissional/internal/store"
	"github.com/gabsakura/Projeto-siteProfissional/internal/validation"
)

const (
	maxAvatarBytes = 5 << 20
	avatarWidth    = 256
)

type UserHandler struct {
	Users     UserStore
	UploadDir string
	// HashCost is the bcrypt cost; zero means bcrypt.DefaultCost.
	HashCost int
}

type userRequest struct {
	Nome      *string `json:"nome"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	Tipo      *string `json:"tipo"`
	Verified  *bool   `json:"verified"`
	Descricao *string `json:"descricao"`
}

func (req userRequest) input() validation.UserInput {
	return validation.UserInput{Nome: req.Nome, Email: req.Email, Password: req.Password, Tipo: req.Tipo}
}

type userResponse struct {
	User *models.User `json:"user"`
}

func (h *UserHandler) hash(password string) (string, error) {
	cost := h.HashCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.User{"users": users})
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Tipo == nil {
		req.Tipo = new(string)
		*req.Tipo = models.RoleUser
	}
	if err := validation.ValidateUser(req.input(), true).Err("invalid user"); err != nil {
		writeError(w, r, err)
		return
	}

	hashed, err := h.hash(*req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	u := &models.User{
		Nome:     *req.Nome,
		Email:    *req.Email,
		Password: hashed,
		Tipo:     *req.Tipo,
		Verified: req.Verified == nil || *req.Verified,
	}
	if req.Descricao != nil {
		u.Descricao = *req.Descricao
	}
	if err := h.Users.CreateUser(r.Context(), u); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("User registered", "user_id", u.ID, "by", auth.MustClaims(r.Context()).ID)
	writeJSON(w, http.StatusCreated, userResponse{User: u})
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.Users.GetUser(r.Context(), auth.MustClaims(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: u})
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	v := validation.NewValidator().
		MinLength("newPassword", req.NewPassword, 6).
		MaxLength("newPassword", req.NewPassword, 72)
	if err := v.Err("invalid password"); err != nil {
		writeError(w, r, err)
		return
	}

	id := auth.MustClaims(r.Context()).ID
	u, err := h.Users.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.CurrentPassword)) != nil {
		writeError(w, r, apperr.Invalid("current password is incorrect"))
		return
	}
	hashed, err := h.hash(req.NewPassword)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Users.UpdatePassword(r.Context(), id, hashed); err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("Password changed", "user_id", id)
	writeMessage(w, "password updated")
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req userRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Password != nil && *req.Password == "" {
		req.Password = nil
	}
	if err := validation.ValidateUser(req.input(), false).Err("invalid user"); err != nil {
		writeError(w, r, err)
		return
	}

	patch := store.UserPatch{
		Nome:      req.Nome,
		Email:     req.Email,
		Tipo:      req.Tipo,
		Verified:  req.Verified,
		Descricao: req.Descricao,
	}
	if req.Password != nil {
		hashed, err := h.hash(*req.Password)
		if err != nil {
			writeError(w, r, err)
			return
		}
		patch.Password = &hashed
	}

	u, err := h.Users.UpdateUser(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: u})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Users.DeleteUser(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("User deleted", "user_id", id, "by", auth.MustClaims(r.Context()).ID)
	writeMessage(w, "user deleted")
}

// UploadAvatar stores a resized JPEG copy of the multipart "avatar" file.
// Admins may change anyone's avatar, other users only their own.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	claims := auth.MustClaims(r.Context())
	if !claims.IsAdmin() && claims.ID != id {
		writeError(w, r, apperr.Forbidden("you can only change your own avatar"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes)
	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		writeError(w, r, apperr.Invalid("avatar must be a multipart upload of at most 5MB"))
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeError(w, r, apperr.Invalid("avatar file is required"))
		return
	}
	defer file.Close()

	var img image.Image
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".png":
		img, err = png.Decode(file)
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(file)
	default:
		writeError(w, r, apperr.Invalid("unsupported image format, only PNG, JPG and JPEG are allowed"))
		return
	}
	if err != nil {
		writeError(w, r, apperr.Invalid("failed to decode image"))
		return
	}

	if img.Bounds().Dx() > avatarWidth {
		img = resize.Resize(avatarWidth, 0, img, resize.Lanczos3)
	}

	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		writeError(w, r, fmt.Errorf("create upload dir: %w", err))
		return
	}
	filename := uuid.NewString() + ".jpg"
	path := filepath.Join(h.UploadDir, filename)
	out, err := os.Create(path)
	if err != nil {
		writeError(w, r, fmt.Errorf("create avatar file: %w", err))
		return
	}
	err = jpeg.Encode(out, img, &jpeg.Options{Quality: 80})
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		writeError(w, r, fmt.Errorf("encode avatar: %w", err))
		return
	}

	u, err := h.Users.UpdateUserAvatar(r.Context(), id, "/uploads/"+filename)
	if err != nil {
		os.Remove(path)
		writeError(w, r, err)
		return
	}
	slog.Info("Avatar updated", "user_id", id, "file", filename)
	writeJSON(w, http.StatusOK, userResponse{User: u})
}
