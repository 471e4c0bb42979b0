package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gabsakura/Projeto-siteProfissional/internal/apperr"
	"github.com/gabsakura/Projeto-siteProfissional/internal/models"
)

const userColumns = `id, nome, email, password, tipo, verified, descricao, avatar, created_at`

// UserPatch lists the fields of an update; nil means unchanged. Password
// holds an already hashed value.
type UserPatch struct {
	Nome      *string
	Email     *string
	Password  *string
	Tipo      *string
	Verified  *bool
	Descricao *string
}

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	var createdAt string
	if err := row.Scan(&u.ID, &u.Nome, &u.Email, &u.Password, &u.Tipo, &u.Verified, &u.Descricao, &u.Avatar, &createdAt); err != nil {
		return nil, err
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("user %d: bad created_at %q: %w", u.ID, createdAt, err)
	}
	u.CreatedAt = t
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (s *Store) GetUser(ctx context.Context, id int) (*models.User, error) {
	return getUser(ctx, s.DB, id)
}

func getUser(ctx context.Context, q queryer, id int) (*models.User, error) {
	u, err := scanUser(q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

// GetUserByEmail matches case-insensitively.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, strings.TrimSpace(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// CreateUser inserts u (Password already hashed) and fills in ID and CreatedAt.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	res, err := s.DB.ExecContext(ctx, `
		INSERT INTO users (nome, email, password, tipo, verified, descricao, avatar, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		strings.TrimSpace(u.Nome), strings.TrimSpace(u.Email), u.Password, u.Tipo, u.Verified, u.Descricao, u.Avatar, formatTime(s.now()))
	if apperr.IsUniqueViolation(err) {
		return apperr.Conflict("email already registered")
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := s.GetUser(ctx, int(id))
	if err != nil {
		return err
	}
	*u = *created
	return nil
}

func (s *Store) UpdateUser(ctx context.Context, id int, p UserPatch) (*models.User, error) {
	var sets []string
	var args []any
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if p.Nome != nil {
		add("nome", strings.TrimSpace(*p.Nome))
	}
	if p.Email != nil {
		add("email", strings.TrimSpace(*p.Email))
	}
	if p.Password != nil {
		add("password", *p.Password)
	}
	if p.Tipo != nil {
		add("tipo", *p.Tipo)
	}
	if p.Verified != nil {
		add("verified", *p.Verified)
	}
	if p.Descricao != nil {
		add("descricao", *p.Descricao)
	}

	var updated *models.User
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if len(sets) > 0 {
			res, err := tx.ExecContext(ctx, `UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, append(args, id)...)
			if apperr.IsUniqueViolation(err) {
				return apperr.Conflict("email already registered")
			}
			if err != nil {
				return fmt.Errorf("update user %d: %w", id, err)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return apperr.NotFound("user")
			}
		}
		u, err := getUser(ctx, tx, id)
		updated = u
		return err
	})
	return updated, err
}

func (s *Store) UpdateUserAvatar(ctx context.Context, id int, avatarURL string) (*models.User, error) {
	res, err := s.DB.ExecContext(ctx, `UPDATE users SET avatar = ? WHERE id = ?`, avatarURL, id)
	if err != nil {
		return nil, fmt.Errorf("update avatar of user %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperr.NotFound("user")
	}
	return s.GetUser(ctx, id)
}

// DeleteUser refuses to remove administrators.
func (s *Store) DeleteUser(ctx context.Context, id int) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		u, err := getUser(ctx, tx, id)
		if err != nil {
			return err
		}
		if u.IsAdmin() {
			return apperr.Forbidden("administrator accounts cannot be deleted")
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete user %d: %w", id, err)
		}
		return nil
	})
}

func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

// EnsureAdmin creates an administrator with the given credentials when no
// user with that email exists yet. It reports whether a row was inserted.
func (s *Store) EnsureAdmin(ctx context.Context, nome, email, passwordHash string) (bool, error) {
	_, err := s.GetUserByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return false, err
	}
	u := &models.User{Nome: nome, Email: email, Password: passwordHash, Tipo: models.RoleAdmin, Verified: true}
	if err := s.CreateUser(ctx, u); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	res, err := s.DB.ExecContext(ctx, `UPDATE users SET password = ? WHERE id = ?`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password of user %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("user")
	}
	return nil
}
