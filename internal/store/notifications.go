package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabsakura/Projeto-siteProfissional/internal/apperr"
	"github.com/gabsakura/Projeto-siteProfissional/internal/models"
)

// ListNotifications returns every notification newest first, with Read
// computed for userID.
func (s *Store) ListNotifications(ctx context.Context, userID int) ([]models.Notification, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT n.id, n.text, n.created_at, r.user_id IS NOT NULL
		FROM notifications n
		LEFT JOIN notification_reads r ON r.notification_id = n.id AND r.user_id = ?
		ORDER BY n.created_at DESC, n.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		var ts string
		if err := rows.Scan(&n.ID, &n.Text, &ts, &n.Read); err != nil {
			return nil, err
		}
		if n.Timestamp, err = parseTime(ts); err != nil {
			return nil, fmt.Errorf("notification %d: bad created_at %q: %w", n.ID, ts, err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) CreateNotification(ctx context.Context, text string, createdBy int) (*models.Notification, error) {
	n := &models.Notification{Text: strings.TrimSpace(text), Timestamp: s.now().UTC().Truncate(time.Second)}
	var author any
	if createdBy > 0 {
		author = createdBy
	}
	res, err := s.DB.ExecContext(ctx, `INSERT INTO notifications (text, created_by, created_at) VALUES (?, ?, ?)`,
		n.Text, author, formatTime(n.Timestamp))
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	n.ID = int(id)
	return n, nil
}

// MarkNotificationRead is idempotent.
func (s *Store) MarkNotificationRead(ctx context.Context, id, userID int) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM notifications WHERE id = ?`, id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("notification")
		}
		if err != nil {
			return fmt.Errorf("get notification %d: %w", id, err)
		}
		// A token can outlive its user.
		err = tx.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, userID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("user")
		}
		if err != nil {
			return fmt.Errorf("get user %d: %w", userID, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO notification_reads (notification_id, user_id, read_at) VALUES (?, ?, ?)
			ON CONFLICT (notification_id, user_id) DO NOTHING`, id, userID, formatTime(s.now())); err != nil {
			return fmt.Errorf("mark notification %d read: %w", id, err)
		}
		return nil
	})
}

func (s *Store) DeleteNotification(ctx context.Context, id int) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM notifications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete notification %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("notification")
	}
	return nil
}
