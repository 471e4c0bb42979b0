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

// ColumnPatch changes the title and/or the position of a column on its board.
type ColumnPatch struct {
	Title      *string
	OrderIndex *int
}

// CardPatch edits card content. Placement only changes through MoveCard.
type CardPatch struct {
	Title       *string
	Description *string
	Priority    *string
	StartDate   *time.Time
	DueDate     *time.Time
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (s *Store) ListBoards(ctx context.Context) ([]models.Board, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, title FROM kanban_boards ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	defer rows.Close()

	boards := []models.Board{}
	for rows.Next() {
		var b models.Board
		if err := rows.Scan(&b.ID, &b.Title); err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

func (s *Store) GetBoard(ctx context.Context, id int) (*models.Board, error) {
	return getBoard(ctx, s.DB, id)
}

func getBoard(ctx context.Context, q queryer, id int) (*models.Board, error) {
	var b models.Board
	err := q.QueryRowContext(ctx, `SELECT id, title FROM kanban_boards WHERE id = ?`, id).Scan(&b.ID, &b.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("board")
	}
	if err != nil {
		return nil, fmt.Errorf("get board %d: %w", id, err)
	}
	return &b, nil
}

func (s *Store) CreateBoard(ctx context.Context, title string) (*models.Board, error) {
	title = strings.TrimSpace(title)
	res, err := s.DB.ExecContext(ctx, `INSERT INTO kanban_boards (title) VALUES (?)`, title)
	if err != nil {
		return nil, fmt.Errorf("create board: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Board{ID: int(id), Title: title}, nil
}

// ListColumns returns the columns of a board left to right, each with its
// cards top to bottom.
func (s *Store) ListColumns(ctx context.Context, boardID int) ([]models.Column, error) {
	if _, err := s.GetBoard(ctx, boardID); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, board_id, title, order_index FROM kanban_columns
		WHERE board_id = ? ORDER BY order_index`, boardID)
	if err != nil {
		return nil, fmt.Errorf("list columns of board %d: %w", boardID, err)
	}
	columns := []models.Column{}
	byID := map[int]int{}
	for rows.Next() {
		var col models.Column
		if err := rows.Scan(&col.ID, &col.BoardID, &col.Title, &col.OrderIndex); err != nil {
			rows.Close()
			return nil, err
		}
		col.Cards = []models.Card{}
		byID[col.ID] = len(columns)
		columns = append(columns, col)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	cardRows, err := s.DB.QueryContext(ctx, `
		SELECT c.id, c.column_id, c.title, c.description, c.priority, c.start_date, c.due_date, c.position
		FROM kanban_cards c JOIN kanban_columns k ON k.id = c.column_id
		WHERE k.board_id = ? ORDER BY c.column_id, c.position`, boardID)
	if err != nil {
		return nil, fmt.Errorf("list cards of board %d: %w", boardID, err)
	}
	defer cardRows.Close()
	for cardRows.Next() {
		card, err := scanCard(cardRows)
		if err != nil {
			return nil, err
		}
		i := byID[card.ColumnID]
		columns[i].Cards = append(columns[i].Cards, *card)
	}
	return columns, cardRows.Err()
}

func getColumn(ctx context.Context, q queryer, id int) (*models.Column, error) {
	var col models.Column
	err := q.QueryRowContext(ctx, `SELECT id, board_id, title, order_index FROM kanban_columns WHERE id = ?`, id).
		Scan(&col.ID, &col.BoardID, &col.Title, &col.OrderIndex)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("column")
	}
	if err != nil {
		return nil, fmt.Errorf("get column %d: %w", id, err)
	}
	return &col, nil
}

func countColumns(ctx context.Context, q queryer, boardID int) (int, error) {
	var n int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM kanban_columns WHERE board_id = ?`, boardID).Scan(&n)
	return n, err
}

// CreateColumn inserts a column at orderIndex, or at the end when nil.
// The index is clamped and the columns at or after it shift right.
func (s *Store) CreateColumn(ctx context.Context, boardID int, title string, orderIndex *int) (*models.Column, error) {
	col := &models.Column{BoardID: boardID, Title: strings.TrimSpace(title), Cards: []models.Card{}}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getBoard(ctx, tx, boardID); err != nil {
			return err
		}
		n, err := countColumns(ctx, tx, boardID)
		if err != nil {
			return fmt.Errorf("count columns: %w", err)
		}
		col.OrderIndex = n
		if orderIndex != nil {
			col.OrderIndex = clamp(*orderIndex, 0, n)
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE kanban_columns SET order_index = order_index + 1
			WHERE board_id = ? AND order_index >= ?`, boardID, col.OrderIndex); err != nil {
			return fmt.Errorf("shift columns: %w", err)
		}
		res, err := tx.ExecContext(ctx, `INSERT INTO kanban_columns (board_id, title, order_index) VALUES (?, ?, ?)`,
			boardID, col.Title, col.OrderIndex)
		if err != nil {
			return fmt.Errorf("create column: %w", err)
		}
		id, err := res.LastInsertId()
		col.ID = int(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return col, nil
}

func (s *Store) UpdateColumn(ctx context.Context, id int, p ColumnPatch) (*models.Column, error) {
	var updated *models.Column
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		col, err := getColumn(ctx, tx, id)
		if err != nil {
			return err
		}
		if p.Title != nil {
			col.Title = strings.TrimSpace(*p.Title)
			if _, err := tx.ExecContext(ctx, `UPDATE kanban_columns SET title = ? WHERE id = ?`, col.Title, id); err != nil {
				return fmt.Errorf("rename column %d: %w", id, err)
			}
		}
		if p.OrderIndex != nil {
			n, err := countColumns(ctx, tx, col.BoardID)
			if err != nil {
				return fmt.Errorf("count columns: %w", err)
			}
			target := clamp(*p.OrderIndex, 0, n-1)
			if err := reorder(ctx, tx, "kanban_columns", "board_id", "order_index", col.BoardID, id, col.OrderIndex, target); err != nil {
				return err
			}
			col.OrderIndex = target
		}
		updated = col
		return nil
	})
	return updated, err
}

// reorder moves row id from position from to position to inside one scope,
// shifting the rows in between so the sequence stays dense.
func reorder(ctx context.Context, tx *sql.Tx, table, scopeCol, posCol string, scopeID, id, from, to int) error {
	if from == to {
		return nil
	}
	var shift string
	var args []any
	if to < from {
		shift = fmt.Sprintf(`UPDATE %s SET %s = %s + 1 WHERE %s = ? AND %s >= ? AND %s < ?`, table, posCol, posCol, scopeCol, posCol, posCol)
		args = []any{scopeID, to, from}
	} else {
		shift = fmt.Sprintf(`UPDATE %s SET %s = %s - 1 WHERE %s = ? AND %s > ? AND %s <= ?`, table, posCol, posCol, scopeCol, posCol, posCol)
		args = []any{scopeID, from, to}
	}
	if _, err := tx.ExecContext(ctx, shift, args...); err != nil {
		return fmt.Errorf("shift %s: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`UPDATE %s SET %s = ? WHERE id = ?`, table, posCol), to, id); err != nil {
		return fmt.Errorf("place row %d in %s: %w", id, table, err)
	}
	return nil
}

// DeleteColumn removes the column and its cards, then closes the gap it
// leaves on the board.
func (s *Store) DeleteColumn(ctx context.Context, id int) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		col, err := getColumn(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM kanban_cards WHERE column_id = ?`, id); err != nil {
			return fmt.Errorf("delete cards of column %d: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM kanban_columns WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete column %d: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE kanban_columns SET order_index = order_index - 1
			WHERE board_id = ? AND order_index > ?`, col.BoardID, col.OrderIndex); err != nil {
			return fmt.Errorf("compact columns: %w", err)
		}
		return nil
	})
}

const cardColumns = `id, column_id, title, description, priority, start_date, due_date, position`

func scanCard(row interface{ Scan(...any) error }) (*models.Card, error) {
	var c models.Card
	var start, due sql.NullString
	if err := row.Scan(&c.ID, &c.ColumnID, &c.Title, &c.Description, &c.Priority, &start, &due, &c.Position); err != nil {
		return nil, err
	}
	var err error
	if c.StartDate, err = parseNullTime(start); err != nil {
		return nil, fmt.Errorf("card %d: bad start_date: %w", c.ID, err)
	}
	if c.DueDate, err = parseNullTime(due); err != nil {
		return nil, fmt.Errorf("card %d: bad due_date: %w", c.ID, err)
	}
	return &c, nil
}

func (s *Store) GetCard(ctx context.Context, id int) (*models.Card, error) {
	return getCard(ctx, s.DB, id)
}

func getCard(ctx context.Context, q queryer, id int) (*models.Card, error) {
	c, err := scanCard(q.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM kanban_cards WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("card")
	}
	if err != nil {
		return nil, fmt.Errorf("get card %d: %w", id, err)
	}
	return c, nil
}

func countCards(ctx context.Context, q queryer, columnID int) (int, error) {
	var n int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM kanban_cards WHERE column_id = ?`, columnID).Scan(&n)
	return n, err
}

// CreateCard adds card to a column at position, or at the bottom when nil.
func (s *Store) CreateCard(ctx context.Context, columnID int, card *models.Card, position *int) error {
	if card.Priority == "" {
		card.Priority = models.PriorityMedium
	}
	card.Title = strings.TrimSpace(card.Title)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getColumn(ctx, tx, columnID); err != nil {
			return err
		}
		n, err := countCards(ctx, tx, columnID)
		if err != nil {
			return fmt.Errorf("count cards: %w", err)
		}
		card.ColumnID = columnID
		card.Position = n
		if position != nil {
			card.Position = clamp(*position, 0, n)
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE kanban_cards SET position = position + 1
			WHERE column_id = ? AND position >= ?`, columnID, card.Position); err != nil {
			return fmt.Errorf("shift cards: %w", err)
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO kanban_cards (column_id, title, description, priority, start_date, due_date, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			columnID, card.Title, card.Description, card.Priority, formatNullTime(card.StartDate), formatNullTime(card.DueDate), card.Position)
		if err != nil {
			return fmt.Errorf("create card: %w", err)
		}
		id, err := res.LastInsertId()
		card.ID = int(id)
		return err
	})
}

func (s *Store) UpdateCard(ctx context.Context, id int, p CardPatch) (*models.Card, error) {
	var updated *models.Card
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		c, err := getCard(ctx, tx, id)
		if err != nil {
			return err
		}
		if p.Title != nil {
			c.Title = strings.TrimSpace(*p.Title)
		}
		if p.Description != nil {
			c.Description = *p.Description
		}
		if p.Priority != nil {
			c.Priority = *p.Priority
		}
		if p.StartDate != nil {
			c.StartDate = p.StartDate
		}
		if p.DueDate != nil {
			c.DueDate = p.DueDate
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE kanban_cards SET title = ?, description = ?, priority = ?, start_date = ?, due_date = ?
			WHERE id = ?`,
			c.Title, c.Description, c.Priority, formatNullTime(c.StartDate), formatNullTime(c.DueDate), id); err != nil {
			return fmt.Errorf("update card %d: %w", id, err)
		}
		updated = c
		return nil
	})
	return updated, err
}

// MoveCard places a card at position in columnID. The gap left in the
// source column is closed and the cards at or below the target position
// shift down, all in one transaction. Position is clamped to the valid
// range. Columns must share a board.
func (s *Store) MoveCard(ctx context.Context, id, columnID, position int) (*models.Card, error) {
	var moved *models.Card
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		c, err := getCard(ctx, tx, id)
		if err != nil {
			return err
		}
		target, err := getColumn(ctx, tx, columnID)
		if err != nil {
			return err
		}

		if c.ColumnID == columnID {
			n, err := countCards(ctx, tx, columnID)
			if err != nil {
				return fmt.Errorf("count cards: %w", err)
			}
			to := clamp(position, 0, n-1)
			if err := reorder(ctx, tx, "kanban_cards", "column_id", "position", columnID, id, c.Position, to); err != nil {
				return err
			}
			c.Position = to
			moved = c
			return nil
		}

		source, err := getColumn(ctx, tx, c.ColumnID)
		if err != nil {
			return err
		}
		if source.BoardID != target.BoardID {
			return apperr.Invalid("cards can only move between columns of the same board")
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE kanban_cards SET position = position - 1
			WHERE column_id = ? AND position > ?`, c.ColumnID, c.Position); err != nil {
			return fmt.Errorf("close gap in column %d: %w", c.ColumnID, err)
		}
		n, err := countCards(ctx, tx, columnID)
		if err != nil {
			return fmt.Errorf("count cards: %w", err)
		}
		to := clamp(position, 0, n)
		if _, err := tx.ExecContext(ctx, `
			UPDATE kanban_cards SET position = position + 1
			WHERE column_id = ? AND position >= ?`, columnID, to); err != nil {
			return fmt.Errorf("open gap in column %d: %w", columnID, err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE kanban_cards SET column_id = ?, position = ? WHERE id = ?`, columnID, to, id); err != nil {
			return fmt.Errorf("move card %d: %w", id, err)
		}
		c.ColumnID, c.Position = columnID, to
		moved = c
		return nil
	})
	return moved, err
}

func (s *Store) DeleteCard(ctx context.Context, id int) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		c, err := getCard(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM kanban_cards WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete card %d: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE kanban_cards SET position = position - 1
			WHERE column_id = ? AND position > ?`, c.ColumnID, c.Position); err != nil {
			return fmt.Errorf("compact column %d: %w", c.ColumnID, err)
		}
		return nil
	})
}
