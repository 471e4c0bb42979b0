// Package kanban keeps a local copy of one board and applies card moves
// optimistically before the server confirms them.
package kanban

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gabsakura/Projeto-siteProfissional/internal/apperr"
	"github.com/gabsakura/Projeto-siteProfissional/internal/models"
)

// ErrMoveInFlight is returned by Move while an earlier move is unconfirmed.
var ErrMoveInFlight = errors.New("another card move is still being saved")

// Backend is the server side of the board. *client.Client implements it.
type Backend interface {
	Columns(ctx context.Context, boardID int) ([]models.Column, error)
	MoveCard(ctx context.Context, cardID, columnID, position int) (*models.Card, error)
}

type Workflow struct {
	backend Backend
	boardID int

	mu       sync.Mutex
	columns  []models.Column
	inFlight bool
	onChange func([]models.Column)
}

func NewWorkflow(backend Backend, boardID int) *Workflow {
	return &Workflow{backend: backend, boardID: boardID}
}

// OnChange registers fn to receive a snapshot after every local change.
// fn runs without the workflow lock held.
func (w *Workflow) OnChange(fn func([]models.Column)) {
	w.mu.Lock()
	w.onChange = fn
	w.mu.Unlock()
}

// Snapshot returns a deep copy of the local board.
func (w *Workflow) Snapshot() []models.Column {
	w.mu.Lock()
	defer w.mu.Unlock()
	return cloneColumns(w.columns)
}

// ResyncFromServer replaces the local board with the server's copy. The
// local state is left alone when the fetch fails.
func (w *Workflow) ResyncFromServer(ctx context.Context) error {
	cols, err := w.backend.Columns(ctx, w.boardID)
	if err != nil {
		return fmt.Errorf("resync board %d: %w", w.boardID, err)
	}
	cols = cloneColumns(cols)
	w.mu.Lock()
	w.columns = cols
	fn := w.onChange
	snap := cloneColumns(cols)
	w.mu.Unlock()

	if fn != nil {
		fn(snap)
	}
	return nil
}

// Move places cardID at targetPosition in targetColumnID. The local board
// changes first and observers see it at once. If the server rejects the
// move, the board is reloaded and the server error is returned.
func (w *Workflow) Move(ctx context.Context, cardID, targetColumnID, targetPosition int) error {
	w.mu.Lock()
	if w.inFlight {
		w.mu.Unlock()
		return ErrMoveInFlight
	}

	from, idx := w.findCard(cardID)
	if from < 0 {
		w.mu.Unlock()
		return apperr.NotFound("card")
	}
	to := w.findColumn(targetColumnID)
	if to < 0 {
		w.mu.Unlock()
		return apperr.NotFound("column")
	}

	limit := len(w.columns[to].Cards)
	if from == to {
		limit--
	}
	pos := max(0, min(targetPosition, limit))
	if from == to && pos == idx {
		w.mu.Unlock()
		return nil
	}

	card := w.columns[from].Cards[idx]
	src := w.columns[from].Cards
	w.columns[from].Cards = append(src[:idx:idx], src[idx+1:]...)
	card.ColumnID = targetColumnID
	dst := w.columns[to].Cards
	inserted := make([]models.Card, 0, len(dst)+1)
	inserted = append(inserted, dst[:pos]...)
	inserted = append(inserted, card)
	w.columns[to].Cards = append(inserted, dst[pos:]...)
	renumber(w.columns[from].Cards)
	renumber(w.columns[to].Cards)

	w.inFlight = true
	fn := w.onChange
	snap := cloneColumns(w.columns)
	w.mu.Unlock()

	if fn != nil {
		fn(snap)
	}

	_, err := w.backend.MoveCard(ctx, cardID, targetColumnID, pos)
	if err != nil {
		slog.Warn("Card move rejected, reloading board", "card_id", cardID, "board_id", w.boardID, "error", err)
		if rerr := w.ResyncFromServer(ctx); rerr != nil {
			err = errors.Join(err, rerr)
		}
	}

	w.mu.Lock()
	w.inFlight = false
	w.mu.Unlock()
	return err
}

func (w *Workflow) findCard(id int) (col, idx int) {
	for i, c := range w.columns {
		for j, card := range c.Cards {
			if card.ID == id {
				return i, j
			}
		}
	}
	return -1, -1
}

func (w *Workflow) findColumn(id int) int {
	for i, c := range w.columns {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func renumber(cards []models.Card) {
	for i := range cards {
		cards[i].Position = i
	}
}

func cloneColumns(cols []models.Column) []models.Column {
	if cols == nil {
		return nil
	}
	out := make([]models.Column, len(cols))
	for i, c := range cols {
		out[i] = c
		out[i].Cards = make([]models.Card, len(c.Cards))
		for j, card := range c.Cards {
			if card.StartDate != nil {
				t := *card.StartDate
				card.StartDate = &t
			}
			if card.DueDate != nil {
				t := *card.DueDate
				card.DueDate = &t
			}
			out[i].Cards[j] = card
		}
	}
	return out
}
