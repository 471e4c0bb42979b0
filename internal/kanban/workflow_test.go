package kanban_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/gabsakura/Projeto-siteProfissional/internal/apperr"
	"github.com/gabsakura/Projeto-siteProfissional/internal/kanban"
	"github.com/gabsakura/Projeto-siteProfissional/internal/models"
)

type move struct{ Card, Column, Position int }

type fakeBackend struct {
	mu       sync.Mutex
	columns  []models.Column
	moves    []move
	moveErr  error
	fetchErr error
	fetches  int
	// block, when set, holds MoveCard until it is closed.
	block   chan struct{}
	started chan struct{}
}

func (f *fakeBackend) Columns(ctx context.Context, boardID int) ([]models.Column, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.columns, nil
}

func (f *fakeBackend) MoveCard(ctx context.Context, cardID, columnID, position int) (*models.Card, error) {
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.moves = append(f.moves, move{cardID, columnID, position})
	if f.moveErr != nil {
		return nil, f.moveErr
	}
	return &models.Card{ID: cardID, ColumnID: columnID, Position: position}, nil
}

// board is A Fazer [1 2 3], Em Progresso [4], Concluído [].
func board() []models.Column {
	return []models.Column{
		{ID: 10, BoardID: 1, Title: "A Fazer", OrderIndex: 0, Cards: []models.Card{
			{ID: 1, ColumnID: 10, Title: "Orçamento", Position: 0},
			{ID: 2, ColumnID: 10, Title: "Contrato", Position: 1},
			{ID: 3, ColumnID: 10, Title: "Fatura", Position: 2},
		}},
		{ID: 11, BoardID: 1, Title: "Em Progresso", OrderIndex: 1, Cards: []models.Card{
			{ID: 4, ColumnID: 11, Title: "Estoque", Position: 0},
		}},
		{ID: 12, BoardID: 1, Title: "Concluído", OrderIndex: 2, Cards: []models.Card{}},
	}
}

// layout returns card IDs per column and checks positions are dense.
func layout(c *qt.C, cols []models.Column) [][]int {
	out := make([][]int, len(cols))
	for i, col := range cols {
		out[i] = []int{}
		for j, card := range col.Cards {
			c.Assert(card.Position, qt.Equals, j, qt.Commentf("card %d", card.ID))
			c.Assert(card.ColumnID, qt.Equals, col.ID, qt.Commentf("card %d", card.ID))
			out[i] = append(out[i], card.ID)
		}
	}
	return out
}

func newWorkflow(c *qt.C, f *fakeBackend) *kanban.Workflow {
	w := kanban.NewWorkflow(f, 1)
	c.Assert(w.ResyncFromServer(context.Background()), qt.IsNil)
	return w
}

func TestMoveIsOptimistic(t *testing.T) {
	c := qt.New(t)
	f := &fakeBackend{columns: board()}
	w := newWorkflow(c, f)

	var seen [][][]int
	w.OnChange(func(cols []models.Column) { seen = append(seen, layout(c, cols)) })

	c.Assert(w.Move(context.Background(), 1, 11, 1), qt.IsNil)
	want := [][]int{{2, 3}, {4, 1}, {}}
	c.Assert(layout(c, w.Snapshot()), qt.DeepEquals, want)
	c.Assert(seen, qt.DeepEquals, [][][]int{want})
	c.Assert(f.moves, qt.DeepEquals, []move{{1, 11, 1}})
}

func TestMoveWithinColumn(t *testing.T) {
	c := qt.New(t)
	f := &fakeBackend{columns: board()}
	w := newWorkflow(c, f)
	ctx := context.Background()

	c.Assert(w.Move(ctx, 3, 10, 0), qt.IsNil)
	c.Assert(layout(c, w.Snapshot())[0], qt.DeepEquals, []int{3, 1, 2})

	c.Run("position is clamped", func(c *qt.C) {
		c.Assert(w.Move(ctx, 3, 10, 99), qt.IsNil)
		c.Assert(layout(c, w.Snapshot())[0], qt.DeepEquals, []int{1, 2, 3})
		c.Assert(f.moves[len(f.moves)-1], qt.Equals, move{3, 10, 2})

		c.Assert(w.Move(ctx, 4, 12, -5), qt.IsNil)
		c.Assert(f.moves[len(f.moves)-1], qt.Equals, move{4, 12, 0})
	})

	c.Run("same place is a no-op", func(c *qt.C) {
		n := len(f.moves)
		called := false
		w.OnChange(func([]models.Column) { called = true })
		c.Assert(w.Move(ctx, 2, 10, 1), qt.IsNil)
		c.Assert(f.moves, qt.HasLen, n)
		c.Assert(called, qt.IsFalse)
	})
}

func TestMoveUnknownTargets(t *testing.T) {
	c := qt.New(t)
	f := &fakeBackend{columns: board()}
	w := newWorkflow(c, f)

	err := w.Move(context.Background(), 99, 10, 0)
	c.Assert(errors.Is(err, apperr.ErrNotFound), qt.IsTrue)
	err = w.Move(context.Background(), 1, 99, 0)
	c.Assert(errors.Is(err, apperr.ErrNotFound), qt.IsTrue)
	c.Assert(f.moves, qt.HasLen, 0)
	c.Assert(layout(c, w.Snapshot()), qt.DeepEquals, [][]int{{1, 2, 3}, {4}, {}})
}

func TestRejectedMoveResyncs(t *testing.T) {
	c := qt.New(t)
	f := &fakeBackend{columns: board(), moveErr: apperr.Invalid("cannot move card to another board")}
	w := newWorkflow(c, f)

	var seen [][][]int
	w.OnChange(func(cols []models.Column) { seen = append(seen, layout(c, cols)) })

	err := w.Move(context.Background(), 1, 12, 0)
	c.Assert(errors.Is(err, apperr.ErrInvalidInput), qt.IsTrue)
	c.Assert(f.fetches, qt.Equals, 2)
	original := [][]int{{1, 2, 3}, {4}, {}}
	c.Assert(layout(c, w.Snapshot()), qt.DeepEquals, original)
	c.Assert(seen, qt.DeepEquals, [][][]int{{{2, 3}, {4}, {1}}, original})
}

func TestFailedResyncIsJoined(t *testing.T) {
	c := qt.New(t)
	f := &fakeBackend{columns: board(), moveErr: errors.New("connection reset")}
	w := newWorkflow(c, f)
	f.fetchErr = apperr.NotFound("board")

	err := w.Move(context.Background(), 1, 12, 0)
	c.Assert(err, qt.ErrorMatches, "connection reset\nresync board 1: board not found")
	c.Assert(errors.Is(err, apperr.ErrNotFound), qt.IsTrue)
	// The optimistic layout stays until a resync succeeds.
	c.Assert(layout(c, w.Snapshot()), qt.DeepEquals, [][]int{{2, 3}, {4}, {1}})
}

func TestOneMoveInFlight(t *testing.T) {
	c := qt.New(t)
	f := &fakeBackend{columns: board(), block: make(chan struct{}), started: make(chan struct{})}
	w := newWorkflow(c, f)

	done := make(chan error, 1)
	go func() { done <- w.Move(context.Background(), 1, 11, 0) }()
	<-f.started

	c.Assert(w.Move(context.Background(), 2, 11, 0), qt.Equals, kanban.ErrMoveInFlight)
	close(f.block)
	c.Assert(<-done, qt.IsNil)

	f.started = nil
	f.block = nil
	c.Assert(w.Move(context.Background(), 2, 11, 0), qt.IsNil)
	c.Assert(layout(c, w.Snapshot())[1], qt.DeepEquals, []int{2, 1, 4})
}

func TestSnapshotIsACopy(t *testing.T) {
	c := qt.New(t)
	f := &fakeBackend{columns: board()}
	w := newWorkflow(c, f)

	snap := w.Snapshot()
	snap[0].Cards[0].Title = "mudado"
	snap[0].Cards = nil
	c.Assert(w.Snapshot()[0].Cards[0].Title, qt.Equals, "Orçamento")

	// Local moves never touch the backend's slices either.
	c.Assert(w.Move(context.Background(), 1, 12, 0), qt.IsNil)
	c.Assert(f.columns[0].Cards[0].ID, qt.Equals, 1)
}
