package handlers

import (
	"net/http"
	"time"

	"github.com/gabsakura/Projeto-siteProfissional/internal/apperr"
	"github.com/gabsakura/Projeto-siteProfissional/internal/models"
	"github.com/gabsakura/Projeto-siteProfissional/internal/store"
	"github.com/gabsakura/Projeto-siteProfissional/internal/validation"
)

type KanbanHandler struct {
	Board KanbanStore
}

func (h *KanbanHandler) ListBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := h.Board.ListBoards(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.Board{"boards": boards})
}

type titleRequest struct {
	Title *string `json:"title"`
	// OrderIndex is only read for columns.
	OrderIndex *int `json:"order_index"`
}

func (h *KanbanHandler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	var req titleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validation.NewValidator().Required("title", deref(req.Title)).Err("invalid board"); err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.Board.CreateBoard(r.Context(), *req.Title)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *KanbanHandler) ListColumns(w http.ResponseWriter, r *http.Request) {
	boardID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	cols, err := h.Board.ListColumns(r.Context(), boardID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.Column{"columns": cols})
}

func (h *KanbanHandler) CreateColumn(w http.ResponseWriter, r *http.Request) {
	boardID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req titleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validation.NewValidator().Required("title", deref(req.Title)).Err("invalid column"); err != nil {
		writeError(w, r, err)
		return
	}
	col, err := h.Board.CreateColumn(r.Context(), boardID, *req.Title, req.OrderIndex)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, col)
}

func (h *KanbanHandler) UpdateColumn(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req titleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Title != nil {
		if err := validation.NewValidator().Required("title", *req.Title).Err("invalid column"); err != nil {
			writeError(w, r, err)
			return
		}
	}
	col, err := h.Board.UpdateColumn(r.Context(), id, store.ColumnPatch{Title: req.Title, OrderIndex: req.OrderIndex})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, col)
}

func (h *KanbanHandler) DeleteColumn(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Board.DeleteColumn(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "column deleted")
}

type cardRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	StartDate   *string `json:"start_date"`
	DueDate     *string `json:"due_date"`
	Position    *int    `json:"position"`
}

// dates parses the optional start and due dates. Empty strings count as
// absent.
func (req cardRequest) dates() (start, due *time.Time, err error) {
	var details []string
	parse := func(field string, raw *string) *time.Time {
		if raw == nil || *raw == "" {
			return nil
		}
		t, perr := parseBound(*raw, false)
		if perr != nil {
			details = append(details, field+": must be YYYY-MM-DD or RFC 3339")
		}
		return t
	}
	start = parse("start_date", req.StartDate)
	due = parse("due_date", req.DueDate)
	if len(details) > 0 {
		return nil, nil, apperr.Invalid("invalid card", details...)
	}
	return start, due, nil
}

func (h *KanbanHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	columnID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req cardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validation.ValidateCard(validation.CardInput{Title: req.Title, Priority: req.Priority}, true).Err("invalid card"); err != nil {
		writeError(w, r, err)
		return
	}
	start, due, err := req.dates()
	if err != nil {
		writeError(w, r, err)
		return
	}

	card := &models.Card{Title: *req.Title, Description: deref(req.Description), Priority: deref(req.Priority), StartDate: start, DueDate: due}
	if err := h.Board.CreateCard(r.Context(), columnID, card, req.Position); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

func (h *KanbanHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req cardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validation.ValidateCard(validation.CardInput{Title: req.Title, Priority: req.Priority}, false).Err("invalid card"); err != nil {
		writeError(w, r, err)
		return
	}
	start, due, err := req.dates()
	if err != nil {
		writeError(w, r, err)
		return
	}

	card, err := h.Board.UpdateCard(r.Context(), id, store.CardPatch{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		StartDate:   start,
		DueDate:     due,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

type moveRequest struct {
	ColumnID *int `json:"columnId"`
	Position *int `json:"position"`
}

func (h *KanbanHandler) MoveCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req moveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	var details []string
	if req.ColumnID == nil {
		details = append(details, "columnId: is required")
	}
	if req.Position == nil {
		details = append(details, "position: is required")
	} else if *req.Position < 0 {
		details = append(details, "position: must not be negative")
	}
	if len(details) > 0 {
		writeError(w, r, apperr.Invalid("invalid move", details...))
		return
	}

	card, err := h.Board.MoveCard(r.Context(), id, *req.ColumnID, *req.Position)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (h *KanbanHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Board.DeleteCard(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "card deleted")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
