package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gabsakura/Projeto-siteProfissional/internal/apperr"
	"github.com/gabsakura/Projeto-siteProfissional/internal/models"
	"github.com/gabsakura/Projeto-siteProfissional/internal/store"
	"github.com/gabsakura/Projeto-siteProfissional/internal/validation"
)

type InventoryHandler struct {
	Items InventoryStore
}

// inventoryRequest accepts numbers or numeric strings, as HTML forms send.
type inventoryRequest struct {
	Item      *string      `json:"item"`
	Quantity  *json.Number `json:"quantity"`
	Descricao *string      `json:"descricao"`
	Preco     *json.Number `json:"preco"`
}

func (req inventoryRequest) parse(creating bool) (validation.InventoryInput, error) {
	in := validation.InventoryInput{Item: req.Item}
	var details []string
	if req.Quantity != nil {
		q, err := strconv.Atoi(req.Quantity.String())
		if err != nil {
			details = append(details, "quantity: must be an integer")
		} else {
			in.Quantity = &q
		}
	}
	if req.Preco != nil {
		p, err := req.Preco.Float64()
		if err != nil {
			details = append(details, "preco: must be a number")
		} else {
			in.Preco = &p
		}
	}
	if len(details) > 0 {
		return in, apperr.Invalid("invalid inventory item", details...)
	}
	return in, validation.ValidateInventory(in, creating).Err("invalid inventory item")
}

func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Items.ListInventory(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.InventoryItem{"data": items})
}

func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.Items.GetInventoryItem(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req inventoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := req.parse(true)
	if err != nil {
		writeError(w, r, err)
		return
	}

	item := &models.InventoryItem{Item: *in.Item, Quantity: *in.Quantity}
	if in.Preco != nil {
		item.Preco = *in.Preco
	}
	if req.Descricao != nil {
		item.Descricao = *req.Descricao
	}
	if err := h.Items.CreateInventoryItem(r.Context(), item); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req inventoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := req.parse(false)
	if err != nil {
		writeError(w, r, err)
		return
	}

	item, err := h.Items.UpdateInventoryItem(r.Context(), id, store.InventoryPatch{
		Item:      in.Item,
		Quantity:  in.Quantity,
		Descricao: req.Descricao,
		Preco:     in.Preco,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Items.DeleteInventoryItem(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "item deleted")
}
