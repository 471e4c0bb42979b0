package handlers

import (
	"net/http"
	"time"

	"github.com/gabsakura/Projeto-siteProfissional/internal/apperr"
	"github.com/gabsakura/Projeto-siteProfissional/internal/models"
	"github.com/gabsakura/Projeto-siteProfissional/internal/store"
	"github.com/gabsakura/Projeto-siteProfissional/internal/validation"
)

const dateLayout = "2006-01-02"

type FinancialHandler struct {
	Records FinancialStore
}

// parseBound reads a date (YYYY-MM-DD) or an RFC 3339 timestamp. A bare
// end date covers that whole day.
func parseBound(raw string, end bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, err
	}
	if end {
		t = t.Add(24*time.Hour - time.Second)
	}
	return &t, nil
}

func filterFromQuery(r *http.Request) (store.FinancialFilter, error) {
	q := r.URL.Query()
	var f store.FinancialFilter
	var details []string
	var err error
	if f.Start, err = parseBound(q.Get("startDate"), false); err != nil {
		details = append(details, "startDate: must be YYYY-MM-DD or RFC 3339")
	}
	if f.End, err = parseBound(q.Get("endDate"), true); err != nil {
		details = append(details, "endDate: must be YYYY-MM-DD or RFC 3339")
	}
	if len(details) == 0 && f.Start != nil && f.End != nil && f.End.Before(*f.Start) {
		details = append(details, "endDate: must not be before startDate")
	}
	if len(details) > 0 {
		return f, apperr.Invalid("invalid date range", details...)
	}
	return f, nil
}

func (h *FinancialHandler) List(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	records, err := h.Records.ListFinancial(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.FinancialRecord{"data": records})
}

func (h *FinancialHandler) Summary(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sum, err := h.Records.FinancialSummary(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h *FinancialHandler) Create(w http.ResponseWriter, r *http.Request) {
	var rec models.FinancialRecord
	if err := decodeJSON(w, r, &rec); err != nil {
		writeError(w, r, err)
		return
	}
	v := validation.NewValidator().
		NonNegativeInt("total_customers", rec.TotalCustomers).
		NonNegativeInt("new_customers", rec.NewCustomers).
		NonNegative("sales", rec.Sales).
		NonNegative("expenses", rec.Expenses)
	if err := v.Err("invalid financial record"); err != nil {
		writeError(w, r, err)
		return
	}
	rec.ID = 0
	if err := h.Records.CreateFinancialRecord(r.Context(), &rec); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}
