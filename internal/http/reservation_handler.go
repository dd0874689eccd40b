package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"libraryapi/internal/entity"
	"libraryapi/internal/httpx"
	"libraryapi/internal/library"
)

type ReservationHandler struct {
	service *library.Service
}

func NewReservationHandler(service *library.Service) *ReservationHandler {
	return &ReservationHandler{service: service}
}

// List handles GET /reservations
func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	statusFilter := query.Get("status")
	term := query.Get("q")

	reservations := library.SearchReservations(h.service.Reservations(), term)
	out := make([]entity.Reservation, 0, len(reservations))
	for _, res := range reservations {
		if statusFilter != "" && res.Status != statusFilter {
			continue
		}
		out = append(out, res)
	}

	meta := map[string]any{"loading": h.service.Loading()}
	if err := h.service.Err(); err != nil {
		meta["load_error"] = "Could not load data. Check that the library data store is reachable."
	}
	httpx.JSONSuccess(w, out, meta)
}

type createReservationReq struct {
	Title         string `json:"title" validate:"required"`
	BorrowerName  string `json:"borrower_name" validate:"required"`
	BorrowerEmail string `json:"borrower_email" validate:"required,email"`
	CoverURL      string `json:"cover_url"`
	Author        string `json:"author"`
	ISBN          string `json:"isbn" validate:"omitempty,isbn"`
}

// Create handles POST /reservations
func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReservationReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.BorrowerName = strings.TrimSpace(req.BorrowerName)
	req.BorrowerEmail = strings.TrimSpace(req.BorrowerEmail)

	if details := ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	reservation, err := h.service.CreateReservation(r.Context(), library.ReservationInput{
		Title:         req.Title,
		CoverURL:      req.CoverURL,
		BorrowerName:  req.BorrowerName,
		BorrowerEmail: req.BorrowerEmail,
		Author:        req.Author,
		ISBN:          req.ISBN,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}

	httpx.JSONSuccessCreated(w, reservation)
}

// Cancel handles POST /reservations/{id}/cancel
func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Missing reservation id", nil)
		return
	}

	if err := h.service.CancelReservation(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}

	httpx.JSONSuccess(w, map[string]any{"id": id, "status": entity.ReservationStatusCancelled}, nil)
}
