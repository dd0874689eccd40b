package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"libraryapi/internal/entity"
	"libraryapi/internal/httpx"
	"libraryapi/internal/library"
	"libraryapi/internal/platform/rtdb"
)

type LoanHandler struct {
	service *library.Service
}

func NewLoanHandler(service *library.Service) *LoanHandler {
	return &LoanHandler{service: service}
}

// loanView is a loan as a consumer sees it: the stored status replaced
// by the derived one, plus the overdue-day count.
type loanView struct {
	entity.Loan
	Status      string `json:"status"`
	OverdueDays int    `json:"overdue_days,omitempty"`
}

func viewOf(loan entity.Loan, now time.Time) loanView {
	return loanView{
		Loan:        loan,
		Status:      loan.DisplayStatus(now),
		OverdueDays: loan.OverdueDays(now),
	}
}

// statusMatches interprets the status query filter against the derived
// status. Filtering on "borrowed" keeps overdue loans: they are still
// out, which is what the pending list shows.
func statusMatches(filter, display string) bool {
	switch filter {
	case "":
		return true
	case entity.LoanStatusBorrowed:
		return display == entity.LoanStatusBorrowed || display == entity.LoanStatusOverdue
	default:
		return display == filter
	}
}

// List handles GET /loans
func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	statusFilter := query.Get("status")
	term := query.Get("q")
	now := time.Now()

	loans := library.SearchLoans(h.service.Loans(), term)
	views := make([]loanView, 0, len(loans))
	for _, loan := range loans {
		view := viewOf(loan, now)
		if !statusMatches(statusFilter, view.Status) {
			continue
		}
		views = append(views, view)
	}

	meta := map[string]any{"loading": h.service.Loading()}
	if err := h.service.Err(); err != nil {
		meta["load_error"] = "Could not load data. Check that the library data store is reachable."
	}
	httpx.JSONSuccess(w, views, meta)
}

type createLoanReq struct {
	Title              string `json:"title" validate:"required"`
	BorrowerName       string `json:"borrower_name" validate:"required"`
	BorrowerEmail      string `json:"borrower_email" validate:"required,email"`
	CoverURL           string `json:"cover_url"`
	Author             string `json:"author"`
	ISBN               string `json:"isbn" validate:"omitempty,isbn"`
	ExpectedReturnDate string `json:"expected_return_date" validate:"required,future_date"`
}

// Create handles POST /loans
func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createLoanReq
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

	loan, err := h.service.CreateLoan(r.Context(), library.LoanInput{
		Title:              req.Title,
		BorrowerName:       req.BorrowerName,
		BorrowerEmail:      req.BorrowerEmail,
		CoverURL:           req.CoverURL,
		Author:             req.Author,
		ISBN:               req.ISBN,
		ExpectedReturnDate: req.ExpectedReturnDate,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}

	httpx.JSONSuccessCreated(w, viewOf(loan, time.Now()))
}

// Return handles POST /loans/{id}/return
func (h *LoanHandler) Return(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Missing loan id", nil)
		return
	}

	if err := h.service.ReturnLoan(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}

	httpx.JSONSuccess(w, map[string]any{"id": id, "status": entity.LoanStatusReturned}, nil)
}

// Notify handles POST /loans/{id}/notify. An unknown id is accepted and
// ignored; the notification is a local side effect only.
func (h *LoanHandler) Notify(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Missing loan id", nil)
		return
	}

	h.service.NotifyOverdue(id)
	httpx.JSONSuccessAccepted(w, map[string]any{"id": id})
}

// Reload handles POST /reload
func (h *LoanHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.service.LoadAll(r.Context()); err != nil {
		writeStoreError(w, err)
		return
	}
	httpx.JSONSuccess(w, map[string]any{
		"loans":        len(h.service.Loans()),
		"reservations": len(h.service.Reservations()),
	}, nil)
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, rtdb.ErrUnavailable) {
		httpx.JSONError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE",
			"Check that the library data store is reachable", nil)
		return
	}
	httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
}
