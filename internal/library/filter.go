package library

import (
	"strings"

	"libraryapi/internal/entity"
)

// Filter functions for the list views. An empty or whitespace-only term
// always returns the input unchanged.

// FilterLoansByUser matches the term against borrower name and email.
func FilterLoansByUser(loans []entity.Loan, term string) []entity.Loan {
	if strings.TrimSpace(term) == "" {
		return loans
	}
	filtered := make([]entity.Loan, 0)
	for _, loan := range loans {
		if matchesAny(term, loan.BorrowerName, loan.BorrowerEmail) {
			filtered = append(filtered, loan)
		}
	}
	return filtered
}

// FilterReservationsByUser matches the term against borrower name and
// email.
func FilterReservationsByUser(reservations []entity.Reservation, term string) []entity.Reservation {
	if strings.TrimSpace(term) == "" {
		return reservations
	}
	filtered := make([]entity.Reservation, 0)
	for _, res := range reservations {
		if matchesAny(term, res.BorrowerName, res.BorrowerEmail) {
			filtered = append(filtered, res)
		}
	}
	return filtered
}

// SearchLoans matches the term against borrower name, email, title and,
// when present, author.
func SearchLoans(loans []entity.Loan, term string) []entity.Loan {
	if strings.TrimSpace(term) == "" {
		return loans
	}
	filtered := make([]entity.Loan, 0)
	for _, loan := range loans {
		if matchesAny(term, loan.BorrowerName, loan.BorrowerEmail, loan.Title) ||
			(loan.Author != "" && matchesAny(term, loan.Author)) {
			filtered = append(filtered, loan)
		}
	}
	return filtered
}

// SearchReservations mirrors SearchLoans for reservations.
func SearchReservations(reservations []entity.Reservation, term string) []entity.Reservation {
	if strings.TrimSpace(term) == "" {
		return reservations
	}
	filtered := make([]entity.Reservation, 0)
	for _, res := range reservations {
		if matchesAny(term, res.BorrowerName, res.BorrowerEmail, res.Title) ||
			(res.Author != "" && matchesAny(term, res.Author)) {
			filtered = append(filtered, res)
		}
	}
	return filtered
}

func matchesAny(term string, fields ...string) bool {
	term = strings.ToLower(term)
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
