package library

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"libraryapi/internal/entity"
)

var filterLoans = []entity.Loan{
	{ID: "1", Title: "Dune", Author: "Frank Herbert", BorrowerName: "Ana Souza", BorrowerEmail: "ana@x.com"},
	{ID: "2", Title: "Emma", BorrowerName: "Bruno Lima", BorrowerEmail: "bruno@y.com"},
	{ID: "3", Title: "Neuromancer", Author: "William Gibson", BorrowerName: "Carla", BorrowerEmail: "carla@z.com"},
}

func idsOf(loans []entity.Loan) []string {
	ids := make([]string, 0, len(loans))
	for _, l := range loans {
		ids = append(ids, l.ID)
	}
	return ids
}

func TestFilterLoansByUser(t *testing.T) {
	tests := []struct {
		name string
		term string
		want []string
	}{
		{"empty term returns input unchanged", "", []string{"1", "2", "3"}},
		{"whitespace-only term returns input unchanged", "   ", []string{"1", "2", "3"}},
		{"matches name case-insensitively", "ANA", []string{"1"}},
		{"matches email substring", "@y.com", []string{"2"}},
		{"title does not match in the user filter", "Dune", nil},
		{"no match", "zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterLoansByUser(filterLoans, tt.term)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, idsOf(got))
		})
	}
}

func TestFilterLoansByUser_EmptyInput(t *testing.T) {
	assert.Empty(t, FilterLoansByUser(nil, "anything"))
	assert.Empty(t, FilterLoansByUser([]entity.Loan{}, "anything"))
}

func TestSearchLoans(t *testing.T) {
	tests := []struct {
		name string
		term string
		want []string
	}{
		{"matches title", "dune", []string{"1"}},
		{"matches author", "gibson", []string{"3"}},
		{"matches borrower name", "bruno", []string{"2"}},
		{"absent author is skipped without matching", "emma", []string{"2"}},
		{"empty term returns input unchanged", "", []string{"1", "2", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, idsOf(SearchLoans(filterLoans, tt.term)))
		})
	}
}

func TestSearchReservations(t *testing.T) {
	reservations := []entity.Reservation{
		{ID: "r1", Title: "Dune", Author: "Frank Herbert", BorrowerName: "Ana", BorrowerEmail: "ana@x.com"},
		{ID: "r2", Title: "Emma", BorrowerName: "Bruno", BorrowerEmail: "bruno@y.com"},
	}

	got := SearchReservations(reservations, "herbert")
	assert.Len(t, got, 1)
	assert.Equal(t, "r1", got[0].ID)

	assert.Len(t, FilterReservationsByUser(reservations, "bruno"), 1)
	assert.Len(t, SearchReservations(reservations, ""), 2)
}
