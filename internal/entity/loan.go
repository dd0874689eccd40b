package entity

import "time"

// DateLayout is the calendar-date format used for every loan and
// reservation date field. Times of day are never stored.
const DateLayout = "2006-01-02"

// DefaultCoverURL is used when a loan or reservation is created without
// a cover image.
const DefaultCoverURL = "https://via.placeholder.com/150x200?text=No+Cover"

// Loan statuses persisted by the store. LoanStatusOverdue is never
// written: it is derived from the expected return date at read time.
const (
	LoanStatusBorrowed = "borrowed"
	LoanStatusReturned = "returned"
	LoanStatusOverdue  = "overdue"
)

// Loan represents a book lent to a user, tracked from borrow date to return.
type Loan struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	BorrowerName       string `json:"borrower_name"`
	BorrowerEmail      string `json:"borrower_email"`
	CoverURL           string `json:"cover_url"`
	Author             string `json:"author,omitempty"`
	ISBN               string `json:"isbn,omitempty"`
	LoanDate           string `json:"loan_date"`
	ExpectedReturnDate string `json:"expected_return_date"`
	ActualReturnDate   string `json:"actual_return_date"`
	Status             string `json:"status"`
}

// DisplayStatus returns the status a consumer should render: a borrowed
// loan whose expected return date has passed reads as overdue. The result
// is never written back to the store.
func (l Loan) DisplayStatus(now time.Time) string {
	if l.Status != LoanStatusBorrowed {
		return l.Status
	}
	expected, err := time.Parse(DateLayout, l.ExpectedReturnDate)
	if err != nil {
		return l.Status
	}
	if dateOf(now).After(expected) {
		return LoanStatusOverdue
	}
	return l.Status
}

// OverdueDays returns how many whole days the loan is past its expected
// return date, and 0 when it is not overdue at all.
func (l Loan) OverdueDays(now time.Time) int {
	expected, err := time.Parse(DateLayout, l.ExpectedReturnDate)
	if err != nil {
		return 0
	}
	days := int(dateOf(now).Sub(expected).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// dateOf truncates a timestamp to its calendar date, matching the
// granularity of the stored date strings.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
