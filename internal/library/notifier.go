package library

import (
	"log"

	"libraryapi/internal/entity"
)

// LogNotifier writes overdue alerts to the process log. Wiring a real
// delivery channel (email, SMS) means swapping this implementation.
type LogNotifier struct{}

func (LogNotifier) NotifyOverdue(loan entity.Loan) {
	log.Printf("overdue notification sent to %s (%s) about %q",
		loan.BorrowerName, loan.BorrowerEmail, loan.Title)
}
