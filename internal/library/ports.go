package library

import (
	"context"

	"libraryapi/internal/entity"
)

// LoanStore is the gateway contract for loan persistence. Create returns
// the stored record with its store-assigned id; Update applies a shallow
// partial merge of the supplied fields only.
type LoanStore interface {
	List(ctx context.Context) ([]entity.Loan, error)
	Create(ctx context.Context, loan entity.Loan) (entity.Loan, error)
	Update(ctx context.Context, id string, patch LoanPatch) error
	Delete(ctx context.Context, id string) error
}

// ReservationStore mirrors LoanStore for reservations.
type ReservationStore interface {
	List(ctx context.Context) ([]entity.Reservation, error)
	Create(ctx context.Context, reservation entity.Reservation) (entity.Reservation, error)
	Update(ctx context.Context, id string, patch ReservationPatch) error
	Delete(ctx context.Context, id string) error
}

// LoanPatch is a partial loan update; nil fields are left untouched.
type LoanPatch struct {
	Status           *string
	ActualReturnDate *string
}

// ReservationPatch is a partial reservation update; nil fields are left
// untouched.
type ReservationPatch struct {
	Status *string
}

// Notifier delivers a user-visible overdue alert. The dispatch target
// (email, SMS, log) is the implementation's concern.
type Notifier interface {
	NotifyOverdue(loan entity.Loan)
}
