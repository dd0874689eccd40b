// Package library owns the in-memory loan and reservation collections
// and the lifecycle operations over them. All persistence goes through
// the store gateways; the collections only change by wholesale
// replacement (LoadAll) or by a single-record append/patch.
package library

import (
	"context"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"libraryapi/internal/entity"
)

// Service is the single source of truth the presentation layer reads
// from. Snapshots returned by the accessors are copies; mutating them
// does not affect the service.
type Service struct {
	loanStore        LoanStore
	reservationStore ReservationStore
	notifier         Notifier
	now              func() time.Time

	mu           sync.RWMutex
	loans        []entity.Loan
	reservations []entity.Reservation
	loading      bool
	lastErr      error
}

func NewService(loans LoanStore, reservations ReservationStore, notifier Notifier) *Service {
	return &Service{
		loanStore:        loans,
		reservationStore: reservations,
		notifier:         notifier,
		now:              time.Now,
	}
}

// LoadAll fetches both collections concurrently and replaces them
// together, so consumers never observe one refreshed and the other
// stale. On any failure the previous state is retained in full and the
// error sticks until the next successful reload. Safe to call
// repeatedly.
func (s *Service) LoadAll(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	var (
		loans        []entity.Loan
		reservations []entity.Reservation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		loans, err = s.loanStore.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		reservations, err = s.reservationStore.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.loans = loans
	s.reservations = reservations
	s.lastErr = nil
	s.mu.Unlock()
	return nil
}

// LoanInput carries the caller-supplied loan fields. Validation happens
// at the edge; the service only stamps the lifecycle fields.
type LoanInput struct {
	Title              string
	BorrowerName       string
	BorrowerEmail      string
	CoverURL           string
	Author             string
	ISBN               string
	ExpectedReturnDate string
}

// CreateLoan stamps the loan date and borrowed status, persists the
// record, and appends the stored result. State is untouched on failure.
func (s *Service) CreateLoan(ctx context.Context, in LoanInput) (entity.Loan, error) {
	coverURL := in.CoverURL
	if coverURL == "" {
		coverURL = entity.DefaultCoverURL
	}

	loan := entity.Loan{
		Title:              in.Title,
		BorrowerName:       in.BorrowerName,
		BorrowerEmail:      in.BorrowerEmail,
		CoverURL:           coverURL,
		Author:             in.Author,
		ISBN:               in.ISBN,
		LoanDate:           s.today(),
		ExpectedReturnDate: in.ExpectedReturnDate,
		ActualReturnDate:   "",
		Status:             entity.LoanStatusBorrowed,
	}

	created, err := s.loanStore.Create(ctx, loan)
	if err != nil {
		return entity.Loan{}, err
	}

	s.mu.Lock()
	s.loans = append(s.loans, created)
	s.mu.Unlock()
	return created, nil
}

// ReturnLoan marks a loan returned as of today. The update is sent to
// the store without checking local existence first; for an unknown id
// the in-memory replace is simply a no-op.
func (s *Service) ReturnLoan(ctx context.Context, id string) error {
	status := entity.LoanStatusReturned
	returnedOn := s.today()

	err := s.loanStore.Update(ctx, id, LoanPatch{
		Status:           &status,
		ActualReturnDate: &returnedOn,
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	for i := range s.loans {
		if s.loans[i].ID == id {
			s.loans[i].Status = status
			s.loans[i].ActualReturnDate = returnedOn
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// ReservationInput carries the caller-supplied reservation fields.
type ReservationInput struct {
	Title         string
	CoverURL      string
	BorrowerName  string
	BorrowerEmail string
	Author        string
	ISBN          string
}

// CreateReservation stamps the reservation date and pending status,
// persists the record, and appends the stored result.
func (s *Service) CreateReservation(ctx context.Context, in ReservationInput) (entity.Reservation, error) {
	coverURL := in.CoverURL
	if coverURL == "" {
		coverURL = entity.DefaultCoverURL
	}

	reservation := entity.Reservation{
		Title:           in.Title,
		CoverURL:        coverURL,
		BorrowerName:    in.BorrowerName,
		BorrowerEmail:   in.BorrowerEmail,
		Author:          in.Author,
		ISBN:            in.ISBN,
		ReservationDate: s.today(),
		Status:          entity.ReservationStatusPending,
	}

	created, err := s.reservationStore.Create(ctx, reservation)
	if err != nil {
		return entity.Reservation{}, err
	}

	s.mu.Lock()
	s.reservations = append(s.reservations, created)
	s.mu.Unlock()
	return created, nil
}

// CancelReservation marks a reservation cancelled. Like ReturnLoan it
// does not pre-check local existence, so repeating the call re-sends the
// same update and changes nothing locally.
func (s *Service) CancelReservation(ctx context.Context, id string) error {
	status := entity.ReservationStatusCancelled

	if err := s.reservationStore.Update(ctx, id, ReservationPatch{Status: &status}); err != nil {
		return err
	}

	s.mu.Lock()
	for i := range s.reservations {
		if s.reservations[i].ID == id {
			s.reservations[i].Status = status
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// NotifyOverdue triggers an overdue alert for the loan with the given
// id. The lookup is local only; an unknown id is a silent no-op.
func (s *Service) NotifyOverdue(id string) {
	s.mu.RLock()
	var loan entity.Loan
	var found bool
	for i := range s.loans {
		if s.loans[i].ID == id {
			loan = s.loans[i]
			found = true
			break
		}
	}
	s.mu.RUnlock()

	if !found {
		return
	}
	s.notifier.NotifyOverdue(loan)
}

// Loans returns a copy of the current loan collection.
func (s *Service) Loans() []entity.Loan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.loans)
}

// Reservations returns a copy of the current reservation collection.
func (s *Service) Reservations() []entity.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.reservations)
}

// Loading reports whether a LoadAll is in flight.
func (s *Service) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the sticky error from the last failed LoadAll, or nil
// after a successful one.
func (s *Service) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Service) today() string {
	return s.now().Format(entity.DateLayout)
}
