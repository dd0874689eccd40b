package library

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryapi/internal/entity"
)

var testNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

const today = "2026-03-15"

type fakeLoanStore struct {
	stored    []entity.Loan
	listErr   error
	createErr error
	updateErr error
	updates   []string // ids Update was called with
	nextKey   int
}

func (f *fakeLoanStore) List(ctx context.Context) ([]entity.Loan, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.stored, nil
}

func (f *fakeLoanStore) Create(ctx context.Context, loan entity.Loan) (entity.Loan, error) {
	if f.createErr != nil {
		return entity.Loan{}, f.createErr
	}
	f.nextKey++
	loan.ID = "loan-" + strconv.Itoa(f.nextKey)
	return loan, nil
}

func (f *fakeLoanStore) Update(ctx context.Context, id string, patch LoanPatch) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, id)
	return nil
}

func (f *fakeLoanStore) Delete(ctx context.Context, id string) error { return nil }

type fakeReservationStore struct {
	stored    []entity.Reservation
	listErr   error
	createErr error
	updateErr error
	updates   []string
	nextKey   int
}

func (f *fakeReservationStore) List(ctx context.Context) ([]entity.Reservation, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.stored, nil
}

func (f *fakeReservationStore) Create(ctx context.Context, res entity.Reservation) (entity.Reservation, error) {
	if f.createErr != nil {
		return entity.Reservation{}, f.createErr
	}
	f.nextKey++
	res.ID = "res-" + strconv.Itoa(f.nextKey)
	return res, nil
}

func (f *fakeReservationStore) Update(ctx context.Context, id string, patch ReservationPatch) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, id)
	return nil
}

func (f *fakeReservationStore) Delete(ctx context.Context, id string) error { return nil }

type captureNotifier struct {
	notified []entity.Loan
}

func (n *captureNotifier) NotifyOverdue(loan entity.Loan) {
	n.notified = append(n.notified, loan)
}

func newTestService(loans *fakeLoanStore, reservations *fakeReservationStore) (*Service, *captureNotifier) {
	notifier := &captureNotifier{}
	svc := NewService(loans, reservations, notifier)
	svc.now = func() time.Time { return testNow }
	return svc, notifier
}

func TestService_CreateLoan_StampsLifecycleFields(t *testing.T) {
	svc, _ := newTestService(&fakeLoanStore{}, &fakeReservationStore{})

	loan, err := svc.CreateLoan(context.Background(), LoanInput{
		Title:              "Dune",
		BorrowerName:       "Ana",
		BorrowerEmail:      "ana@x.com",
		ExpectedReturnDate: "2026-03-16",
	})
	require.NoError(t, err)

	assert.Equal(t, "loan-1", loan.ID)
	assert.Equal(t, entity.LoanStatusBorrowed, loan.Status)
	assert.Equal(t, today, loan.LoanDate)
	assert.Empty(t, loan.ActualReturnDate)
	assert.Equal(t, entity.DefaultCoverURL, loan.CoverURL)

	loans := svc.Loans()
	require.Len(t, loans, 1)
	assert.Equal(t, loan, loans[0])
}

func TestService_CreateLoan_KeepsSuppliedCover(t *testing.T) {
	svc, _ := newTestService(&fakeLoanStore{}, &fakeReservationStore{})

	loan, err := svc.CreateLoan(context.Background(), LoanInput{
		Title:              "Dune",
		BorrowerName:       "Ana",
		BorrowerEmail:      "ana@x.com",
		CoverURL:           "http://covers.example/dune.jpg",
		ExpectedReturnDate: "2026-03-16",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://covers.example/dune.jpg", loan.CoverURL)
}

func TestService_CreateLoan_FailureLeavesStateUntouched(t *testing.T) {
	svc, _ := newTestService(&fakeLoanStore{createErr: errors.New("boom")}, &fakeReservationStore{})

	_, err := svc.CreateLoan(context.Background(), LoanInput{Title: "Dune"})
	assert.Error(t, err)
	assert.Empty(t, svc.Loans())
}

func TestService_ReturnLoan_Lifecycle(t *testing.T) {
	loanStore := &fakeLoanStore{}
	svc, _ := newTestService(loanStore, &fakeReservationStore{})

	loan, err := svc.CreateLoan(context.Background(), LoanInput{
		Title:              "Dune",
		BorrowerName:       "Ana",
		BorrowerEmail:      "ana@x.com",
		ExpectedReturnDate: "2026-03-16",
	})
	require.NoError(t, err)

	require.NoError(t, svc.ReturnLoan(context.Background(), loan.ID))

	loans := svc.Loans()
	require.Len(t, loans, 1)
	assert.Equal(t, entity.LoanStatusReturned, loans[0].Status)
	assert.Equal(t, today, loans[0].ActualReturnDate)
	assert.Equal(t, today, loans[0].LoanDate)

	// A second return re-sends the update and changes nothing locally.
	require.NoError(t, svc.ReturnLoan(context.Background(), loan.ID))
	assert.Equal(t, []string{loan.ID, loan.ID}, loanStore.updates)

	loans = svc.Loans()
	assert.Equal(t, entity.LoanStatusReturned, loans[0].Status)
	assert.Equal(t, today, loans[0].LoanDate)
}

func TestService_ReturnLoan_UnknownIDStillSent(t *testing.T) {
	loanStore := &fakeLoanStore{}
	svc, _ := newTestService(loanStore, &fakeReservationStore{})

	require.NoError(t, svc.ReturnLoan(context.Background(), "no-such-loan"))
	assert.Equal(t, []string{"no-such-loan"}, loanStore.updates)
	assert.Empty(t, svc.Loans())
}

func TestService_ReturnLoan_GatewayFailureLeavesStateUntouched(t *testing.T) {
	loanStore := &fakeLoanStore{}
	svc, _ := newTestService(loanStore, &fakeReservationStore{})

	loan, err := svc.CreateLoan(context.Background(), LoanInput{
		Title:              "Dune",
		BorrowerName:       "Ana",
		BorrowerEmail:      "ana@x.com",
		ExpectedReturnDate: "2026-03-16",
	})
	require.NoError(t, err)

	loanStore.updateErr = errors.New("network down")
	assert.Error(t, svc.ReturnLoan(context.Background(), loan.ID))

	loans := svc.Loans()
	assert.Equal(t, entity.LoanStatusBorrowed, loans[0].Status)
	assert.Empty(t, loans[0].ActualReturnDate)
}

func TestService_LoadAll_ReplacesBothCollections(t *testing.T) {
	loanStore := &fakeLoanStore{stored: []entity.Loan{{ID: "l1", Title: "Dune"}}}
	resStore := &fakeReservationStore{stored: []entity.Reservation{{ID: "r1", Title: "Emma"}}}
	svc, _ := newTestService(loanStore, resStore)

	require.NoError(t, svc.LoadAll(context.Background()))
	assert.Len(t, svc.Loans(), 1)
	assert.Len(t, svc.Reservations(), 1)
	assert.NoError(t, svc.Err())
	assert.False(t, svc.Loading())
}

func TestService_LoadAll_PartialFailureRetainsPriorState(t *testing.T) {
	loanStore := &fakeLoanStore{stored: []entity.Loan{{ID: "l1", Title: "Dune"}}}
	resStore := &fakeReservationStore{stored: []entity.Reservation{{ID: "r1", Title: "Emma"}}}
	svc, _ := newTestService(loanStore, resStore)
	require.NoError(t, svc.LoadAll(context.Background()))

	loanStore.listErr = errors.New("loans fetch failed")
	loanStore.stored = nil
	resStore.stored = append(resStore.stored, entity.Reservation{ID: "r2"})

	err := svc.LoadAll(context.Background())
	assert.Error(t, err)
	assert.Error(t, svc.Err())

	// Neither collection was partially overwritten.
	require.Len(t, svc.Loans(), 1)
	assert.Equal(t, "l1", svc.Loans()[0].ID)
	require.Len(t, svc.Reservations(), 1)
	assert.Equal(t, "r1", svc.Reservations()[0].ID)

	// The error is sticky until the next successful reload.
	loanStore.listErr = nil
	loanStore.stored = []entity.Loan{{ID: "l2"}}
	require.NoError(t, svc.LoadAll(context.Background()))
	assert.NoError(t, svc.Err())
	assert.Equal(t, "l2", svc.Loans()[0].ID)
	assert.Len(t, svc.Reservations(), 2)
}

func TestService_ReservationLifecycle(t *testing.T) {
	resStore := &fakeReservationStore{}
	svc, _ := newTestService(&fakeLoanStore{}, resStore)

	res, err := svc.CreateReservation(context.Background(), ReservationInput{
		Title:         "Emma",
		BorrowerName:  "Bruno",
		BorrowerEmail: "bruno@x.com",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusPending, res.Status)
	assert.Equal(t, today, res.ReservationDate)
	assert.Equal(t, entity.DefaultCoverURL, res.CoverURL)

	require.NoError(t, svc.CancelReservation(context.Background(), res.ID))
	assert.Equal(t, entity.ReservationStatusCancelled, svc.Reservations()[0].Status)

	// Cancelling again re-sends the update and leaves the status alone.
	require.NoError(t, svc.CancelReservation(context.Background(), res.ID))
	assert.Equal(t, []string{res.ID, res.ID}, resStore.updates)
	assert.Equal(t, entity.ReservationStatusCancelled, svc.Reservations()[0].Status)
}

func TestService_NotifyOverdue(t *testing.T) {
	loanStore := &fakeLoanStore{stored: []entity.Loan{{
		ID:            "l1",
		Title:         "Dune",
		BorrowerName:  "Ana",
		BorrowerEmail: "ana@x.com",
	}}}
	svc, notifier := newTestService(loanStore, &fakeReservationStore{})
	require.NoError(t, svc.LoadAll(context.Background()))

	svc.NotifyOverdue("l1")
	require.Len(t, notifier.notified, 1)
	assert.Equal(t, "Ana", notifier.notified[0].BorrowerName)
	assert.Equal(t, "ana@x.com", notifier.notified[0].BorrowerEmail)
	assert.Equal(t, "Dune", notifier.notified[0].Title)

	// Unknown id is a silent no-op.
	svc.NotifyOverdue("nope")
	assert.Len(t, notifier.notified, 1)
}

func TestService_SnapshotsAreCopies(t *testing.T) {
	loanStore := &fakeLoanStore{stored: []entity.Loan{{ID: "l1", Status: entity.LoanStatusBorrowed}}}
	svc, _ := newTestService(loanStore, &fakeReservationStore{})
	require.NoError(t, svc.LoadAll(context.Background()))

	snapshot := svc.Loans()
	snapshot[0].Status = "mangled"
	assert.Equal(t, entity.LoanStatusBorrowed, svc.Loans()[0].Status)
}
