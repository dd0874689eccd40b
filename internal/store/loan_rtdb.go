package store

// Gateway implementations over the realtime document store. Loans live
// under the "loans" root keyed by push key; the push key doubles as the
// record id and sorts chronologically.

import (
	"context"
	"fmt"
	"sort"

	"libraryapi/internal/entity"
	"libraryapi/internal/library"
	"libraryapi/internal/platform/rtdb"
)

const loansRoot = "loans"

// loanRecord is the persisted wire shape; the id is the parent key, not
// a field.
type loanRecord struct {
	Title              string `json:"title"`
	BorrowerName       string `json:"borrowerName"`
	BorrowerEmail      string `json:"borrowerEmail"`
	CoverURL           string `json:"coverUrl"`
	Author             string `json:"author,omitempty"`
	ISBN               string `json:"isbn,omitempty"`
	LoanDate           string `json:"loanDate"`
	ExpectedReturnDate string `json:"expectedReturnDate"`
	ActualReturnDate   string `json:"actualReturnDate"`
	Status             string `json:"status"`
}

func (rec loanRecord) toEntity(id string) entity.Loan {
	return entity.Loan{
		ID:                 id,
		Title:              rec.Title,
		BorrowerName:       rec.BorrowerName,
		BorrowerEmail:      rec.BorrowerEmail,
		CoverURL:           rec.CoverURL,
		Author:             rec.Author,
		ISBN:               rec.ISBN,
		LoanDate:           rec.LoanDate,
		ExpectedReturnDate: rec.ExpectedReturnDate,
		ActualReturnDate:   rec.ActualReturnDate,
		Status:             rec.Status,
	}
}

func loanRecordFrom(loan entity.Loan) loanRecord {
	return loanRecord{
		Title:              loan.Title,
		BorrowerName:       loan.BorrowerName,
		BorrowerEmail:      loan.BorrowerEmail,
		CoverURL:           loan.CoverURL,
		Author:             loan.Author,
		ISBN:               loan.ISBN,
		LoanDate:           loan.LoanDate,
		ExpectedReturnDate: loan.ExpectedReturnDate,
		ActualReturnDate:   loan.ActualReturnDate,
		Status:             loan.Status,
	}
}

type LoanRTDB struct {
	db *rtdb.Client
}

func NewLoanRTDB(db *rtdb.Client) *LoanRTDB {
	return &LoanRTDB{db: db}
}

// List returns every stored loan in push-key order. An absent loans root
// is an empty collection, not an error.
func (r *LoanRTDB) List(ctx context.Context) ([]entity.Loan, error) {
	var records map[string]loanRecord
	if err := r.db.Get(ctx, loansRoot, &records); err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}

	keys := make([]string, 0, len(records))
	for key := range records {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	loans := make([]entity.Loan, 0, len(keys))
	for _, key := range keys {
		loans = append(loans, records[key].toEntity(key))
	}
	return loans, nil
}

func (r *LoanRTDB) Create(ctx context.Context, loan entity.Loan) (entity.Loan, error) {
	key, err := r.db.Push(ctx, loansRoot, loanRecordFrom(loan))
	if err != nil {
		return entity.Loan{}, fmt.Errorf("create loan: %w", err)
	}
	loan.ID = key
	return loan, nil
}

func (r *LoanRTDB) Update(ctx context.Context, id string, patch library.LoanPatch) error {
	fields := map[string]any{}
	if patch.Status != nil {
		fields["status"] = *patch.Status
	}
	if patch.ActualReturnDate != nil {
		fields["actualReturnDate"] = *patch.ActualReturnDate
	}
	if len(fields) == 0 {
		return nil
	}
	if err := r.db.Patch(ctx, loansRoot+"/"+id, fields); err != nil {
		return fmt.Errorf("update loan %s: %w", id, err)
	}
	return nil
}

func (r *LoanRTDB) Delete(ctx context.Context, id string) error {
	if err := r.db.Delete(ctx, loansRoot+"/"+id); err != nil {
		return fmt.Errorf("delete loan %s: %w", id, err)
	}
	return nil
}
