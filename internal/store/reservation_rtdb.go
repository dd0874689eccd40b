package store

import (
	"context"
	"fmt"
	"sort"

	"libraryapi/internal/entity"
	"libraryapi/internal/library"
	"libraryapi/internal/platform/rtdb"
)

const reservationsRoot = "reservations"

type reservationRecord struct {
	Title           string `json:"title"`
	CoverURL        string `json:"coverUrl"`
	BorrowerName    string `json:"borrowerName"`
	BorrowerEmail   string `json:"borrowerEmail"`
	Author          string `json:"author,omitempty"`
	ISBN            string `json:"isbn,omitempty"`
	ReservationDate string `json:"reservationDate"`
	Status          string `json:"status"`
}

func (rec reservationRecord) toEntity(id string) entity.Reservation {
	return entity.Reservation{
		ID:              id,
		Title:           rec.Title,
		CoverURL:        rec.CoverURL,
		BorrowerName:    rec.BorrowerName,
		BorrowerEmail:   rec.BorrowerEmail,
		Author:          rec.Author,
		ISBN:            rec.ISBN,
		ReservationDate: rec.ReservationDate,
		Status:          rec.Status,
	}
}

func reservationRecordFrom(res entity.Reservation) reservationRecord {
	return reservationRecord{
		Title:           res.Title,
		CoverURL:        res.CoverURL,
		BorrowerName:    res.BorrowerName,
		BorrowerEmail:   res.BorrowerEmail,
		Author:          res.Author,
		ISBN:            res.ISBN,
		ReservationDate: res.ReservationDate,
		Status:          res.Status,
	}
}

type ReservationRTDB struct {
	db *rtdb.Client
}

func NewReservationRTDB(db *rtdb.Client) *ReservationRTDB {
	return &ReservationRTDB{db: db}
}

func (r *ReservationRTDB) List(ctx context.Context) ([]entity.Reservation, error) {
	var records map[string]reservationRecord
	if err := r.db.Get(ctx, reservationsRoot, &records); err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}

	keys := make([]string, 0, len(records))
	for key := range records {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	reservations := make([]entity.Reservation, 0, len(keys))
	for _, key := range keys {
		reservations = append(reservations, records[key].toEntity(key))
	}
	return reservations, nil
}

func (r *ReservationRTDB) Create(ctx context.Context, res entity.Reservation) (entity.Reservation, error) {
	key, err := r.db.Push(ctx, reservationsRoot, reservationRecordFrom(res))
	if err != nil {
		return entity.Reservation{}, fmt.Errorf("create reservation: %w", err)
	}
	res.ID = key
	return res, nil
}

func (r *ReservationRTDB) Update(ctx context.Context, id string, patch library.ReservationPatch) error {
	fields := map[string]any{}
	if patch.Status != nil {
		fields["status"] = *patch.Status
	}
	if len(fields) == 0 {
		return nil
	}
	if err := r.db.Patch(ctx, reservationsRoot+"/"+id, fields); err != nil {
		return fmt.Errorf("update reservation %s: %w", id, err)
	}
	return nil
}

func (r *ReservationRTDB) Delete(ctx context.Context, id string) error {
	if err := r.db.Delete(ctx, reservationsRoot+"/"+id); err != nil {
		return fmt.Errorf("delete reservation %s: %w", id, err)
	}
	return nil
}
