// Seeds the document store with demo loans and reservations so the
// list views have something to show in a fresh environment.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"libraryapi/internal/entity"
	"libraryapi/internal/platform/rtdb"
	"libraryapi/internal/store"
)

func main() {
	_ = godotenv.Load(".env.local")

	rtdbURL := os.Getenv("RTDB_URL")
	if rtdbURL == "" {
		log.Fatal("missing required environment variable: RTDB_URL")
	}

	db := rtdb.NewClient(rtdbURL, os.Getenv("RTDB_AUTH_TOKEN"), 10)
	loanStore := store.NewLoanRTDB(db)
	reservationStore := store.NewReservationRTDB(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	today := time.Now()
	date := func(daysFromNow int) string {
		return today.AddDate(0, 0, daysFromNow).Format(entity.DateLayout)
	}

	loans := []entity.Loan{
		{
			Title:              "Dune",
			Author:             "Frank Herbert",
			ISBN:               "9780441172719",
			BorrowerName:       "Ana Souza",
			BorrowerEmail:      "ana.souza@example.com",
			CoverURL:           entity.DefaultCoverURL,
			LoanDate:           date(-10),
			ExpectedReturnDate: date(-3), // already overdue
			ActualReturnDate:   "",
			Status:             entity.LoanStatusBorrowed,
		},
		{
			Title:              "Emma",
			Author:             "Jane Austen",
			BorrowerName:       "Bruno Lima",
			BorrowerEmail:      "bruno.lima@example.com",
			CoverURL:           entity.DefaultCoverURL,
			LoanDate:           date(-2),
			ExpectedReturnDate: date(12),
			ActualReturnDate:   "",
			Status:             entity.LoanStatusBorrowed,
		},
		{
			Title:              "Neuromancer",
			Author:             "William Gibson",
			BorrowerName:       "Carla Dias",
			BorrowerEmail:      "carla.dias@example.com",
			CoverURL:           entity.DefaultCoverURL,
			LoanDate:           date(-20),
			ExpectedReturnDate: date(-6),
			ActualReturnDate:   date(-5),
			Status:             entity.LoanStatusReturned,
		},
	}

	reservations := []entity.Reservation{
		{
			Title:           "The Left Hand of Darkness",
			Author:          "Ursula K. Le Guin",
			BorrowerName:    "Ana Souza",
			BorrowerEmail:   "ana.souza@example.com",
			CoverURL:        entity.DefaultCoverURL,
			ReservationDate: date(-1),
			Status:          entity.ReservationStatusPending,
		},
		{
			Title:           "Foundation",
			Author:          "Isaac Asimov",
			BorrowerName:    "Bruno Lima",
			BorrowerEmail:   "bruno.lima@example.com",
			CoverURL:        entity.DefaultCoverURL,
			ReservationDate: date(-4),
			Status:          entity.ReservationStatusCancelled,
		},
	}

	for _, loan := range loans {
		created, err := loanStore.Create(ctx, loan)
		if err != nil {
			log.Fatalf("seed loan %q: %v", loan.Title, err)
		}
		log.Printf("seeded loan %s (%s)", created.ID, created.Title)
	}

	for _, reservation := range reservations {
		created, err := reservationStore.Create(ctx, reservation)
		if err != nil {
			log.Fatalf("seed reservation %q: %v", reservation.Title, err)
		}
		log.Printf("seeded reservation %s (%s)", created.ID, created.Title)
	}

	log.Printf("done: %d loans, %d reservations", len(loans), len(reservations))
}
