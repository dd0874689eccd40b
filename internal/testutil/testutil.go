package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"libraryapi/internal/auth"
	"libraryapi/internal/entity"
)

// TestUser is a fixture user for handler tests.
var TestUser = entity.User{
	ID:          "test-user-id-123",
	DisplayName: "Test User",
	Email:       "test@example.com",
	Password:    "hashedpassword",
	Role:        "USER",
	CreatedAt:   time.Now(),
}

// TestLoan is a fixture loan in the borrowed state.
var TestLoan = entity.Loan{
	ID:                 "test-loan-id-789",
	Title:              "Dune",
	Author:             "Frank Herbert",
	ISBN:               "9780441172719",
	BorrowerName:       "Ana Souza",
	BorrowerEmail:      "ana@example.com",
	CoverURL:           entity.DefaultCoverURL,
	LoanDate:           "2026-03-01",
	ExpectedReturnDate: "2026-03-15",
	Status:             entity.LoanStatusBorrowed,
}

// TestReservation is a fixture reservation in the pending state.
var TestReservation = entity.Reservation{
	ID:              "test-res-id-456",
	Title:           "Foundation",
	Author:          "Isaac Asimov",
	BorrowerName:    "Bruno Lima",
	BorrowerEmail:   "bruno@example.com",
	CoverURL:        entity.DefaultCoverURL,
	ReservationDate: "2026-03-10",
	Status:          entity.ReservationStatusPending,
}

// GenerateTestToken generates a JWT token for testing.
func GenerateTestToken(secret, userID, role string) string {
	token, _, _ := auth.GenerateToken(secret, userID, role, time.Hour)
	return token
}

// GenerateExpiredToken generates an expired JWT token for testing.
func GenerateExpiredToken(secret, userID, role string) string {
	c := auth.Claims{
		Sub:  userID,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	token, _ := t.SignedString([]byte(secret))
	return token
}

// NewRequest creates a new HTTP request for testing.
func NewRequest(method, path string, body any) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// NewRequestWithAuth creates a new HTTP request with JWT auth for testing.
func NewRequestWithAuth(method, path string, body any, token string) *http.Request {
	r := NewRequest(method, path, body)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}
