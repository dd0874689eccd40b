package entity

// Reservation statuses. ReservationStatusAvailable is a valid stored value
// but no operation currently produces it; the transition that should set it
// (a returned loan matching a pending reservation) is pending product
// clarification.
const (
	ReservationStatusPending   = "pending"
	ReservationStatusAvailable = "available"
	ReservationStatusCancelled = "cancelled"
)

// Reservation represents a user's request to be notified when a book
// becomes available.
type Reservation struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	CoverURL        string `json:"cover_url"`
	BorrowerName    string `json:"borrower_name"`
	BorrowerEmail   string `json:"borrower_email"`
	Author          string `json:"author,omitempty"`
	ISBN            string `json:"isbn,omitempty"`
	ReservationDate string `json:"reservation_date"`
	Status          string `json:"status"`
}
