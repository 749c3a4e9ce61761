package contract

import "time"

// Canonical wire formats for reservation slots. A slot is an exact
// (restaurant, date, time) triple; there is no duration model.
const (
	DateFormat = "2006-01-02"
	TimeFormat = "15:04"
)

// Reservation status values. Cancellation is the only transition.
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// MenuItem is one entry in a restaurant's menu category.
type MenuItem struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
}

// Restaurant is immutable once created except for administrative edits.
type Restaurant struct {
	ID          int                   `json:"id"`
	Name        string                `json:"name"`
	Cuisine     string                `json:"cuisine"`
	Location    string                `json:"location"`
	Address     string                `json:"address"`
	PriceRange  string                `json:"price_range"`
	Rating      float64               `json:"rating"`
	Capacity    int                   `json:"capacity"`
	OpeningTime string                `json:"opening_time"`
	ClosingTime string                `json:"closing_time"`
	Features    map[string]bool       `json:"features"`
	Menu        map[string][]MenuItem `json:"menu"`
	CreatedAt   time.Time             `json:"created_at"`
}

// Preferences is a user's stored preference profile. It is replaced
// wholesale on update, never merged.
type Preferences struct {
	Cuisine             []string `json:"cuisine,omitempty"`
	PriceRange          string   `json:"price_range,omitempty"`
	Location            string   `json:"location,omitempty"`
	Occasion            string   `json:"occasion,omitempty"`
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
}

// Empty reports whether no preference field is set.
func (p *Preferences) Empty() bool {
	if p == nil {
		return true
	}
	return len(p.Cuisine) == 0 && p.PriceRange == "" && p.Location == "" &&
		p.Occasion == "" && len(p.DietaryRestrictions) == 0
}

type User struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone"`
	Preferences *Preferences `json:"preferences,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

type Reservation struct {
	ID              int       `json:"id"`
	RestaurantID    int       `json:"restaurant_id"`
	UserID          int       `json:"user_id"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	PartySize       int       `json:"party_size"`
	Status          string    `json:"status"`
	SpecialRequests string    `json:"special_requests,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// UserReservation is a reservation joined with its restaurant record.
// Restaurant is nil when the referenced restaurant no longer exists.
type UserReservation struct {
	Reservation
	Restaurant *Restaurant `json:"restaurant,omitempty"`
}

// Availability is the capacity ledger's answer for one slot.
type Availability struct {
	Available          bool `json:"available"`
	RemainingCapacity  int  `json:"remaining_capacity"`
	RestaurantCapacity int  `json:"restaurant_capacity"`
}

// ReservationRequest carries the fields of a booking attempt.
type ReservationRequest struct {
	RestaurantID    int    `json:"restaurant_id"`
	UserID          int    `json:"user_id"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	PartySize       int    `json:"party_size"`
	SpecialRequests string `json:"special_requests,omitempty"`
}

// Turn is one conversation entry. The log is append-only; only a
// bounded window of recent turns is surfaced into prompts.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Envelope is the uniform result shape every action handler returns.
// It is consumed only by the rendering step.
type Envelope struct {
	Status  string         `json:"status"`
	Data    map[string]any `json:"data,omitempty"`
	Message string         `json:"message,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

func SuccessEnvelope(data map[string]any) Envelope {
	return Envelope{Status: StatusSuccess, Data: data}
}

func SuccessMessage(msg string) Envelope {
	return Envelope{Status: StatusSuccess, Message: msg}
}

func ErrorEnvelope(msg string) Envelope {
	return Envelope{Status: StatusError, Message: msg}
}

// IsError reports whether the envelope carries a failure.
func (e Envelope) IsError() bool {
	return e.Status == StatusError
}
