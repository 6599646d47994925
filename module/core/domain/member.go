package domain

import "time"

// Location is a member's last reported position.
type Location struct {
	Lat       float64   `json:"latitude"`
	Lon       float64   `json:"longitude"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Member is a tracked individual, identified by phone number. LastKnown is
// nil until the member's device reports a position.
type Member struct {
	PhoneNumber string    `json:"phone_number"`
	FullName    string    `json:"full_name"`
	LastKnown   *Location `json:"last_known_location,omitempty"`
}
