package models

// Response is the envelope the booking service wraps most answers in.
type Response struct {
	Status           int       `json:"status"`
	Message          string    `json:"message,omitempty"`
	Token            string    `json:"token,omitempty"`
	Role             Role      `json:"role,omitempty"`
	IsActive         bool      `json:"isActive,omitempty"`
	ExpirationTime   string    `json:"expirationTime,omitempty"`
	BookingReference string    `json:"bookingReference,omitempty"`
	User             *User     `json:"user,omitempty"`
	Users            []User    `json:"users,omitempty"`
	Room             *Room     `json:"room,omitempty"`
	Rooms            []Room    `json:"rooms,omitempty"`
	Booking          *Booking  `json:"booking,omitempty"`
	Bookings         []Booking `json:"bookings,omitempty"`
}
