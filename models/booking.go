package models

// Booking is a booking record owned by the booking service.
type Booking struct {
	ID               int64   `json:"id,omitempty"`
	BookingReference string  `json:"bookingReference,omitempty"` // join key with the payment lifecycle
	RoomID           int64   `json:"roomId,omitempty"`
	CheckInDate      string  `json:"checkInDate,omitempty"`  // YYYY-MM-DD
	CheckOutDate     string  `json:"checkOutDate,omitempty"` // YYYY-MM-DD
	TotalPrice       float64 `json:"totalPrice,omitempty"`
	BookingStatus    string  `json:"bookingStatus,omitempty"` // e.g. BOOKED, CHECKED_IN, CANCELLED
	PaymentStatus    string  `json:"paymentStatus,omitempty"` // e.g. PENDING, COMPLETED, FAILED
	Room             *Room   `json:"room,omitempty"`
	User             *User   `json:"user,omitempty"`
}

// BookingRequest asks the booking service to reserve a room.
type BookingRequest struct {
	RoomID       int64  `json:"roomId" validate:"required,gt=0"`
	CheckInDate  string `json:"checkInDate" validate:"required,datetime=2006-01-02"`
	CheckOutDate string `json:"checkOutDate" validate:"required,datetime=2006-01-02"`
}

// BookingUpdate changes the status of an existing booking (admin).
type BookingUpdate struct {
	ID            int64  `json:"id" validate:"required,gt=0"`
	BookingStatus string `json:"bookingStatus,omitempty"`
	PaymentStatus string `json:"paymentStatus,omitempty"`
}
