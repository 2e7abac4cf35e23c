package models

// Room is a room as listed by the booking service.
type Room struct {
	ID            int64   `json:"id"`
	RoomNumber    int     `json:"roomNumber,omitempty"`
	Type          string  `json:"type"`
	PricePerNight float64 `json:"pricePerNight"`
	Capacity      int     `json:"capacity,omitempty"`
	Description   string  `json:"description"`
	ImageURL      string  `json:"imageUrl"`
}

// RoomForm carries the multipart fields for adding or updating a room.
// Zero values are left out of an update.
type RoomForm struct {
	ID            int64   // required for updates only
	RoomNumber    int
	Type          string
	PricePerNight float64
	Capacity      int
	Description   string
	ImageName     string // file name sent with the image part
	Image         []byte
}
