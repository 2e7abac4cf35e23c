package models

// User is an account as returned by the booking service.
type User struct {
	ID          int64  `json:"id,omitempty"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Role        Role   `json:"role,omitempty"`
	IsActive    bool   `json:"isActive,omitempty"`
}

// LoginRequest is the credential exchange body for /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegistrationRequest is the body for /auth/register.
type RegistrationRequest struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Role        Role   `json:"role,omitempty"`
}
