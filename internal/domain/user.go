package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role controls access to administrative endpoints.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is a registered account. PasswordHash is a bcrypt hash and is never
// serialized.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Participant is the resolved display identity of a user a trip is shared
// with. Trip documents store only user IDs; read paths resolve them to this.
type Participant struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// TripView is a trip enriched with resolved participant identities, returned
// by read paths and by sharing.
type TripView struct {
	Trip
	Participants []Participant `json:"participants"`
}
