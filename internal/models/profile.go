package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents the account type of a profile.
type Role string

const (
	RoleSponsor   Role = "sponsor"
	RoleOrganizer Role = "organizer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleSponsor || r == RoleOrganizer
}

// Profile is a principal's account record. The ID is the principal
// identifier issued by the identity provider; ID and Role never change
// after provisioning.
type Profile struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	CompanyName string    `json:"company_name"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
