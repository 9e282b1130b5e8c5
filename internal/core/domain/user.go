package domain

import "time"

// User is a tenant-scoped account. Membership is exactly one of: approved
// (OrganizationID set), pending (PendingOrganizationID set), or neither, which
// only occurs transiently during registration.
type User struct {
	ID                    string    `json:"id"`
	Email                 string    `json:"email"`
	Name                  string    `json:"name"`
	PasswordHash          string    `json:"-"`
	IsAdmin               bool      `json:"isAdmin"`
	OrganizationID        string    `json:"organizationId,omitempty"`
	PendingOrganizationID string    `json:"pendingOrganizationId,omitempty"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// Approved reports whether the user is an approved member of an organization.
func (u User) Approved() bool {
	return u.OrganizationID != ""
}

// Pending reports whether the user is awaiting approval for an organization.
func (u User) Pending() bool {
	return u.PendingOrganizationID != ""
}

// BelongsTo reports whether the user is an approved or pending member of the
// given organization.
func (u User) BelongsTo(organizationID string) bool {
	return u.OrganizationID == organizationID || u.PendingOrganizationID == organizationID
}

// Principal is a resolved acting user together with their organization.
type Principal struct {
	User         *User
	Organization *Organization
}
