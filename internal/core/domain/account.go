package domain

// Registration is the input for creating an account. A new organization domain
// makes the registrant its first, approved admin; an existing domain leaves the
// account pending until an admin approves it.
type Registration struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	Password           string `json:"password"`
	OrganizationName   string `json:"organizationName"`
	OrganizationDomain string `json:"organizationDomain"`
}

// Session is an issued access token for an approved user.
type Session struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
	User      *User  `json:"user"`
}
