package models

// RoleType defines the user role type
type RoleType string

const (
	RoleAdmin RoleType = "admin"
	RoleUser  RoleType = "user"
)

// Valid reports whether r is a known role
func (r RoleType) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Image is a reference to an uploaded asset
type Image struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}
