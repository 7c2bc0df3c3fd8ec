package model

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID                int64  `json:"id"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	FirstName         string `json:"firstName,omitempty"`
	LastName          string `json:"lastName,omitempty"`
	ContactNumber     string `json:"contactNumber,omitempty"`
	Role              string `json:"role,omitempty"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
	Active            *bool  `json:"isActive,omitempty"`
}

func (u User) IsAdmin() bool {
	return u.Role == "ADMIN"
}

// Session is the authenticated state of one role. A view holds at most one
// session at a time.
type Session struct {
	Role  Role
	Token string
	User  User
}

// AdRecord is an advertisement submission kept in the local store.
type AdRecord struct {
	ID            string    `json:"id"`
	Scope         Scope     `json:"scope"`
	State         string    `json:"state,omitempty"`
	District      string    `json:"district,omitempty"`
	MediaURL      string    `json:"thumbnail,omitempty"`
	Name          string    `json:"name,omitempty"`
	Email         string    `json:"email,omitempty"`
	ContactNumber string    `json:"contactNumber,omitempty"`
	AdType        string    `json:"adType,omitempty"`
	Description   string    `json:"description,omitempty"`
	Placeholder   bool      `json:"placeholder,omitempty"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
}
