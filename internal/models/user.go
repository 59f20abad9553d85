package models

import "time"

type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	IsActive     bool       `json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	LastLogin    *time.Time `json:"lastLogin"`
}

// Clone returns a deep copy, including the LastLogin pointer target.
func (u *User) Clone() *User {
	c := *u
	if u.LastLogin != nil {
		t := *u.LastLogin
		c.LastLogin = &t
	}
	return &c
}

// Sanitized returns a copy safe to hand out of the credential core.
func (u *User) Sanitized() *User {
	c := u.Clone()
	c.PasswordHash = ""
	return c
}
