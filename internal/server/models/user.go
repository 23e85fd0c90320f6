package models

import "time"

// User is an identity that can authenticate. Email is the login key and is
// always stored lowercased.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
