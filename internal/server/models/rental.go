package models

import "time"

// Rental is a listing owned by a user. Picture holds the opaque storage
// reference returned by the object store.
type Rental struct {
	ID          int64
	Name        string
	Surface     int
	Price       int
	Description *string
	Picture     string
	OwnerID     int64
	OwnerName   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
