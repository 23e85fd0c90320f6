// Package models defines the API shapes the CLI exchanges with the Chatop
// server.
package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Token is a session token as issued by login or registration.
type Token struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	ExpiresIn int64  `json:"expiresIn"`
}

type Rental struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Surface     int       `json:"surface"`
	Price       int       `json:"price"`
	Description *string   `json:"description"`
	PictureURL  string    `json:"pictureUrl"`
	OwnerID     int64     `json:"ownerId"`
	OwnerName   string    `json:"ownerName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type RentalPage struct {
	Content       []Rental `json:"content"`
	Page          int      `json:"page"`
	Size          int      `json:"size"`
	TotalElements int64    `json:"totalElements"`
	TotalPages    int      `json:"totalPages"`
}

type Message struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	RentalID  int64     `json:"rentalId"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewRental is what a user fills in to list a property.
type NewRental struct {
	Name        string
	Surface     int
	Price       int
	Description string
}
