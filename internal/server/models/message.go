package models

import "time"

type Message struct {
	ID        int64
	Message   string
	RentalID  int64
	UserID    int64
	CreatedAt time.Time
}
