package client

import (
	"context"

	"github.com/dmitrijs2005/chatop/internal/client/models"
)

type Client interface {
	Register(ctx context.Context, name, email string, password []byte) (*models.User, error)
	Login(ctx context.Context, email string, password []byte) (*models.Token, error)
	Logout()
	LoggedIn() bool
	Me(ctx context.Context) (*models.User, error)
	Ping(ctx context.Context) error
	ListRentals(ctx context.Context, page, size int) (*models.RentalPage, error)
	CreateRental(ctx context.Context, in models.NewRental, filename string, picture []byte) (*models.Rental, error)
	SendMessage(ctx context.Context, userID, rentalID int64, text string) (*models.Message, error)
}
