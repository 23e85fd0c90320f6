package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/chatop/internal/client/client"
	"github.com/dmitrijs2005/chatop/internal/client/models"
)

// RentalService browses rentals and contacts their owners as the
// logged-in user.
type RentalService interface {
	List(ctx context.Context, page, size int) (*models.RentalPage, error)
	Create(ctx context.Context, in models.NewRental, filename string, picture []byte) (*models.Rental, error)
	SendMessage(ctx context.Context, rentalID int64, text string) (*models.Message, error)
}

type rentalService struct {
	client client.Client
	auth   AuthService
}

func NewRentalService(c client.Client, auth AuthService) RentalService {
	return &rentalService{client: c, auth: auth}
}

func (s *rentalService) List(ctx context.Context, page, size int) (*models.RentalPage, error) {
	p, err := s.client.ListRentals(ctx, page, size)
	if err != nil && isUnauthorized(err) {
		s.auth.Logout()
	}
	return p, err
}

// Create lists a new rental owned by the current user.
func (s *rentalService) Create(ctx context.Context, in models.NewRental, filename string, picture []byte) (*models.Rental, error) {
	if s.auth.CurrentUser() == nil {
		return nil, client.ErrNotLoggedIn
	}
	if len(picture) == 0 {
		return nil, errors.New("picture is empty")
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)

	r, err := s.client.CreateRental(ctx, in, filename, picture)
	if err != nil && isUnauthorized(err) {
		s.auth.Logout()
	}
	return r, err
}

// SendMessage always sends as the current user.
func (s *rentalService) SendMessage(ctx context.Context, rentalID int64, text string) (*models.Message, error) {
	u := s.auth.CurrentUser()
	if u == nil {
		return nil, client.ErrNotLoggedIn
	}

	m, err := s.client.SendMessage(ctx, u.ID, rentalID, strings.TrimSpace(text))
	if err != nil && isUnauthorized(err) {
		s.auth.Logout()
	}
	return m, err
}

func isUnauthorized(err error) bool {
	return errors.Is(err, client.ErrUnauthorized)
}
