package rest

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/chatop/internal/logging"
	"github.com/dmitrijs2005/chatop/internal/server/auth"
	"github.com/dmitrijs2005/chatop/internal/server/models"
	"github.com/dmitrijs2005/chatop/internal/server/services"
	"github.com/dmitrijs2005/chatop/internal/server/storage"
)

type UserService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, *auth.IssuedToken, error)
	Login(ctx context.Context, email, password string) (*auth.IssuedToken, error)
	CurrentIdentity(ctx context.Context, email string) (*models.User, error)
}

type RentalService interface {
	List(ctx context.Context, page, size int) (*services.RentalPage, error)
	Get(ctx context.Context, id int64) (*models.Rental, error)
	Create(ctx context.Context, owner *auth.Principal, in services.RentalInput, picture *services.Upload) (*models.Rental, error)
	Update(ctx context.Context, actor *auth.Principal, id int64, in services.RentalInput, picture *services.Upload) (*models.Rental, error)
	OpenPicture(ctx context.Context, key string) (*storage.Object, error)
}

type MessageService interface {
	Create(ctx context.Context, actor *auth.Principal, in services.MessageInput) (*models.Message, error)
}

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Handlers serves the JSON API. Authentication and access checks have
// already run by the time a handler is called.
type Handlers struct {
	users      UserService
	rentals    RentalService
	messages   MessageService
	health     HealthCheck
	responders *Responders
	logger     logging.Logger

	filesURL       string
	maxUploadBytes int64
}

func (h *Handlers) pictureURL(key string) string {
	if key == "" {
		return ""
	}
	return strings.TrimRight(h.filesURL, "/") + "/" + key
}

func (h *Handlers) newRentalResponse(r *models.Rental) rentalResponse {
	return rentalResponse{
		ID:          r.ID,
		Name:        r.Name,
		Surface:     r.Surface,
		Price:       r.Price,
		Description: r.Description,
		PictureURL:  h.pictureURL(r.Picture),
		OwnerID:     r.OwnerID,
		OwnerName:   r.OwnerName,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
