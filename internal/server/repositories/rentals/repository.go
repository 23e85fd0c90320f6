package rentals

import (
	"context"

	"github.com/dmitrijs2005/chatop/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, rental *models.Rental) (*models.Rental, error)
	GetByID(ctx context.Context, id int64) (*models.Rental, error)
	List(ctx context.Context, limit, offset int) ([]models.Rental, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, rental *models.Rental) (*models.Rental, error)
}
