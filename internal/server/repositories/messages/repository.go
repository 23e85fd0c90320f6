package messages

import (
	"context"

	"github.com/dmitrijs2005/chatop/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, msg *models.Message) (*models.Message, error)
}
