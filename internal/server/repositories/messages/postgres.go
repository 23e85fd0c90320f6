package messages

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/chatop/internal/dbx"
	"github.com/dmitrijs2005/chatop/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, msg *models.Message) (*models.Message, error) {
	query :=
		`INSERT INTO messages (message, rental_id, user_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, msg.Message, msg.RentalID, msg.UserID).
		Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return msg, nil
}
