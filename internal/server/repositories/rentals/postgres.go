package rentals

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/chatop/internal/common"
	"github.com/dmitrijs2005/chatop/internal/dbx"
	"github.com/dmitrijs2005/chatop/internal/server/models"
)

const selectRental = `SELECT r.id, r.name, r.surface, r.price, r.description, r.picture,
		        r.owner_id, u.name, r.created_at, r.updated_at
		   FROM rentals r JOIN users u ON u.id = r.owner_id`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, rental *models.Rental) (*models.Rental, error) {
	query :=
		`INSERT INTO rentals (name, surface, price, description, picture, owner_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		rental.Name, rental.Surface, rental.Price, rental.Description, rental.Picture, rental.OwnerID).
		Scan(&rental.ID, &rental.CreatedAt, &rental.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rental, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Rental, error) {
	query := selectRental + ` WHERE r.id = $1`

	rental, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rental, nil
}

// List returns one page of rentals, newest first.
func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]models.Rental, error) {
	query := selectRental + ` ORDER BY r.created_at DESC, r.id DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Rental{}
	for rows.Next() {
		rental, err := scanRental(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *rental)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM rentals`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// Update overwrites the editable fields. Ownership is checked by the caller.
func (r *PostgresRepository) Update(ctx context.Context, rental *models.Rental) (*models.Rental, error) {
	query :=
		`UPDATE rentals
		    SET name = $1, surface = $2, price = $3, description = $4, picture = $5, updated_at = now()
		  WHERE id = $6
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		rental.Name, rental.Surface, rental.Price, rental.Description, rental.Picture, rental.ID).
		Scan(&rental.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rental, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRental(s scanner) (*models.Rental, error) {
	rental := &models.Rental{}
	var description sql.NullString

	err := s.Scan(&rental.ID, &rental.Name, &rental.Surface, &rental.Price, &description, &rental.Picture,
		&rental.OwnerID, &rental.OwnerName, &rental.CreatedAt, &rental.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		rental.Description = &description.String
	}

	return rental, nil
}
