package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/chatop/internal/common"
	"github.com/dmitrijs2005/chatop/internal/dbx"
	"github.com/dmitrijs2005/chatop/internal/logging"
	"github.com/dmitrijs2005/chatop/internal/server/auth"
	"github.com/dmitrijs2005/chatop/internal/server/models"
	"github.com/dmitrijs2005/chatop/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/chatop/internal/server/storage"
)

// RentalInput holds the editable fields of a rental.
type RentalInput struct {
	Name        string
	Surface     int
	Price       int
	Description *string
}

// Upload is a picture received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type RentalPage struct {
	Content       []models.Rental
	Page          int
	Size          int
	TotalElements int64
	TotalPages    int
}

type RentalService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.ObjectStore
	logger      logging.Logger
}

func NewRentalService(db *sql.DB, m repomanager.RepositoryManager, store storage.ObjectStore, logger logging.Logger) *RentalService {
	return &RentalService{
		db:          db,
		repomanager: m,
		store:       store,
		logger:      logger.With("module", "rentals"),
	}
}

// List returns page (zero based) of size rentals, newest first.
func (s *RentalService) List(ctx context.Context, page, size int) (*RentalPage, error) {
	if page < 0 || size <= 0 {
		return nil, common.NewError(common.ErrBadRequest, "page must be >= 0 and size > 0")
	}

	repo := s.repomanager.Rentals(s.db)

	total, err := repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting rentals: %w", err)
	}

	content, err := repo.List(ctx, size, page*size)
	if err != nil {
		return nil, fmt.Errorf("error listing rentals: %w", err)
	}

	return &RentalPage{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    int((total + int64(size) - 1) / int64(size)),
	}, nil
}

func (s *RentalService) Get(ctx context.Context, id int64) (*models.Rental, error) {
	rental, err := s.repomanager.Rentals(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrNotFound, "rental not found")
		}
		return nil, fmt.Errorf("error loading rental: %w", err)
	}
	return rental, nil
}

// Create stores the picture and then the rental, owned by owner.
func (s *RentalService) Create(ctx context.Context, owner *auth.Principal, in RentalInput, picture *Upload) (*models.Rental, error) {
	if picture == nil || picture.Size == 0 {
		return nil, common.NewError(common.ErrBadRequest, "picture is required")
	}

	key, err := s.store.Put(ctx, picture.Filename, picture.ContentType, picture.Body, picture.Size)
	if err != nil {
		return nil, fmt.Errorf("error storing picture: %w", err)
	}

	rental, err := s.repomanager.Rentals(s.db).Create(ctx, &models.Rental{
		Name:        in.Name,
		Surface:     in.Surface,
		Price:       in.Price,
		Description: in.Description,
		Picture:     key,
		OwnerID:     owner.ID,
	})
	if err != nil {
		s.discard(ctx, key)
		return nil, fmt.Errorf("error creating rental: %w", err)
	}
	rental.OwnerName = owner.Name

	s.logger.Info(ctx, "rental created", "rental_id", rental.ID, "owner_id", owner.ID)
	return rental, nil
}

// Update changes a rental owned by actor. Anyone else gets
// common.ErrForbidden and nothing is written. A blank description keeps
// the current one; a nil description clears it.
func (s *RentalService) Update(ctx context.Context, actor *auth.Principal, id int64, in RentalInput, picture *Upload) (*models.Rental, error) {
	var (
		updated *models.Rental
		newKey  string
		oldKey  string
	)

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Rentals(tx)

		rental, err := repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.NewError(common.ErrNotFound, "rental not found")
			}
			return err
		}
		if rental.OwnerID != actor.ID {
			return common.NewError(common.ErrForbidden, "you are not allowed to update this rental")
		}

		rental.Name = in.Name
		rental.Surface = in.Surface
		rental.Price = in.Price
		if in.Description == nil || strings.TrimSpace(*in.Description) != "" {
			rental.Description = in.Description
		}

		if picture != nil && picture.Size > 0 {
			newKey, err = s.store.Put(ctx, picture.Filename, picture.ContentType, picture.Body, picture.Size)
			if err != nil {
				return fmt.Errorf("error storing picture: %w", err)
			}
			oldKey = rental.Picture
			rental.Picture = newKey
		}

		updated, err = repo.Update(ctx, rental)
		return err
	})
	if err != nil {
		if newKey != "" {
			s.discard(ctx, newKey)
		}
		if errors.Is(err, common.ErrForbidden) || errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating rental: %w", err)
	}

	if oldKey != "" {
		s.discard(ctx, oldKey)
	}

	return updated, nil
}

// OpenPicture returns a stored picture by key.
func (s *RentalService) OpenPicture(ctx context.Context, key string) (*storage.Object, error) {
	obj, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrNotFound, "file not found")
		}
		return nil, err
	}
	return obj, nil
}

func (s *RentalService) discard(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.Warn(ctx, "failed to delete picture", "key", key, "error", err)
	}
}
