package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/chatop/internal/common"
	"github.com/dmitrijs2005/chatop/internal/dbx"
	"github.com/dmitrijs2005/chatop/internal/logging"
	"github.com/dmitrijs2005/chatop/internal/server/auth"
	"github.com/dmitrijs2005/chatop/internal/server/models"
	"github.com/dmitrijs2005/chatop/internal/server/repositories/repomanager"
)

type MessageInput struct {
	Message  string
	UserID   int64
	RentalID int64
}

type MessageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewMessageService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *MessageService {
	return &MessageService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "messages"),
	}
}

// Create posts a message about a rental. The sender named in the input
// must be the authenticated actor.
func (s *MessageService) Create(ctx context.Context, actor *auth.Principal, in MessageInput) (*models.Message, error) {
	if in.UserID != actor.ID {
		s.logger.Warn(ctx, "message sender mismatch", "actor_id", actor.ID, "user_id", in.UserID)
		return nil, common.NewError(common.ErrForbidden, "you cannot send messages on behalf of another user")
	}

	var msg *models.Message
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Rentals(tx).GetByID(ctx, in.RentalID); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.NewError(common.ErrNotFound, "rental not found")
			}
			return err
		}

		var err error
		msg, err = s.repomanager.Messages(tx).Create(ctx, &models.Message{
			Message:  in.Message,
			RentalID: in.RentalID,
			UserID:   actor.ID,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating message: %w", err)
	}

	return msg, nil
}
