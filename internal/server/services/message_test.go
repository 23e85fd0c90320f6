package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/chatop/internal/common"
	"github.com/dmitrijs2005/chatop/internal/logging"
	"github.com/dmitrijs2005/chatop/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageCreate(t *testing.T) {
	db, mock := newSQLMockDB(t)
	rm := newFakeRepoManager()
	rm.r.rentals[4] = &models.Rental{ID: 4}
	svc := NewMessageService(db, rm, logging.Discard())

	mock.ExpectBegin()
	mock.ExpectCommit()

	msg, err := svc.Create(context.Background(), stranger, MessageInput{Message: "is it free?", UserID: stranger.ID, RentalID: 4})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, stranger.ID, msg.UserID)
	assert.Equal(t, int64(4), msg.RentalID)
	assert.Len(t, rm.m.created, 1)
}

func TestMessageCreate_OnBehalfOfAnotherUser(t *testing.T) {
	db, mock := newSQLMockDB(t)
	rm := newFakeRepoManager()
	rm.r.rentals[4] = &models.Rental{ID: 4}
	svc := NewMessageService(db, rm, logging.Discard())

	_, err := svc.Create(context.Background(), stranger, MessageInput{Message: "hi", UserID: owner.ID, RentalID: 4})
	assert.ErrorIs(t, err, common.ErrForbidden)
	assert.Equal(t, "you cannot send messages on behalf of another user", err.Error())

	assert.Empty(t, rm.m.created)
	// no transaction was started
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageCreate_RentalMissing(t *testing.T) {
	db, mock := newSQLMockDB(t)
	rm := newFakeRepoManager()
	svc := NewMessageService(db, rm, logging.Discard())

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), stranger, MessageInput{Message: "hi", UserID: stranger.ID, RentalID: 404})
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Empty(t, rm.m.created)
}

func TestMessageCreate_RepoError(t *testing.T) {
	db, mock := newSQLMockDB(t)
	rm := newFakeRepoManager()
	rm.r.rentals[4] = &models.Rental{ID: 4}
	rm.m.createErr = errBoom
	svc := NewMessageService(db, rm, logging.Discard())

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), stranger, MessageInput{Message: "hi", UserID: stranger.ID, RentalID: 4})
	assert.ErrorIs(t, err, errBoom)
	assert.ErrorContains(t, err, "error creating message")
}
