package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/chatop/internal/dbx"
	"github.com/dmitrijs2005/chatop/internal/server/repositories/messages"
	"github.com/dmitrijs2005/chatop/internal/server/repositories/rentals"
	"github.com/dmitrijs2005/chatop/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to a DB or a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Rentals(db dbx.DBTX) rentals.Repository
	Messages(db dbx.DBTX) messages.Repository
}
