// Package server initializes and runs the Chatop API server.
// It opens the database and runs migrations, connects object storage,
// wires the services behind the authentication gate and access policy,
// and serves HTTP until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/chatop/internal/cryptox"
	"github.com/dmitrijs2005/chatop/internal/logging"
	"github.com/dmitrijs2005/chatop/internal/server/auth"
	"github.com/dmitrijs2005/chatop/internal/server/config"
	"github.com/dmitrijs2005/chatop/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/chatop/internal/server/rest"
	"github.com/dmitrijs2005/chatop/internal/server/services"
	"github.com/dmitrijs2005/chatop/internal/server/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *rest.Server
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	store, err := storage.NewS3Store(ctx, storage.S3Config{
		AccessKey: c.S3RootUser,
		SecretKey: c.S3RootPassword,
		Bucket:    c.S3Bucket,
		Region:    c.S3Region,
		Endpoint:  c.S3BaseEndpoint,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	key, err := auth.DecodeSigningKey(c.JWTSecret)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	codec, err := auth.NewTokenCodec(key, c.JWTTTL)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	hasher, err := cryptox.NewBcryptHasher(c.BcryptCost)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	us := services.NewUserService(db, rm, hasher, codec, logger, time.Now)
	rs := services.NewRentalService(db, rm, store, logger)
	ms := services.NewMessageService(db, rm, logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler := rest.NewRouter(rest.Deps{
		Users:          us,
		Rentals:        rs,
		Messages:       ms,
		Health:         db.PingContext,
		Gate:           auth.NewGate(codec, us, logger, time.Now),
		Policy:         auth.DefaultPolicy(),
		Logger:         logger,
		Registry:       reg,
		FilesURL:       c.PublicFilesURL,
		MaxUploadBytes: c.MaxUploadBytes,
	})

	return &App{
		config: c,
		logger: logger,
		db:     db,
		server: rest.NewServer(c.HTTPAddr, handler, logger, c.ShutdownTimeout),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until a signal arrives or the server fails, then closes
// the database.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			runErr = err
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "error closing database", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
	return runErr
}
