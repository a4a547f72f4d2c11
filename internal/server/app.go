// Package server initializes and runs the job portal server: it opens the
// database, runs migrations, wires the blob store and SMS gateway into the
// services, and serves the HTTP API until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/jobhub/internal/logging"
	"github.com/dmitrijs2005/jobhub/internal/server/auth"
	"github.com/dmitrijs2005/jobhub/internal/server/blob"
	"github.com/dmitrijs2005/jobhub/internal/server/config"
	"github.com/dmitrijs2005/jobhub/internal/server/httpapi"
	"github.com/dmitrijs2005/jobhub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/jobhub/internal/server/services"
	"github.com/dmitrijs2005/jobhub/internal/server/sms"
)

type App struct {
	config             *config.Config
	logger             logging.Logger
	db                 *sql.DB
	userService        *services.UserService
	otpService         *services.OTPService
	jobService         *services.JobService
	applicationService *services.ApplicationService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager()
	if err != nil {
		return nil, fmt.Errorf("repository init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	blobs, err := blob.NewS3Store(ctx, blob.S3Config{
		RootUser:     cfg.S3RootUser,
		RootPassword: cfg.S3RootPassword,
		Bucket:       cfg.S3Bucket,
		Region:       cfg.S3Region,
		BaseEndpoint: cfg.S3BaseEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	sender := sms.NewFast2SMSSender(sms.Fast2SMSConfig{
		APIKey:        cfg.SMSAPIKey,
		Endpoint:      cfg.SMSEndpoint,
		CountryPrefix: cfg.SMSCountryPrefix,
	})

	us := services.NewUserService(db, rm, cfg)
	otps := services.NewOTPService(db, rm, sender, cfg)
	js := services.NewJobService(db, rm, blobs, logger)
	as := services.NewApplicationService(db, rm, blobs, logger)

	return &App{
		config:             cfg,
		logger:             logger,
		db:                 db,
		userService:        us,
		otpService:         otps,
		jobService:         js,
		applicationService: as,
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config.EndpointAddr, app.logger,
		auth.NewGate(app.config.SecretKey),
		app.userService, app.otpService, app.jobService, app.applicationService,
		app.config.TokenValidityDuration)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
