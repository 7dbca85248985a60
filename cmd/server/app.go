package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/adboard/adboard-api/internal/config"
	"github.com/adboard/adboard-api/internal/platform/blob"
	"github.com/adboard/adboard-api/internal/platform/postgres"
	"github.com/adboard/adboard-api/internal/service"
	"github.com/adboard/adboard-api/internal/service/auth"
	"github.com/adboard/adboard-api/internal/store"
)

// multipartOverhead is added to the image size limit to leave room for the
// properties part and multipart framing.
const multipartOverhead = 1 << 20

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config

	logger *slog.Logger
	db     *sql.DB
	bucket blob.Bucket

	userStore    store.UserStore
	adStore      store.AdStore
	commentStore store.CommentStore
	imageStore   store.ImageStore

	jwtService     auth.JWTService
	passwordHasher auth.PasswordHasher
	adService      service.AdService
	commentService service.CommentService
	userService    service.UserService
}

// newApplication creates a new application instance with all dependencies initialized.
// The database connection must already be established.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordHasher = auth.NewBcryptHasher(cfg.Auth.BCryptCost)

	app.bucket, err = blob.Open(ctx, cfg.Images)
	if err != nil {
		return nil, fmt.Errorf("failed to open image bucket: %w", err)
	}
	logger.Info("image storage initialized", "backend", cfg.Images.Backend)

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.adStore = postgres.NewPostgresAdStore(db, logger)
	app.commentStore = postgres.NewPostgresCommentStore(db, logger)
	app.imageStore = postgres.NewPostgresImageStore(db, app.bucket, cfg.Images.Prefix, logger)

	defaultAvatar, err := service.LoadDefaultAvatar(cfg.Images.DefaultAvatarPath)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to load default avatar: %w", err)
	}

	app.commentService, err = service.NewCommentService(
		db,
		app.commentStore,
		app.adStore,
		app.userStore,
		service.CommentPolicy{StrictAdLookup: cfg.Comments.StrictAdLookup},
		logger,
	)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create comment service: %w", err)
	}

	app.adService, err = service.NewAdService(
		db,
		app.adStore,
		app.imageStore,
		app.userStore,
		app.commentService,
		logger,
	)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create ad service: %w", err)
	}

	app.userService, err = service.NewUserService(
		db,
		app.userStore,
		app.imageStore,
		app.passwordHasher,
		defaultAvatar,
		logger,
	)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// maxUploadBytes bounds multipart request bodies.
func (app *application) maxUploadBytes() int64 {
	return app.config.Images.MaxBytes + multipartOverhead
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.bucket != nil {
		if err := app.bucket.Close(); err != nil {
			app.logger.Error("error closing image bucket", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
