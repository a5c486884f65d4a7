package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	nats "github.com/nats-io/nats.go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/kaylkveip512/Viktorov-bookstore/config"
	httpadapter "github.com/kaylkveip512/Viktorov-bookstore/internal/adapters/http"
	apiv1 "github.com/kaylkveip512/Viktorov-bookstore/internal/adapters/http/api/v1"
	"github.com/kaylkveip512/Viktorov-bookstore/internal/adapters/http/api/v1/handlers"
	authmw "github.com/kaylkveip512/Viktorov-bookstore/internal/adapters/http/middleware"
	natsadapter "github.com/kaylkveip512/Viktorov-bookstore/internal/adapters/nats"
	"github.com/kaylkveip512/Viktorov-bookstore/internal/adapters/passcheck"
	"github.com/kaylkveip512/Viktorov-bookstore/internal/adapters/postgres"
	"github.com/kaylkveip512/Viktorov-bookstore/internal/authz"
	"github.com/kaylkveip512/Viktorov-bookstore/internal/domain"
	"github.com/kaylkveip512/Viktorov-bookstore/internal/password"
	"github.com/kaylkveip512/Viktorov-bookstore/internal/usecase"
	pkglog "github.com/kaylkveip512/Viktorov-bookstore/pkg/log"
)

type App struct {
	cfg      *config.Config
	logger   pkglog.Logger
	db       *gorm.DB
	natsConn *nats.Conn
	echo     *echo.Echo
}

func New(ctx context.Context) (*App, error) {
	cfg := config.MustLoad()
	log := pkglog.New(cfg.AppEnv)

	db, err := gorm.Open(postgres.Open(buildDSN(cfg)), &gorm.Config{
		Logger:         loggerForGorm(cfg),
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.UserActivity{},
		&domain.RefreshToken{},
		&domain.Author{},
		&domain.Publisher{},
		&domain.Genre{},
		&domain.Book{},
	); err != nil {
		return nil, err
	}

	nc, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		log.Warn().Err(err).Msg("nats connect failed, continuing without events")
		nc = nil
	}

	users := repo.NewUserRepository(db)
	activities := repo.NewActivityRepository(db)
	refreshTokens := repo.NewRefreshTokenRepository(db)
	authors := repo.NewAuthorRepository(db)
	publishers := repo.NewPublisherRepository(db)
	genres := repo.NewGenreRepository(db)
	books := repo.NewBookRepository(db)

	signer, err := usecase.NewJWTSigner(cfg)
	if err != nil {
		return nil, err
	}

	var publisher usecase.ActivityPublisher
	if nc != nil {
		publisher = natsadapter.NewActivityPublisher(nc, cfg.NATSActivitySubject)
	}
	recorder := usecase.NewActivityRecorder(activities, publisher, pkglog.With(log, pkglog.Fields{"component": "activity"}))

	policy := &password.Policy{}
	if cfg.PasscheckURL != "" {
		policy.Deny = passcheck.NewHTTPClient(cfg.PasscheckURL, cfg.PasscheckTimeout)
	}

	authService := usecase.NewAuthService(cfg, pkglog.With(log, pkglog.Fields{"component": "auth"}), users, refreshTokens, recorder, policy, signer)
	catalogService := usecase.NewCatalogService(pkglog.With(log, pkglog.Fields{"component": "catalog"}), authors, publishers, genres, books)

	engine := authz.NewEngine(pkglog.With(log, pkglog.Fields{"component": "authz"}))
	authHandler := handlers.NewAuthHandler(authService, engine)
	catalogHandler := handlers.NewCatalogHandler(catalogService, engine)
	authMW := authmw.NewAuthMiddleware(signer, users)
	router := httpadapter.NewRouter(cfg, apiv1.NewRouter(authHandler, catalogHandler, authMW.Handler))

	if nc != nil {
		verifyHandler := natsadapter.NewVerifyHandler(signer)
		if err := verifyHandler.Subscribe(nc, cfg.NATSVerifySubject, cfg.AppName); err != nil {
			log.Warn().Err(err).Msg("verify subscription failed")
		}
	}

	e := echo.New()
	router.Setup(e)

	return &App{cfg: cfg, logger: log, db: db, natsConn: nc, echo: e}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.echo.Shutdown(shutdownCtx)
	}()
	go func() {
		errCh <- a.echo.Start(fmt.Sprintf("%s:%s", a.cfg.HTTPHost, a.cfg.HTTPPort))
	}()
	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) Close() {
	if a.natsConn != nil {
		_ = a.natsConn.Drain()
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func buildDSN(cfg *config.Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s", cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)
}

func loggerForGorm(cfg *config.Config) logger.Interface {
	level := logger.Silent
	switch cfg.AppEnv {
	case "local":
		level = logger.Info
	default:
		level = logger.Warn
	}
	return logger.Default.LogMode(level)
}
