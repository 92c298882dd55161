// Package app assembles stores and services from configuration for the binaries.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"appliance-rental-backend/internal/config"
	"appliance-rental-backend/internal/logger"
	"appliance-rental-backend/internal/repository"
	"appliance-rental-backend/internal/repository/gormstore"
	"appliance-rental-backend/internal/repository/postgres"
	"appliance-rental-backend/internal/security"
	"appliance-rental-backend/internal/service"
)

// Store is the persistence surface shared by the postgres and sqlite backends.
type Store interface {
	repository.UnitOfWork
	Repositories() *repository.Repositories
	Ping(ctx context.Context) error
}

// Database bundles an open store with its teardown.
type Database struct {
	Store
	// SQL is set for the postgres driver only.
	SQL   *sql.DB
	close func() error
}

func (d *Database) Close() error {
	return d.close()
}

// OpenDatabase connects to the configured driver. With migrate set, the schema
// is brought up to date before returning.
func OpenDatabase(ctx context.Context, cfg *config.Config, migrate bool) (*Database, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		logger.Info("Opening sqlite database", "path", cfg.Database.SQLitePath)
		gdb, err := gormstore.OpenSQLite(cfg.Database.SQLitePath)
		if err != nil {
			return nil, err
		}
		store := gormstore.NewStore(gdb)
		if migrate {
			if err := store.AutoMigrate(); err != nil {
				store.Close()
				return nil, err
			}
		}
		return &Database{Store: store, close: store.Close}, nil

	case "postgres", "":
		logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(30 * time.Minute)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		logger.Info("Database connection established")

		if migrate {
			if err := postgres.MigrateUp(db); err != nil {
				db.Close()
				return nil, err
			}
		}
		return &Database{Store: postgres.NewStore(db), SQL: db, close: db.Close}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
}

type Services struct {
	Tokens       security.TokenManager
	Email        service.EmailService
	Auth         service.AuthService
	User         service.UserService
	Appliance    service.ApplianceService
	Rental       service.RentalService
	Admin        service.AdminService
	Maintenance  service.MaintenanceService
	Notification service.NotificationService
}

func NewServices(cfg *config.Config, store Store) (*Services, error) {
	mailer, err := service.NewMailer(cfg.Email)
	if err != nil {
		return nil, err
	}
	logger.Info("Email provider configured", "provider", cfg.Email.Provider)

	repos := store.Repositories()
	tokens := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)
	emailSvc := service.NewEmailService(mailer)
	adminSvc := service.NewAdminService(store, repos, emailSvc)

	return &Services{
		Tokens:       tokens,
		Email:        emailSvc,
		Auth:         service.NewAuthService(repos.Users, tokens),
		User:         service.NewUserService(repos.Users),
		Appliance:    service.NewApplianceService(repos.Appliances),
		Rental:       service.NewRentalService(store, repos, emailSvc),
		Admin:        adminSvc,
		Maintenance:  service.NewMaintenanceService(store, repos, adminSvc, emailSvc),
		Notification: service.NewNotificationService(repos.Notifications),
	}, nil
}
