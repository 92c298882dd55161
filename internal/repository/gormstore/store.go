package gormstore

import (
	"context"
	"fmt"
	"time"

	"appliance-rental-backend/internal/logger"
	"appliance-rental-backend/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Store is a gorm-backed implementation of the repository set, used with an
// embedded sqlite database for local runs and integration tests.
type Store struct {
	db *gorm.DB
	repository.UserRepository
	repository.ApplianceRepository
	repository.RentalRepository
	repository.NotificationRepository
}

// OpenSQLite opens (or creates) a sqlite database at path. sqlite allows one
// writer at a time, so the pool is capped at a single connection.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sqlite pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func NewStore(db *gorm.DB) *Store {
	repos := newRepositories(db)
	return &Store{
		db:                     db,
		UserRepository:         repos.Users,
		ApplianceRepository:    repos.Appliances,
		RentalRepository:       repos.Rentals,
		NotificationRepository: repos.Notifications,
	}
}

func newRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		Users:         &userRepository{db: db},
		Appliances:    &applianceRepository{db: db},
		Rentals:       &rentalRepository{db: db},
		Notifications: &notificationRepository{db: db},
	}
}

// AutoMigrate creates or updates the schema for every model.
func (s *Store) AutoMigrate() error {
	if err := s.db.AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("failed to auto-migrate: %w", err)
	}
	logger.Info("sqlite schema migrated")
	return nil
}

func (s *Store) Repositories() *repository.Repositories {
	return &repository.Repositories{
		Users:         s.UserRepository,
		Appliances:    s.ApplianceRepository,
		Rentals:       s.RentalRepository,
		Notifications: s.NotificationRepository,
	}
}

// Do implements repository.UnitOfWork on top of gorm's Transaction helper.
func (s *Store) Do(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newRepositories(tx))
	})
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
