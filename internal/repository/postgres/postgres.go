package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"appliance-rental-backend/internal/logger"
	"appliance-rental-backend/internal/repository"

	_ "github.com/lib/pq"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx so every repository can run
// inside or outside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.ApplianceRepository
	repository.RentalRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	repos := newRepositories(db, false)
	return &Store{
		db:                     db,
		UserRepository:         repos.Users,
		ApplianceRepository:    repos.Appliances,
		RentalRepository:       repos.Rentals,
		NotificationRepository: repos.Notifications,
	}
}

func newRepositories(q dbtx, lock bool) *repository.Repositories {
	return &repository.Repositories{
		Users:         &userRepository{db: q},
		Appliances:    &applianceRepository{db: q, lock: lock},
		Rentals:       &rentalRepository{db: q, lock: lock},
		Notifications: &notificationRepository{db: q},
	}
}

// Repositories returns the non-transactional repository set.
func (s *Store) Repositories() *repository.Repositories {
	return &repository.Repositories{
		Users:         s.UserRepository,
		Appliances:    s.ApplianceRepository,
		Rentals:       s.RentalRepository,
		Notifications: s.NotificationRepository,
	}
}

// Do implements repository.UnitOfWork. Inside fn, single-row reads of
// appliances and rental requests take row locks (SELECT ... FOR UPDATE).
func (s *Store) Do(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(newRepositories(tx, true)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("Failed to roll back transaction", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func forUpdate(query string, lock bool) string {
	if lock {
		return query + " FOR UPDATE"
	}
	return query
}

func pageArgs(page, pageSize int32) (limit, offset int32) {
	if pageSize <= 0 {
		pageSize = 20
	}
	if page <= 0 {
		page = 1
	}
	return pageSize, (page - 1) * pageSize
}
