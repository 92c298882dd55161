package repository

import (
	"context"
	"time"

	"appliance-rental-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type ApplianceRepository interface {
	Create(ctx context.Context, appliance *domain.Appliance) error
	GetByID(ctx context.Context, id string) (*domain.Appliance, error)
	Update(ctx context.Context, appliance *domain.Appliance) error
	// UpdateTerms writes the descriptive and pricing columns only, leaving
	// status and rental counters to the admin gateway.
	UpdateTerms(ctx context.Context, appliance *domain.Appliance) error
	List(ctx context.Context, filter domain.ApplianceFilter) ([]domain.Appliance, int32, error)
}

// RentalRepository persists rental requests together with their installment
// schedules. Reads of a single request or a filtered list return installments
// ordered by number; ListByAppliance returns headers only.
type RentalRepository interface {
	Create(ctx context.Context, rental *domain.RentalRequest) error
	GetByID(ctx context.Context, id string) (*domain.RentalRequest, error)
	Update(ctx context.Context, rental *domain.RentalRequest) error
	UpdateInstallment(ctx context.Context, installment *domain.Installment) error
	ListByAppliance(ctx context.Context, applianceID string) ([]domain.RentalRequest, error)
	List(ctx context.Context, filter domain.RentalFilter) ([]domain.RentalRequest, int32, error)

	// Background sweeps
	ListPendingInstallmentsDueBefore(ctx context.Context, before time.Time) ([]domain.Installment, error)
	ListPendingInstallmentsDueBetween(ctx context.Context, from, to time.Time) ([]domain.Installment, error)
	ListActiveEndedBy(ctx context.Context, asOf time.Time) ([]domain.RentalRequest, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID string, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID string) error
}

// Repositories bundles every repository bound to one connection or transaction.
type Repositories struct {
	Users         UserRepository
	Appliances    ApplianceRepository
	Rentals       RentalRepository
	Notifications NotificationRepository
}

// UnitOfWork runs fn against repositories sharing a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos *Repositories) error) error
}
