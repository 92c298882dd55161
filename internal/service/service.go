package service

import (
	"context"
	"time"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/utils"

	"github.com/shopspring/decimal"
)

// SystemActorID is recorded as the actor for transitions driven by scheduled jobs.
const SystemActorID = "system"

type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error) // user, access, refresh
	RefreshToken(ctx context.Context, refresh string) (string, string, error)
	CreateUser(ctx context.Context, email, name, phone, password string, role domain.UserRole) (*domain.User, error)
	IssueAccessToken(ctx context.Context, email string) (string, error)
}

type UserService interface {
	GetUserProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID, name, phone string) (*domain.User, error)
}

type ApplianceService interface {
	CreateAppliance(ctx context.Context, appliance *domain.Appliance) error
	UpdateAppliance(ctx context.Context, appliance *domain.Appliance) (*domain.Appliance, error)
	GetAppliance(ctx context.Context, id string) (*domain.Appliance, error)
	ListAppliances(ctx context.Context, filter domain.ApplianceFilter) ([]domain.Appliance, int32, error)
	QuoteRental(ctx context.Context, applianceID string, months int, startDate time.Time) (*utils.RentalQuote, error)
}

type RentalService interface {
	SubmitRental(ctx context.Context, userID, applianceID string, months int, startDate time.Time, deliveryAddress *string) (*domain.RentalRequest, error)
	GetRental(ctx context.Context, userID string, isAdmin bool, rentalID string) (*domain.RentalRequest, error)
	ListMyRentals(ctx context.Context, userID string, status domain.RentalStatus, page, pageSize int32) ([]domain.RentalRequest, int32, error)
	ListRentals(ctx context.Context, filter domain.RentalFilter) ([]domain.RentalRequest, int32, error)
}

// AdminService is the single entry point for every state-changing admin action
// on rentals, installments and appliance availability. Each call runs in one
// transaction.
type AdminService interface {
	ApproveRental(ctx context.Context, adminID, rentalID string, deliveryAddress *string) (*domain.RentalRequest, error)
	RejectRental(ctx context.Context, adminID, rentalID, reason string) (*domain.RentalRequest, error)
	ActivateRental(ctx context.Context, adminID, rentalID string) (*domain.RentalRequest, error)
	CompleteRental(ctx context.Context, actorID, rentalID string) (*domain.RentalRequest, error)
	CancelRental(ctx context.Context, actorID, rentalID, reason string) (*domain.RentalRequest, error)
	MarkInstallmentPaid(ctx context.Context, adminID, rentalID string, number int, paidAmount decimal.Decimal, paidAt time.Time) (*domain.Installment, error)
	ChangeInstallmentPaymentMethod(ctx context.Context, adminID, rentalID string, number int, method domain.PaymentMethod) (*domain.Installment, error)
	SetApplianceStatus(ctx context.Context, adminID, applianceID string, status domain.ApplianceStatus) (*domain.Appliance, error)
}

// MaintenanceService backs the scheduled jobs.
type MaintenanceService interface {
	SweepOverdueInstallments(ctx context.Context, asOf time.Time) (int, error)
	SendInstallmentReminders(ctx context.Context, asOf time.Time, daysAhead int) (int, error)
	CompleteEndedRentals(ctx context.Context, asOf time.Time) (int, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID string, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID string) error
}

type EmailService interface {
	SendRentalSubmitted(ctx context.Context, user *domain.User, appliance *domain.Appliance, rental *domain.RentalRequest) error
	SendRentalApproved(ctx context.Context, user *domain.User, appliance *domain.Appliance, rental *domain.RentalRequest) error
	SendRentalRejected(ctx context.Context, user *domain.User, appliance *domain.Appliance, reason string) error
	SendRentalActivated(ctx context.Context, user *domain.User, appliance *domain.Appliance, rental *domain.RentalRequest) error
	SendRentalCompleted(ctx context.Context, user *domain.User, appliance *domain.Appliance) error
	SendRentalCancelled(ctx context.Context, user *domain.User, appliance *domain.Appliance, reason string) error
	SendPaymentReceipt(ctx context.Context, user *domain.User, appliance *domain.Appliance, installment *domain.Installment) error
	SendInstallmentReminder(ctx context.Context, user *domain.User, appliance *domain.Appliance, installment *domain.Installment) error
}
