package http

import (
	"context"
	"time"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.User, string, string, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*domain.User)
	return user, args.String(1), args.String(2), args.Error(3)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refresh string) (string, string, error) {
	args := m.Called(ctx, refresh)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockAuthService) CreateUser(ctx context.Context, email, name, phone, password string, role domain.UserRole) (*domain.User, error) {
	args := m.Called(ctx, email, name, phone, password, role)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockAuthService) IssueAccessToken(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

type MockUserService struct{ mock.Mock }

func (m *MockUserService) GetUserProfile(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID, name, phone string) (*domain.User, error) {
	args := m.Called(ctx, userID, name, phone)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

type MockApplianceService struct{ mock.Mock }

func (m *MockApplianceService) CreateAppliance(ctx context.Context, appliance *domain.Appliance) error {
	return m.Called(ctx, appliance).Error(0)
}

func (m *MockApplianceService) UpdateAppliance(ctx context.Context, appliance *domain.Appliance) (*domain.Appliance, error) {
	args := m.Called(ctx, appliance)
	a, _ := args.Get(0).(*domain.Appliance)
	return a, args.Error(1)
}

func (m *MockApplianceService) GetAppliance(ctx context.Context, id string) (*domain.Appliance, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*domain.Appliance)
	return a, args.Error(1)
}

func (m *MockApplianceService) ListAppliances(ctx context.Context, filter domain.ApplianceFilter) ([]domain.Appliance, int32, error) {
	args := m.Called(ctx, filter)
	list, _ := args.Get(0).([]domain.Appliance)
	return list, args.Get(1).(int32), args.Error(2)
}

func (m *MockApplianceService) QuoteRental(ctx context.Context, applianceID string, months int, startDate time.Time) (*utils.RentalQuote, error) {
	args := m.Called(ctx, applianceID, months, startDate)
	q, _ := args.Get(0).(*utils.RentalQuote)
	return q, args.Error(1)
}

type MockRentalService struct{ mock.Mock }

func (m *MockRentalService) SubmitRental(ctx context.Context, userID, applianceID string, months int, startDate time.Time, deliveryAddress *string) (*domain.RentalRequest, error) {
	args := m.Called(ctx, userID, applianceID, months, startDate, deliveryAddress)
	r, _ := args.Get(0).(*domain.RentalRequest)
	return r, args.Error(1)
}

func (m *MockRentalService) GetRental(ctx context.Context, userID string, isAdmin bool, rentalID string) (*domain.RentalRequest, error) {
	args := m.Called(ctx, userID, isAdmin, rentalID)
	r, _ := args.Get(0).(*domain.RentalRequest)
	return r, args.Error(1)
}

func (m *MockRentalService) ListMyRentals(ctx context.Context, userID string, status domain.RentalStatus, page, pageSize int32) ([]domain.RentalRequest, int32, error) {
	args := m.Called(ctx, userID, status, page, pageSize)
	list, _ := args.Get(0).([]domain.RentalRequest)
	return list, args.Get(1).(int32), args.Error(2)
}

func (m *MockRentalService) ListRentals(ctx context.Context, filter domain.RentalFilter) ([]domain.RentalRequest, int32, error) {
	args := m.Called(ctx, filter)
	list, _ := args.Get(0).([]domain.RentalRequest)
	return list, args.Get(1).(int32), args.Error(2)
}

type MockAdminService struct{ mock.Mock }

func (m *MockAdminService) ApproveRental(ctx context.Context, adminID, rentalID string, deliveryAddress *string) (*domain.RentalRequest, error) {
	args := m.Called(ctx, adminID, rentalID, deliveryAddress)
	r, _ := args.Get(0).(*domain.RentalRequest)
	return r, args.Error(1)
}

func (m *MockAdminService) RejectRental(ctx context.Context, adminID, rentalID, reason string) (*domain.RentalRequest, error) {
	args := m.Called(ctx, adminID, rentalID, reason)
	r, _ := args.Get(0).(*domain.RentalRequest)
	return r, args.Error(1)
}

func (m *MockAdminService) ActivateRental(ctx context.Context, adminID, rentalID string) (*domain.RentalRequest, error) {
	args := m.Called(ctx, adminID, rentalID)
	r, _ := args.Get(0).(*domain.RentalRequest)
	return r, args.Error(1)
}

func (m *MockAdminService) CompleteRental(ctx context.Context, actorID, rentalID string) (*domain.RentalRequest, error) {
	args := m.Called(ctx, actorID, rentalID)
	r, _ := args.Get(0).(*domain.RentalRequest)
	return r, args.Error(1)
}

func (m *MockAdminService) CancelRental(ctx context.Context, actorID, rentalID, reason string) (*domain.RentalRequest, error) {
	args := m.Called(ctx, actorID, rentalID, reason)
	r, _ := args.Get(0).(*domain.RentalRequest)
	return r, args.Error(1)
}

func (m *MockAdminService) MarkInstallmentPaid(ctx context.Context, adminID, rentalID string, number int, paidAmount decimal.Decimal, paidAt time.Time) (*domain.Installment, error) {
	args := m.Called(ctx, adminID, rentalID, number, paidAmount, paidAt)
	i, _ := args.Get(0).(*domain.Installment)
	return i, args.Error(1)
}

func (m *MockAdminService) ChangeInstallmentPaymentMethod(ctx context.Context, adminID, rentalID string, number int, method domain.PaymentMethod) (*domain.Installment, error) {
	args := m.Called(ctx, adminID, rentalID, number, method)
	i, _ := args.Get(0).(*domain.Installment)
	return i, args.Error(1)
}

func (m *MockAdminService) SetApplianceStatus(ctx context.Context, adminID, applianceID string, status domain.ApplianceStatus) (*domain.Appliance, error) {
	args := m.Called(ctx, adminID, applianceID, status)
	a, _ := args.Get(0).(*domain.Appliance)
	return a, args.Error(1)
}

type MockNotificationService struct{ mock.Mock }

func (m *MockNotificationService) GetNotifications(ctx context.Context, userID string, page, pageSize int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	list, _ := args.Get(0).([]domain.Notification)
	return list, args.Get(1).(int32), args.Error(2)
}

func (m *MockNotificationService) MarkAsRead(ctx context.Context, userID, notificationID string) error {
	return m.Called(ctx, userID, notificationID).Error(0)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }
