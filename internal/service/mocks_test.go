package service

import (
	"context"
	"time"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockApplianceRepo
type MockApplianceRepo struct {
	mock.Mock
}

func (m *MockApplianceRepo) Create(ctx context.Context, appliance *domain.Appliance) error {
	args := m.Called(ctx, appliance)
	return args.Error(0)
}
func (m *MockApplianceRepo) GetByID(ctx context.Context, id string) (*domain.Appliance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Appliance), args.Error(1)
}
func (m *MockApplianceRepo) Update(ctx context.Context, appliance *domain.Appliance) error {
	args := m.Called(ctx, appliance)
	return args.Error(0)
}
func (m *MockApplianceRepo) UpdateTerms(ctx context.Context, appliance *domain.Appliance) error {
	return m.Called(ctx, appliance).Error(0)
}

func (m *MockApplianceRepo) List(ctx context.Context, filter domain.ApplianceFilter) ([]domain.Appliance, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Appliance), args.Get(1).(int32), args.Error(2)
}

// MockRentalRepo
type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) Create(ctx context.Context, rental *domain.RentalRequest) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}
func (m *MockRentalRepo) GetByID(ctx context.Context, id string) (*domain.RentalRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalRequest), args.Error(1)
}
func (m *MockRentalRepo) Update(ctx context.Context, rental *domain.RentalRequest) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}
func (m *MockRentalRepo) UpdateInstallment(ctx context.Context, installment *domain.Installment) error {
	args := m.Called(ctx, installment)
	return args.Error(0)
}
func (m *MockRentalRepo) ListByAppliance(ctx context.Context, applianceID string) ([]domain.RentalRequest, error) {
	args := m.Called(ctx, applianceID)
	return args.Get(0).([]domain.RentalRequest), args.Error(1)
}
func (m *MockRentalRepo) List(ctx context.Context, filter domain.RentalFilter) ([]domain.RentalRequest, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.RentalRequest), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalRepo) ListPendingInstallmentsDueBefore(ctx context.Context, before time.Time) ([]domain.Installment, error) {
	args := m.Called(ctx, before)
	return args.Get(0).([]domain.Installment), args.Error(1)
}
func (m *MockRentalRepo) ListPendingInstallmentsDueBetween(ctx context.Context, from, to time.Time) ([]domain.Installment, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]domain.Installment), args.Error(1)
}
func (m *MockRentalRepo) ListActiveEndedBy(ctx context.Context, asOf time.Time) ([]domain.RentalRequest, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]domain.RentalRequest), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID string, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendRentalSubmitted(ctx context.Context, user *domain.User, appliance *domain.Appliance, rental *domain.RentalRequest) error {
	return m.Called(ctx, user, appliance, rental).Error(0)
}
func (m *MockEmailService) SendRentalApproved(ctx context.Context, user *domain.User, appliance *domain.Appliance, rental *domain.RentalRequest) error {
	return m.Called(ctx, user, appliance, rental).Error(0)
}
func (m *MockEmailService) SendRentalRejected(ctx context.Context, user *domain.User, appliance *domain.Appliance, reason string) error {
	return m.Called(ctx, user, appliance, reason).Error(0)
}
func (m *MockEmailService) SendRentalActivated(ctx context.Context, user *domain.User, appliance *domain.Appliance, rental *domain.RentalRequest) error {
	return m.Called(ctx, user, appliance, rental).Error(0)
}
func (m *MockEmailService) SendRentalCompleted(ctx context.Context, user *domain.User, appliance *domain.Appliance) error {
	return m.Called(ctx, user, appliance).Error(0)
}
func (m *MockEmailService) SendRentalCancelled(ctx context.Context, user *domain.User, appliance *domain.Appliance, reason string) error {
	return m.Called(ctx, user, appliance, reason).Error(0)
}
func (m *MockEmailService) SendPaymentReceipt(ctx context.Context, user *domain.User, appliance *domain.Appliance, installment *domain.Installment) error {
	return m.Called(ctx, user, appliance, installment).Error(0)
}
func (m *MockEmailService) SendInstallmentReminder(ctx context.Context, user *domain.User, appliance *domain.Appliance, installment *domain.Installment) error {
	return m.Called(ctx, user, appliance, installment).Error(0)
}

// fakeUnitOfWork hands the same mock repositories to fn and records whether
// the work would have committed.
type fakeUnitOfWork struct {
	repos     *repository.Repositories
	commits   int
	rollbacks int
}

func (u *fakeUnitOfWork) Do(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	if err := fn(u.repos); err != nil {
		u.rollbacks++
		return err
	}
	u.commits++
	return nil
}

type mockSet struct {
	users         *MockUserRepo
	appliances    *MockApplianceRepo
	rentals       *MockRentalRepo
	notifications *MockNotificationRepo
	email         *MockEmailService
	repos         *repository.Repositories
	uow           *fakeUnitOfWork
}

func newMockSet() *mockSet {
	ms := &mockSet{
		users:         new(MockUserRepo),
		appliances:    new(MockApplianceRepo),
		rentals:       new(MockRentalRepo),
		notifications: new(MockNotificationRepo),
		email:         new(MockEmailService),
	}
	ms.repos = &repository.Repositories{
		Users:         ms.users,
		Appliances:    ms.appliances,
		Rentals:       ms.rentals,
		Notifications: ms.notifications,
	}
	ms.uow = &fakeUnitOfWork{repos: ms.repos}
	return ms
}

// recordingMailer captures messages instead of delivering them.
type recordingMailer struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	to, toName, subject, body string
}

func (m *recordingMailer) Send(ctx context.Context, toEmail, toName, subject, body string) error {
	m.sent = append(m.sent, sentMail{to: toEmail, toName: toName, subject: subject, body: body})
	return m.err
}
