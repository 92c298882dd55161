package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"appliance-rental-backend/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var gatewayNow = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

func newGateway(ms *mockSet) *adminService {
	svc := NewAdminService(ms.uow, ms.repos, ms.email).(*adminService)
	svc.now = func() time.Time { return gatewayNow }
	return svc
}

func testRental(status domain.RentalStatus) *domain.RentalRequest {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	rental := &domain.RentalRequest{
		ID:             "r1",
		ApplianceID:    "a1",
		UserID:         "u1",
		DurationMonths: 3,
		MonthlyAmount:  decimal.NewFromInt(100),
		TotalAmount:    decimal.NewFromInt(300),
		StartDate:      start,
		EndDate:        start.AddDate(0, 3, 0),
		Status:         status,
	}
	for n := 1; n <= 3; n++ {
		rental.Installments = append(rental.Installments, domain.Installment{
			RentalID:      "r1",
			Number:        n,
			DueDate:       start.AddDate(0, n-1, 0),
			Amount:        decimal.NewFromInt(100),
			Status:        domain.InstallmentStatusPending,
			PaymentMethod: domain.PaymentMethodCard,
		})
	}
	return rental
}

func testAppliance(status domain.ApplianceStatus) *domain.Appliance {
	return &domain.Appliance{
		ID:              "a1",
		Name:            "Fridge",
		MonthlyRate:     decimal.NewFromInt(100),
		MinRentalMonths: 1,
		Status:          status,
	}
}

func expectNotify(ms *mockSet) {
	ms.notifications.On("Create", mock.Anything, mock.AnythingOfType("*domain.Notification")).Return(nil)
	ms.users.On("GetByID", mock.Anything, "u1").Return(&domain.User{ID: "u1", Email: "renter@test.com", Name: "Renter"}, nil)
}

func TestAdminService_ApproveRental(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		ms := newMockSet()
		svc := newGateway(ms)
		rental := testRental(domain.RentalStatusPending)
		appliance := testAppliance(domain.ApplianceStatusAvailable)
		address := "1 Main St"

		ms.rentals.On("GetByID", mock.Anything, "r1").Return(rental, nil)
		ms.appliances.On("GetByID", mock.Anything, "a1").Return(appliance, nil)
		ms.rentals.On("ListByAppliance", mock.Anything, "a1").Return([]domain.RentalRequest{{ID: "r1", Status: domain.RentalStatusApproved}}, nil)
		ms.rentals.On("Update", mock.Anything, rental).Return(nil)
		ms.appliances.On("Update", mock.Anything, appliance).Return(nil)
		expectNotify(ms)
		ms.email.On("SendRentalApproved", mock.Anything, mock.Anything, appliance, rental).Return(nil)

		res, err := svc.ApproveRental(ctx, "admin-1", "r1", &address)
		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusApproved, res.Status)
		require.NotNil(t, res.ApprovedBy)
		assert.Equal(t, "admin-1", *res.ApprovedBy)
		assert.Equal(t, gatewayNow, *res.ApprovedAt)
		assert.Equal(t, "1 Main St", *res.DeliveryAddress)

		assert.Equal(t, domain.ApplianceStatusRented, appliance.Status)
		assert.Equal(t, 1, appliance.TotalRentals)
		assert.Equal(t, 3, appliance.TotalMonthsRented)
		assert.Equal(t, 1, ms.uow.commits)
		ms.email.AssertExpectations(t)
	})

	t.Run("Not Pending", func(t *testing.T) {
		ms := newMockSet()
		svc := newGateway(ms)
		rental := testRental(domain.RentalStatusApproved)
		appliance := testAppliance(domain.ApplianceStatusRented)

		ms.rentals.On("GetByID", mock.Anything, "r1").Return(rental, nil)
		ms.appliances.On("GetByID", mock.Anything, "a1").Return(appliance, nil)

		res, err := svc.ApproveRental(ctx, "admin-1", "r1", nil)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Nil(t, res)
		assert.Equal(t, domain.ApplianceStatusRented, appliance.Status)
		assert.Equal(t, 1, ms.uow.rollbacks)
		ms.rentals.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		ms.appliances.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		ms.notifications.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	for _, status := range []domain.ApplianceStatus{domain.ApplianceStatusMaintenance, domain.ApplianceStatusInactive} {
		t.Run("Appliance "+string(status), func(t *testing.T) {
			ms := newMockSet()
			svc := newGateway(ms)
			appliance := testAppliance(status)

			ms.rentals.On("GetByID", mock.Anything, "r1").Return(testRental(domain.RentalStatusPending), nil)
			ms.appliances.On("GetByID", mock.Anything, "a1").Return(appliance, nil)

			res, err := svc.ApproveRental(ctx, "admin-1", "r1", nil)
			assert.ErrorIs(t, err, domain.ErrApplianceUnavailable)
			assert.Nil(t, res)
			assert.Equal(t, status, appliance.Status)
			assert.Zero(t, appliance.TotalRentals)
			assert.Equal(t, 1, ms.uow.rollbacks)
			ms.rentals.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			ms.appliances.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			ms.notifications.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}

	t.Run("Appliance Held By Another Rental", func(t *testing.T) {
		ms := newMockSet()
		svc := newGateway(ms)
		rental := testRental(domain.RentalStatusPending)

		ms.rentals.On("GetByID", mock.Anything, "r1").Return(rental, nil)
		ms.appliances.On("GetByID", mock.Anything, "a1").Return(testAppliance(domain.ApplianceStatusRented), nil)
		ms.rentals.On("ListByAppliance", mock.Anything, "a1").Return([]domain.RentalRequest{
			{ID: "r1", Status: domain.RentalStatusPending},
			{ID: "r0", Status: domain.RentalStatusActive},
		}, nil)

		_, err := svc.ApproveRental(ctx, "admin-1", "r1", nil)
		assert.ErrorIs(t, err, domain.ErrApplianceUnavailable)
		ms.rentals.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestAdminService_RejectRental(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing Reason", func(t *testing.T) {
		ms := newMockSet()
		svc := newGateway(ms)
		rental := testRental(domain.RentalStatusPending)
		ms.rentals.On("GetByID", mock.Anything, "r1").Return(rental, nil)
		ms.appliances.On("GetByID", mock.Anything, "a1").Return(testAppliance(domain.ApplianceStatusAvailable), nil)

		_, err := svc.RejectRental(ctx, "admin-1", "r1", "   ")
		assert.ErrorIs(t, err, domain.ErrMissingReason)
		ms.rentals.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Success Leaves Appliance Available", func(t *testing.T) {
		ms := newMockSet()
		svc := newGateway(ms)
		rental := testRental(domain.RentalStatusPending)
		appliance := testAppliance(domain.ApplianceStatusAvailable)
		ms.rentals.On("GetByID", mock.Anything, "r1").Return(rental, nil)
		ms.appliances.On("GetByID", mock.Anything, "a1").Return(appliance, nil)
		ms.rentals.On("Update", mock.Anything, rental).Return(nil)
		ms.rentals.On("ListByAppliance", mock.Anything, "a1").Return([]domain.RentalRequest{{ID: "r1", Status: domain.RentalStatusRejected}}, nil)
		ms.appliances.On("Update", mock.Anything, appliance).Return(nil)
		expectNotify(ms)
		ms.email.On("SendRentalRejected", mock.Anything, mock.Anything, appliance, "out of stock").Return(nil)

		res, err := svc.RejectRental(ctx, "admin-1", "r1", " out of stock ")
		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusRejected, res.Status)
		assert.Equal(t, "out of stock", *res.RejectionReason)
		assert.Equal(t, domain.ApplianceStatusAvailable, appliance.Status)
	})
}

func TestAdminService_CancelRental_CascadesInstallments(t *testing.T) {
	ctx := context.Background()
	ms := newMockSet()
	svc := newGateway(ms)

	rental := testRental(domain.RentalStatusActive)
	paidAt := gatewayNow
	paid := decimal.NewFromInt(100)
	rental.Installments[0].Status = domain.InstallmentStatusPaid
	rental.Installments[0].PaidAt = &paidAt
	rental.Installments[0].PaidAmount = &paid
	appliance := testAppliance(domain.ApplianceStatusRented)

	ms.rentals.On("GetByID", mock.Anything, "r1").Return(rental, nil)
	ms.appliances.On("GetByID", mock.Anything, "a1").Return(appliance, nil)
	ms.rentals.On("Update", mock.Anything, rental).Return(nil)
	ms.rentals.On("UpdateInstallment", mock.Anything, mock.AnythingOfType("*domain.Installment")).Return(nil)
	ms.rentals.On("ListByAppliance", mock.Anything, "a1").Return([]domain.RentalRequest{{ID: "r1", Status: domain.RentalStatusCancelled}}, nil)
	ms.appliances.On("Update", mock.Anything, appliance).Return(nil)
	expectNotify(ms)
	ms.email.On("SendRentalCancelled", mock.Anything, mock.Anything, appliance, "moved away").Return(nil)

	res, err := svc.CancelRental(ctx, "admin-1", "r1", "moved away")
	require.NoError(t, err)
	assert.Equal(t, domain.RentalStatusCancelled, res.Status)
	assert.Equal(t, domain.InstallmentStatusPaid, res.Installments[0].Status)
	assert.Equal(t, domain.InstallmentStatusCancelled, res.Installments[1].Status)
	assert.Equal(t, domain.InstallmentStatusCancelled, res.Installments[2].Status)
	ms.rentals.AssertNumberOfCalls(t, "UpdateInstallment", 2)
	assert.Equal(t, domain.ApplianceStatusAvailable, appliance.Status)
}

func TestAdminService_CompleteRental_RequiresActive(t *testing.T) {
	ms := newMockSet()
	svc := newGateway(ms)
	ms.rentals.On("GetByID", mock.Anything, "r1").Return(testRental(domain.RentalStatusApproved), nil)
	ms.appliances.On("GetByID", mock.Anything, "a1").Return(testAppliance(domain.ApplianceStatusRented), nil)

	_, err := svc.CompleteRental(context.Background(), SystemActorID, "r1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestAdminService_MarkInstallmentPaid(t *testing.T) {
	ctx := context.Background()

	t.Run("Twice", func(t *testing.T) {
		ms := newMockSet()
		svc := newGateway(ms)
		rental := testRental(domain.RentalStatusApproved)
		appliance := testAppliance(domain.ApplianceStatusRented)
		ms.rentals.On("GetByID", mock.Anything, "r1").Return(rental, nil)
		ms.rentals.On("UpdateInstallment", mock.Anything, mock.AnythingOfType("*domain.Installment")).Return(nil)
		ms.appliances.On("GetByID", mock.Anything, "a1").Return(appliance, nil)
		expectNotify(ms)
		ms.email.On("SendPaymentReceipt", mock.Anything, mock.Anything, appliance, mock.AnythingOfType("*domain.Installment")).Return(nil)

		paidAt := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
		inst, err := svc.MarkInstallmentPaid(ctx, "admin-1", "r1", 1, decimal.NewFromInt(100), paidAt)
		require.NoError(t, err)
		assert.Equal(t, domain.InstallmentStatusPaid, inst.Status)
		assert.True(t, decimal.NewFromInt(100).Equal(*inst.PaidAmount))
		assert.Equal(t, paidAt, *inst.PaidAt)

		_, err = svc.MarkInstallmentPaid(ctx, "admin-1", "r1", 1, decimal.NewFromInt(100), paidAt)
		assert.ErrorIs(t, err, domain.ErrAlreadyPaid)
		ms.rentals.AssertNumberOfCalls(t, "UpdateInstallment", 1)
	})

	t.Run("Zero Amount", func(t *testing.T) {
		ms := newMockSet()
		svc := newGateway(ms)
		ms.rentals.On("GetByID", mock.Anything, "r1").Return(testRental(domain.RentalStatusActive), nil)

		_, err := svc.MarkInstallmentPaid(ctx, "admin-1", "r1", 2, decimal.Zero, gatewayNow)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})

	t.Run("Pending Rental", func(t *testing.T) {
		ms := newMockSet()
		svc := newGateway(ms)
		ms.rentals.On("GetByID", mock.Anything, "r1").Return(testRental(domain.RentalStatusPending), nil)

		_, err := svc.MarkInstallmentPaid(ctx, "admin-1", "r1", 1, decimal.NewFromInt(100), gatewayNow)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("Unknown Installment", func(t *testing.T) {
		ms := newMockSet()
		svc := newGateway(ms)
		ms.rentals.On("GetByID", mock.Anything, "r1").Return(testRental(domain.RentalStatusActive), nil)

		_, err := svc.MarkInstallmentPaid(ctx, "admin-1", "r1", 9, decimal.NewFromInt(100), gatewayNow)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Notification Failures Are Swallowed", func(t *testing.T) {
		ms := newMockSet()
		svc := newGateway(ms)
		ms.rentals.On("GetByID", mock.Anything, "r1").Return(testRental(domain.RentalStatusActive), nil)
		ms.rentals.On("UpdateInstallment", mock.Anything, mock.AnythingOfType("*domain.Installment")).Return(nil)
		ms.appliances.On("GetByID", mock.Anything, "a1").Return(testAppliance(domain.ApplianceStatusRented), nil)
		ms.notifications.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))
		ms.users.On("GetByID", mock.Anything, "u1").Return(nil, domain.ErrNotFound)

		inst, err := svc.MarkInstallmentPaid(ctx, "admin-1", "r1", 1, decimal.NewFromInt(100), gatewayNow)
		require.NoError(t, err)
		assert.Equal(t, domain.InstallmentStatusPaid, inst.Status)
		ms.email.AssertNotCalled(t, "SendPaymentReceipt", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAdminService_ChangeInstallmentPaymentMethod(t *testing.T) {
	ctx := context.Background()
	ms := newMockSet()
	svc := newGateway(ms)

	rental := testRental(domain.RentalStatusActive)
	paidAt := gatewayNow
	paid := decimal.NewFromInt(100)
	rental.Installments[0].Status = domain.InstallmentStatusPaid
	rental.Installments[0].PaidAt = &paidAt
	rental.Installments[0].PaidAmount = &paid

	ms.rentals.On("GetByID", mock.Anything, "r1").Return(rental, nil)
	ms.rentals.On("UpdateInstallment", mock.Anything, mock.AnythingOfType("*domain.Installment")).Return(nil)
	ms.appliances.On("GetByID", mock.Anything, "a1").Return(testAppliance(domain.ApplianceStatusRented), nil)
	ms.notifications.On("Create", mock.Anything, mock.AnythingOfType("*domain.Notification")).Return(nil)

	_, err := svc.ChangeInstallmentPaymentMethod(ctx, "admin-1", "r1", 1, domain.PaymentMethodCash)
	assert.ErrorIs(t, err, domain.ErrAlreadyPaid)
	assert.Equal(t, domain.PaymentMethodCard, rental.Installments[0].PaymentMethod)

	inst, err := svc.ChangeInstallmentPaymentMethod(ctx, "admin-1", "r1", 2, domain.PaymentMethodCash)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentMethodCash, inst.PaymentMethod)
	assert.Equal(t, domain.InstallmentStatusPending, inst.Status)
	assert.Nil(t, inst.PaidAt)

	_, err = svc.ChangeInstallmentPaymentMethod(ctx, "admin-1", "r1", 3, domain.PaymentMethod("cheque"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	ms.rentals.AssertNumberOfCalls(t, "UpdateInstallment", 1)
}

func TestAdminService_SetApplianceStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Maintenance", func(t *testing.T) {
		ms := newMockSet()
		svc := newGateway(ms)
		appliance := testAppliance(domain.ApplianceStatusAvailable)
		ms.appliances.On("GetByID", mock.Anything, "a1").Return(appliance, nil)
		ms.rentals.On("ListByAppliance", mock.Anything, "a1").Return([]domain.RentalRequest{{ID: "r1", Status: domain.RentalStatusCompleted}}, nil)
		ms.appliances.On("Update", mock.Anything, appliance).Return(nil)

		res, err := svc.SetApplianceStatus(ctx, "admin-1", "a1", domain.ApplianceStatusMaintenance)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplianceStatusMaintenance, res.Status)
		require.NotNil(t, res.LastMaintenanceAt)
		assert.Equal(t, gatewayNow, *res.LastMaintenanceAt)
	})

	t.Run("Held By Rental", func(t *testing.T) {
		ms := newMockSet()
		svc := newGateway(ms)
		ms.appliances.On("GetByID", mock.Anything, "a1").Return(testAppliance(domain.ApplianceStatusRented), nil)
		ms.rentals.On("ListByAppliance", mock.Anything, "a1").Return([]domain.RentalRequest{{ID: "r1", Status: domain.RentalStatusActive}}, nil)

		_, err := svc.SetApplianceStatus(ctx, "admin-1", "a1", domain.ApplianceStatusInactive)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		ms.appliances.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Rented Is Not Settable", func(t *testing.T) {
		ms := newMockSet()
		svc := newGateway(ms)
		_, err := svc.SetApplianceStatus(ctx, "admin-1", "a1", domain.ApplianceStatusRented)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}
