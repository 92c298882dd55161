package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRental(status RentalStatus, months int) *RentalRequest {
	r := &RentalRequest{
		ID:             "r-1",
		ApplianceID:    "a-1",
		UserID:         "u-1",
		DurationMonths: months,
		MonthlyAmount:  decimal.NewFromInt(100),
		Status:         status,
	}
	for n := 1; n <= months; n++ {
		r.Installments = append(r.Installments, Installment{
			RentalID:      r.ID,
			Number:        n,
			DueDate:       day("2024-01-15").AddDate(0, n-1, 0),
			Amount:        decimal.NewFromInt(100),
			Status:        InstallmentStatusPending,
			PaymentMethod: PaymentMethodCard,
		})
	}
	return r
}

func TestRentalStatus_CanTransitionTo(t *testing.T) {
	all := []RentalStatus{
		RentalStatusPending, RentalStatusApproved, RentalStatusRejected,
		RentalStatusActive, RentalStatusCompleted, RentalStatusCancelled,
	}
	allowed := map[[2]RentalStatus]bool{
		{RentalStatusPending, RentalStatusApproved}: true,
		{RentalStatusPending, RentalStatusRejected}: true,
		{RentalStatusApproved, RentalStatusActive}:  true,
		{RentalStatusActive, RentalStatusCompleted}: true,
		{RentalStatusActive, RentalStatusCancelled}: true,
	}
	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]RentalStatus{from, to}], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestRentalRequest_Approve(t *testing.T) {
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		r := newRental(RentalStatusPending, 6)
		addr := "12 Elm Street"
		require.NoError(t, r.Approve("admin-1", &addr, now))

		assert.Equal(t, RentalStatusApproved, r.Status)
		assert.Equal(t, "admin-1", *r.ApprovedBy)
		assert.Equal(t, now, *r.ApprovedAt)
		assert.Equal(t, "12 Elm Street", *r.DeliveryAddress)
	})

	t.Run("BlankAddressKeepsExisting", func(t *testing.T) {
		r := newRental(RentalStatusPending, 3)
		orig := "1 Main St"
		r.DeliveryAddress = &orig
		blank := "  "
		require.NoError(t, r.Approve("admin-1", &blank, now))
		assert.Equal(t, "1 Main St", *r.DeliveryAddress)
	})

	t.Run("NotPending", func(t *testing.T) {
		r := newRental(RentalStatusApproved, 3)
		err := r.Approve("admin-2", nil, now)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, RentalStatusApproved, r.Status)
		assert.Nil(t, r.ApprovedBy)
	})
}

func TestRentalRequest_Reject(t *testing.T) {
	t.Run("MissingReason", func(t *testing.T) {
		r := newRental(RentalStatusPending, 3)
		assert.ErrorIs(t, r.Reject("   "), ErrMissingReason)
		assert.Equal(t, RentalStatusPending, r.Status)
		assert.Nil(t, r.RejectionReason)
	})

	t.Run("MissingReasonWinsOverState", func(t *testing.T) {
		r := newRental(RentalStatusActive, 3)
		assert.ErrorIs(t, r.Reject(""), ErrMissingReason)
	})

	t.Run("Success", func(t *testing.T) {
		r := newRental(RentalStatusPending, 3)
		require.NoError(t, r.Reject(" not in delivery area "))
		assert.Equal(t, RentalStatusRejected, r.Status)
		assert.Equal(t, "not in delivery area", *r.RejectionReason)
	})

	t.Run("NotPending", func(t *testing.T) {
		r := newRental(RentalStatusRejected, 3)
		assert.ErrorIs(t, r.Reject("again"), ErrInvalidTransition)
	})
}

func TestRentalRequest_Lifecycle(t *testing.T) {
	now := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	r := newRental(RentalStatusPending, 3)
	assert.ErrorIs(t, r.Activate(now), ErrInvalidTransition)
	require.NoError(t, r.Approve("admin", nil, now))
	assert.ErrorIs(t, r.Complete(now), ErrInvalidTransition)
	require.NoError(t, r.Activate(now))
	assert.Equal(t, now, *r.ActivatedAt)
	require.NoError(t, r.Complete(now))
	assert.Equal(t, RentalStatusCompleted, r.Status)
	assert.Equal(t, now, *r.CompletedAt)

	_, err := r.Cancel("late", now)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRentalRequest_Cancel(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	r := newRental(RentalStatusActive, 4)
	require.NoError(t, r.Installments[0].MarkPaid(decimal.NewFromInt(100), now))
	r.Installments[1].Status = InstallmentStatusOverdue

	cancelled, err := r.Cancel("customer moved", now)
	require.NoError(t, err)

	assert.Equal(t, []int{2, 3, 4}, cancelled)
	assert.Equal(t, RentalStatusCancelled, r.Status)
	assert.Equal(t, "customer moved", *r.CancellationReason)
	assert.Equal(t, InstallmentStatusPaid, r.Installments[0].Status)
	for _, inst := range r.Installments[1:] {
		assert.Equal(t, InstallmentStatusCancelled, inst.Status)
	}
}

func TestRentalRequest_Installment(t *testing.T) {
	r := newRental(RentalStatusPending, 2)
	inst, err := r.Installment(2)
	require.NoError(t, err)
	inst.PaymentMethod = PaymentMethodCash
	assert.Equal(t, PaymentMethodCash, r.Installments[1].PaymentMethod)

	_, err = r.Installment(3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRentalRequest_AcceptsPayments(t *testing.T) {
	assert.False(t, newRental(RentalStatusPending, 1).AcceptsPayments())
	assert.True(t, newRental(RentalStatusApproved, 1).AcceptsPayments())
	assert.True(t, newRental(RentalStatusActive, 1).AcceptsPayments())
	assert.True(t, newRental(RentalStatusCompleted, 1).AcceptsPayments())
	assert.False(t, newRental(RentalStatusCancelled, 1).AcceptsPayments())
	assert.False(t, newRental(RentalStatusRejected, 1).AcceptsPayments())
}

func TestRentalRequest_RefreshOverdue(t *testing.T) {
	asOf := day("2024-03-01")

	t.Run("Payment Accepting Rental", func(t *testing.T) {
		r := newRental(RentalStatusActive, 3)
		assert.Equal(t, []int{1, 2}, r.RefreshOverdue(asOf))
		assert.Equal(t, InstallmentStatusOverdue, r.Installments[0].Status)
		assert.Equal(t, InstallmentStatusPending, r.Installments[2].Status)
	})

	for _, status := range []RentalStatus{RentalStatusPending, RentalStatusRejected, RentalStatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			r := newRental(status, 3)
			assert.Empty(t, r.RefreshOverdue(asOf))
			for _, inst := range r.Installments {
				assert.Equal(t, InstallmentStatusPending, inst.Status)
			}
		})
	}
}
