package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type RentalStatus string

const (
	RentalStatusPending   RentalStatus = "pending"
	RentalStatusApproved  RentalStatus = "approved"
	RentalStatusRejected  RentalStatus = "rejected"
	RentalStatusActive    RentalStatus = "active"
	RentalStatusCompleted RentalStatus = "completed"
	RentalStatusCancelled RentalStatus = "cancelled"
)

var rentalTransitions = map[RentalStatus][]RentalStatus{
	RentalStatusPending:  {RentalStatusApproved, RentalStatusRejected},
	RentalStatusApproved: {RentalStatusActive},
	RentalStatusActive:   {RentalStatusCompleted, RentalStatusCancelled},
}

func (s RentalStatus) Valid() bool {
	switch s {
	case RentalStatusPending, RentalStatusApproved, RentalStatusRejected,
		RentalStatusActive, RentalStatusCompleted, RentalStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s RentalStatus) CanTransitionTo(next RentalStatus) bool {
	for _, allowed := range rentalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// HoldsAppliance is true for the states that keep the appliance out of circulation.
func (s RentalStatus) HoldsAppliance() bool {
	return s == RentalStatusApproved || s == RentalStatusActive
}

type RentalRequest struct {
	ID                 string          `json:"id"`
	ApplianceID        string          `json:"applianceId"`
	UserID             string          `json:"userId"`
	DurationMonths     int             `json:"durationMonths"`
	MonthlyAmount      decimal.Decimal `json:"monthlyAmount"`
	Deposit            decimal.Decimal `json:"deposit"`
	TotalAmount        decimal.Decimal `json:"totalAmount"`
	StartDate          time.Time       `json:"startDate"`
	EndDate            time.Time       `json:"endDate"`
	DeliveryAddress    *string         `json:"deliveryAddress,omitempty"`
	Status             RentalStatus    `json:"status"`
	RejectionReason    *string         `json:"rejectionReason,omitempty"`
	CancellationReason *string         `json:"cancellationReason,omitempty"`
	ApprovedBy         *string         `json:"approvedBy,omitempty"`
	ApprovedAt         *time.Time      `json:"approvedAt,omitempty"`
	ActivatedAt        *time.Time      `json:"activatedAt,omitempty"`
	CompletedAt        *time.Time      `json:"completedAt,omitempty"`
	CancelledAt        *time.Time      `json:"cancelledAt,omitempty"`
	Installments       []Installment   `json:"installments"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

func (r *RentalRequest) transition(next RentalStatus) error {
	if !r.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: rental %s is %s, cannot become %s", ErrInvalidTransition, r.ID, r.Status, next)
	}
	r.Status = next
	return nil
}

func (r *RentalRequest) Approve(adminID string, deliveryAddress *string, at time.Time) error {
	if err := r.transition(RentalStatusApproved); err != nil {
		return err
	}
	r.ApprovedBy = &adminID
	r.ApprovedAt = &at
	if deliveryAddress != nil && strings.TrimSpace(*deliveryAddress) != "" {
		r.DeliveryAddress = deliveryAddress
	}
	return nil
}

// Reject reports a blank reason before looking at the current state.
func (r *RentalRequest) Reject(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return fmt.Errorf("%w: rejection of rental %s", ErrMissingReason, r.ID)
	}
	if err := r.transition(RentalStatusRejected); err != nil {
		return err
	}
	r.RejectionReason = &reason
	return nil
}

func (r *RentalRequest) Activate(at time.Time) error {
	if err := r.transition(RentalStatusActive); err != nil {
		return err
	}
	r.ActivatedAt = &at
	return nil
}

func (r *RentalRequest) Complete(at time.Time) error {
	if err := r.transition(RentalStatusCompleted); err != nil {
		return err
	}
	r.CompletedAt = &at
	return nil
}

// Cancel ends an active rental early and cancels every installment not yet paid.
// It returns the numbers of the installments it cancelled.
func (r *RentalRequest) Cancel(reason string, at time.Time) ([]int, error) {
	if err := r.transition(RentalStatusCancelled); err != nil {
		return nil, err
	}
	r.CancelledAt = &at
	if reason = strings.TrimSpace(reason); reason != "" {
		r.CancellationReason = &reason
	}
	var cancelled []int
	for i := range r.Installments {
		if r.Installments[i].Cancel() {
			r.Installments[i].UpdatedAt = at
			cancelled = append(cancelled, r.Installments[i].Number)
		}
	}
	return cancelled, nil
}

// Installment returns a pointer into r.Installments for the given 1-based number.
func (r *RentalRequest) Installment(number int) (*Installment, error) {
	for i := range r.Installments {
		if r.Installments[i].Number == number {
			return &r.Installments[i], nil
		}
	}
	return nil, fmt.Errorf("%w: installment %d of rental %s", ErrNotFound, number, r.ID)
}

// RefreshOverdue applies the overdue rule to every installment and returns the
// numbers whose status changed. Rentals that do not accept payments have no
// arrears, so their installments are left untouched.
func (r *RentalRequest) RefreshOverdue(asOf time.Time) []int {
	if !r.AcceptsPayments() {
		return nil
	}
	var changed []int
	for i := range r.Installments {
		if r.Installments[i].RefreshOverdue(asOf) {
			changed = append(changed, r.Installments[i].Number)
		}
	}
	return changed
}

// AcceptsPayments is true once the rental has been approved and until it is closed
// by cancellation; completed rentals may still settle arrears.
func (r *RentalRequest) AcceptsPayments() bool {
	switch r.Status {
	case RentalStatusApproved, RentalStatusActive, RentalStatusCompleted:
		return true
	}
	return false
}

type RentalFilter struct {
	Status      RentalStatus
	ApplianceID string
	UserID      string
	Page        int32
	PageSize    int32
}
