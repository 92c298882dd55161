package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type InstallmentStatus string

const (
	InstallmentStatusPending   InstallmentStatus = "pending"
	InstallmentStatusPaid      InstallmentStatus = "paid"
	InstallmentStatusOverdue   InstallmentStatus = "overdue"
	InstallmentStatusCancelled InstallmentStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodCash PaymentMethod = "cash"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCard || m == PaymentMethodCash
}

type Installment struct {
	RentalID      string            `json:"rentalId"`
	Number        int               `json:"installmentNumber"`
	DueDate       time.Time         `json:"dueDate"`
	Amount        decimal.Decimal   `json:"amount"`
	Status        InstallmentStatus `json:"status"`
	PaymentMethod PaymentMethod     `json:"paymentMethod"`
	PaidAt        *time.Time        `json:"paidAt,omitempty"`
	PaidAmount    *decimal.Decimal  `json:"paidAmount,omitempty"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// RefreshOverdue applies the derived overdue rule as of the given instant.
// A pending installment whose due date lies before asOf's calendar day becomes
// overdue; an overdue one whose due date no longer does falls back to pending.
// It reports whether the status changed.
func (i *Installment) RefreshOverdue(asOf time.Time) bool {
	late := DateOf(i.DueDate).Before(DateOf(asOf))
	switch {
	case i.Status == InstallmentStatusPending && late:
		i.Status = InstallmentStatusOverdue
		return true
	case i.Status == InstallmentStatusOverdue && !late:
		i.Status = InstallmentStatusPending
		return true
	}
	return false
}

func (i *Installment) ChangePaymentMethod(method PaymentMethod) error {
	if !method.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, method)
	}
	switch i.Status {
	case InstallmentStatusPaid:
		return fmt.Errorf("%w: installment %d", ErrAlreadyPaid, i.Number)
	case InstallmentStatusCancelled:
		return fmt.Errorf("%w: installment %d is cancelled", ErrInvalidTransition, i.Number)
	}
	i.PaymentMethod = method
	return nil
}

// MarkPaid records a settlement. The amount is stored as entered and may differ
// from the scheduled Amount.
func (i *Installment) MarkPaid(amount decimal.Decimal, at time.Time) error {
	if i.Status == InstallmentStatusPaid {
		return fmt.Errorf("%w: installment %d", ErrAlreadyPaid, i.Number)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: paid amount must be positive, got %s", ErrInvalidAmount, amount)
	}
	if i.Status == InstallmentStatusCancelled {
		return fmt.Errorf("%w: installment %d is cancelled", ErrInvalidTransition, i.Number)
	}
	i.Status = InstallmentStatusPaid
	i.PaidAmount = &amount
	i.PaidAt = &at
	return nil
}

// Cancel moves any unpaid installment to cancelled and reports whether it did.
func (i *Installment) Cancel() bool {
	if i.Status == InstallmentStatusPaid || i.Status == InstallmentStatusCancelled {
		return false
	}
	i.Status = InstallmentStatusCancelled
	return true
}
