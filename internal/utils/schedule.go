package utils

import (
	"fmt"
	"time"

	"appliance-rental-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// RentalQuote is the priced outcome of renting an appliance for a number of months.
type RentalQuote struct {
	DurationMonths int
	MonthlyAmount  decimal.Decimal
	Deposit        decimal.Decimal
	TotalAmount    decimal.Decimal
	StartDate      time.Time
	EndDate        time.Time
	Installments   []domain.Installment
}

// ParseDate converts a yyyy-mm-dd string into a UTC midnight time
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected yyyy-mm-dd", domain.ErrInvalidInput, dateStr)
	}
	return t, nil
}

// DaysInMonth returns the number of days in a given month
func DaysInMonth(year int, month time.Month) int {
	if month == time.February {
		if (year%4 == 0 && year%100 != 0) || (year%400 == 0) {
			return 29
		}
		return 28
	}

	if month == time.April || month == time.June || month == time.September || month == time.November {
		return 30
	}

	return 31
}

// AddMonthsClamped moves anchor forward by months calendar months. The anchor's
// day-of-month is kept when the target month has it and clamped to the month's
// last day otherwise, so Jan 31 + 1 is Feb 29 (leap) and Jan 31 + 2 is Mar 31.
func AddMonthsClamped(anchor time.Time, months int) time.Time {
	anchor = domain.DateOf(anchor)
	total := int(anchor.Month()) - 1 + months
	year := anchor.Year() + total/12
	month := time.Month(total%12 + 1)
	if total < 0 && total%12 != 0 {
		year--
		month = time.Month(total%12 + 13)
	}

	d := anchor.Day()
	if last := DaysInMonth(year, month); d > last {
		d = last
	}
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// BuildSchedule lays out durationMonths uniform installments, the n-th due
// (n-1) calendar months after startDate. All installments start pending and
// are paid by card unless changed later.
func BuildSchedule(startDate time.Time, durationMonths int, monthlyAmount decimal.Decimal) ([]domain.Installment, error) {
	if durationMonths <= 0 {
		return nil, fmt.Errorf("%w: duration must be at least one month, got %d", domain.ErrDurationOutOfRange, durationMonths)
	}
	if !monthlyAmount.IsPositive() {
		return nil, fmt.Errorf("%w: monthly amount must be positive, got %s", domain.ErrInvalidAmount, monthlyAmount)
	}

	installments := make([]domain.Installment, 0, durationMonths)
	for n := 1; n <= durationMonths; n++ {
		installments = append(installments, domain.Installment{
			Number:        n,
			DueDate:       AddMonthsClamped(startDate, n-1),
			Amount:        monthlyAmount,
			Status:        domain.InstallmentStatusPending,
			PaymentMethod: domain.PaymentMethodCard,
		})
	}
	return installments, nil
}

// ScheduleTotal sums the scheduled amounts of the given installments
func ScheduleTotal(installments []domain.Installment) decimal.Decimal {
	total := decimal.Zero
	for _, inst := range installments {
		total = total.Add(inst.Amount)
	}
	return total
}

// SelectMonthlyRate picks the rate tier for the requested duration: the yearly
// tier from 12 months, the six-month tier from 6, the monthly tier below that.
// An unset (zero) tier falls back to the next shorter one.
func SelectMonthlyRate(appliance *domain.Appliance, months int) decimal.Decimal {
	if months >= 12 && appliance.YearlyRate.IsPositive() {
		return appliance.YearlyRate
	}
	if months >= 6 && appliance.SixMonthRate.IsPositive() {
		return appliance.SixMonthRate
	}
	return appliance.MonthlyRate
}

// ValidateDuration checks months against the appliance's rental bounds
func ValidateDuration(appliance *domain.Appliance, months int) error {
	if !appliance.AcceptsDuration(months) {
		if appliance.MaxRentalMonths > 0 {
			return fmt.Errorf("%w: %d months requested, appliance %s allows %d to %d",
				domain.ErrDurationOutOfRange, months, appliance.ID, appliance.MinRentalMonths, appliance.MaxRentalMonths)
		}
		return fmt.Errorf("%w: %d months requested, appliance %s requires at least %d",
			domain.ErrDurationOutOfRange, months, appliance.ID, appliance.MinRentalMonths)
	}
	return nil
}

// QuoteRental prices a rental and builds its schedule without touching any state.
// The deposit is billed separately, so TotalAmount is the schedule sum plus deposit.
func QuoteRental(appliance *domain.Appliance, months int, startDate time.Time) (*RentalQuote, error) {
	if err := ValidateDuration(appliance, months); err != nil {
		return nil, err
	}

	start := domain.DateOf(startDate)
	monthly := SelectMonthlyRate(appliance, months)
	installments, err := BuildSchedule(start, months, monthly)
	if err != nil {
		return nil, err
	}

	return &RentalQuote{
		DurationMonths: months,
		MonthlyAmount:  monthly,
		Deposit:        appliance.Deposit,
		TotalAmount:    ScheduleTotal(installments).Add(appliance.Deposit),
		StartDate:      start,
		EndDate:        AddMonthsClamped(start, months),
		Installments:   installments,
	}, nil
}
