package utils

import (
	"fmt"
	"testing"
	"time"

	"appliance-rental-backend/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestParseDate(t *testing.T) {
	t.Run("Valid date", func(t *testing.T) {
		d, err := ParseDate("2024-01-15")
		assert.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), d)
	})

	t.Run("Invalid format", func(t *testing.T) {
		_, err := ParseDate("2024/01/15")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("Day out of range", func(t *testing.T) {
		_, err := ParseDate("2023-02-29")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year     int
		month    time.Month
		expected int
	}{
		{2024, time.January, 31},
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2024, time.April, 30},
		{2024, time.September, 30},
		{2024, time.December, 31},
		{2000, time.February, 29},
		{1900, time.February, 28},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d-%02d", tt.year, tt.month), func(t *testing.T) {
			assert.Equal(t, tt.expected, DaysInMonth(tt.year, tt.month))
		})
	}
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		start    string
		months   int
		expected string
	}{
		{"2024-01-15", 0, "2024-01-15"},
		{"2024-01-15", 5, "2024-06-15"},
		{"2024-01-31", 1, "2024-02-29"},
		{"2023-01-31", 1, "2023-02-28"},
		{"2024-01-31", 2, "2024-03-31"},
		{"2024-01-31", 3, "2024-04-30"},
		{"2024-08-31", 6, "2025-02-28"},
		{"2024-11-30", 3, "2025-02-28"},
		{"2024-12-15", 1, "2025-01-15"},
		{"2024-05-31", 24, "2026-05-31"},
		{"2024-03-31", -1, "2024-02-29"},
		{"2024-01-10", -13, "2022-12-10"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s+%d", tt.start, tt.months), func(t *testing.T) {
			got := AddMonthsClamped(mustDate(t, tt.start), tt.months)
			assert.Equal(t, tt.expected, got.Format(domain.DateLayout))
		})
	}

	t.Run("Drops clock time", func(t *testing.T) {
		got := AddMonthsClamped(time.Date(2024, 1, 15, 18, 30, 0, 0, time.UTC), 1)
		assert.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), got)
	})
}

func TestBuildSchedule(t *testing.T) {
	t.Run("Count numbering and sum", func(t *testing.T) {
		for _, months := range []int{1, 3, 6, 12, 36} {
			monthly := decimal.RequireFromString("149.99")
			installments, err := BuildSchedule(mustDate(t, "2024-01-15"), months, monthly)
			require.NoError(t, err)
			require.Len(t, installments, months)

			for i, inst := range installments {
				assert.Equal(t, i+1, inst.Number)
				assert.True(t, inst.Amount.Equal(monthly))
				assert.Equal(t, domain.InstallmentStatusPending, inst.Status)
				assert.Equal(t, domain.PaymentMethodCard, inst.PaymentMethod)
				assert.Nil(t, inst.PaidAt)
				assert.Nil(t, inst.PaidAmount)
			}
			assert.True(t, ScheduleTotal(installments).Equal(monthly.Mul(decimal.NewFromInt(int64(months)))))
		}
	})

	t.Run("Six months from mid January", func(t *testing.T) {
		installments, err := BuildSchedule(mustDate(t, "2024-01-15"), 6, decimal.NewFromInt(100))
		require.NoError(t, err)

		var due []string
		for _, inst := range installments {
			due = append(due, inst.DueDate.Format(domain.DateLayout))
		}
		assert.Equal(t, []string{
			"2024-01-15", "2024-02-15", "2024-03-15",
			"2024-04-15", "2024-05-15", "2024-06-15",
		}, due)
	})

	t.Run("Month end clamps but keeps anchor", func(t *testing.T) {
		installments, err := BuildSchedule(mustDate(t, "2024-01-31"), 4, decimal.NewFromInt(50))
		require.NoError(t, err)

		var due []string
		for _, inst := range installments {
			due = append(due, inst.DueDate.Format(domain.DateLayout))
		}
		assert.Equal(t, []string{"2024-01-31", "2024-02-29", "2024-03-31", "2024-04-30"}, due)
	})

	t.Run("Non-positive duration", func(t *testing.T) {
		_, err := BuildSchedule(mustDate(t, "2024-01-15"), 0, decimal.NewFromInt(100))
		assert.ErrorIs(t, err, domain.ErrDurationOutOfRange)
	})

	t.Run("Non-positive amount", func(t *testing.T) {
		_, err := BuildSchedule(mustDate(t, "2024-01-15"), 3, decimal.Zero)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})
}

func TestSelectMonthlyRate(t *testing.T) {
	a := &domain.Appliance{
		MonthlyRate:  decimal.NewFromInt(120),
		SixMonthRate: decimal.NewFromInt(100),
		YearlyRate:   decimal.NewFromInt(90),
	}
	assert.True(t, SelectMonthlyRate(a, 1).Equal(decimal.NewFromInt(120)))
	assert.True(t, SelectMonthlyRate(a, 5).Equal(decimal.NewFromInt(120)))
	assert.True(t, SelectMonthlyRate(a, 6).Equal(decimal.NewFromInt(100)))
	assert.True(t, SelectMonthlyRate(a, 11).Equal(decimal.NewFromInt(100)))
	assert.True(t, SelectMonthlyRate(a, 12).Equal(decimal.NewFromInt(90)))

	t.Run("Unset tiers fall back", func(t *testing.T) {
		flat := &domain.Appliance{MonthlyRate: decimal.NewFromInt(100)}
		assert.True(t, SelectMonthlyRate(flat, 24).Equal(decimal.NewFromInt(100)))

		noYearly := &domain.Appliance{MonthlyRate: decimal.NewFromInt(100), SixMonthRate: decimal.NewFromInt(80)}
		assert.True(t, SelectMonthlyRate(noYearly, 12).Equal(decimal.NewFromInt(80)))
	})
}

func TestQuoteRental(t *testing.T) {
	a := &domain.Appliance{
		ID:              "a-1",
		MonthlyRate:     decimal.NewFromInt(100),
		Deposit:         decimal.NewFromInt(250),
		MinRentalMonths: 3,
		MaxRentalMonths: 24,
	}

	t.Run("Success", func(t *testing.T) {
		q, err := QuoteRental(a, 6, time.Date(2024, 1, 15, 13, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		assert.True(t, q.MonthlyAmount.Equal(decimal.NewFromInt(100)))
		assert.True(t, q.TotalAmount.Equal(decimal.NewFromInt(850)))
		assert.True(t, q.TotalAmount.Sub(q.Deposit).Equal(ScheduleTotal(q.Installments)))
		assert.Equal(t, "2024-01-15", q.StartDate.Format(domain.DateLayout))
		assert.Equal(t, "2024-07-15", q.EndDate.Format(domain.DateLayout))
		assert.Len(t, q.Installments, 6)
	})

	t.Run("Below minimum", func(t *testing.T) {
		_, err := QuoteRental(a, 1, mustDate(t, "2024-01-15"))
		assert.ErrorIs(t, err, domain.ErrDurationOutOfRange)
	})

	t.Run("Above maximum", func(t *testing.T) {
		_, err := QuoteRental(a, 25, mustDate(t, "2024-01-15"))
		assert.ErrorIs(t, err, domain.ErrDurationOutOfRange)
		assert.Contains(t, err.Error(), "allows 3 to 24")
	})

	t.Run("Unpriced appliance", func(t *testing.T) {
		free := &domain.Appliance{ID: "a-2", MinRentalMonths: 1}
		_, err := QuoteRental(free, 3, mustDate(t, "2024-01-15"))
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})
}
