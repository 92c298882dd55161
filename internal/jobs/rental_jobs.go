package jobs

import (
	"context"

	"appliance-rental-backend/internal/logger"
)

// SweepOverdueInstallments persists pending -> overdue for installments due before today
func (jr *JobRunner) SweepOverdueInstallments() {
	jr.runWithRecovery("SweepOverdueInstallments", func() {
		log := logger.WithJob("SweepOverdueInstallments")
		count, err := jr.maintenance.SweepOverdueInstallments(context.Background(), jr.now())
		if err != nil {
			log.Error("Failed to sweep overdue installments", "error", err, "marked", count)
			return
		}
		log.Info("Marked installments as overdue", "count", count)
	})
}

// SendInstallmentReminders emails renters whose next installment falls due soon
func (jr *JobRunner) SendInstallmentReminders() {
	jr.runWithRecovery("SendInstallmentReminders", func() {
		log := logger.WithJob("SendInstallmentReminders")
		daysAhead := jr.config.Rental.ReminderDaysAhead
		count, err := jr.maintenance.SendInstallmentReminders(context.Background(), jr.now(), daysAhead)
		if err != nil {
			log.Error("Failed to send installment reminders", "error", err, "sent", count)
			return
		}
		log.Info("Sent installment reminders", "count", count, "days_ahead", daysAhead)
	})
}

// CompleteEndedRentals closes active rentals whose end date has passed
func (jr *JobRunner) CompleteEndedRentals() {
	jr.runWithRecovery("CompleteEndedRentals", func() {
		log := logger.WithJob("CompleteEndedRentals")
		count, err := jr.maintenance.CompleteEndedRentals(context.Background(), jr.now())
		if err != nil {
			log.Error("Failed to complete ended rentals", "error", err, "completed", count)
			return
		}
		log.Info("Completed ended rentals", "count", count)
	})
}
