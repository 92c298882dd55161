package service

import (
	"context"
	"log/slog"
	"time"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/logger"
	"appliance-rental-backend/internal/repository"
)

type maintenanceService struct {
	uow      repository.UnitOfWork
	repos    *repository.Repositories
	adminSvc AdminService
	emailSvc EmailService
}

func NewMaintenanceService(uow repository.UnitOfWork, repos *repository.Repositories, adminSvc AdminService, emailSvc EmailService) MaintenanceService {
	return &maintenanceService{
		uow:      uow,
		repos:    repos,
		adminSvc: adminSvc,
		emailSvc: emailSvc,
	}
}

func (s *maintenanceService) log() *slog.Logger {
	return logger.WithService("maintenance")
}

// SweepOverdueInstallments persists the overdue status of every pending
// installment due before asOf's calendar day. Each rental is updated in its own
// transaction; a failing rental is logged and skipped.
func (s *maintenanceService) SweepOverdueInstallments(ctx context.Context, asOf time.Time) (int, error) {
	due, err := s.repos.Rentals.ListPendingInstallmentsDueBefore(ctx, asOf)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]bool)
	marked := 0
	for _, inst := range due {
		if seen[inst.RentalID] {
			continue
		}
		seen[inst.RentalID] = true

		var changed int
		err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
			rental, err := repos.Rentals.GetByID(ctx, inst.RentalID)
			if err != nil {
				return err
			}
			for _, number := range rental.RefreshOverdue(asOf) {
				updated, err := rental.Installment(number)
				if err != nil {
					return err
				}
				if err := repos.Rentals.UpdateInstallment(ctx, updated); err != nil {
					return err
				}
				changed++
			}
			return nil
		})
		if err != nil {
			s.log().Error("Failed to sweep overdue installments for rental", "rentalID", inst.RentalID, "error", err)
			continue
		}
		marked += changed
	}
	return marked, nil
}

// SendInstallmentReminders emails renters of approved or active rentals whose
// pending installments fall due within daysAhead days of asOf.
func (s *maintenanceService) SendInstallmentReminders(ctx context.Context, asOf time.Time, daysAhead int) (int, error) {
	from := domain.DateOf(asOf)
	to := from.AddDate(0, 0, daysAhead)
	upcoming, err := s.repos.Rentals.ListPendingInstallmentsDueBetween(ctx, from, to)
	if err != nil {
		return 0, err
	}

	rentals := make(map[string]*domain.RentalRequest)
	users := make(map[string]*domain.User)
	appliances := make(map[string]*domain.Appliance)

	sent := 0
	for i := range upcoming {
		inst := &upcoming[i]

		rental, ok := rentals[inst.RentalID]
		if !ok {
			rental, err = s.repos.Rentals.GetByID(ctx, inst.RentalID)
			if err != nil {
				s.log().Error("Failed to load rental for reminder", "rentalID", inst.RentalID, "error", err)
				continue
			}
			rentals[inst.RentalID] = rental
		}
		if rental.Status != domain.RentalStatusApproved && rental.Status != domain.RentalStatusActive {
			continue
		}

		user, ok := users[rental.UserID]
		if !ok {
			user, err = s.repos.Users.GetByID(ctx, rental.UserID)
			if err != nil {
				s.log().Error("Failed to load renter for reminder", "userID", rental.UserID, "error", err)
				continue
			}
			users[rental.UserID] = user
		}
		appliance, ok := appliances[rental.ApplianceID]
		if !ok {
			appliance, err = s.repos.Appliances.GetByID(ctx, rental.ApplianceID)
			if err != nil {
				s.log().Error("Failed to load appliance for reminder", "applianceID", rental.ApplianceID, "error", err)
				continue
			}
			appliances[rental.ApplianceID] = appliance
		}

		if err := s.emailSvc.SendInstallmentReminder(ctx, user, appliance, inst); err != nil {
			s.log().Error("Failed to send installment reminder",
				"rentalID", rental.ID,
				"number", inst.Number,
				"error", err)
			continue
		}
		sent++
	}
	return sent, nil
}

// CompleteEndedRentals completes active rentals whose end date has been reached,
// going through the admin gateway as the system actor.
func (s *maintenanceService) CompleteEndedRentals(ctx context.Context, asOf time.Time) (int, error) {
	ended, err := s.repos.Rentals.ListActiveEndedBy(ctx, asOf)
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, rental := range ended {
		if _, err := s.adminSvc.CompleteRental(ctx, SystemActorID, rental.ID); err != nil {
			s.log().Error("Failed to complete ended rental", "rentalID", rental.ID, "error", err)
			continue
		}
		completed++
	}
	return completed, nil
}
