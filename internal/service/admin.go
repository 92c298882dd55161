package service

import (
	"context"
	"fmt"
	"time"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/logger"
	"appliance-rental-backend/internal/repository"

	"github.com/shopspring/decimal"
)

type adminService struct {
	uow      repository.UnitOfWork
	repos    *repository.Repositories
	emailSvc EmailService
	now      func() time.Time
}

func NewAdminService(uow repository.UnitOfWork, repos *repository.Repositories, emailSvc EmailService) AdminService {
	return &adminService{
		uow:      uow,
		repos:    repos,
		emailSvc: emailSvc,
		now:      time.Now,
	}
}

// rentalChange is what a committed rental action hands to the post-commit notifier.
type rentalChange struct {
	rental    *domain.RentalRequest
	appliance *domain.Appliance
}

// transitionRental runs one rental state change inside a transaction: load,
// mutate, persist the request and any installments the change touched, then
// recompute the appliance's availability from every request that references it.
func (s *adminService) transitionRental(ctx context.Context, rentalID string, mutate func(repos *repository.Repositories, rental *domain.RentalRequest, appliance *domain.Appliance) ([]int, error)) (*rentalChange, error) {
	var change rentalChange
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		rental, err := repos.Rentals.GetByID(ctx, rentalID)
		if err != nil {
			return err
		}
		appliance, err := repos.Appliances.GetByID(ctx, rental.ApplianceID)
		if err != nil {
			return err
		}

		touched, err := mutate(repos, rental, appliance)
		if err != nil {
			return err
		}

		if err := repos.Rentals.Update(ctx, rental); err != nil {
			return err
		}
		for _, number := range touched {
			inst, err := rental.Installment(number)
			if err != nil {
				return err
			}
			if err := repos.Rentals.UpdateInstallment(ctx, inst); err != nil {
				return err
			}
		}

		if err := recomputeAvailability(ctx, repos, appliance); err != nil {
			return err
		}

		change = rentalChange{rental: rental, appliance: appliance}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &change, nil
}

// recomputeAvailability derives the appliance status from the request set and
// persists the appliance. Counters bumped by the caller are saved with it.
func recomputeAvailability(ctx context.Context, repos *repository.Repositories, appliance *domain.Appliance) error {
	requests, err := repos.Rentals.ListByAppliance(ctx, appliance.ID)
	if err != nil {
		return err
	}
	next := domain.DeriveApplianceStatus(appliance.Status, requests)
	if next != appliance.Status {
		logger.Info("Appliance availability changed", "applianceID", appliance.ID, "from", appliance.Status, "to", next)
	}
	appliance.Status = next
	return repos.Appliances.Update(ctx, appliance)
}

func (s *adminService) ApproveRental(ctx context.Context, adminID, rentalID string, deliveryAddress *string) (*domain.RentalRequest, error) {
	logger.EnterMethod("adminService.ApproveRental", "adminID", adminID, "rentalID", rentalID)

	change, err := s.transitionRental(ctx, rentalID, func(repos *repository.Repositories, rental *domain.RentalRequest, appliance *domain.Appliance) ([]int, error) {
		now := s.now()
		if err := rental.Approve(adminID, deliveryAddress, now); err != nil {
			return nil, err
		}
		if appliance.Status == domain.ApplianceStatusMaintenance || appliance.Status == domain.ApplianceStatusInactive {
			return nil, fmt.Errorf("%w: appliance %s is %s", domain.ErrApplianceUnavailable, appliance.ID, appliance.Status)
		}

		others, err := repos.Rentals.ListByAppliance(ctx, appliance.ID)
		if err != nil {
			return nil, err
		}
		for _, other := range others {
			if other.ID != rental.ID && other.Status.HoldsAppliance() {
				return nil, fmt.Errorf("%w: appliance %s is already held by rental %s", domain.ErrApplianceUnavailable, appliance.ID, other.ID)
			}
		}
		appliance.RecordRental(rental.DurationMonths, now)
		return nil, nil
	})
	if err != nil {
		logger.ExitMethodWithError("adminService.ApproveRental", err)
		return nil, err
	}

	s.notifyRenter(ctx, change, "Rental approved",
		fmt.Sprintf("Your rental of %s has been approved", change.appliance.Name),
		func(user *domain.User) error {
			return s.emailSvc.SendRentalApproved(ctx, user, change.appliance, change.rental)
		})

	logger.ExitMethod("adminService.ApproveRental", "rentalID", rentalID)
	return change.rental, nil
}

func (s *adminService) RejectRental(ctx context.Context, adminID, rentalID, reason string) (*domain.RentalRequest, error) {
	logger.EnterMethod("adminService.RejectRental", "adminID", adminID, "rentalID", rentalID)

	change, err := s.transitionRental(ctx, rentalID, func(_ *repository.Repositories, rental *domain.RentalRequest, _ *domain.Appliance) ([]int, error) {
		return nil, rental.Reject(reason)
	})
	if err != nil {
		logger.ExitMethodWithError("adminService.RejectRental", err)
		return nil, err
	}

	reasonText := *change.rental.RejectionReason
	s.notifyRenter(ctx, change, "Rental request declined",
		fmt.Sprintf("Your request for %s was declined: %s", change.appliance.Name, reasonText),
		func(user *domain.User) error {
			return s.emailSvc.SendRentalRejected(ctx, user, change.appliance, reasonText)
		})

	logger.ExitMethod("adminService.RejectRental", "rentalID", rentalID)
	return change.rental, nil
}

func (s *adminService) ActivateRental(ctx context.Context, adminID, rentalID string) (*domain.RentalRequest, error) {
	logger.EnterMethod("adminService.ActivateRental", "adminID", adminID, "rentalID", rentalID)

	change, err := s.transitionRental(ctx, rentalID, func(_ *repository.Repositories, rental *domain.RentalRequest, _ *domain.Appliance) ([]int, error) {
		return nil, rental.Activate(s.now())
	})
	if err != nil {
		logger.ExitMethodWithError("adminService.ActivateRental", err)
		return nil, err
	}

	s.notifyRenter(ctx, change, "Rental started",
		fmt.Sprintf("Your rental of %s is now active", change.appliance.Name),
		func(user *domain.User) error {
			return s.emailSvc.SendRentalActivated(ctx, user, change.appliance, change.rental)
		})

	logger.ExitMethod("adminService.ActivateRental", "rentalID", rentalID)
	return change.rental, nil
}

func (s *adminService) CompleteRental(ctx context.Context, actorID, rentalID string) (*domain.RentalRequest, error) {
	logger.EnterMethod("adminService.CompleteRental", "actorID", actorID, "rentalID", rentalID)

	change, err := s.transitionRental(ctx, rentalID, func(_ *repository.Repositories, rental *domain.RentalRequest, _ *domain.Appliance) ([]int, error) {
		return nil, rental.Complete(s.now())
	})
	if err != nil {
		logger.ExitMethodWithError("adminService.CompleteRental", err)
		return nil, err
	}

	s.notifyRenter(ctx, change, "Rental completed",
		fmt.Sprintf("Your rental of %s has been completed", change.appliance.Name),
		func(user *domain.User) error {
			return s.emailSvc.SendRentalCompleted(ctx, user, change.appliance)
		})

	logger.ExitMethod("adminService.CompleteRental", "rentalID", rentalID)
	return change.rental, nil
}

func (s *adminService) CancelRental(ctx context.Context, actorID, rentalID, reason string) (*domain.RentalRequest, error) {
	logger.EnterMethod("adminService.CancelRental", "actorID", actorID, "rentalID", rentalID)

	change, err := s.transitionRental(ctx, rentalID, func(_ *repository.Repositories, rental *domain.RentalRequest, _ *domain.Appliance) ([]int, error) {
		return rental.Cancel(reason, s.now())
	})
	if err != nil {
		logger.ExitMethodWithError("adminService.CancelRental", err)
		return nil, err
	}

	var reasonText string
	if change.rental.CancellationReason != nil {
		reasonText = *change.rental.CancellationReason
	}
	s.notifyRenter(ctx, change, "Rental cancelled",
		fmt.Sprintf("Your rental of %s has been cancelled", change.appliance.Name),
		func(user *domain.User) error {
			return s.emailSvc.SendRentalCancelled(ctx, user, change.appliance, reasonText)
		})

	logger.ExitMethod("adminService.CancelRental", "rentalID", rentalID)
	return change.rental, nil
}

// updateInstallment loads a rental inside a transaction, refreshes overdue
// state, applies fn to one installment and persists only that installment.
func (s *adminService) updateInstallment(ctx context.Context, rentalID string, number int, fn func(rental *domain.RentalRequest, inst *domain.Installment) error) (*rentalChange, *domain.Installment, error) {
	var (
		change rentalChange
		result domain.Installment
	)
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		rental, err := repos.Rentals.GetByID(ctx, rentalID)
		if err != nil {
			return err
		}
		rental.RefreshOverdue(s.now())

		inst, err := rental.Installment(number)
		if err != nil {
			return err
		}
		if err := fn(rental, inst); err != nil {
			return err
		}
		if err := repos.Rentals.UpdateInstallment(ctx, inst); err != nil {
			return err
		}

		appliance, err := repos.Appliances.GetByID(ctx, rental.ApplianceID)
		if err != nil {
			return err
		}
		change = rentalChange{rental: rental, appliance: appliance}
		result = *inst
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &change, &result, nil
}

func (s *adminService) MarkInstallmentPaid(ctx context.Context, adminID, rentalID string, number int, paidAmount decimal.Decimal, paidAt time.Time) (*domain.Installment, error) {
	logger.EnterMethod("adminService.MarkInstallmentPaid", "adminID", adminID, "rentalID", rentalID, "number", number)

	change, inst, err := s.updateInstallment(ctx, rentalID, number, func(rental *domain.RentalRequest, inst *domain.Installment) error {
		if inst.Status != domain.InstallmentStatusPaid && !rental.AcceptsPayments() {
			return fmt.Errorf("%w: rental %s is %s and does not accept payments", domain.ErrInvalidTransition, rental.ID, rental.Status)
		}
		return inst.MarkPaid(paidAmount, paidAt)
	})
	if err != nil {
		logger.ExitMethodWithError("adminService.MarkInstallmentPaid", err)
		return nil, err
	}

	s.notifyRenter(ctx, change, "Payment received",
		fmt.Sprintf("Payment for installment %d of %s was recorded", inst.Number, change.appliance.Name),
		func(user *domain.User) error {
			return s.emailSvc.SendPaymentReceipt(ctx, user, change.appliance, inst)
		})

	logger.ExitMethod("adminService.MarkInstallmentPaid", "rentalID", rentalID, "number", number)
	return inst, nil
}

func (s *adminService) ChangeInstallmentPaymentMethod(ctx context.Context, adminID, rentalID string, number int, method domain.PaymentMethod) (*domain.Installment, error) {
	logger.EnterMethod("adminService.ChangeInstallmentPaymentMethod", "adminID", adminID, "rentalID", rentalID, "number", number, "method", method)

	change, inst, err := s.updateInstallment(ctx, rentalID, number, func(_ *domain.RentalRequest, inst *domain.Installment) error {
		return inst.ChangePaymentMethod(method)
	})
	if err != nil {
		logger.ExitMethodWithError("adminService.ChangeInstallmentPaymentMethod", err)
		return nil, err
	}

	s.notifyRenter(ctx, change, "Payment method updated",
		fmt.Sprintf("Installment %d of %s will be paid by %s", inst.Number, change.appliance.Name, inst.PaymentMethod),
		nil)

	logger.ExitMethod("adminService.ChangeInstallmentPaymentMethod", "rentalID", rentalID, "number", number)
	return inst, nil
}

// SetApplianceStatus applies a manual availability change. Rented is reserved
// for the availability ledger and cannot be set or left by hand while a
// request still holds the appliance.
func (s *adminService) SetApplianceStatus(ctx context.Context, adminID, applianceID string, status domain.ApplianceStatus) (*domain.Appliance, error) {
	logger.EnterMethod("adminService.SetApplianceStatus", "adminID", adminID, "applianceID", applianceID, "status", status)

	if !status.Valid() {
		err := fmt.Errorf("%w: unknown appliance status %q", domain.ErrInvalidInput, status)
		logger.ExitMethodWithError("adminService.SetApplianceStatus", err)
		return nil, err
	}
	if status == domain.ApplianceStatusRented {
		err := fmt.Errorf("%w: rented is set by approving a rental", domain.ErrInvalidTransition)
		logger.ExitMethodWithError("adminService.SetApplianceStatus", err)
		return nil, err
	}

	var appliance *domain.Appliance
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		var err error
		appliance, err = repos.Appliances.GetByID(ctx, applianceID)
		if err != nil {
			return err
		}
		requests, err := repos.Rentals.ListByAppliance(ctx, applianceID)
		if err != nil {
			return err
		}
		for _, r := range requests {
			if r.Status.HoldsAppliance() {
				return fmt.Errorf("%w: appliance %s is held by %s rental %s", domain.ErrInvalidTransition, applianceID, r.Status, r.ID)
			}
		}

		appliance.Status = status
		if status == domain.ApplianceStatusMaintenance {
			now := s.now()
			appliance.LastMaintenanceAt = &now
		}
		return repos.Appliances.Update(ctx, appliance)
	})
	if err != nil {
		logger.ExitMethodWithError("adminService.SetApplianceStatus", err)
		return nil, err
	}

	logger.ExitMethod("adminService.SetApplianceStatus", "applianceID", applianceID, "status", status)
	return appliance, nil
}

// notifyRenter sends the in-app notification and email for a committed change.
// Failures are logged and never surface to the caller.
func (s *adminService) notifyRenter(ctx context.Context, change *rentalChange, title, message string, sendEmail func(user *domain.User) error) {
	rental := change.rental
	if err := s.repos.Notifications.Create(ctx, rentalNotification(rental, title, message)); err != nil {
		logger.Warn("Failed to create notification", "rentalID", rental.ID, "error", err)
	}
	if sendEmail == nil {
		return
	}

	user, err := s.repos.Users.GetByID(ctx, rental.UserID)
	if err != nil {
		logger.Warn("Failed to load renter for email", "rentalID", rental.ID, "userID", rental.UserID, "error", err)
		return
	}
	if err := sendEmail(user); err != nil {
		logger.Warn("Failed to send rental email", "rentalID", rental.ID, "error", err)
	}
}
