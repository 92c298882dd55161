package service

import (
	"context"
	"fmt"
	"time"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/logger"
	"appliance-rental-backend/internal/repository"
	"appliance-rental-backend/internal/utils"
)

type rentalService struct {
	uow      repository.UnitOfWork
	repos    *repository.Repositories
	emailSvc EmailService
	now      func() time.Time
}

func NewRentalService(uow repository.UnitOfWork, repos *repository.Repositories, emailSvc EmailService) RentalService {
	return &rentalService{
		uow:      uow,
		repos:    repos,
		emailSvc: emailSvc,
		now:      time.Now,
	}
}

// SubmitRental creates a pending rental request with its full installment
// schedule. The appliance must be available and accept the duration; its
// status is left untouched until an admin approves the request.
func (s *rentalService) SubmitRental(ctx context.Context, userID, applianceID string, months int, startDate time.Time, deliveryAddress *string) (*domain.RentalRequest, error) {
	logger.EnterMethod("rentalService.SubmitRental", "userID", userID, "applianceID", applianceID, "months", months)

	var (
		rental    *domain.RentalRequest
		appliance *domain.Appliance
	)
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		var err error
		appliance, err = repos.Appliances.GetByID(ctx, applianceID)
		if err != nil {
			return err
		}
		if appliance.Status != domain.ApplianceStatusAvailable {
			return fmt.Errorf("%w: appliance %s is %s", domain.ErrApplianceUnavailable, appliance.ID, appliance.Status)
		}

		quote, err := utils.QuoteRental(appliance, months, startDate)
		if err != nil {
			return err
		}

		rental = &domain.RentalRequest{
			ApplianceID:     appliance.ID,
			UserID:          userID,
			DurationMonths:  quote.DurationMonths,
			MonthlyAmount:   quote.MonthlyAmount,
			Deposit:         quote.Deposit,
			TotalAmount:     quote.TotalAmount,
			StartDate:       quote.StartDate,
			EndDate:         quote.EndDate,
			DeliveryAddress: deliveryAddress,
			Status:          domain.RentalStatusPending,
			Installments:    quote.Installments,
		}
		return repos.Rentals.Create(ctx, rental)
	})
	if err != nil {
		logger.ExitMethodWithError("rentalService.SubmitRental", err)
		return nil, err
	}

	if user, err := s.repos.Users.GetByID(ctx, userID); err == nil {
		if err := s.emailSvc.SendRentalSubmitted(ctx, user, appliance, rental); err != nil {
			logger.Warn("Failed to send rental submitted email", "rentalID", rental.ID, "error", err)
		}
	}

	logger.ExitMethod("rentalService.SubmitRental", "rentalID", rental.ID)
	return rental, nil
}

// GetRental returns a rental with installment statuses refreshed as of now.
// Only the owner or an admin may read it.
func (s *rentalService) GetRental(ctx context.Context, userID string, isAdmin bool, rentalID string) (*domain.RentalRequest, error) {
	rental, err := s.repos.Rentals.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && rental.UserID != userID {
		return nil, fmt.Errorf("%w: rental %s belongs to another user", domain.ErrForbidden, rentalID)
	}
	rental.RefreshOverdue(s.now())
	return rental, nil
}

func (s *rentalService) ListMyRentals(ctx context.Context, userID string, status domain.RentalStatus, page, pageSize int32) ([]domain.RentalRequest, int32, error) {
	return s.ListRentals(ctx, domain.RentalFilter{
		Status:   status,
		UserID:   userID,
		Page:     page,
		PageSize: pageSize,
	})
}

func (s *rentalService) ListRentals(ctx context.Context, filter domain.RentalFilter) ([]domain.RentalRequest, int32, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown rental status %q", domain.ErrInvalidInput, filter.Status)
	}
	rentals, count, err := s.repos.Rentals.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	asOf := s.now()
	for i := range rentals {
		rentals[i].RefreshOverdue(asOf)
	}
	return rentals, count, nil
}
