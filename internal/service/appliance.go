package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/logger"
	"appliance-rental-backend/internal/repository"
	"appliance-rental-backend/internal/utils"
)

type applianceService struct {
	applianceRepo repository.ApplianceRepository
}

func NewApplianceService(applianceRepo repository.ApplianceRepository) ApplianceService {
	return &applianceService{applianceRepo: applianceRepo}
}

func validateApplianceTerms(a *domain.Appliance) error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: appliance name is required", domain.ErrInvalidInput)
	}
	if !a.MonthlyRate.IsPositive() {
		return fmt.Errorf("%w: monthly rate must be positive, got %s", domain.ErrInvalidAmount, a.MonthlyRate)
	}
	if a.SixMonthRate.IsNegative() || a.YearlyRate.IsNegative() || a.Deposit.IsNegative() {
		return fmt.Errorf("%w: rates and deposit cannot be negative", domain.ErrInvalidAmount)
	}
	if a.MinRentalMonths < 1 {
		return fmt.Errorf("%w: minimum rental must be at least one month", domain.ErrDurationOutOfRange)
	}
	if a.MaxRentalMonths != 0 && a.MaxRentalMonths < a.MinRentalMonths {
		return fmt.Errorf("%w: maximum rental %d is below minimum %d", domain.ErrDurationOutOfRange, a.MaxRentalMonths, a.MinRentalMonths)
	}
	return nil
}

func (s *applianceService) CreateAppliance(ctx context.Context, appliance *domain.Appliance) error {
	logger.EnterMethod("applianceService.CreateAppliance", "name", appliance.Name)

	if err := validateApplianceTerms(appliance); err != nil {
		logger.ExitMethodWithError("applianceService.CreateAppliance", err)
		return err
	}
	if appliance.Type == "" {
		appliance.Type = domain.ApplianceTypeOther
	}
	switch appliance.Status {
	case "":
		appliance.Status = domain.ApplianceStatusAvailable
	case domain.ApplianceStatusRented:
		err := fmt.Errorf("%w: a new appliance cannot start rented", domain.ErrInvalidInput)
		logger.ExitMethodWithError("applianceService.CreateAppliance", err)
		return err
	default:
		if !appliance.Status.Valid() {
			err := fmt.Errorf("%w: unknown appliance status %q", domain.ErrInvalidInput, appliance.Status)
			logger.ExitMethodWithError("applianceService.CreateAppliance", err)
			return err
		}
	}
	appliance.TotalRentals = 0
	appliance.TotalMonthsRented = 0
	appliance.LastRentedAt = nil

	if err := s.applianceRepo.Create(ctx, appliance); err != nil {
		logger.ExitMethodWithError("applianceService.CreateAppliance", err)
		return err
	}

	logger.ExitMethod("applianceService.CreateAppliance", "applianceID", appliance.ID)
	return nil
}

// UpdateAppliance replaces the descriptive and pricing fields of an appliance.
// Status and rental counters are owned by the admin gateway and are kept as stored.
func (s *applianceService) UpdateAppliance(ctx context.Context, appliance *domain.Appliance) (*domain.Appliance, error) {
	if err := validateApplianceTerms(appliance); err != nil {
		return nil, err
	}

	existing, err := s.applianceRepo.GetByID(ctx, appliance.ID)
	if err != nil {
		return nil, err
	}

	terms := &domain.Appliance{
		ID:              existing.ID,
		Name:            appliance.Name,
		Type:            existing.Type,
		Brand:           appliance.Brand,
		Model:           appliance.Model,
		Color:           appliance.Color,
		Description:     appliance.Description,
		MonthlyRate:     appliance.MonthlyRate,
		SixMonthRate:    appliance.SixMonthRate,
		YearlyRate:      appliance.YearlyRate,
		Deposit:         appliance.Deposit,
		MinRentalMonths: appliance.MinRentalMonths,
		MaxRentalMonths: appliance.MaxRentalMonths,
	}
	if appliance.Type != "" {
		terms.Type = appliance.Type
	}

	// Only the terms columns are written, so a concurrent approval or
	// status change is never rolled back by this update.
	if err := s.applianceRepo.UpdateTerms(ctx, terms); err != nil {
		return nil, err
	}
	return s.applianceRepo.GetByID(ctx, appliance.ID)
}

func (s *applianceService) GetAppliance(ctx context.Context, id string) (*domain.Appliance, error) {
	return s.applianceRepo.GetByID(ctx, id)
}

func (s *applianceService) ListAppliances(ctx context.Context, filter domain.ApplianceFilter) ([]domain.Appliance, int32, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown appliance status %q", domain.ErrInvalidInput, filter.Status)
	}
	return s.applianceRepo.List(ctx, filter)
}

// QuoteRental previews the pricing and schedule of a rental without creating it.
func (s *applianceService) QuoteRental(ctx context.Context, applianceID string, months int, startDate time.Time) (*utils.RentalQuote, error) {
	appliance, err := s.applianceRepo.GetByID(ctx, applianceID)
	if err != nil {
		return nil, err
	}
	return utils.QuoteRental(appliance, months, startDate)
}
