package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ApplianceStatus string

const (
	ApplianceStatusAvailable   ApplianceStatus = "available"
	ApplianceStatusRented      ApplianceStatus = "rented"
	ApplianceStatusMaintenance ApplianceStatus = "maintenance"
	ApplianceStatusInactive    ApplianceStatus = "inactive"
)

func (s ApplianceStatus) Valid() bool {
	switch s {
	case ApplianceStatusAvailable, ApplianceStatusRented, ApplianceStatusMaintenance, ApplianceStatusInactive:
		return true
	}
	return false
}

type ApplianceType string

const (
	ApplianceTypeRefrigerator   ApplianceType = "refrigerator"
	ApplianceTypeWashingMachine ApplianceType = "washing_machine"
	ApplianceTypeDryer          ApplianceType = "dryer"
	ApplianceTypeAirConditioner ApplianceType = "air_conditioner"
	ApplianceTypeDishwasher     ApplianceType = "dishwasher"
	ApplianceTypeOven           ApplianceType = "oven"
	ApplianceTypeMicrowave      ApplianceType = "microwave"
	ApplianceTypeTelevision     ApplianceType = "television"
	ApplianceTypeOther          ApplianceType = "other"
)

type Appliance struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Type              ApplianceType   `json:"type"`
	Brand             string          `json:"brand"`
	Model             string          `json:"model"`
	Color             string          `json:"color"`
	Description       string          `json:"description"`
	MonthlyRate       decimal.Decimal `json:"monthlyRate"`
	SixMonthRate      decimal.Decimal `json:"sixMonthRate"`
	YearlyRate        decimal.Decimal `json:"yearlyRate"`
	Deposit           decimal.Decimal `json:"deposit"`
	MinRentalMonths   int             `json:"minRentalMonths"`
	MaxRentalMonths   int             `json:"maxRentalMonths"`
	Status            ApplianceStatus `json:"status"`
	TotalRentals      int             `json:"totalRentals"`
	TotalMonthsRented int             `json:"totalMonthsRented"`
	LastMaintenanceAt *time.Time      `json:"lastMaintenanceAt,omitempty"`
	LastRentedAt      *time.Time      `json:"lastRentedAt,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// AcceptsDuration reports whether months lies within the appliance's rental bounds.
// A zero MaxRentalMonths means no upper bound.
func (a *Appliance) AcceptsDuration(months int) bool {
	if months <= 0 || months < a.MinRentalMonths {
		return false
	}
	return a.MaxRentalMonths == 0 || months <= a.MaxRentalMonths
}

// RecordRental bumps the aggregate counters when a rental on this appliance is approved.
func (a *Appliance) RecordRental(months int, at time.Time) {
	a.TotalRentals++
	a.TotalMonthsRented += months
	a.LastRentedAt = &at
}

type ApplianceFilter struct {
	Status   ApplianceStatus
	Type     ApplianceType
	Page     int32
	PageSize int32
}
