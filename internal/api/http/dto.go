package http

import (
	"strconv"
	"time"

	"appliance-rental-backend/internal/domain"

	"github.com/shopspring/decimal"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type loginResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         *domain.User `json:"user"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type updateProfileRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,max=40"`
}

type applianceRequest struct {
	Name            string          `json:"name" validate:"required,max=200"`
	Type            string          `json:"type" validate:"omitempty,oneof=refrigerator washing_machine dryer air_conditioner dishwasher oven microwave television other"`
	Brand           string          `json:"brand" validate:"max=100"`
	Model           string          `json:"model" validate:"max=100"`
	Color           string          `json:"color" validate:"max=50"`
	Description     string          `json:"description" validate:"max=2000"`
	MonthlyRate     decimal.Decimal `json:"monthlyRate"`
	SixMonthRate    decimal.Decimal `json:"sixMonthRate"`
	YearlyRate      decimal.Decimal `json:"yearlyRate"`
	Deposit         decimal.Decimal `json:"deposit"`
	MinRentalMonths int             `json:"minRentalMonths"`
	MaxRentalMonths int             `json:"maxRentalMonths"`
	Status          string          `json:"status" validate:"omitempty,oneof=available maintenance inactive"`
}

func (req *applianceRequest) toDomain(id string) *domain.Appliance {
	return &domain.Appliance{
		ID:              id,
		Name:            req.Name,
		Type:            domain.ApplianceType(req.Type),
		Brand:           req.Brand,
		Model:           req.Model,
		Color:           req.Color,
		Description:     req.Description,
		MonthlyRate:     req.MonthlyRate,
		SixMonthRate:    req.SixMonthRate,
		YearlyRate:      req.YearlyRate,
		Deposit:         req.Deposit,
		MinRentalMonths: req.MinRentalMonths,
		MaxRentalMonths: req.MaxRentalMonths,
		Status:          domain.ApplianceStatus(req.Status),
	}
}

type applianceStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type submitRentalRequest struct {
	ApplianceID     string  `json:"applianceId" validate:"required"`
	DurationMonths  int     `json:"durationMonths"`
	StartDate       string  `json:"startDate" validate:"required,datetime=2006-01-02"`
	DeliveryAddress *string `json:"deliveryAddress" validate:"omitempty,max=500"`
}

type approveRentalRequest struct {
	DeliveryAddress *string `json:"deliveryAddress" validate:"omitempty,max=500"`
}

type reasonRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

type paymentMethodRequest struct {
	InstallmentNumber int    `json:"installmentNumber"`
	PaymentMethod     string `json:"paymentMethod" validate:"required,oneof=card cash"`
}

type markPaidRequest struct {
	PaidAmount decimal.Decimal `json:"paidAmount"`
	PaidAt     string          `json:"paidAt"`
}

type listMeta struct {
	Page    int32 `json:"page"`
	PerPage int32 `json:"perPage"`
	Total   int32 `json:"total"`
}

type listResponse struct {
	Data interface{} `json:"data"`
	Meta listMeta    `json:"meta"`
}

type installmentResponse struct {
	RentalID          string           `json:"rentalId"`
	InstallmentNumber int              `json:"installmentNumber"`
	DueDate           string           `json:"dueDate"`
	Amount            decimal.Decimal  `json:"amount"`
	Status            string           `json:"status"`
	PaymentMethod     string           `json:"paymentMethod"`
	PaidAt            *time.Time       `json:"paidAt,omitempty"`
	PaidAmount        *decimal.Decimal `json:"paidAmount,omitempty"`
}

type rentalResponse struct {
	ID                 string                `json:"id"`
	ApplianceID        string                `json:"applianceId"`
	UserID             string                `json:"userId"`
	DurationMonths     int                   `json:"durationMonths"`
	MonthlyAmount      decimal.Decimal       `json:"monthlyAmount"`
	Deposit            decimal.Decimal       `json:"deposit"`
	TotalAmount        decimal.Decimal       `json:"totalAmount"`
	StartDate          string                `json:"startDate"`
	EndDate            string                `json:"endDate"`
	DeliveryAddress    *string               `json:"deliveryAddress,omitempty"`
	Status             string                `json:"status"`
	RejectionReason    *string               `json:"rejectionReason,omitempty"`
	CancellationReason *string               `json:"cancellationReason,omitempty"`
	ApprovedBy         *string               `json:"approvedBy,omitempty"`
	ApprovedAt         *time.Time            `json:"approvedAt,omitempty"`
	ActivatedAt        *time.Time            `json:"activatedAt,omitempty"`
	CompletedAt        *time.Time            `json:"completedAt,omitempty"`
	CancelledAt        *time.Time            `json:"cancelledAt,omitempty"`
	Installments       []installmentResponse `json:"installments"`
	CreatedAt          time.Time             `json:"createdAt"`
	UpdatedAt          time.Time             `json:"updatedAt"`
}

type quoteResponse struct {
	ApplianceID    string                `json:"applianceId"`
	DurationMonths int                   `json:"durationMonths"`
	MonthlyAmount  decimal.Decimal       `json:"monthlyAmount"`
	Deposit        decimal.Decimal       `json:"deposit"`
	TotalAmount    decimal.Decimal       `json:"totalAmount"`
	StartDate      string                `json:"startDate"`
	EndDate        string                `json:"endDate"`
	Installments   []installmentResponse `json:"installments"`
}

// pageParams reads page and perPage query parameters, defaulting to 1 and 20.
func pageParams(q map[string][]string) (int32, int32) {
	page := queryInt(q, "page", 1)
	perPage := queryInt(q, "perPage", 20)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return int32(page), int32(perPage)
}

func queryInt(q map[string][]string, key string, def int) int {
	values := q[key]
	if len(values) == 0 || values[0] == "" {
		return def
	}
	n, err := strconv.Atoi(values[0])
	if err != nil {
		return def
	}
	return n
}
