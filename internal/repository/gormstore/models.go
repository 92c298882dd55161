package gormstore

import (
	"encoding/json"
	"time"

	"appliance-rental-backend/internal/domain"

	"github.com/shopspring/decimal"
)

type userModel struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	Name         string `gorm:"not null"`
	PhoneNumber  string
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null;default:user"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

type applianceModel struct {
	ID                string `gorm:"primaryKey"`
	Name              string `gorm:"not null"`
	Type              string `gorm:"not null"`
	Brand             string
	Model             string
	Color             string
	Description       string
	MonthlyRate       decimal.Decimal
	SixMonthRate      decimal.Decimal
	YearlyRate        decimal.Decimal
	Deposit           decimal.Decimal
	MinRentalMonths   int
	MaxRentalMonths   int
	Status            string `gorm:"index;not null"`
	TotalRentals      int
	TotalMonthsRented int
	LastMaintenanceAt *time.Time
	LastRentedAt      *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (applianceModel) TableName() string { return "appliances" }

type rentalModel struct {
	ID                 string `gorm:"primaryKey"`
	ApplianceID        string `gorm:"index;not null"`
	UserID             string `gorm:"index;not null"`
	DurationMonths     int
	MonthlyAmount      decimal.Decimal
	Deposit            decimal.Decimal
	TotalAmount        decimal.Decimal
	StartDate          time.Time
	EndDate            time.Time
	DeliveryAddress    *string
	Status             string `gorm:"index;not null"`
	RejectionReason    *string
	CancellationReason *string
	ApprovedBy         *string
	ApprovedAt         *time.Time
	ActivatedAt        *time.Time
	CompletedAt        *time.Time
	CancelledAt        *time.Time
	Installments       []installmentModel `gorm:"foreignKey:RentalID"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (rentalModel) TableName() string { return "rental_requests" }

type installmentModel struct {
	RentalID      string `gorm:"primaryKey"`
	Number        int    `gorm:"primaryKey;autoIncrement:false;column:installment_number"`
	DueDate       time.Time
	Amount        decimal.Decimal
	Status        string `gorm:"index;not null"`
	PaymentMethod string `gorm:"not null"`
	PaidAt        *time.Time
	PaidAmount    decimal.NullDecimal `gorm:"type:text"`
	UpdatedAt     time.Time
}

func (installmentModel) TableName() string { return "installments" }

type notificationModel struct {
	ID         string `gorm:"primaryKey"`
	UserID     string `gorm:"index;not null"`
	Title      string
	Message    string
	IsRead     bool
	Attributes string
	CreatedAt  time.Time
}

func (notificationModel) TableName() string { return "notifications" }

func allModels() []interface{} {
	return []interface{}{&userModel{}, &applianceModel{}, &rentalModel{}, &installmentModel{}, &notificationModel{}}
}

func userFromDomain(u *domain.User) userModel {
	return userModel{
		ID: u.ID, Email: u.Email, Name: u.Name, PhoneNumber: u.PhoneNumber,
		PasswordHash: u.PasswordHash, Role: string(u.Role), CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt,
	}
}

func (m userModel) toDomain() *domain.User {
	return &domain.User{
		ID: m.ID, Email: m.Email, Name: m.Name, PhoneNumber: m.PhoneNumber,
		PasswordHash: m.PasswordHash, Role: domain.UserRole(m.Role), CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

func applianceFromDomain(a *domain.Appliance) applianceModel {
	return applianceModel{
		ID:                a.ID,
		Name:              a.Name,
		Type:              string(a.Type),
		Brand:             a.Brand,
		Model:             a.Model,
		Color:             a.Color,
		Description:       a.Description,
		MonthlyRate:       a.MonthlyRate,
		SixMonthRate:      a.SixMonthRate,
		YearlyRate:        a.YearlyRate,
		Deposit:           a.Deposit,
		MinRentalMonths:   a.MinRentalMonths,
		MaxRentalMonths:   a.MaxRentalMonths,
		Status:            string(a.Status),
		TotalRentals:      a.TotalRentals,
		TotalMonthsRented: a.TotalMonthsRented,
		LastMaintenanceAt: a.LastMaintenanceAt,
		LastRentedAt:      a.LastRentedAt,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

func (m applianceModel) toDomain() *domain.Appliance {
	return &domain.Appliance{
		ID:                m.ID,
		Name:              m.Name,
		Type:              domain.ApplianceType(m.Type),
		Brand:             m.Brand,
		Model:             m.Model,
		Color:             m.Color,
		Description:       m.Description,
		MonthlyRate:       m.MonthlyRate,
		SixMonthRate:      m.SixMonthRate,
		YearlyRate:        m.YearlyRate,
		Deposit:           m.Deposit,
		MinRentalMonths:   m.MinRentalMonths,
		MaxRentalMonths:   m.MaxRentalMonths,
		Status:            domain.ApplianceStatus(m.Status),
		TotalRentals:      m.TotalRentals,
		TotalMonthsRented: m.TotalMonthsRented,
		LastMaintenanceAt: m.LastMaintenanceAt,
		LastRentedAt:      m.LastRentedAt,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func rentalFromDomain(r *domain.RentalRequest) rentalModel {
	m := rentalModel{
		ID:                 r.ID,
		ApplianceID:        r.ApplianceID,
		UserID:             r.UserID,
		DurationMonths:     r.DurationMonths,
		MonthlyAmount:      r.MonthlyAmount,
		Deposit:            r.Deposit,
		TotalAmount:        r.TotalAmount,
		StartDate:          r.StartDate,
		EndDate:            r.EndDate,
		DeliveryAddress:    r.DeliveryAddress,
		Status:             string(r.Status),
		RejectionReason:    r.RejectionReason,
		CancellationReason: r.CancellationReason,
		ApprovedBy:         r.ApprovedBy,
		ApprovedAt:         r.ApprovedAt,
		ActivatedAt:        r.ActivatedAt,
		CompletedAt:        r.CompletedAt,
		CancelledAt:        r.CancelledAt,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
	for i := range r.Installments {
		m.Installments = append(m.Installments, installmentFromDomain(&r.Installments[i]))
	}
	return m
}

func (m rentalModel) toDomain() *domain.RentalRequest {
	r := &domain.RentalRequest{
		ID:                 m.ID,
		ApplianceID:        m.ApplianceID,
		UserID:             m.UserID,
		DurationMonths:     m.DurationMonths,
		MonthlyAmount:      m.MonthlyAmount,
		Deposit:            m.Deposit,
		TotalAmount:        m.TotalAmount,
		StartDate:          domain.DateOf(m.StartDate),
		EndDate:            domain.DateOf(m.EndDate),
		DeliveryAddress:    m.DeliveryAddress,
		Status:             domain.RentalStatus(m.Status),
		RejectionReason:    m.RejectionReason,
		CancellationReason: m.CancellationReason,
		ApprovedBy:         m.ApprovedBy,
		ApprovedAt:         m.ApprovedAt,
		ActivatedAt:        m.ActivatedAt,
		CompletedAt:        m.CompletedAt,
		CancelledAt:        m.CancelledAt,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
	for _, im := range m.Installments {
		r.Installments = append(r.Installments, *im.toDomain())
	}
	return r
}

func installmentFromDomain(i *domain.Installment) installmentModel {
	m := installmentModel{
		RentalID:      i.RentalID,
		Number:        i.Number,
		DueDate:       i.DueDate,
		Amount:        i.Amount,
		Status:        string(i.Status),
		PaymentMethod: string(i.PaymentMethod),
		PaidAt:        i.PaidAt,
		UpdatedAt:     i.UpdatedAt,
	}
	if i.PaidAmount != nil {
		m.PaidAmount = decimal.NullDecimal{Decimal: *i.PaidAmount, Valid: true}
	}
	return m
}

func (m installmentModel) toDomain() *domain.Installment {
	i := &domain.Installment{
		RentalID:      m.RentalID,
		Number:        m.Number,
		DueDate:       domain.DateOf(m.DueDate),
		Amount:        m.Amount,
		Status:        domain.InstallmentStatus(m.Status),
		PaymentMethod: domain.PaymentMethod(m.PaymentMethod),
		PaidAt:        m.PaidAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.PaidAmount.Valid {
		amt := m.PaidAmount.Decimal
		i.PaidAmount = &amt
	}
	return i
}

func notificationFromDomain(n *domain.Notification) (notificationModel, error) {
	attrs, err := json.Marshal(n.Attributes)
	if err != nil {
		return notificationModel{}, err
	}
	return notificationModel{
		ID: n.ID, UserID: n.UserID, Title: n.Title, Message: n.Message,
		IsRead: n.IsRead, Attributes: string(attrs), CreatedAt: n.CreatedAt,
	}, nil
}

func (m notificationModel) toDomain() (*domain.Notification, error) {
	n := &domain.Notification{
		ID: m.ID, UserID: m.UserID, Title: m.Title, Message: m.Message,
		IsRead: m.IsRead, CreatedAt: m.CreatedAt,
	}
	if m.Attributes != "" && m.Attributes != "null" {
		if err := json.Unmarshal([]byte(m.Attributes), &n.Attributes); err != nil {
			return nil, err
		}
	}
	return n, nil
}
