package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"appliance-rental-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, what)
	}
	return err
}

func paginate(page, pageSize int32) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if pageSize <= 0 {
			pageSize = 20
		}
		if page <= 0 {
			page = 1
		}
		return db.Offset(int((page - 1) * pageSize)).Limit(int(pageSize))
	}
}

func orderedInstallments(db *gorm.DB) *gorm.DB {
	return db.Order("installment_number")
}

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = domain.UserRoleUser
	}
	u.Email = strings.ToLower(u.Email)
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	m := userFromDomain(u)
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "user "+id)
	}
	return m.toDomain(), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).First(&m, "LOWER(email) = LOWER(?)", email).Error; err != nil {
		return nil, notFound(err, "user "+email)
	}
	return m.toDomain(), nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	u.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&userModel{ID: u.ID}).Updates(map[string]interface{}{
		"name":         u.Name,
		"phone_number": u.PhoneNumber,
		"role":         string(u.Role),
		"updated_at":   u.UpdatedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, u.ID)
	}
	return nil
}

type applianceRepository struct {
	db *gorm.DB
}

func (r *applianceRepository) Create(ctx context.Context, a *domain.Appliance) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	m := applianceFromDomain(a)
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *applianceRepository) GetByID(ctx context.Context, id string) (*domain.Appliance, error) {
	var m applianceModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "appliance "+id)
	}
	return m.toDomain(), nil
}

func (r *applianceRepository) Update(ctx context.Context, a *domain.Appliance) error {
	a.UpdatedAt = time.Now().UTC()
	m := applianceFromDomain(a)
	res := r.db.WithContext(ctx).Model(&applianceModel{ID: a.ID}).Select("*").Omit("ID", "CreatedAt").Updates(&m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: appliance %s", domain.ErrNotFound, a.ID)
	}
	return nil
}

func (r *applianceRepository) UpdateTerms(ctx context.Context, a *domain.Appliance) error {
	a.UpdatedAt = time.Now().UTC()
	m := applianceFromDomain(a)
	res := r.db.WithContext(ctx).Model(&applianceModel{ID: a.ID}).
		Select("Name", "Type", "Brand", "Model", "Color", "Description",
			"MonthlyRate", "SixMonthRate", "YearlyRate", "Deposit",
			"MinRentalMonths", "MaxRentalMonths", "UpdatedAt").
		Updates(&m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: appliance %s", domain.ErrNotFound, a.ID)
	}
	return nil
}

func (r *applianceRepository) List(ctx context.Context, filter domain.ApplianceFilter) ([]domain.Appliance, int32, error) {
	q := r.db.WithContext(ctx).Model(&applianceModel{})
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.Type != "" {
		q = q.Where("type = ?", string(filter.Type))
	}

	q = q.Session(&gorm.Session{})

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var models []applianceModel
	if err := q.Order("created_at DESC").Scopes(paginate(filter.Page, filter.PageSize)).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	appliances := make([]domain.Appliance, 0, len(models))
	for _, m := range models {
		appliances = append(appliances, *m.toDomain())
	}
	return appliances, int32(count), nil
}

type rentalRepository struct {
	db *gorm.DB
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.RentalRequest) error {
	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	rt.CreatedAt, rt.UpdatedAt = now, now
	for i := range rt.Installments {
		rt.Installments[i].RentalID = rt.ID
		rt.Installments[i].UpdatedAt = now
	}
	m := rentalFromDomain(rt)
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *rentalRepository) GetByID(ctx context.Context, id string) (*domain.RentalRequest, error) {
	var m rentalModel
	err := r.db.WithContext(ctx).Preload("Installments", orderedInstallments).First(&m, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "rental request "+id)
	}
	return m.toDomain(), nil
}

func (r *rentalRepository) Update(ctx context.Context, rt *domain.RentalRequest) error {
	rt.UpdatedAt = time.Now().UTC()
	m := rentalFromDomain(rt)
	res := r.db.WithContext(ctx).Model(&rentalModel{ID: rt.ID}).
		Select("Status", "DeliveryAddress", "RejectionReason", "CancellationReason", "ApprovedBy",
			"ApprovedAt", "ActivatedAt", "CompletedAt", "CancelledAt", "UpdatedAt").
		Omit(clause.Associations).
		Updates(&m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: rental request %s", domain.ErrNotFound, rt.ID)
	}
	return nil
}

func (r *rentalRepository) UpdateInstallment(ctx context.Context, inst *domain.Installment) error {
	inst.UpdatedAt = time.Now().UTC()
	m := installmentFromDomain(inst)
	res := r.db.WithContext(ctx).Model(&installmentModel{}).
		Where("rental_id = ? AND installment_number = ?", inst.RentalID, inst.Number).
		Select("Status", "PaymentMethod", "PaidAt", "PaidAmount", "UpdatedAt").
		Updates(&m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: installment %d of rental %s", domain.ErrNotFound, inst.Number, inst.RentalID)
	}
	return nil
}

func (r *rentalRepository) ListByAppliance(ctx context.Context, applianceID string) ([]domain.RentalRequest, error) {
	var models []rentalModel
	if err := r.db.WithContext(ctx).Where("appliance_id = ?", applianceID).Order("created_at").Find(&models).Error; err != nil {
		return nil, err
	}
	return rentalsToDomain(models), nil
}

func (r *rentalRepository) List(ctx context.Context, filter domain.RentalFilter) ([]domain.RentalRequest, int32, error) {
	q := r.db.WithContext(ctx).Model(&rentalModel{})
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.ApplianceID != "" {
		q = q.Where("appliance_id = ?", filter.ApplianceID)
	}
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}

	q = q.Session(&gorm.Session{})

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var models []rentalModel
	err := q.Preload("Installments", orderedInstallments).
		Order("created_at DESC").
		Scopes(paginate(filter.Page, filter.PageSize)).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}
	return rentalsToDomain(models), int32(count), nil
}

func (r *rentalRepository) ListPendingInstallmentsDueBefore(ctx context.Context, before time.Time) ([]domain.Installment, error) {
	var models []installmentModel
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_date < ?", string(domain.InstallmentStatusPending), domain.DateOf(before)).
		Order("due_date").Find(&models).Error
	if err != nil {
		return nil, err
	}
	return installmentsToDomain(models), nil
}

func (r *rentalRepository) ListPendingInstallmentsDueBetween(ctx context.Context, from, to time.Time) ([]domain.Installment, error) {
	var models []installmentModel
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_date >= ? AND due_date <= ?", string(domain.InstallmentStatusPending), domain.DateOf(from), domain.DateOf(to)).
		Order("due_date").Find(&models).Error
	if err != nil {
		return nil, err
	}
	return installmentsToDomain(models), nil
}

func (r *rentalRepository) ListActiveEndedBy(ctx context.Context, asOf time.Time) ([]domain.RentalRequest, error) {
	var models []rentalModel
	err := r.db.WithContext(ctx).
		Where("status = ? AND end_date <= ?", string(domain.RentalStatusActive), domain.DateOf(asOf)).
		Order("end_date").Find(&models).Error
	if err != nil {
		return nil, err
	}
	return rentalsToDomain(models), nil
}

func rentalsToDomain(models []rentalModel) []domain.RentalRequest {
	out := make([]domain.RentalRequest, 0, len(models))
	for _, m := range models {
		out = append(out, *m.toDomain())
	}
	return out
}

func installmentsToDomain(models []installmentModel) []domain.Installment {
	out := make([]domain.Installment, 0, len(models))
	for _, m := range models {
		out = append(out, *m.toDomain())
	}
	return out
}

type notificationRepository struct {
	db *gorm.DB
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.CreatedAt = time.Now().UTC()
	m, err := notificationFromDomain(n)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *notificationRepository) List(ctx context.Context, userID string, limit, offset int32) ([]domain.Notification, int32, error) {
	q := r.db.WithContext(ctx).Model(&notificationModel{}).Where("user_id = ?", userID)

	q = q.Session(&gorm.Session{})

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var models []notificationModel
	if err := q.Order("created_at DESC").Limit(int(limit)).Offset(int(offset)).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	notes := make([]domain.Notification, 0, len(models))
	for _, m := range models {
		n, err := m.toDomain()
		if err != nil {
			return nil, 0, err
		}
		notes = append(notes, *n)
	}
	return notes, int32(count), nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID string) error {
	res := r.db.WithContext(ctx).Model(&notificationModel{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: notification %s", domain.ErrNotFound, id)
	}
	return nil
}
