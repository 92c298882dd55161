package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/logger"
	"appliance-rental-backend/internal/repository"

	"github.com/google/uuid"
)

type applianceRepository struct {
	db   dbtx
	lock bool
}

func NewApplianceRepository(db *sql.DB) repository.ApplianceRepository {
	return &applianceRepository{db: db}
}

const applianceColumns = `id, name, type, brand, model, color, description, monthly_rate, six_month_rate, yearly_rate, deposit,
	min_rental_months, max_rental_months, status, total_rentals, total_months_rented, last_maintenance_at, last_rented_at,
	created_at, updated_at`

func scanAppliance(row rowScanner) (*domain.Appliance, error) {
	a := &domain.Appliance{}
	err := row.Scan(&a.ID, &a.Name, &a.Type, &a.Brand, &a.Model, &a.Color, &a.Description,
		&a.MonthlyRate, &a.SixMonthRate, &a.YearlyRate, &a.Deposit,
		&a.MinRentalMonths, &a.MaxRentalMonths, &a.Status, &a.TotalRentals, &a.TotalMonthsRented,
		&a.LastMaintenanceAt, &a.LastRentedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *applianceRepository) Create(ctx context.Context, a *domain.Appliance) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	query := `INSERT INTO appliances (` + applianceColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	logger.DatabaseCall("INSERT", "appliances", "name", a.Name)
	_, err := r.db.ExecContext(ctx, query, a.ID, a.Name, a.Type, a.Brand, a.Model, a.Color, a.Description,
		a.MonthlyRate, a.SixMonthRate, a.YearlyRate, a.Deposit,
		a.MinRentalMonths, a.MaxRentalMonths, a.Status, a.TotalRentals, a.TotalMonthsRented,
		a.LastMaintenanceAt, a.LastRentedAt, a.CreatedAt, a.UpdatedAt)
	logger.DatabaseResult("INSERT", 1, err, "applianceID", a.ID)
	return err
}

func (r *applianceRepository) GetByID(ctx context.Context, id string) (*domain.Appliance, error) {
	query := forUpdate(`SELECT `+applianceColumns+` FROM appliances WHERE id = $1`, r.lock)
	a, err := scanAppliance(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: appliance %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *applianceRepository) Update(ctx context.Context, a *domain.Appliance) error {
	a.UpdatedAt = time.Now().UTC()
	query := `UPDATE appliances SET name=$1, type=$2, brand=$3, model=$4, color=$5, description=$6,
	          monthly_rate=$7, six_month_rate=$8, yearly_rate=$9, deposit=$10, min_rental_months=$11, max_rental_months=$12,
	          status=$13, total_rentals=$14, total_months_rented=$15, last_maintenance_at=$16, last_rented_at=$17, updated_at=$18
	          WHERE id=$19`
	logger.DatabaseCall("UPDATE", "appliances", "applianceID", a.ID, "status", a.Status)
	res, err := r.db.ExecContext(ctx, query, a.Name, a.Type, a.Brand, a.Model, a.Color, a.Description,
		a.MonthlyRate, a.SixMonthRate, a.YearlyRate, a.Deposit, a.MinRentalMonths, a.MaxRentalMonths,
		a.Status, a.TotalRentals, a.TotalMonthsRented, a.LastMaintenanceAt, a.LastRentedAt, a.UpdatedAt, a.ID)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "applianceID", a.ID)
		return err
	}
	n, _ := res.RowsAffected()
	logger.DatabaseResult("UPDATE", n, nil, "applianceID", a.ID)
	if n == 0 {
		return fmt.Errorf("%w: appliance %s", domain.ErrNotFound, a.ID)
	}
	return nil
}

func (r *applianceRepository) UpdateTerms(ctx context.Context, a *domain.Appliance) error {
	a.UpdatedAt = time.Now().UTC()
	query := `UPDATE appliances SET name=$1, type=$2, brand=$3, model=$4, color=$5, description=$6,
	          monthly_rate=$7, six_month_rate=$8, yearly_rate=$9, deposit=$10, min_rental_months=$11, max_rental_months=$12,
	          updated_at=$13
	          WHERE id=$14`
	logger.DatabaseCall("UPDATE", "appliances", "applianceID", a.ID)
	res, err := r.db.ExecContext(ctx, query, a.Name, a.Type, a.Brand, a.Model, a.Color, a.Description,
		a.MonthlyRate, a.SixMonthRate, a.YearlyRate, a.Deposit, a.MinRentalMonths, a.MaxRentalMonths,
		a.UpdatedAt, a.ID)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "applianceID", a.ID)
		return err
	}
	n, _ := res.RowsAffected()
	logger.DatabaseResult("UPDATE", n, nil, "applianceID", a.ID)
	if n == 0 {
		return fmt.Errorf("%w: appliance %s", domain.ErrNotFound, a.ID)
	}
	return nil
}

func (r *applianceRepository) List(ctx context.Context, filter domain.ApplianceFilter) ([]domain.Appliance, int32, error) {
	limit, offset := pageArgs(filter.Page, filter.PageSize)
	query := `SELECT ` + applianceColumns + ` FROM appliances WHERE 1=1`

	args := []interface{}{}
	argIdx := 1
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", argIdx)
		args = append(args, filter.Type)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	appliances := []domain.Appliance{}
	for rows.Next() {
		a, err := scanAppliance(rows)
		if err != nil {
			return nil, 0, err
		}
		appliances = append(appliances, *a)
	}
	return appliances, count, rows.Err()
}
