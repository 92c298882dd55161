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
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type rentalRepository struct {
	db   dbtx
	lock bool
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

const rentalColumns = `id, appliance_id, user_id, duration_months, monthly_amount, deposit, total_amount, start_date, end_date,
	delivery_address, status, rejection_reason, cancellation_reason, approved_by, approved_at, activated_at, completed_at,
	cancelled_at, created_at, updated_at`

const installmentColumns = `rental_id, installment_number, due_date, amount, status, payment_method, paid_at, paid_amount, updated_at`

func scanRental(row rowScanner) (*domain.RentalRequest, error) {
	rt := &domain.RentalRequest{}
	err := row.Scan(&rt.ID, &rt.ApplianceID, &rt.UserID, &rt.DurationMonths, &rt.MonthlyAmount, &rt.Deposit, &rt.TotalAmount,
		&rt.StartDate, &rt.EndDate, &rt.DeliveryAddress, &rt.Status, &rt.RejectionReason, &rt.CancellationReason,
		&rt.ApprovedBy, &rt.ApprovedAt, &rt.ActivatedAt, &rt.CompletedAt, &rt.CancelledAt, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rt.StartDate = domain.DateOf(rt.StartDate)
	rt.EndDate = domain.DateOf(rt.EndDate)
	return rt, nil
}

func scanInstallment(row rowScanner) (*domain.Installment, error) {
	inst := &domain.Installment{}
	var paidAmount decimal.NullDecimal
	err := row.Scan(&inst.RentalID, &inst.Number, &inst.DueDate, &inst.Amount, &inst.Status, &inst.PaymentMethod,
		&inst.PaidAt, &paidAmount, &inst.UpdatedAt)
	if err != nil {
		return nil, err
	}
	inst.DueDate = domain.DateOf(inst.DueDate)
	if paidAmount.Valid {
		inst.PaidAmount = &paidAmount.Decimal
	}
	return inst, nil
}

func nullableDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.RentalRequest) error {
	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	rt.CreatedAt = now
	rt.UpdatedAt = now

	query := `INSERT INTO rental_requests (` + rentalColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	logger.DatabaseCall("INSERT", "rental_requests", "applianceID", rt.ApplianceID, "userID", rt.UserID)
	_, err := r.db.ExecContext(ctx, query, rt.ID, rt.ApplianceID, rt.UserID, rt.DurationMonths, rt.MonthlyAmount, rt.Deposit,
		rt.TotalAmount, rt.StartDate, rt.EndDate, rt.DeliveryAddress, rt.Status, rt.RejectionReason, rt.CancellationReason,
		rt.ApprovedBy, rt.ApprovedAt, rt.ActivatedAt, rt.CompletedAt, rt.CancelledAt, rt.CreatedAt, rt.UpdatedAt)
	logger.DatabaseResult("INSERT", 1, err, "rentalID", rt.ID)
	if err != nil {
		return err
	}

	instQuery := `INSERT INTO installments (` + installmentColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for i := range rt.Installments {
		inst := &rt.Installments[i]
		inst.RentalID = rt.ID
		inst.UpdatedAt = now
		if _, err := r.db.ExecContext(ctx, instQuery, inst.RentalID, inst.Number, inst.DueDate, inst.Amount, inst.Status,
			inst.PaymentMethod, inst.PaidAt, nullableDecimal(inst.PaidAmount), inst.UpdatedAt); err != nil {
			logger.DatabaseResult("INSERT", 0, err, "rentalID", rt.ID, "installment", inst.Number)
			return err
		}
	}
	logger.DatabaseResult("INSERT", int64(len(rt.Installments)), nil, "table", "installments", "rentalID", rt.ID)
	return nil
}

func (r *rentalRepository) GetByID(ctx context.Context, id string) (*domain.RentalRequest, error) {
	query := forUpdate(`SELECT `+rentalColumns+` FROM rental_requests WHERE id = $1`, r.lock)
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: rental request %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	byRental, err := r.loadInstallments(ctx, []string{rt.ID})
	if err != nil {
		return nil, err
	}
	rt.Installments = byRental[rt.ID]
	return rt, nil
}

func (r *rentalRepository) loadInstallments(ctx context.Context, rentalIDs []string) (map[string][]domain.Installment, error) {
	out := make(map[string][]domain.Installment, len(rentalIDs))
	if len(rentalIDs) == 0 {
		return out, nil
	}

	query := `SELECT ` + installmentColumns + ` FROM installments WHERE rental_id = ANY($1) ORDER BY rental_id, installment_number`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(rentalIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		inst, err := scanInstallment(rows)
		if err != nil {
			return nil, err
		}
		out[inst.RentalID] = append(out[inst.RentalID], *inst)
	}
	return out, rows.Err()
}

func (r *rentalRepository) Update(ctx context.Context, rt *domain.RentalRequest) error {
	rt.UpdatedAt = time.Now().UTC()
	query := `UPDATE rental_requests SET status=$1, delivery_address=$2, rejection_reason=$3, cancellation_reason=$4,
	          approved_by=$5, approved_at=$6, activated_at=$7, completed_at=$8, cancelled_at=$9, updated_at=$10 WHERE id=$11`
	logger.DatabaseCall("UPDATE", "rental_requests", "rentalID", rt.ID, "status", rt.Status)
	res, err := r.db.ExecContext(ctx, query, rt.Status, rt.DeliveryAddress, rt.RejectionReason, rt.CancellationReason,
		rt.ApprovedBy, rt.ApprovedAt, rt.ActivatedAt, rt.CompletedAt, rt.CancelledAt, rt.UpdatedAt, rt.ID)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "rentalID", rt.ID)
		return err
	}
	n, _ := res.RowsAffected()
	logger.DatabaseResult("UPDATE", n, nil, "rentalID", rt.ID)
	if n == 0 {
		return fmt.Errorf("%w: rental request %s", domain.ErrNotFound, rt.ID)
	}
	return nil
}

func (r *rentalRepository) UpdateInstallment(ctx context.Context, inst *domain.Installment) error {
	inst.UpdatedAt = time.Now().UTC()
	query := `UPDATE installments SET status=$1, payment_method=$2, paid_at=$3, paid_amount=$4, updated_at=$5
	          WHERE rental_id=$6 AND installment_number=$7`
	logger.DatabaseCall("UPDATE", "installments", "rentalID", inst.RentalID, "number", inst.Number, "status", inst.Status)
	res, err := r.db.ExecContext(ctx, query, inst.Status, inst.PaymentMethod, inst.PaidAt, nullableDecimal(inst.PaidAmount),
		inst.UpdatedAt, inst.RentalID, inst.Number)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "rentalID", inst.RentalID)
		return err
	}
	n, _ := res.RowsAffected()
	logger.DatabaseResult("UPDATE", n, nil, "rentalID", inst.RentalID, "number", inst.Number)
	if n == 0 {
		return fmt.Errorf("%w: installment %d of rental %s", domain.ErrNotFound, inst.Number, inst.RentalID)
	}
	return nil
}

func (r *rentalRepository) ListByAppliance(ctx context.Context, applianceID string) ([]domain.RentalRequest, error) {
	query := `SELECT ` + rentalColumns + ` FROM rental_requests WHERE appliance_id = $1 ORDER BY created_at`
	return r.queryRentals(ctx, query, applianceID)
}

func (r *rentalRepository) List(ctx context.Context, filter domain.RentalFilter) ([]domain.RentalRequest, int32, error) {
	limit, offset := pageArgs(filter.Page, filter.PageSize)
	query := `SELECT ` + rentalColumns + ` FROM rental_requests WHERE 1=1`

	args := []interface{}{}
	argIdx := 1
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.ApplianceID != "" {
		query += fmt.Sprintf(" AND appliance_id = $%d", argIdx)
		args = append(args, filter.ApplianceID)
		argIdx++
	}
	if filter.UserID != "" {
		query += fmt.Sprintf(" AND user_id = $%d", argIdx)
		args = append(args, filter.UserID)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, offset)

	rentals, err := r.queryRentals(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, len(rentals))
	for i := range rentals {
		ids[i] = rentals[i].ID
	}
	byRental, err := r.loadInstallments(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range rentals {
		rentals[i].Installments = byRental[rentals[i].ID]
	}
	return rentals, count, nil
}

func (r *rentalRepository) ListPendingInstallmentsDueBefore(ctx context.Context, before time.Time) ([]domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE status = $1 AND due_date < $2 ORDER BY due_date`
	return r.queryInstallments(ctx, query, domain.InstallmentStatusPending, domain.DateOf(before))
}

func (r *rentalRepository) ListPendingInstallmentsDueBetween(ctx context.Context, from, to time.Time) ([]domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE status = $1 AND due_date >= $2 AND due_date <= $3 ORDER BY due_date`
	return r.queryInstallments(ctx, query, domain.InstallmentStatusPending, domain.DateOf(from), domain.DateOf(to))
}

func (r *rentalRepository) ListActiveEndedBy(ctx context.Context, asOf time.Time) ([]domain.RentalRequest, error) {
	query := `SELECT ` + rentalColumns + ` FROM rental_requests WHERE status = $1 AND end_date <= $2 ORDER BY end_date`
	return r.queryRentals(ctx, query, domain.RentalStatusActive, domain.DateOf(asOf))
}

func (r *rentalRepository) queryRentals(ctx context.Context, query string, args ...any) ([]domain.RentalRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rentals := []domain.RentalRequest{}
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, rows.Err()
}

func (r *rentalRepository) queryInstallments(ctx context.Context, query string, args ...any) ([]domain.Installment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var installments []domain.Installment
	for rows.Next() {
		inst, err := scanInstallment(rows)
		if err != nil {
			return nil, err
		}
		installments = append(installments, *inst)
	}
	return installments, rows.Err()
}
