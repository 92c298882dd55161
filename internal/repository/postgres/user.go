package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/logger"
	"appliance-rental-backend/internal/repository"

	"github.com/google/uuid"
)

type userRepository struct {
	db dbtx
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, name, phone_number, password_hash, role, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = domain.UserRoleUser
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	query := `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	logger.DatabaseCall("INSERT", "users", "email", u.Email)
	_, err := r.db.ExecContext(ctx, query, u.ID, strings.ToLower(u.Email), u.Name, u.PhoneNumber, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt)
	logger.DatabaseResult("INSERT", 1, err, "userID", u.ID)
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.get(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return r.get(ctx, query, email)
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	u.UpdatedAt = time.Now().UTC()
	query := `UPDATE users SET name = $1, phone_number = $2, role = $3, updated_at = $4 WHERE id = $5`
	logger.DatabaseCall("UPDATE", "users", "userID", u.ID)
	res, err := r.db.ExecContext(ctx, query, u.Name, u.PhoneNumber, u.Role, u.UpdatedAt, u.ID)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "userID", u.ID)
		return err
	}
	rows, _ := res.RowsAffected()
	logger.DatabaseResult("UPDATE", rows, nil, "userID", u.ID)
	if rows == 0 {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, u.ID)
	}
	return nil
}

func (r *userRepository) get(ctx context.Context, query string, arg string) (*domain.User, error) {
	u := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.Name, &u.PhoneNumber, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, arg)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
