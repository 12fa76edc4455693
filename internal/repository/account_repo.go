package repository

import (
	"context"
	"errors"
	"fmt"

	"kaamsetu/internal/model"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// AccountRepository defines operations for account data
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	FindByPhone(ctx context.Context, phone string) (*model.Account, error)
	FindByID(ctx context.Context, id int64) (*model.Account, error)
}

type accountRepository struct {
	db DBTX
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db DBTX) AccountRepository {
	return &accountRepository{db: db}
}

// Create inserts a new account. Phone uniqueness is left to the database
// constraint so concurrent signups cannot both succeed.
func (r *accountRepository) Create(ctx context.Context, a *model.Account) error {
	sql := `INSERT INTO accounts (phone, password_hash, name, role, created_at)
            VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.db.QueryRow(ctx, sql, a.Phone, a.PasswordHash, a.Name, a.Role, a.CreatedAt).Scan(&a.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrDuplicatePhone
		}
		return fmt.Errorf("failed to create account: %w: %w", ErrPersistence, err)
	}
	return nil
}

// FindByPhone retrieves an account by phone number, nil when absent
func (r *accountRepository) FindByPhone(ctx context.Context, phone string) (*model.Account, error) {
	sql := `SELECT id, phone, password_hash, name, role, created_at FROM accounts WHERE phone = $1`
	return r.findOne(ctx, sql, phone)
}

// FindByID retrieves an account by id, nil when absent
func (r *accountRepository) FindByID(ctx context.Context, id int64) (*model.Account, error) {
	sql := `SELECT id, phone, password_hash, name, role, created_at FROM accounts WHERE id = $1`
	return r.findOne(ctx, sql, id)
}

func (r *accountRepository) findOne(ctx context.Context, sql string, arg any) (*model.Account, error) {
	a := &model.Account{}
	err := r.db.QueryRow(ctx, sql, arg).Scan(&a.ID, &a.Phone, &a.PasswordHash, &a.Name, &a.Role, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find account: %w: %w", ErrPersistence, err)
	}
	return a, nil
}
