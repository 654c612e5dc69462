package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/account_exchange/internal/apperrors"
	"github.com/SscSPs/account_exchange/internal/core/domain"
	portsrepo "github.com/SscSPs/account_exchange/internal/core/ports/repositories"
	"github.com/SscSPs/account_exchange/internal/models"
	"github.com/SscSPs/account_exchange/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectAccount = `
	SELECT account_id, account_number, balance, currency_code, created_at, last_updated_at
	FROM accounts
`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	modelAcc := mapping.ToModelAccount(account, time.Now().UTC())

	query := `
		INSERT INTO accounts (account_id, account_number, balance, currency_code, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelAcc.AccountID,
		modelAcc.AccountNumber,
		modelAcc.Balance,
		modelAcc.CurrencyCode,
		modelAcc.CreatedAt,
		modelAcc.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: account %s or number %s already exists", apperrors.ErrDuplicate, modelAcc.AccountID, modelAcc.AccountNumber)
		}
		return fmt.Errorf("failed to save account %s: %w", modelAcc.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, id domain.AccountID) (*domain.Account, error) {
	return r.findOne(ctx, selectAccount+"WHERE account_id = $1;", id.String())
}

// FindAccountByNumber retrieves an account by its normalised account number.
func (r *PgxAccountRepository) FindAccountByNumber(ctx context.Context, number domain.AccountNumber) (*domain.Account, error) {
	return r.findOne(ctx, selectAccount+"WHERE account_number = $1;", number.String())
}

func (r *PgxAccountRepository) findOne(ctx context.Context, query string, arg string) (*domain.Account, error) {
	var modelAcc models.Account
	err := r.Pool.QueryRow(ctx, query, arg).Scan(
		&modelAcc.AccountID,
		&modelAcc.AccountNumber,
		&modelAcc.Balance,
		&modelAcc.CurrencyCode,
		&modelAcc.CreatedAt,
		&modelAcc.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, arg)
		}
		return nil, fmt.Errorf("failed to find account %s: %w", arg, err)
	}

	domainAcc, err := mapping.ToDomainAccount(modelAcc)
	if err != nil {
		return nil, err
	}
	return &domainAcc, nil
}
