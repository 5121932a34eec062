package postgres

import (
	"context"
	"errors"

	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/account"
	pgdb "github.com/AitaayiM/Employee-Records-Management-System/internal/platform/db/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const accountColumns = `id, email, password_hash, role, active, created_at, updated_at`

// AccountRepository は PostgreSQL を利用したアカウント永続化の実装です。
type AccountRepository struct {
	pool pgdb.Queryer
}

// NewAccountRepository は AccountRepository を生成します。
func NewAccountRepository(pool pgdb.Queryer) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create はアカウントを新規作成します。
func (r *AccountRepository) Create(ctx context.Context, a *account.Account) (*account.Account, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO accounts (email, password_hash, role, active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING `+accountColumns,
		a.Email,
		a.PasswordHash,
		string(a.Role),
		a.Active,
		a.CreatedAt,
		a.UpdatedAt,
	)

	created, err := scanAccount(row)
	if err != nil {
		return nil, translateAccountPgError(err)
	}
	return created, nil
}

// Update はメールアドレス・パスワードハッシュ・有効状態を更新します。ロールは変更しません。
func (r *AccountRepository) Update(ctx context.Context, a *account.Account) (*account.Account, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE accounts
           SET email = $1,
               password_hash = $2,
               active = $3,
               updated_at = $4
         WHERE id = $5
        RETURNING `+accountColumns,
		a.Email,
		a.PasswordHash,
		a.Active,
		a.UpdatedAt,
		a.ID,
	)

	updated, err := scanAccount(row)
	if err != nil {
		return nil, translateAccountPgError(err)
	}
	return updated, nil
}

// FindByID は ID でアカウントを取得します。
func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*account.Account, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	found, err := scanAccount(exec.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
	if err != nil {
		return nil, translateAccountPgError(err)
	}
	return found, nil
}

// FindByEmail はメールアドレスでアカウントを取得します。
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	found, err := scanAccount(exec.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email))
	if err != nil {
		return nil, translateAccountPgError(err)
	}
	return found, nil
}

// ExistsByEmail はメールアドレスを持つアカウントが存在するかを返します。
func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	var exists bool
	if err := exec.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1)`, email).Scan(&exists); err != nil {
		return false, translateAccountPgError(err)
	}
	return exists, nil
}

func scanAccount(row pgx.Row) (*account.Account, error) {
	var (
		a    account.Account
		role string
	)
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &role, &a.Active, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound
		}
		return nil, err
	}
	a.Role = account.Role(role)
	return &a, nil
}

func translateAccountPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return account.ErrAccountNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return account.ErrEmailAlreadyExists
		case checkViolationCode:
			return account.ErrInvalidRole
		}
	}

	return err
}
