package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/account"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

var accountColumnNames = []string{"id", "email", "password_hash", "role", "active", "created_at", "updated_at"}

func TestAccountRepository_Create(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO accounts")).
		WithArgs("jane@x.com", "hash", "EMPLOYEE", false, now, now).
		WillReturnRows(pgxmock.NewRows(accountColumnNames).AddRow(int64(4), "jane@x.com", "hash", "EMPLOYEE", false, now, now))

	repo := NewAccountRepository(mock)
	created, err := repo.Create(context.Background(), &account.Account{
		Email:        "jane@x.com",
		PasswordHash: "hash",
		Role:         account.RoleEmployee,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID != 4 || created.Role != account.RoleEmployee || created.Active {
		t.Fatalf("unexpected account: %+v", created)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAccountRepository_Create_Duplicate(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO accounts")).
		WithArgs(anyArgs(6)...).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "accounts_email_key"})

	repo := NewAccountRepository(mock)
	if _, err := repo.Create(context.Background(), &account.Account{Email: "jane@x.com"}); !errors.Is(err, account.ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAccountRepository_Update(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE accounts")).
		WithArgs("new@x.com", "hash2", true, now, int64(4)).
		WillReturnRows(pgxmock.NewRows(accountColumnNames).AddRow(int64(4), "new@x.com", "hash2", "MANAGER", true, now, now))

	repo := NewAccountRepository(mock)
	updated, err := repo.Update(context.Background(), &account.Account{
		ID:           4,
		Email:        "new@x.com",
		PasswordHash: "hash2",
		Role:         account.RoleManager,
		Active:       true,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Email != "new@x.com" || updated.Role != account.RoleManager {
		t.Fatalf("unexpected account: %+v", updated)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAccountRepository_FindByEmail_NotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE email = $1")).
		WithArgs("ghost@x.com").
		WillReturnRows(pgxmock.NewRows(accountColumnNames))

	repo := NewAccountRepository(mock)
	if _, err := repo.FindByEmail(context.Background(), "ghost@x.com"); !errors.Is(err, account.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountRepository_FindByID(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(accountColumnNames).AddRow(int64(1), "hr@x.com", "hash", "HR", true, now, now))

	repo := NewAccountRepository(mock)
	found, err := repo.FindByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if found.Role != account.RoleHR || !found.Active {
		t.Fatalf("unexpected account: %+v", found)
	}
}

func TestAccountRepository_ExistsByEmail(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1)")).
		WithArgs("none@x.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	repo := NewAccountRepository(mock)
	exists, err := repo.ExistsByEmail(context.Background(), "none@x.com")
	if err != nil {
		t.Fatalf("ExistsByEmail returned error: %v", err)
	}
	if exists {
		t.Fatal("expected email to be free")
	}
}

func TestTranslateAccountPgError(t *testing.T) {
	t.Parallel()

	checkErr := &pgconn.PgError{Code: checkViolationCode}
	if !errors.Is(translateAccountPgError(checkErr), account.ErrInvalidRole) {
		t.Fatalf("expected check violation to map to ErrInvalidRole")
	}

	other := errors.New("other")
	if translateAccountPgError(other) != other {
		t.Fatalf("unexpected translation for generic error")
	}
}
