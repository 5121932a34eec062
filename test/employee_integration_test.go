//go:build integration

package integration

import (
	"context"
	"errors"
	"net/url"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	repo "github.com/AitaayiM/Employee-Records-Management-System/internal/adapters/repository/postgres"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/account"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/audit"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/authz"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/employee"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/platform/config"
	pg "github.com/AitaayiM/Employee-Records-Management-System/internal/platform/db/postgres"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/platform/security"
	"github.com/jackc/pgx/v5/pgxpool"
)

type fixture struct {
	pool      *pgxpool.Pool
	accounts  *repo.AccountRepository
	employees *employee.Service
	history   *audit.Service
	engine    *authz.Engine
	hr        account.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("employee_records"),
		tcpostgres.WithUsername("app"),
		tcpostgres.WithPassword("app"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, migrateUp(dsn))

	pool, err := pg.NewPool(ctx, databaseConfig(t, dsn))
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	tx := pg.NewTransactionManager(pool)
	accountRepo := repo.NewAccountRepository(pool)
	employeeRepo := repo.NewEmployeeRepository(pool)
	auditRepo := repo.NewAuditRepository(pool)
	hasher := security.NewBcryptHasher(4)

	hrAccount, err := accountRepo.Create(ctx, &account.Account{
		Email:        "hr@x.com",
		PasswordHash: "unused",
		Role:         account.RoleHR,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)

	return &fixture{
		pool:      pool,
		accounts:  accountRepo,
		employees: employee.NewService(employeeRepo, accountRepo, auditRepo, hasher, nil, tx),
		history:   audit.NewService(auditRepo, tx),
		engine:    authz.NewEngine(accountRepo, employeeRepo),
		hr:        account.Principal{AccountID: hrAccount.ID, Email: hrAccount.Email, Role: account.RoleHR},
	}
}

func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "assets", "migrations")
}

func migrateUp(dsn string) error {
	m, err := migrate.New("file://"+filepath.ToSlash(migrationsDir()), dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func databaseConfig(t *testing.T, dsn string) config.DatabaseConfig {
	t.Helper()

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)
	password, _ := u.User.Password()

	return config.DatabaseConfig{
		Host:         u.Hostname(),
		Port:         port,
		User:         u.User.Username(),
		Password:     password,
		Name:         u.Path[1:],
		SSLMode:      "disable",
		MaxOpenConns: 8,
	}
}

func strPtr(v string) *string {
	return &v
}

func fields(name, department, email string) employee.Fields {
	return employee.Fields{
		FullName:         name,
		JobTitle:         "Engineer",
		Department:       department,
		HireDate:         time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC),
		EmploymentStatus: "ACTIVE",
		Email:            strPtr(email),
	}
}

func TestEmployeeLifecycleIntegration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.employees.CreateEmployee(ctx, employee.CreateEmployeeInput{Actor: f.hr, Fields: fields("Alice", "Sales", "a@x.com")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.Version)

	linked, err := f.accounts.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, account.RoleEmployee, linked.Role)

	_, err = f.employees.CreateEmployee(ctx, employee.CreateEmployeeInput{Actor: f.hr, Fields: fields("Dup", "Sales", "a@x.com")})
	require.ErrorIs(t, err, employee.ErrDuplicateEmployee)

	update := fields("Alice", "Marketing", "a@x.com")
	updated, err := f.employees.UpdateEmployee(ctx, employee.UpdateEmployeeInput{Actor: f.hr, ID: created.ID, ExpectedVersion: 1, Fields: update})
	require.NoError(t, err)
	assert.Equal(t, "Marketing", updated.Department)
	assert.Equal(t, int64(2), updated.Version)

	_, err = f.employees.UpdateEmployee(ctx, employee.UpdateEmployeeInput{Actor: f.hr, ID: created.ID, ExpectedVersion: 1, Fields: update})
	require.ErrorIs(t, err, employee.ErrConcurrentModification)

	require.NoError(t, f.employees.DeleteEmployee(ctx, employee.DeleteEmployeeInput{Actor: f.hr, ID: created.ID}))
	_, err = f.employees.GetEmployee(ctx, employee.GetEmployeeInput{ID: created.ID})
	require.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	history, err := f.history.ListByEmployee(ctx, audit.ListByEmployeeInput{EmployeeID: strconv.FormatInt(created.ID, 10)})
	require.NoError(t, err)
	require.Len(t, history.Entries, 3)
	assert.Equal(t, "Deleted employee with ID: "+strconv.FormatInt(created.ID, 10), history.Entries[0].Description)
	assert.Contains(t, history.Entries[1].Description, "Department: Sales -> Marketing")
	assert.Equal(t, "Created employee: Alice", history.Entries[2].Description)

	_, err = f.pool.Exec(ctx, `DELETE FROM audit_log`)
	require.Error(t, err, "audit log must reject deletes")
}

func TestSearchIntegration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i, name := range []string{"Ann Lee", "Bob_Stone", "annika Roe"} {
		_, err := f.employees.CreateEmployee(ctx, employee.CreateEmployeeInput{
			Actor:  f.hr,
			Fields: fields(name, "Sales", "user"+strconv.Itoa(i)+"@x.com"),
		})
		require.NoError(t, err)
	}

	page, err := f.employees.SearchEmployees(ctx, employee.SearchEmployeesInput{FullName: "ANN"})
	require.NoError(t, err)
	require.Len(t, page.Employees, 2)
	assert.Less(t, page.Employees[0].ID, page.Employees[1].ID)

	page, err = f.employees.SearchEmployees(ctx, employee.SearchEmployeesInput{FullName: "_"})
	require.NoError(t, err)
	require.Len(t, page.Employees, 1)
	assert.Equal(t, "Bob_Stone", page.Employees[0].FullName)
}

func TestConcurrentUpdatesIntegration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.employees.CreateEmployee(ctx, employee.CreateEmployeeInput{Actor: f.hr, Fields: fields("Carol", "Sales", "c@x.com")})
	require.NoError(t, err)

	const writers = 4
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := employee.UpdateEmployeeInput{
				Actor:           f.hr,
				ID:              created.ID,
				ExpectedVersion: created.Version,
				Fields:          fields("Carol", "Dept"+strconv.Itoa(i), "c@x.com"),
			}
			_, err := f.employees.UpdateEmployee(ctx, in)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, employee.ErrConcurrentModification):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, writers-1, conflicts)

	history, err := f.history.ListByEmployee(ctx, audit.ListByEmployeeInput{EmployeeID: strconv.FormatInt(created.ID, 10)})
	require.NoError(t, err)
	assert.Len(t, history.Entries, 2)
}

func TestEngineIntegration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	target, err := f.employees.CreateEmployee(ctx, employee.CreateEmployeeInput{Actor: f.hr, Fields: fields("Dan", "Sales", "d@x.com")})
	require.NoError(t, err)

	allowed, err := f.engine.Evaluate(ctx, "hr@x.com", target.ID, authz.ActionUpdateEmployee)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = f.engine.Evaluate(ctx, "d@x.com", target.ID, authz.ActionUpdateEmployee)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = f.engine.Evaluate(ctx, "nobody@x.com", target.ID, authz.ActionUpdateEmployee)
	require.NoError(t, err)
	assert.False(t, allowed)

	_, err = f.engine.Evaluate(ctx, "hr@x.com", 999999, authz.ActionUpdateEmployee)
	require.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
