package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/employee"
	pgdb "github.com/AitaayiM/Employee-Records-Management-System/internal/platform/db/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
)

const employeeColumns = `id, full_name, job_title, department, hire_date, employment_status, email, phone, address, version, created_at, updated_at`

// EmployeeRepository は PostgreSQL を利用した社員永続化の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// Create は社員を新規作成します。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO employees (full_name, job_title, department, hire_date, employment_status, email, phone, address, version, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1, $9, $10)
        RETURNING `+employeeColumns,
		e.FullName,
		e.JobTitle,
		e.Department,
		dateOnly(e.HireDate),
		string(e.EmploymentStatus),
		nullableString(e.Email),
		nullableString(e.Phone),
		nullableString(e.Address),
		e.CreatedAt,
		e.UpdatedAt,
	)

	created, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return created, nil
}

// Update は version が expectedVersion と一致する場合のみ社員を更新します。
func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee, expectedVersion int64) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE employees
           SET full_name = $1,
               job_title = $2,
               department = $3,
               hire_date = $4,
               employment_status = $5,
               email = $6,
               phone = $7,
               address = $8,
               version = version + 1,
               updated_at = $9
         WHERE id = $10 AND version = $11
        RETURNING `+employeeColumns,
		e.FullName,
		e.JobTitle,
		e.Department,
		dateOnly(e.HireDate),
		string(e.EmploymentStatus),
		nullableString(e.Email),
		nullableString(e.Phone),
		nullableString(e.Address),
		e.UpdatedAt,
		e.ID,
		expectedVersion,
	)

	updated, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil, employee.ErrConcurrentModification
		}
		return nil, translateEmployeePgError(err)
	}
	return updated, nil
}

// Delete は社員を削除し、削除した行が存在したかを返します。
func (r *EmployeeRepository) Delete(ctx context.Context, id int64) (bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return false, translateEmployeePgError(err)
	}
	return tag.RowsAffected() > 0, nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// FindByDepartment は部署に所属する社員を ID 昇順で取得します。
func (r *EmployeeRepository) FindByDepartment(ctx context.Context, department string) ([]*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `SELECT `+employeeColumns+` FROM employees WHERE department = $1 ORDER BY id`, department)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return collectEmployees(rows, 0)
}

// ExistsByEmail はメールアドレスを持つ社員が存在するかを返します。
func (r *EmployeeRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	var exists bool
	if err := exec.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM employees WHERE email = $1)`, email).Scan(&exists); err != nil {
		return false, translateEmployeePgError(err)
	}
	return exists, nil
}

// Search は条件に部分一致する社員と総件数を取得します。並び順は ID 昇順です。
func (r *EmployeeRepository) Search(ctx context.Context, filter employee.SearchFilter) ([]*employee.Employee, int64, error) {
	if filter.Limit <= 0 {
		return nil, 0, employee.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, 0, employee.ErrInvalidPage
	}

	args := make([]any, 0, 5)
	conditions := make([]string, 0, 3)

	addContains := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, "%"+escapeLike(value)+"%")
		conditions = append(conditions, column+` ILIKE $`+strconv.Itoa(len(args))+` ESCAPE '\'`)
	}
	addContains("full_name", filter.FullName)
	addContains("department", filter.Department)
	addContains("job_title", filter.JobTitle)

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)

	var total int64
	if err := exec.QueryRow(ctx, `SELECT COUNT(*) FROM employees`+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, translateEmployeePgError(err)
	}
	if total == 0 || int64(filter.Offset) >= total {
		return []*employee.Employee{}, total, nil
	}

	limitPlaceholder := "$" + strconv.Itoa(len(args)+1)
	offsetPlaceholder := "$" + strconv.Itoa(len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := exec.Query(ctx, `SELECT `+employeeColumns+` FROM employees`+whereClause+
		` ORDER BY id LIMIT `+limitPlaceholder+` OFFSET `+offsetPlaceholder, args...)
	if err != nil {
		return nil, 0, translateEmployeePgError(err)
	}

	employees, err := collectEmployees(rows, filter.Limit)
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

func collectEmployees(rows pgx.Rows, capacity int) ([]*employee.Employee, error) {
	defer rows.Close()

	employees := make([]*employee.Employee, 0, capacity)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, translateEmployeePgError(err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError(err)
	}
	return employees, nil
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		id         int64
		fullName   string
		jobTitle   string
		department string
		hireDate   time.Time
		status     string
		email      sql.NullString
		phone      sql.NullString
		address    sql.NullString
		version    int64
		createdAt  time.Time
		updatedAt  time.Time
	)

	if err := row.Scan(
		&id,
		&fullName,
		&jobTitle,
		&department,
		&hireDate,
		&status,
		&email,
		&phone,
		&address,
		&version,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	return &employee.Employee{
		ID:               id,
		FullName:         fullName,
		JobTitle:         jobTitle,
		Department:       department,
		HireDate:         dateOnly(hireDate),
		EmploymentStatus: employee.Status(status),
		Email:            stringPtr(email),
		Phone:            stringPtr(phone),
		Address:          stringPtr(address),
		Version:          version,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}, nil
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return employee.ErrDuplicateEmployee
		case checkViolationCode:
			if pgErr.ConstraintName == "employees_employment_status_check" {
				return employee.ErrInvalidStatus
			}
		}
	}

	return err
}

// escapeLike は ILIKE のメタ文字をエスケープします。
func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}

func dateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func nullableString(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func stringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	v := value.String
	return &v
}
