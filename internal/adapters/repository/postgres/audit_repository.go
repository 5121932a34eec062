package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/audit"
	pgdb "github.com/AitaayiM/Employee-Records-Management-System/internal/platform/db/postgres"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrAuditActorMissing は監査ログの実行者がアカウントとして存在しない場合に返されます。
var ErrAuditActorMissing = errors.New("audit: actor account does not exist")

// AuditRepository は PostgreSQL を利用した追記専用の監査ログ実装です。
type AuditRepository struct {
	pool pgdb.Queryer
}

// NewAuditRepository は AuditRepository を生成します。
func NewAuditRepository(pool pgdb.Queryer) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// Append は監査ログを 1 件追記します。
func (r *AuditRepository) Append(ctx context.Context, e *audit.Entry) (*audit.Entry, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO audit_log (employee_id, user_id, change_time, description)
        VALUES ($1, $2, $3, $4)
        RETURNING id`,
		e.EmployeeID,
		e.ActorID,
		e.ChangedAt,
		e.Description,
	)

	appended := *e
	if err := row.Scan(&appended.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode {
			return nil, ErrAuditActorMissing
		}
		return nil, fmt.Errorf("audit: append: %w", err)
	}
	return &appended, nil
}

// ListByEmployee は社員 ID の監査ログを新しい順に取得し、総件数とともに返します。
func (r *AuditRepository) ListByEmployee(ctx context.Context, employeeID string, limit, offset int) ([]*audit.Entry, int64, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	var total int64
	if err := exec.QueryRow(ctx, `SELECT COUNT(*) FROM audit_log WHERE employee_id = $1`, employeeID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("audit: count: %w", err)
	}

	rows, err := exec.Query(ctx, `
        SELECT id, employee_id, user_id, change_time, description
          FROM audit_log
         WHERE employee_id = $1
         ORDER BY change_time DESC, id DESC
         LIMIT $2 OFFSET $3`,
		employeeID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("audit: list: %w", err)
	}
	defer rows.Close()

	entries := make([]*audit.Entry, 0, limit)
	for rows.Next() {
		var e audit.Entry
		if err := rows.Scan(&e.ID, &e.EmployeeID, &e.ActorID, &e.ChangedAt, &e.Description); err != nil {
			return nil, 0, fmt.Errorf("audit: scan: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("audit: list: %w", err)
	}

	return entries, total, nil
}
