package audit

import "context"

// Repository は追記専用の監査ログ永続化の抽象です。更新と削除は提供しません。
type Repository interface {
	Append(ctx context.Context, entry *Entry) (*Entry, error)
	ListByEmployee(ctx context.Context, employeeID string, limit, offset int) ([]*Entry, int64, error)
}
