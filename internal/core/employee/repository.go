package employee

import "context"

// Repository は社員永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, employee *Employee) (*Employee, error)
	// Update は version が expectedVersion と一致する場合のみ更新し、version を 1 進めます。
	// 一致しない場合は ErrConcurrentModification を返します。
	Update(ctx context.Context, employee *Employee, expectedVersion int64) (*Employee, error)
	// Delete は削除した行が存在したかを返します。
	Delete(ctx context.Context, id int64) (bool, error)
	FindByID(ctx context.Context, id int64) (*Employee, error)
	FindByDepartment(ctx context.Context, department string) ([]*Employee, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Search(ctx context.Context, filter SearchFilter) ([]*Employee, int64, error)
}

// SearchFilter は検索条件です。空文字の条件は適用されません。
type SearchFilter struct {
	FullName   string
	Department string
	JobTitle   string
	Limit      int
	Offset     int
}
