package audit

import (
	"context"
	"strings"
)

const (
	defaultPageSize = 15
	maxPageSize     = 200
)

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// UseCase は監査ログ参照ユースケースの公開インターフェースです。
type UseCase interface {
	ListByEmployee(ctx context.Context, in ListByEmployeeInput) (*ListResult, error)
}

// Service は監査ログの参照を提供します。書き込みは社員ユースケースのトランザクション内で行われます。
type Service struct {
	repo Repository
	tx   TransactionManager
}

// NewService は Service を生成します。
func NewService(repo Repository, tx TransactionManager) *Service {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, tx: tx}
}

// ListByEmployeeInput は社員単位の履歴取得時の入力です。Page は 0 始まりです。
type ListByEmployeeInput struct {
	EmployeeID string
	Page       int
	Size       int
}

// ListResult は履歴取得結果を表します。
type ListResult struct {
	Entries       []*Entry
	Page          int
	Size          int
	TotalElements int64
}

// ListByEmployee は社員の変更履歴を新しい順に取得します。
func (s *Service) ListByEmployee(ctx context.Context, in ListByEmployeeInput) (*ListResult, error) {
	employeeID := strings.TrimSpace(in.EmployeeID)
	if employeeID == "" {
		return nil, ErrInvalidEmployeeID
	}
	if in.Page < 0 {
		return nil, ErrInvalidPage
	}

	size := in.Size
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		return nil, ErrInvalidPageSize
	}

	result := &ListResult{Page: in.Page, Size: size}
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		entries, total, err := s.repo.ListByEmployee(txCtx, employeeID, size, in.Page*size)
		if err != nil {
			return err
		}
		result.Entries = entries
		result.TotalElements = total
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}
