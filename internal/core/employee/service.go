package employee

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/account"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/audit"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// DeletePolicy は存在しない ID の削除要求の扱いを決めます。
type DeletePolicy int

const (
	// DeleteMissingFails は ErrEmployeeNotFound を返し、監査ログを書きません。
	DeleteMissingFails DeletePolicy = iota
	// DeleteMissingAudited は何も削除せずに監査ログのみ記録します。
	DeleteMissingAudited
)

const (
	defaultPageSize = 15
	maxPageSize     = 200

	maxNameLength    = 255
	maxPhoneLength   = 20
	maxAddressLength = 500
)

// Service は社員レコードの唯一の変更経路です。変更と監査ログは同一トランザクションで書き込まれます。
type Service struct {
	repo         Repository
	accounts     account.Repository
	audits       audit.Repository
	hasher       account.PasswordHasher
	clock        Clock
	tx           TransactionManager
	deletePolicy DeletePolicy
}

// UseCase は社員ユースケースの公開インターフェースです。
type UseCase interface {
	CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error)
	GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error)
	ListEmployees(ctx context.Context, in ListEmployeesInput) (*Page, error)
	SearchEmployees(ctx context.Context, in SearchEmployeesInput) (*Page, error)
	UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error)
	DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) error
}

// Option は Service の挙動を変更します。
type Option func(*Service)

// WithDeletePolicy は削除ポリシーを設定します。
func WithDeletePolicy(p DeletePolicy) Option {
	return func(s *Service) {
		s.deletePolicy = p
	}
}

// NewService は Service を生成します。
func NewService(repo Repository, accounts account.Repository, audits audit.Repository, hasher account.PasswordHasher, clock Clock, tx TransactionManager, opts ...Option) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	s := &Service{
		repo:     repo,
		accounts: accounts,
		audits:   audits,
		hasher:   hasher,
		clock:    clock,
		tx:       tx,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateEmployeeInput は社員作成時の入力です。
type CreateEmployeeInput struct {
	Actor account.Principal
	Fields
}

// UpdateEmployeeInput は社員更新時の入力です。全項目が上書きされます。
// ExpectedVersion が 0 より大きい場合、読み込んだレコードの version と一致しなければ失敗します。
type UpdateEmployeeInput struct {
	Actor           account.Principal
	ID              int64
	ExpectedVersion int64
	Fields
}

// DeleteEmployeeInput は社員削除時の入力です。
type DeleteEmployeeInput struct {
	Actor account.Principal
	ID    int64
}

// GetEmployeeInput は社員取得時の入力です。
type GetEmployeeInput struct {
	ID int64
}

// ListEmployeesInput は一覧取得時の入力です。
type ListEmployeesInput struct {
	Page int
	Size int
}

// SearchEmployeesInput は検索時の入力です。各条件は大文字小文字を区別しない部分一致です。
type SearchEmployeesInput struct {
	FullName   string
	Department string
	JobTitle   string
	Page       int
	Size       int
}

// CreateEmployee は社員と紐づくアカウントを作成し、監査ログを記録します。
func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error) {
	fields, err := normalizeFields(in.Fields)
	if err != nil {
		return nil, err
	}
	if fields.email == nil {
		return nil, fmt.Errorf("email is required: %w", ErrInvalidEmail)
	}
	email := *fields.email

	var created *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.ensureEmailAvailable(txCtx, email); err != nil {
			return err
		}

		actor, err := s.resolveActor(txCtx, in.Actor)
		if err != nil {
			return err
		}

		hash, err := s.hasher.Hash(email)
		if err != nil {
			return fmt.Errorf("employee: hash placeholder credential: %w", err)
		}

		now := s.clock.Now()
		if _, err := s.accounts.Create(txCtx, &account.Account{
			Email:        email,
			PasswordHash: hash,
			Role:         account.RoleEmployee,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil {
			if errors.Is(err, account.ErrEmailAlreadyExists) {
				return ErrDuplicateEmployee
			}
			return err
		}

		emp := &Employee{CreatedAt: now, UpdatedAt: now, Version: 1}
		fields.applyTo(emp)

		result, err := s.repo.Create(txCtx, emp)
		if err != nil {
			return err
		}

		if err := s.appendAudit(txCtx, result.ID, actor.ID, now, "Created employee: "+result.FullName); err != nil {
			return err
		}

		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateEmployee は社員の全項目を上書きし、差分を監査ログに記録します。
// UPDATE_EMPLOYEE の認可は呼び出し側で評価済みであることを前提とします。
func (s *Service) UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error) {
	if in.ID <= 0 {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	fields, err := normalizeFields(in.Fields)
	if err != nil {
		return nil, err
	}
	if fields.email == nil {
		return nil, fmt.Errorf("email cannot be cleared: %w", ErrInvalidEmail)
	}

	var updated *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}
		if in.ExpectedVersion > 0 && in.ExpectedVersion != existing.Version {
			return ErrConcurrentModification
		}

		actor, err := s.resolveActor(txCtx, in.Actor)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		if !equalOptional(existing.Email, fields.email) {
			if err := s.migrateLinkedAccount(txCtx, existing.Email, *fields.email, now); err != nil {
				return err
			}
		}

		candidate := *existing
		fields.applyTo(&candidate)
		candidate.UpdatedAt = now
		changes := Diff(existing, &candidate)

		result, err := s.repo.Update(txCtx, &candidate, existing.Version)
		if err != nil {
			return err
		}

		description := fmt.Sprintf("Updated employee: %s. Changes: %s", result.FullName, changes)
		if err := s.appendAudit(txCtx, result.ID, actor.ID, now, description); err != nil {
			return err
		}

		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteEmployee は社員を削除し、監査ログを記録します。紐づくアカウントは残ります。
func (s *Service) DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) error {
	if in.ID <= 0 {
		return fmt.Errorf("id: %w", ErrInvalidID)
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		actor, err := s.resolveActor(txCtx, in.Actor)
		if err != nil {
			return err
		}

		removed, err := s.repo.Delete(txCtx, in.ID)
		if err != nil {
			return err
		}
		if !removed && s.deletePolicy == DeleteMissingFails {
			return ErrEmployeeNotFound
		}

		return s.appendAudit(txCtx, in.ID, actor.ID, s.clock.Now(), fmt.Sprintf("Deleted employee with ID: %d", in.ID))
	})
}

// GetEmployee は社員を取得します。
func (s *Service) GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error) {
	if in.ID <= 0 {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var result *Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// ListEmployees は条件なしで社員の一覧を取得します。
func (s *Service) ListEmployees(ctx context.Context, in ListEmployeesInput) (*Page, error) {
	return s.SearchEmployees(ctx, SearchEmployeesInput{Page: in.Page, Size: in.Size})
}

// SearchEmployees は指定された条件すべてに一致する社員を ID 昇順で取得します。
func (s *Service) SearchEmployees(ctx context.Context, in SearchEmployeesInput) (*Page, error) {
	if in.Page < 0 {
		return nil, ErrInvalidPage
	}

	size, err := normalizePageSize(in.Size)
	if err != nil {
		return nil, err
	}

	filter := SearchFilter{
		FullName:   strings.TrimSpace(in.FullName),
		Department: strings.TrimSpace(in.Department),
		JobTitle:   strings.TrimSpace(in.JobTitle),
		Limit:      size,
		Offset:     in.Page * size,
	}

	page := &Page{Page: in.Page, Size: size}
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		employees, total, err := s.repo.Search(txCtx, filter)
		if err != nil {
			return err
		}
		page.Employees = employees
		page.TotalElements = total
		return nil
	}); err != nil {
		return nil, err
	}

	page.TotalPages = int((page.TotalElements + int64(size) - 1) / int64(size))
	return page, nil
}

func (s *Service) ensureEmailAvailable(ctx context.Context, email string) error {
	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateEmployee
	}

	exists, err = s.accounts.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateEmployee
	}
	return nil
}

func (s *Service) migrateLinkedAccount(ctx context.Context, oldEmail *string, newEmail string, now time.Time) error {
	if err := s.ensureEmailAvailable(ctx, newEmail); err != nil {
		return err
	}

	if oldEmail == nil {
		return ErrLinkedAccountNotFound
	}

	linked, err := s.accounts.FindByEmail(ctx, *oldEmail)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return ErrLinkedAccountNotFound
		}
		return err
	}

	linked.Email = newEmail
	linked.UpdatedAt = now
	if _, err := s.accounts.Update(ctx, linked); err != nil {
		if errors.Is(err, account.ErrEmailAlreadyExists) {
			return ErrDuplicateEmployee
		}
		return err
	}
	return nil
}

func (s *Service) resolveActor(ctx context.Context, actor account.Principal) (*account.Account, error) {
	if strings.TrimSpace(actor.Email) == "" {
		return nil, ErrActorNotFound
	}

	found, err := s.accounts.FindByEmail(ctx, actor.Email)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return nil, ErrActorNotFound
		}
		return nil, err
	}
	return found, nil
}

func (s *Service) appendAudit(ctx context.Context, employeeID, actorID int64, at time.Time, description string) error {
	if _, err := s.audits.Append(ctx, audit.NewEntry(strconv.FormatInt(employeeID, 10), actorID, at, description)); err != nil {
		return fmt.Errorf("employee: append audit entry: %w", err)
	}
	return nil
}

type normalizedFields struct {
	fullName   string
	jobTitle   string
	department string
	hireDate   time.Time
	status     Status
	email      *string
	phone      *string
	address    *string
}

func (f normalizedFields) applyTo(e *Employee) {
	e.FullName = f.fullName
	e.JobTitle = f.jobTitle
	e.Department = f.department
	e.HireDate = f.hireDate
	e.EmploymentStatus = f.status
	e.Email = cloneString(f.email)
	e.Phone = cloneString(f.phone)
	e.Address = cloneString(f.address)
}

func normalizeFields(in Fields) (normalizedFields, error) {
	var out normalizedFields

	var err error
	if out.fullName, err = normalizeRequired(in.FullName, ErrInvalidFullName); err != nil {
		return out, err
	}
	if out.jobTitle, err = normalizeRequired(in.JobTitle, ErrInvalidJobTitle); err != nil {
		return out, err
	}
	if out.department, err = normalizeRequired(in.Department, ErrInvalidDepartment); err != nil {
		return out, err
	}

	if in.HireDate.IsZero() {
		return out, ErrInvalidHireDate
	}
	out.hireDate = normalizeDate(in.HireDate)

	if out.status, err = ParseStatus(in.EmploymentStatus); err != nil {
		return out, err
	}

	if email := optionalString(in.Email); email != nil {
		normalized, err := account.NormalizeEmail(*email)
		if err != nil {
			return out, ErrInvalidEmail
		}
		out.email = &normalized
	}

	if out.phone, err = normalizeOptional(in.Phone, maxPhoneLength, ErrInvalidPhone); err != nil {
		return out, err
	}
	if out.address, err = normalizeOptional(in.Address, maxAddressLength, ErrInvalidAddress); err != nil {
		return out, err
	}

	return out, nil
}

func normalizeRequired(raw string, invalid error) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > maxNameLength {
		return "", invalid
	}
	return trimmed, nil
}

func normalizeOptional(raw *string, maxLength int, invalid error) (*string, error) {
	value := optionalString(raw)
	if value == nil {
		return nil, nil
	}
	if utf8.RuneCountInString(*value) > maxLength {
		return nil, invalid
	}
	return value, nil
}

// optionalString は空白のみの値を未設定として扱います。
func optionalString(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func normalizePageSize(size int) (int, error) {
	if size <= 0 {
		return defaultPageSize, nil
	}
	if size > maxPageSize {
		return 0, ErrInvalidPageSize
	}
	return size, nil
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	clone := *v
	return &clone
}
