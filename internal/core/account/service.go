package account

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxEmailLength    = 255
	minPasswordLength = 6
	maxPasswordLength = 40
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
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// UseCase はアカウントユースケースの公開インターフェースです。
type UseCase interface {
	Signup(ctx context.Context, in SignupInput) (*Account, error)
	SignIn(ctx context.Context, in SignInInput) (*SignInResult, error)
	Activate(ctx context.Context, in ActivateInput) (*Account, error)
}

// Service はアカウントに関するユースケースをまとめます。
type Service struct {
	repo   Repository
	hasher PasswordHasher
	tokens TokenIssuer
	clock  Clock
	tx     TransactionManager
}

// NewService は Service を生成します。
func NewService(repo Repository, hasher PasswordHasher, tokens TokenIssuer, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, hasher: hasher, tokens: tokens, clock: clock, tx: tx}
}

// SignupInput はアカウント登録時の入力です。
type SignupInput struct {
	Email    string
	Password string
	Role     string
}

// SignInInput はサインイン時の入力です。
type SignInInput struct {
	Email    string
	Password string
}

// SignInResult はサインイン結果です。
type SignInResult struct {
	Token     string
	AccountID int64
	Email     string
	Roles     []string
}

// ActivateInput はアカウント有効化時の入力です。Actor は有効化を実行する主体です。
type ActivateInput struct {
	Actor     Principal
	AccountID int64
}

// Signup は無効状態のアカウントを登録します。有効化は MANAGER が行います。
func (s *Service) Signup(ctx context.Context, in SignupInput) (*Account, error) {
	email, err := NormalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}

	if n := utf8.RuneCountInString(in.Password); n < minPasswordLength || n > maxPasswordLength {
		return nil, ErrInvalidPassword
	}

	role, err := ParseRole(in.Role)
	if err != nil {
		return nil, err
	}

	var created *Account
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		exists, err := s.repo.ExistsByEmail(txCtx, email)
		if err != nil {
			return err
		}
		if exists {
			return ErrEmailAlreadyExists
		}

		hash, err := s.hasher.Hash(in.Password)
		if err != nil {
			return fmt.Errorf("account: hash password: %w", err)
		}

		now := s.clock.Now()
		result, err := s.repo.Create(txCtx, &Account{
			Email:        email,
			PasswordHash: hash,
			Role:         role,
			Active:       false,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return err
		}
		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// SignIn は資格情報を検証し、アクセストークンを発行します。
func (s *Service) SignIn(ctx context.Context, in SignInInput) (*SignInResult, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, ErrInvalidCredentials
	}

	var found *Account
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		acc, err := s.repo.FindByEmail(txCtx, email)
		if err != nil {
			return err
		}
		found = acc
		return nil
	}); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.hasher.Compare(found.PasswordHash, in.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !found.Active {
		return nil, ErrAccountInactive
	}

	token, err := s.tokens.Issue(found)
	if err != nil {
		return nil, fmt.Errorf("account: issue token: %w", err)
	}

	return &SignInResult{
		Token:     token,
		AccountID: found.ID,
		Email:     found.Email,
		Roles:     []string{string(found.Role)},
	}, nil
}

// Activate はアカウントを有効化します。既に有効な場合は何もしません。
func (s *Service) Activate(ctx context.Context, in ActivateInput) (*Account, error) {
	if in.Actor.AccountID <= 0 {
		return nil, ErrActorRequired
	}
	if in.AccountID <= 0 {
		return nil, ErrInvalidID
	}

	var activated *Account
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		acc, err := s.repo.FindByID(txCtx, in.AccountID)
		if err != nil {
			return err
		}
		if acc.Active {
			activated = acc
			return nil
		}

		acc.Active = true
		acc.UpdatedAt = s.clock.Now()
		result, err := s.repo.Update(txCtx, acc)
		if err != nil {
			return err
		}
		activated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return activated, nil
}

// NormalizeEmail は前後の空白を除去し、メールアドレスとして妥当かを検証します。
func NormalizeEmail(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > maxEmailLength {
		return "", ErrInvalidEmail
	}

	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", ErrInvalidEmail
	}

	return trimmed, nil
}
