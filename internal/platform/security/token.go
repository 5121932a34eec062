package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/account"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrTokenInvalid はトークンの署名・期限・クレームが不正な場合に返されます。
var ErrTokenInvalid = errors.New("security: invalid token")

// Claims はアクセストークンのクレームです。Subject にはアカウント ID が入ります。
type Claims struct {
	jwt.RegisteredClaims
	Email string       `json:"email"`
	Role  account.Role `json:"role"`
}

// TokenService は HS256 署名のアクセストークンを発行・検証します。
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService は TokenService を生成します。
func NewTokenService(secret, issuer string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

// Issue は account のアクセストークンを発行します。
func (s *TokenService) Issue(a *account.Account) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(a.ID, 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
		Email: a.Email,
		Role:  a.Role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("security: sign token: %w", err)
	}
	return signed, nil
}

// Verify はトークンを検証し、認証済みの主体を返します。
func (s *TokenService) Verify(token string) (*account.Principal, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%w: malformed subject", ErrTokenInvalid)
	}
	if !claims.Role.Valid() || claims.Email == "" {
		return nil, fmt.Errorf("%w: missing role or email", ErrTokenInvalid)
	}

	return &account.Principal{AccountID: id, Email: claims.Email, Role: claims.Role}, nil
}
