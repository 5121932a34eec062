package security

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt は 72 バイトを超える入力を受け付けないため、それより長い値は SHA-256 で圧縮してから渡す。
const bcryptMaxInput = 72

// BcryptHasher は bcrypt によるパスワードハッシュを提供します。
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher は BcryptHasher を生成します。cost が範囲外の場合は bcrypt.DefaultCost を使用します。
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash は plain のハッシュを返します。
func (h *BcryptHasher) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(prepare(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("security: bcrypt: %w", err)
	}
	return string(hashed), nil
}

// Compare は hash が plain から生成されたものかを検証します。
func (h *BcryptHasher) Compare(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), prepare(plain))
}

func prepare(plain string) []byte {
	if len(plain) <= bcryptMaxInput {
		return []byte(plain)
	}
	sum := sha256.Sum256([]byte(plain))
	return []byte(base64.RawStdEncoding.EncodeToString(sum[:]))
}
