// Package password はパスワードの一方向ハッシュ化と照合を提供します。
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MaxBytes は bcrypt が照合に使うパスワードの最大バイト数です。
const MaxBytes = 72

// ErrTooLong は bcrypt が扱える長さ（72バイト）を超えたパスワードを表します。
var ErrTooLong = errors.New("password must be at most 72 bytes")

// Hasher は bcrypt によるハッシュ化を行います。
type Hasher struct {
	cost int
}

// NewHasher は指定コストの Hasher を作成します。
// 範囲外のコストは bcrypt.DefaultCost に置き換えます。
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash は平文パスワードからハッシュ文字列を生成します。
func (h *Hasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrTooLong
		}
		return "", err
	}
	return string(hash), nil
}

// Verify はハッシュと平文が一致するかを返します。
// bcrypt は先頭72バイトしか見ないため、それを超える平文は常に不一致とします。
func (h *Hasher) Verify(hash, plaintext string) bool {
	matched := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
	return matched && len(plaintext) <= MaxBytes
}
