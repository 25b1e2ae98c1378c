// Package users はユーザーの永続化と公開用表現への変換を提供します。
package users

import "time"

// User は users テーブルの1行です。PasswordHash は常に bcrypt の出力です。
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex:idx_users_username;not null" json:"username"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// TableName はテーブル名を明示します。
func (User) TableName() string { return "users" }

// New は既にハッシュ化済みのパスワードからユーザーを組み立てます。
func New(username, passwordHash string) *User {
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
	}
}
