package users

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound は該当ユーザーが存在しないことを表します。
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateUsername はユーザー名の一意制約に違反したことを表します。
	ErrDuplicateUsername = errors.New("username already taken")
	// ErrNilUser は nil のユーザーが渡されたことを表します。
	ErrNilUser = errors.New("user is nil")
)

// Store は GORM 経由でユーザーを読み書きします。
type Store struct {
	db *gorm.DB
}

// NewStore は Store を作成します。
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Create はユーザーを保存し、採番された ID を user に反映します。
// 重複は事前確認と一意制約違反の両方で ErrDuplicateUsername になります。
func (s *Store) Create(ctx context.Context, user *User) error {
	if user == nil {
		return ErrNilUser
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if count > 0 {
		return ErrDuplicateUsername
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// FindByUsername はユーザー名の完全一致で検索します。
func (s *Store) FindByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &user, nil
}

// FindByID は ID で検索します。
func (s *Store) FindByID(ctx context.Context, id uint) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &user, nil
}
