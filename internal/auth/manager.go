// Package auth はセッションベースの認証ハンドラーを提供します。
package auth

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/session-auth/internal/password"
	"github.com/yourusername/session-auth/internal/users"
)

const (
	msgInvalidCredentials = "Invalid username or password"
	msgMissingFields      = "username and password are required"
	msgUsernameTaken      = "Username already taken"
	msgSessionSaveFailed  = "failed to save session"
	msgInternal           = "internal server error"
)

// UserStore はユーザーの永続化層です。
type UserStore interface {
	Create(ctx context.Context, user *users.User) error
	FindByUsername(ctx context.Context, username string) (*users.User, error)
	FindByID(ctx context.Context, id uint) (*users.User, error)
}

// PasswordHasher はパスワードのハッシュ化と照合を行います。
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(hash, plaintext string) bool
}

// SessionBackend はサーバーサイドのセッションストアが追加で提供する操作です。
type SessionBackend interface {
	// Renew はセッションIDを破棄し、次の保存で新しいIDを払い出させます。
	Renew(r *http.Request, name string) error
	// LoadErr はセッション読み込み時のストア障害を返します。
	LoadErr(r *http.Request, name string) error
}

// Manager は認証ハンドラーとその依存をまとめた構造体です。
type Manager struct {
	users   UserStore
	hasher  PasswordHasher
	logger  *log.Logger
	backend SessionBackend

	// 存在しないユーザーでも照合コストを揃えるためのハッシュ
	dummyHash string
}

// Option は Manager の任意設定です。
type Option func(*Manager)

// WithSessionBackend はサーバーサイドセッションの操作を有効にします。
func WithSessionBackend(backend SessionBackend) Option {
	return func(m *Manager) {
		m.backend = backend
	}
}

// NewManager は認証マネージャーを作成します。
func NewManager(store UserStore, hasher PasswordHasher, logger *log.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	dummy, err := hasher.Hash("session-auth-dummy-password")
	if err != nil {
		logger.Printf("failed to prepare dummy password hash: %v", err)
	}
	m := &Manager{
		users:     store,
		hasher:    hasher,
		logger:    logger,
		dummyHash: dummy,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup は POST /signup のハンドラーです。作成したユーザーでそのままログインします。
func (m *Manager) Signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingFields})
		return
	}

	hash, err := m.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, password.ErrTooLong) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		m.logger.Printf("signup: hash password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		return
	}

	user := users.New(req.Username, hash)
	if err := m.users.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, users.ErrDuplicateUsername) {
			c.JSON(http.StatusConflict, gin.H{"error": msgUsernameTaken})
			return
		}
		m.logger.Printf("signup: create user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		return
	}

	if !m.startSession(c, user.ID) {
		return
	}
	m.respondUser(c, http.StatusCreated, user)
}

// Login は POST /login のハンドラーです。
// ユーザー不在とパスワード不一致は同じ 401 を返します。
func (m *Manager) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingFields})
		return
	}

	user, err := m.users.FindByUsername(c.Request.Context(), req.Username)
	if err != nil && !errors.Is(err, users.ErrNotFound) {
		m.logger.Printf("login: find user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		return
	}

	if user == nil {
		m.hasher.Verify(m.dummyHash, req.Password)
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidCredentials})
		return
	}
	if !m.hasher.Verify(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidCredentials})
		return
	}

	if !m.startSession(c, user.ID) {
		return
	}
	m.respondUser(c, http.StatusOK, user)
}

// CheckSession は GET /check_session のハンドラーです。
// 未ログインは 204、存在しないユーザーを指すセッションは user_id を消して 204 を返します。
func (m *Manager) CheckSession(c *gin.Context) {
	session := sessions.Default(c)
	if m.backend != nil {
		// ストア障害を未ログインと区別する
		if err := m.backend.LoadErr(c.Request, SessionCookieName); err != nil {
			m.logger.Printf("check_session: load session: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
			return
		}
	}
	userID, ok := readUserID(session.Get(sessionKeyUserID))
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}

	user, err := m.users.FindByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			session.Delete(sessionKeyUserID)
			if err := session.Save(); err != nil {
				m.logger.Printf("check_session: clear stale session: %v", err)
			}
			c.Status(http.StatusNoContent)
			return
		}
		m.logger.Printf("check_session: find user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		return
	}

	m.respondUser(c, http.StatusOK, user)
}

// Logout は DELETE /logout のハンドラーです。何度呼んでも 204 を返します。
func (m *Manager) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete(sessionKeyUserID)
	if err := session.Save(); err != nil {
		m.logger.Printf("logout: save session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgSessionSaveFailed})
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearSession は DELETE /clear のハンドラーです。
func (m *Manager) ClearSession(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete(sessionKeyPageViews)
	session.Delete(sessionKeyUserID)
	if err := session.Save(); err != nil {
		m.logger.Printf("clear: save session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgSessionSaveFailed})
		return
	}
	c.Status(http.StatusNoContent)
}

// startSession は user_id をセッションに保存します。失敗時はレスポンスを書いて false を返します。
// サーバーサイドセッションではログイン前のIDを引き継がないよう新しいIDに切り替えます。
func (m *Manager) startSession(c *gin.Context, userID uint) bool {
	session := sessions.Default(c)
	if m.backend != nil {
		if err := m.backend.Renew(c.Request, SessionCookieName); err != nil {
			m.logger.Printf("renew session for user %d: %v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgSessionSaveFailed})
			return false
		}
	}
	session.Set(sessionKeyUserID, userID)
	if err := session.Save(); err != nil {
		m.logger.Printf("save session for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgSessionSaveFailed})
		return false
	}
	return true
}

func (m *Manager) respondUser(c *gin.Context, status int, user *users.User) {
	public, err := users.Serialize(user)
	if err != nil {
		m.logger.Printf("serialize user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		return
	}
	c.JSON(status, public)
}
