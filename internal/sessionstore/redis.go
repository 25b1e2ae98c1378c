// Package sessionstore は gin-contrib/sessions 向けのサーバーサイドセッションストアを提供します。
//
// クッキーには署名済みのセッションIDのみを載せ、値は Redis に保存します。
package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	gsessions "github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "session:"
)

var _ sessions.Store = (*RedisStore)(nil)

// RedisStore はセッション値を Redis に保存します。
type RedisStore struct {
	rdb        *redis.Client
	codecs     []securecookie.Codec
	options    *gsessions.Options
	serializer securecookie.GobEncoder
}

// NewRedisStore は RedisStore を作成します。keyPairs はクッキー署名用です。
func NewRedisStore(rdb *redis.Client, keyPairs ...[]byte) *RedisStore {
	store := &RedisStore{
		rdb:    rdb,
		codecs: securecookie.CodecsFromPairs(keyPairs...),
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int((12 * time.Hour).Seconds()),
		HttpOnly: true,
	})
	return store
}

// Options はクッキー属性を設定します。MaxAge は Redis の TTL にも使われます。
func (s *RedisStore) Options(options sessions.Options) {
	s.options = options.ToGorillaOptions()
	for _, codec := range s.codecs {
		if sc, ok := codec.(*securecookie.SecureCookie); ok && options.MaxAge > 0 {
			sc.MaxAge(options.MaxAge)
		}
	}
}

// Get はリクエスト内でキャッシュされたセッションを返します。
func (s *RedisStore) Get(r *http.Request, name string) (*gsessions.Session, error) {
	return gsessions.GetRegistry(r).Get(s, name)
}

// New はクッキーのセッションIDから Redis の値を読み込みます。
// IDが不正、または Redis 側で失効している場合は新規セッションを返します。
func (s *RedisStore) New(r *http.Request, name string) (*gsessions.Session, error) {
	session := gsessions.NewSession(s, name)
	options := *s.options
	session.Options = &options
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}

	if err := securecookie.DecodeMulti(name, c.Value, &session.ID, s.codecs...); err != nil {
		session.ID = ""
		return session, err
	}

	found, err := s.load(r.Context(), session)
	if err != nil {
		return session, err
	}
	if !found {
		session.ID = ""
		return session, nil
	}
	session.IsNew = false
	return session, nil
}

// Save はセッション値を Redis に書き込み、署名済みIDをクッキーに設定します。
// MaxAge が 0 以下の場合は Redis から削除しクッキーを失効させます。
func (s *RedisStore) Save(r *http.Request, w http.ResponseWriter, session *gsessions.Session) error {
	ctx := r.Context()

	if session.Options.MaxAge <= 0 {
		if err := s.delete(ctx, session.ID); err != nil {
			return err
		}
		http.SetCookie(w, gsessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if err := s.save(ctx, session); err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.codecs...)
	if err != nil {
		return err
	}
	http.SetCookie(w, gsessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

// Renew は現在のセッションIDを破棄します。値は保持され、次の Save で新しいIDが払い出されます。
// ログイン前に渡されたクッキーをログイン後に使い回させないために呼びます。
func (s *RedisStore) Renew(r *http.Request, name string) error {
	session, err := s.Get(r, name)
	if err := loadError(err); err != nil {
		return err
	}
	if err := s.delete(r.Context(), session.ID); err != nil {
		return err
	}
	session.ID = ""
	session.IsNew = true
	return nil
}

// LoadErr はこのリクエストでのセッション読み込みエラーを返します。
// 不正・期限切れのクッキーは新規セッションとして扱うため nil です。
func (s *RedisStore) LoadErr(r *http.Request, name string) error {
	_, err := s.Get(r, name)
	return loadError(err)
}

func loadError(err error) error {
	var cookieErr securecookie.Error
	if errors.As(err, &cookieErr) && cookieErr.IsDecode() {
		return nil
	}
	return err
}

func (s *RedisStore) load(ctx context.Context, session *gsessions.Session) (bool, error) {
	data, err := s.rdb.Get(ctx, sessionKey(session.ID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("load session: %w", err)
	}
	if err := s.serializer.Deserialize(data, &session.Values); err != nil {
		return false, fmt.Errorf("decode session: %w", err)
	}
	return true, nil
}

func (s *RedisStore) save(ctx context.Context, session *gsessions.Session) error {
	data, err := s.serializer.Serialize(session.Values)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	ttl := time.Duration(session.Options.MaxAge) * time.Second
	if err := s.rdb.Set(ctx, sessionKey(session.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}
