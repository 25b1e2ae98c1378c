// Package config は環境変数から設定を読み込み、アプリケーション全体で使用する設定を提供します。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// DevSessionSecret は開発時に SESSION_SECRET が未設定の場合に使う署名鍵です。
// release モードでは使用できません。
const DevSessionSecret = "dev-session-secret-change-me"

// サポートしているデータベースドライバーとセッションストア
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	SessionStoreCookie = "cookie"
	SessionStoreRedis  = "redis"
)

// Config はアプリケーションの設定を保持する構造体です。
type Config struct {
	// サーバー設定
	Port    string // APIサーバーのポート番号
	GinMode string // Ginの実行モード (debug, release, test)

	// セッション設定
	SessionSecret      string // セッション署名用の秘密鍵
	SessionStore       string // cookie または redis
	SessionRedisURL    string // redis ストア利用時の接続URL
	SessionMaxAgeHours int    // セッションの有効期間（時間）

	// データベース設定
	DatabaseDriver string // sqlite または postgres
	DatabaseURL    string // DSN（sqlite の場合はファイルパス）

	// パスワード設定
	BcryptCost int

	// CORS設定
	CORSAllowedOrigins string // CORS許可オリジン（カンマ区切り）
}

// Load は環境変数から設定を読み込みます。
// .env.local ファイルが存在する場合はそこから読み込みます。
func Load() (*Config, error) {
	loadEnvFile()

	config := &Config{
		Port:    getEnv("PORT", "5555"),
		GinMode: getEnv("GIN_MODE", "debug"),

		SessionSecret:      getEnv("SESSION_SECRET", DevSessionSecret),
		SessionStore:       getEnv("SESSION_STORE", SessionStoreCookie),
		SessionRedisURL:    getEnv("SESSION_REDIS_URL", "redis://127.0.0.1:6379/0"),
		SessionMaxAgeHours: getEnvAsInt("SESSION_MAX_AGE_HOURS", 12),

		DatabaseDriver: getEnv("DATABASE_DRIVER", DriverSQLite),
		DatabaseURL:    getEnv("DATABASE_URL", "app.db"),

		BcryptCost: getEnvAsInt("BCRYPT_COST", 10),

		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func loadEnvFile() {
	if err := godotenv.Load(".env.local"); err == nil {
		return
	}

	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	parent := filepath.Dir(cwd)
	if parent == "" || parent == cwd {
		return
	}

	_ = godotenv.Load(filepath.Join(parent, ".env.local"))
}

// Validate は設定の妥当性を検証します。
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER: %q", c.DatabaseDriver)
	}

	switch c.SessionStore {
	case SessionStoreCookie:
	case SessionStoreRedis:
		if c.SessionRedisURL == "" {
			return fmt.Errorf("SESSION_REDIS_URL is required when SESSION_STORE=redis")
		}
	default:
		return fmt.Errorf("unsupported SESSION_STORE: %q", c.SessionStore)
	}

	if c.SessionMaxAgeHours <= 0 {
		return fmt.Errorf("SESSION_MAX_AGE_HOURS must be positive")
	}

	// 本番環境では開発用の署名鍵を許可しない
	if c.GinMode == "release" {
		if c.SessionSecret == "" || c.SessionSecret == DevSessionSecret {
			return fmt.Errorf("SESSION_SECRET is required in release mode")
		}
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required in release mode")
		}
	}

	return nil
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します。
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt は環境変数を整数として取得します。
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
