// Package main はAPIサーバーのエントリーポイントです。
package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/session-auth/internal/auth"
	"github.com/yourusername/session-auth/internal/config"
	"github.com/yourusername/session-auth/internal/database"
	"github.com/yourusername/session-auth/internal/password"
	"github.com/yourusername/session-auth/internal/users"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ginのモードを設定
	gin.SetMode(cfg.GinMode)
	logger := log.Default()

	// データベース接続とマイグレーション
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL, logger)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()
	if err := database.Migrate(context.Background(), db, cfg.DatabaseDriver, logger); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// セッションストアの設定（cookie または redis）
	store, closeStore, err := setupSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to set up session store: %v", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Printf("Failed to close session store: %v", err)
		}
	}()

	authManager := auth.NewManager(users.NewStore(db), password.NewHasher(cfg.BcryptCost), logger, authOptions(store)...)
	router := setupRouter(cfg, store, authManager)

	// サーバーの起動
	addr := ":" + cfg.Port
	log.Printf("Starting API server on %s (mode: %s, db: %s, sessions: %s)", addr, cfg.GinMode, cfg.DatabaseDriver, cfg.SessionStore)
	if err := router.Run(addr); err != nil {
		log.Printf("Failed to start server: %v", err)
	}
}
