// Package migrations は goose 用のSQLマイグレーションを埋め込みで提供します。
package migrations

import "embed"

// FS はドライバーごとのディレクトリ（postgres, sqlite）を含みます。
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
