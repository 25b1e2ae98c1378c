package auth

import "time"

const (
	// SessionCookieName はセッションクッキーの名前です。
	SessionCookieName = "session"

	sessionKeyUserID = "user_id"
	// 旧クライアントが使っていたキー。/clear で消すだけで設定はしない。
	sessionKeyPageViews = "page_views"
)

// SessionMaxAgeSeconds はクッキーの MaxAge に利用する秒数を返します。
func SessionMaxAgeSeconds(hours int) int {
	return int((time.Duration(hours) * time.Hour).Seconds())
}

// readUserID はセッションに保存された user_id を取り出します。
// ストアのエンコード方式によって数値型が変わるため複数の型を受け付けます。
func readUserID(v interface{}) (uint, bool) {
	switch id := v.(type) {
	case uint:
		return id, id > 0
	case uint64:
		return uint(id), id > 0
	case int:
		return uint(id), id > 0
	case int64:
		return uint(id), id > 0
	case float64:
		return uint(id), id >= 1
	default:
		return 0, false
	}
}
