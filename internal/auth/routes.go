package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route はメソッド・パスとハンドラーの対応です。
type Route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

// Routes は認証エンドポイントのルート表を返します。
func (m *Manager) Routes() []Route {
	return []Route{
		{Method: http.MethodDelete, Path: "/clear", Handler: m.ClearSession},
		{Method: http.MethodPost, Path: "/signup", Handler: m.Signup},
		{Method: http.MethodGet, Path: "/check_session", Handler: m.CheckSession},
		{Method: http.MethodPost, Path: "/login", Handler: m.Login},
		{Method: http.MethodDelete, Path: "/logout", Handler: m.Logout},
	}
}

// Register はルート表を router に登録します。
func (m *Manager) Register(router gin.IRoutes) {
	for _, r := range m.Routes() {
		router.Handle(r.Method, r.Path, r.Handler)
	}
}
