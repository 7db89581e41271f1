package api

import (
	"net/http"
	"time"

	"purchases/config"
	"purchases/middleware"

	"github.com/gin-gonic/gin"
)

// getCookieOptions 根据运行模式返回 Cookie 的安全选项
// release 模式下启用 Secure（仅 HTTPS 传输），并设置 SameSite 以防止 CSRF
func getCookieOptions() (secure bool, sameSite http.SameSite) {
	cfg := config.GlobalConfig
	if cfg != nil && cfg.Server.Mode == "release" {
		secure = true
	}
	sameSite = http.SameSiteLaxMode
	return
}

// setTokenCookie 写入登录 token，浏览器端无需手动携带 Authorization 头
func setTokenCookie(c *gin.Context, token string, expire time.Duration) {
	secure, sameSite := getCookieOptions()
	c.SetSameSite(sameSite)
	c.SetCookie(middleware.TokenCookieName, token, int(expire.Seconds()), "/", "", secure, true)
}

// clearTokenCookie 清除登录 token
func clearTokenCookie(c *gin.Context) {
	secure, sameSite := getCookieOptions()
	c.SetSameSite(sameSite)
	c.SetCookie(middleware.TokenCookieName, "", -1, "/", "", secure, true)
}
