package api

import (
	"errors"

	"purchases/config"
	"purchases/service"

	"github.com/gin-gonic/gin"
)

// SafeErrorMessage 生产环境下不向客户端暴露内部错误详情，避免信息泄露
func SafeErrorMessage(err error, fallback string) string {
	return config.SafeErrorMessage(err, fallback)
}

// respondError 将业务层错误映射为 HTTP 响应
func respondError(c *gin.Context, err error, fallback string) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		BadRequest(c, ve.Message)
	case errors.Is(err, service.ErrHistoryNotFound):
		NotFound(c, "购买记录不存在")
	case errors.Is(err, service.ErrInvalidCredentials):
		Unauthorized(c, "用户名或密码错误")
	case errors.Is(err, service.ErrUserNotFound):
		clearTokenCookie(c)
		Unauthorized(c, "账户不存在，请重新登录")
	case errors.Is(err, service.ErrUsernameTaken):
		BadRequest(c, "用户名已存在")
	default:
		InternalError(c, SafeErrorMessage(err, fallback))
	}
}
