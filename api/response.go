package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 接口返回体，code 与 HTTP 状态码相同
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func reply(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{Code: status, Message: message, Data: data})
}

// Success 200，message 为 success
func Success(c *gin.Context, data any) {
	reply(c, http.StatusOK, "success", data)
}

// SuccessWithMessage 200，附带提示文字，如"记录成功"
func SuccessWithMessage(c *gin.Context, message string, data any) {
	reply(c, http.StatusOK, message, data)
}

// Error 不带 data 的错误返回
func Error(c *gin.Context, status int, message string) {
	reply(c, status, message, nil)
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// InternalError 500，message 应先经过 SafeErrorMessage
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}
