package api

import (
	"purchases/config"
	"purchases/database"
	"purchases/middleware"
	"purchases/models"
	"purchases/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	cfg          *config.Config
	emailService *service.EmailService
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		cfg:          cfg,
		emailService: service.NewEmailService(&cfg.Email),
	}
}

func (h *AuthHandler) accounts() *service.AccountService {
	return service.NewAccountService(database.GetDB())
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username     string `json:"username" form:"username" example:"alice"`
	Password     string `json:"password" form:"password" example:"password123"`
	Confirmation string `json:"confirmation" form:"confirmation" example:"password123"`
	Email        string `json:"email" form:"email" binding:"omitempty,email" example:"alice@example.com"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" form:"username" example:"alice"`
	Password string `json:"password" form:"password" example:"password123"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token    string      `json:"token"`
	UserInfo models.User `json:"user_info"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
	Confirmation    string `json:"confirmation" form:"confirmation"`
}

// DeleteAccountRequest 注销账户请求，需要再次输入用户名和密码
type DeleteAccountRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Register 用户注册
// @Summary 用户注册
// @Description 创建账号并直接登录
// @Tags 认证
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body RegisterRequest true "注册信息"
// @Success 200 {object} Response{data=LoginResponse} "注册成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	user, err := h.accounts().Register(c.Request.Context(), req.Username, req.Password, req.Confirmation, req.Email)
	if err != nil {
		respondError(c, err, "创建用户失败")
		return
	}

	h.issueToken(c, user, "注册成功")
}

// Login 用户登录
// @Summary 用户登录
// @Description 登录获取 JWT token，同时写入 token Cookie
// @Tags 认证
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} Response{data=LoginResponse} "登录成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "用户名或密码错误"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	user, err := h.accounts().VerifyCredentials(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err, "登录失败")
		return
	}

	h.issueToken(c, user, "登录成功")
}

func (h *AuthHandler) issueToken(c *gin.Context, user *models.User, message string) {
	token, err := middleware.GenerateToken(user.ID, user.Username, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "生成 token 失败")
		return
	}
	setTokenCookie(c, token, h.cfg.JWT.ExpireTime)
	SuccessWithMessage(c, message, LoginResponse{Token: token, UserInfo: *user})
}

// Logout 退出登录
// @Summary 退出登录
// @Description 清除 token Cookie
// @Tags 认证
// @Produce json
// @Success 200 {object} Response "已退出"
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	clearTokenCookie(c)
	SuccessWithMessage(c, "已退出登录", nil)
}

// GetProfile 获取用户信息
// @Summary 获取当前用户信息
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.User} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, err := h.accounts().GetUser(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		NotFound(c, "用户不存在")
		return
	}
	Success(c, user)
}

// ChangePassword 修改密码
// @Summary 修改密码
// @Tags 认证
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "密码信息"
// @Success 200 {object} Response "修改成功"
// @Failure 400 {object} Response "请求参数错误或当前密码错误"
// @Router /api/v1/auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	user, err := h.accounts().ChangePassword(c.Request.Context(), middleware.GetCurrentUserID(c),
		req.CurrentPassword, req.NewPassword, req.Confirmation)
	if err != nil {
		respondError(c, err, "更新密码失败")
		return
	}

	username := user.Username
	h.emailService.NotifyAsync(user.Email, func(to string) error {
		return h.emailService.SendPasswordChangedEmail(to, username)
	})
	SuccessWithMessage(c, "密码修改成功", nil)
}

// DeleteAccount 注销账户
// @Summary 注销账户
// @Description 校验用户名和密码后删除账户及全部购买记录，共享的类别和商品保留
// @Tags 认证
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param request body DeleteAccountRequest true "账户信息"
// @Success 200 {object} Response "注销成功"
// @Failure 401 {object} Response "用户名或密码错误"
// @Router /api/v1/auth/account [delete]
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	var req DeleteAccountRequest
	if err := c.ShouldBind(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	user, err := h.accounts().DeleteAccount(c.Request.Context(), middleware.GetCurrentUserID(c), req.Username, req.Password)
	if err != nil {
		respondError(c, err, "注销账户失败")
		return
	}

	clearTokenCookie(c)
	username := user.Username
	h.emailService.NotifyAsync(user.Email, func(to string) error {
		return h.emailService.SendAccountDeletedEmail(to, username)
	})
	SuccessWithMessage(c, "账户已注销", nil)
}
