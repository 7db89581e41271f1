package service

import (
	"context"
	"errors"
	"strings"

	"purchases/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// HashPassword 使用 bcrypt 加密密码
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword 校验密码与哈希是否匹配
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// AccountService 用户账户：注册、登录校验、修改密码、注销
type AccountService struct {
	db *gorm.DB
}

// NewAccountService 创建账户服务
func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// Register 注册新用户
func (s *AccountService) Register(ctx context.Context, username, password, confirmation, email string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, invalid("username", "请输入用户名")
	}
	if password == "" {
		return nil, invalid("password", "请输入密码")
	}
	if password != confirmation {
		return nil, invalid("confirmation", "两次输入的密码不一致")
	}

	db := s.db.WithContext(ctx)
	var existing models.User
	err := db.Where("username = ?", username).Take(&existing).Error
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, persistErr("查询用户", err)
	}

	return s.CreateUser(ctx, username, password, email)
}

// CreateUser 加密密码并创建用户，用户名唯一性由数据库约束保证
func (s *AccountService) CreateUser(ctx context.Context, username, password, email string) (*models.User, error) {
	hashed, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Username: username,
		Password: hashed,
		Email:    strings.TrimSpace(email),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, persistErr("创建用户", err)
	}
	return &user, nil
}

// GetUser 根据 ID 查询用户
func (s *AccountService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Take(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, persistErr("查询用户", err)
	}
	return &user, nil
}

// VerifyCredentials 校验用户名和密码
func (s *AccountService) VerifyCredentials(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, invalid("username", "请输入用户名")
	}
	if password == "" {
		return nil, invalid("password", "请输入密码")
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, persistErr("查询用户", err)
	}
	if !CheckPassword(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// ChangePassword 校验当前密码后修改为新密码
func (s *AccountService) ChangePassword(ctx context.Context, userID uint, current, password, confirmation string) (*models.User, error) {
	if current == "" {
		return nil, invalid("current", "请输入当前密码")
	}
	if password == "" {
		return nil, invalid("password", "请输入新密码")
	}
	if password != confirmation {
		return nil, invalid("confirmation", "两次输入的密码不一致")
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !CheckPassword(current, user.Password) {
		return nil, invalid("current", "当前密码错误")
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(user).Update("password", hashed).Error; err != nil {
		return nil, persistErr("更新密码", err)
	}
	return user, nil
}

// DeleteAccount 重新校验用户名和密码后删除账户及其全部购买记录
// 类别和商品属于共享目录，不会被删除
func (s *AccountService) DeleteAccount(ctx context.Context, userID uint, username, password string) (*models.User, error) {
	user, err := s.VerifyCredentials(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if user.ID != userID {
		return nil, ErrInvalidCredentials
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := NewLedger(tx).RemoveAllForUser(ctx, user.ID); err != nil {
			return err
		}
		return tx.Delete(&models.User{}, user.ID).Error
	})
	if err != nil {
		return nil, persistErr("注销账户", err)
	}
	return user, nil
}
