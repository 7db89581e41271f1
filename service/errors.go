package service

import (
	"errors"
	"fmt"
)

var (
	// ErrHistoryNotFound 购买记录不存在
	ErrHistoryNotFound = errors.New("购买记录不存在")
	// ErrInvalidCredentials 用户名或密码错误
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	// ErrUsernameTaken 用户名已被占用
	ErrUsernameTaken = errors.New("用户名已存在")
	// ErrUserNotFound 当前登录的用户已不存在（账户已注销）
	ErrUserNotFound = errors.New("用户不存在")
)

// ValidationError 用户输入错误，Message 可直接展示给用户
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// PersistenceError 存储层错误，发生时事务已回滚
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// persistErr 包装存储错误；已分类的错误原样返回
func persistErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	var pe *PersistenceError
	if errors.As(err, &ve) || errors.As(err, &pe) || errors.Is(err, ErrHistoryNotFound) || errors.Is(err, ErrUserNotFound) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// IsValidationError 判断是否为用户输入错误
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
