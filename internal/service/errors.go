package service

import (
	"errors"
	"strings"
)

// 服务层错误分类，传输层统一翻译成响应码
var (
	ErrValidation = errors.New("validation failed")
	ErrDuplicate  = errors.New("duplicate")
	ErrReferenced = errors.New("referenced by dependent rows")
	ErrNotFound   = errors.New("not found")
	ErrAuth       = errors.New("invalid credentials")
	ErrStorage    = errors.New("storage failure")
)

func isDupKey(err error) bool {
	// 不依赖 gorm.ErrDuplicatedKey，避免驱动差异
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}
