package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"memotheque/pkg/utils"
)

var (
	ErrNotFound   = errors.New("storage: object not found")
	ErrBadLocator = errors.New("storage: bad locator")
)

// Store 文件后端抽象。Save 返回带 scheme 前缀的定位串（如 local://xxx.pdf、s3://xxx.pdf），
// 读取侧按前缀分发，定位串自描述。
type Store interface {
	Save(ctx context.Context, filename string, r io.Reader, size int64) (string, error)
	Get(ctx context.Context, locator string) ([]byte, error)
	Delete(ctx context.Context, locator string) error
	// DownloadURL 返回限时下载链接；返回 "" 表示该后端直接内联回传字节
	DownloadURL(ctx context.Context, locator string, ttl time.Duration) (string, error)
	Scheme() string
}

// SplitLocator 拆出 scheme 与对象名
func SplitLocator(locator string) (scheme, name string, err error) {
	i := strings.Index(locator, "://")
	if i <= 0 || i+3 >= len(locator) {
		return "", "", fmt.Errorf("%w: %q", ErrBadLocator, locator)
	}
	return locator[:i], locator[i+3:], nil
}

// objectName 生成唯一对象名：uuid 前缀 + 原文件名（仅保留 basename）
func objectName(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "file.pdf"
	}
	return utils.NewID() + "_" + base
}

// DisplayName 还原上传时的文件名（去掉 uuid 前缀），下载回传用
func DisplayName(locator string) string {
	_, name, err := SplitLocator(locator)
	if err != nil {
		return "document.pdf"
	}
	if i := strings.Index(name, "_"); i >= 0 && i+1 < len(name) {
		return name[i+1:]
	}
	return name
}

// Set 组合多个后端：写入走 primary，读取/删除按定位串前缀分发
type Set struct {
	primary  Store
	byScheme map[string]Store
}

func NewSet(primary Store, others ...Store) *Set {
	s := &Set{primary: primary, byScheme: map[string]Store{primary.Scheme(): primary}}
	for _, o := range others {
		s.byScheme[o.Scheme()] = o
	}
	return s
}

func (s *Set) Save(ctx context.Context, filename string, r io.Reader, size int64) (string, error) {
	return s.primary.Save(ctx, filename, r, size)
}

func (s *Set) resolve(locator string) (Store, error) {
	scheme, _, err := SplitLocator(locator)
	if err != nil {
		return nil, err
	}
	b, ok := s.byScheme[scheme]
	if !ok {
		return nil, fmt.Errorf("%w: no backend for scheme %q", ErrBadLocator, scheme)
	}
	return b, nil
}

func (s *Set) Get(ctx context.Context, locator string) ([]byte, error) {
	b, err := s.resolve(locator)
	if err != nil {
		return nil, err
	}
	return b.Get(ctx, locator)
}

func (s *Set) Delete(ctx context.Context, locator string) error {
	b, err := s.resolve(locator)
	if err != nil {
		return err
	}
	return b.Delete(ctx, locator)
}

func (s *Set) DownloadURL(ctx context.Context, locator string, ttl time.Duration) (string, error) {
	b, err := s.resolve(locator)
	if err != nil {
		return "", err
	}
	return b.DownloadURL(ctx, locator, ttl)
}
