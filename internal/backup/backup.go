// Package backup 生产模式下把 sqlite 数据库文件在启动时从 S3 快照恢复、
// 停机时推回同一位置。外部协作件，不属于核心。
package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"memotheque/internal/core/config"
)

type Manager struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	key      string
	dbPath   string
	log      *zap.Logger
}

func New(ctx context.Context, cfg config.Backup, dbPath string, log *zap.Logger) (*Manager, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg)
	return &Manager{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   cfg.Bucket,
		key:      cfg.Key,
		dbPath:   dbPath,
		log:      log,
	}, nil
}

// Restore 启动时拉取快照；快照不存在按全新库处理
func (m *Manager) Restore(ctx context.Context) error {
	out, err := m.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(m.key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			m.log.Info("no database snapshot found, starting fresh")
			return nil
		}
		return fmt.Errorf("fetch snapshot: %w", err)
	}
	defer out.Body.Close()

	if err := os.MkdirAll(filepath.Dir(m.dbPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(m.dbPath)
	if err != nil {
		return err
	}
	_, err = io.Copy(f, out.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	m.log.Info("database restored from snapshot",
		zap.String("bucket", m.bucket), zap.String("key", m.key))
	return nil
}

// Push 停机时上传；先拷贝临时副本，避开 sqlite 文件锁
func (m *Manager) Push(ctx context.Context) error {
	tmp := m.dbPath + ".backup"
	if err := copyFile(m.dbPath, tmp); err != nil {
		return fmt.Errorf("copy database: %w", err)
	}
	defer os.Remove(tmp)

	f, err := os.Open(tmp)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = m.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(m.key),
		Body:   f,
	})
	if err != nil {
		return fmt.Errorf("upload snapshot: %w", err)
	}
	m.log.Info("database snapshot pushed",
		zap.String("bucket", m.bucket), zap.String("key", m.key))
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	_, err = io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}
