package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"memotheque/internal/core/config"
	"memotheque/internal/domain"
	"memotheque/internal/storage"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// :memory: 每个连接一个库，必须压到单连接
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(domain.AllModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestAccounts(t *testing.T, db *gorm.DB) *Accounts {
	t.Helper()
	return NewAccounts(db, NewActivity(db), zap.NewNop())
}

// seedCatalog 一套实体/专业/学年，论文相关测试共用
func seedCatalog(t *testing.T, db *gorm.DB) (domain.Entity, domain.Program, domain.Session) {
	t.Helper()
	ent := domain.Entity{Name: "Faculté des Sciences"}
	if err := db.Create(&ent).Error; err != nil {
		t.Fatalf("seed entity: %v", err)
	}
	prog := domain.Program{Name: "Informatique", EntityID: ent.ID}
	if err := db.Create(&prog).Error; err != nil {
		t.Fatalf("seed program: %v", err)
	}
	ses := domain.Session{Label: "2023-2024"}
	if err := db.Create(&ses).Error; err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return ent, prog, ses
}

// newTestTheses 内存文件后端 + 无缓存统计
func newTestTheses(t *testing.T, db *gorm.DB, cfg config.Storage) (*Theses, *storage.Memory) {
	t.Helper()
	if cfg.MaxUploadBytes == 0 {
		cfg.MaxUploadBytes = 100 << 20
	}
	mem := storage.NewMemory()
	activity := NewActivity(db)
	stats := NewStats(db, nil)
	return NewTheses(db, storage.NewSet(mem), activity, stats, cfg), mem
}

func pdf(content string) (string, *strings.Reader, int64) {
	body := "%PDF-1.4 " + content
	return "rapport.pdf", strings.NewReader(body), int64(len(body))
}

func validInput(prog domain.Program, ses domain.Session) ThesisInput {
	return ThesisInput{
		Title:      "Optimisation des requêtes",
		Authors:    "A. Diallo",
		Supervisor: "Pr. Ndiaye",
		Abstract:   "Étude des plans d'exécution.",
		Tags:       "bases de données, sql",
		ProgramID:  prog.ID,
		SessionID:  ses.ID,
	}
}

func mustCreateThesis(t *testing.T, svc *Theses, in ThesisInput, title string) *domain.Thesis {
	t.Helper()
	if title != "" {
		in.Title = title
	}
	name, r, size := pdf(fmt.Sprintf("contenu de %s", in.Title))
	row, err := svc.Create(context.Background(), 1, in, name, r, size)
	if err != nil {
		t.Fatalf("create thesis %q: %v", in.Title, err)
	}
	return row
}

func lastLog(t *testing.T, db *gorm.DB) domain.LogEntry {
	t.Helper()
	var e domain.LogEntry
	if err := db.Order("id DESC").First(&e).Error; err != nil {
		t.Fatalf("read last log: %v", err)
	}
	return e
}
