package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/gorm"

	"memotheque/internal/core/config"
	"memotheque/internal/domain"
	"memotheque/internal/storage"
)

const PageSize = 10

type Theses struct {
	db       *gorm.DB
	files    *storage.Set
	activity *Activity
	stats    *Stats

	maxUpload      int64
	deleteReplaced bool
	presignTTL     time.Duration
}

func NewTheses(db *gorm.DB, files *storage.Set, activity *Activity, stats *Stats, cfg config.Storage) *Theses {
	ttl := time.Duration(cfg.PresignTTLMin) * time.Minute
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Theses{
		db:             db,
		files:          files,
		activity:       activity,
		stats:          stats,
		maxUpload:      cfg.MaxUploadBytes,
		deleteReplaced: cfg.DeleteReplaced,
		presignTTL:     ttl,
	}
}

type ThesisInput struct {
	Title      string `json:"title"`
	Authors    string `json:"authors"`
	Supervisor string `json:"supervisor"`
	Abstract   string `json:"abstract"`
	Tags       string `json:"tags"`
	Version    string `json:"version"`
	ProgramID  uint   `json:"programId"`
	SessionID  uint   `json:"sessionId"`
}

func (in *ThesisInput) validate() error {
	for _, f := range []string{in.Title, in.Authors, in.Supervisor, in.Abstract} {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("%w: missing required field", ErrValidation)
		}
	}
	if in.ProgramID == 0 || in.SessionID == 0 {
		return fmt.Errorf("%w: program and session are required", ErrValidation)
	}
	return nil
}

// checkUpload 只收 PDF，超限直接拒绝
func (t *Theses) checkUpload(filename string, size int64) error {
	if size <= 0 {
		return fmt.Errorf("%w: empty file", ErrValidation)
	}
	if t.maxUpload > 0 && size > t.maxUpload {
		return fmt.Errorf("%w: file exceeds %d bytes", ErrValidation, t.maxUpload)
	}
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return fmt.Errorf("%w: only PDF files are accepted", ErrValidation)
	}
	return nil
}

// Create 先存文件再写行；写行失败时补偿删除已存文件，不留孤儿对象
func (t *Theses) Create(ctx context.Context, actorID uint, in ThesisInput, filename string, r io.Reader, size int64) (*domain.Thesis, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := t.checkUpload(filename, size); err != nil {
		return nil, err
	}

	locator, err := t.files.Save(ctx, filename, r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	row := domain.Thesis{
		Title:       in.Title,
		Authors:     in.Authors,
		Supervisor:  in.Supervisor,
		Abstract:    in.Abstract,
		Tags:        in.Tags,
		Version:     in.Version,
		FileLocator: locator,
		ProgramID:   in.ProgramID,
		SessionID:   in.SessionID,
	}
	if err := t.db.WithContext(ctx).Create(&row).Error; err != nil {
		// 补偿删除，必须执行
		_ = t.files.Delete(ctx, locator)
		if isDupKey(err) {
			return nil, fmt.Errorf("%w: thesis", ErrDuplicate)
		}
		return nil, err
	}

	_ = t.activity.Record(ctx, fmt.Sprintf("Ajout du mémoire: %s", row.Title), &actorID)
	t.stats.Invalidate(ctx)
	return &row, nil
}

// Update 不带新文件时定位串保持不变；带新文件时覆盖，旧文件是否删除由配置决定
func (t *Theses) Update(ctx context.Context, actorID, id uint, in ThesisInput, filename string, r io.Reader, size int64) error {
	if err := in.validate(); err != nil {
		return err
	}

	var row domain.Thesis
	err := t.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: thesis %d", ErrNotFound, id)
	}
	if err != nil {
		return err
	}

	oldLocator := ""
	if r != nil {
		if err := t.checkUpload(filename, size); err != nil {
			return err
		}
		locator, err := t.files.Save(ctx, filename, r, size)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		oldLocator = row.FileLocator
		row.FileLocator = locator
	}

	row.Title = in.Title
	row.Authors = in.Authors
	row.Supervisor = in.Supervisor
	row.Abstract = in.Abstract
	row.Tags = in.Tags
	row.Version = in.Version
	row.ProgramID = in.ProgramID
	row.SessionID = in.SessionID

	if err := t.db.WithContext(ctx).Save(&row).Error; err != nil {
		if oldLocator != "" {
			// 行没写成，替换文件回收
			_ = t.files.Delete(ctx, row.FileLocator)
		}
		return err
	}
	if oldLocator != "" && t.deleteReplaced {
		_ = t.files.Delete(ctx, oldLocator)
	}

	_ = t.activity.Record(ctx, fmt.Sprintf("Modification du mémoire ID %d: %s", id, row.Title), &actorID)
	t.stats.Invalidate(ctx)
	return nil
}

// Delete 先删行再删文件；文件缺失不阻塞元数据删除
func (t *Theses) Delete(ctx context.Context, actorID, id uint) error {
	var row domain.Thesis
	err := t.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: thesis %d", ErrNotFound, id)
	}
	if err != nil {
		return err
	}

	if err := t.db.WithContext(ctx).Delete(&domain.Thesis{}, id).Error; err != nil {
		return err
	}
	if err := t.files.Delete(ctx, row.FileLocator); err != nil &&
		!errors.Is(err, storage.ErrNotFound) && !errors.Is(err, storage.ErrBadLocator) {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}

	_ = t.activity.Record(ctx, fmt.Sprintf("Suppression du mémoire: %s", row.Title), &actorID)
	t.stats.Invalidate(ctx)
	return nil
}

// Filter 组合检索条件：全文 OR 五列，其余过滤 AND
type Filter struct {
	Text      string
	EntityID  uint
	ProgramID uint
	SessionID uint
}

type predicate struct {
	Expr string
	Args []any
}

// likePattern 小写 + 转义 LIKE 元字符
func likePattern(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return "%" + s + "%"
}

// predicates 纯函数，单测直接断言
func (f Filter) predicates() []predicate {
	var ps []predicate
	if strings.TrimSpace(f.Text) != "" {
		pat := likePattern(strings.TrimSpace(f.Text))
		cols := []string{"m.title", "m.authors", "m.supervisor", "m.abstract", "m.tags"}
		parts := make([]string, 0, len(cols))
		args := make([]any, 0, len(cols))
		for _, col := range cols {
			parts = append(parts, fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, col))
			args = append(args, pat)
		}
		ps = append(ps, predicate{Expr: "(" + strings.Join(parts, " OR ") + ")", Args: args})
	}
	if f.EntityID != 0 {
		ps = append(ps, predicate{Expr: "e.id = ?", Args: []any{f.EntityID}})
	}
	if f.ProgramID != 0 {
		ps = append(ps, predicate{Expr: "f.id = ?", Args: []any{f.ProgramID}})
	}
	if f.SessionID != 0 {
		ps = append(ps, predicate{Expr: "s.id = ?", Args: []any{f.SessionID}})
	}
	return ps
}

type ThesisRow struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Authors      string    `json:"authors"`
	Supervisor   string    `json:"supervisor"`
	Abstract     string    `json:"abstract"`
	Tags         string    `json:"tags"`
	FileLocator  string    `json:"fileLocator"`
	Version      string    `json:"version,omitempty"`
	ProgramID    uint      `json:"programId"`
	SessionID    uint      `json:"sessionId"`
	ProgramName  string    `json:"programName"`
	EntityName   string    `json:"entityName"`
	SessionLabel string    `json:"sessionLabel"`
	CreatedAt    time.Time `json:"createdAt"`
}

const thesisColumns = "m.id, m.title, m.authors, m.supervisor, m.abstract, m.tags, " +
	"m.file_locator, m.version, m.program_id, m.session_id, m.created_at, " +
	"f.name AS program_name, e.name AS entity_name, s.label AS session_label"

func (t *Theses) joined(ctx context.Context) *gorm.DB {
	return t.db.WithContext(ctx).
		Table("theses AS m").
		Joins("JOIN programs f ON m.program_id = f.id").
		Joins("JOIN sessions s ON m.session_id = s.id").
		Joins("JOIN entities e ON f.entity_id = e.id")
}

type SearchResult struct {
	Items []ThesisRow `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Pages int         `json:"pages"`
}

// Search 条件全空返回全量；按入库时间降序；页号夹在 [1, pages]
func (t *Theses) Search(ctx context.Context, f Filter, page int) (*SearchResult, error) {
	preds := f.predicates()

	apply := func(q *gorm.DB) *gorm.DB {
		for _, p := range preds {
			q = q.Where(p.Expr, p.Args...)
		}
		return q
	}

	var total int64
	if err := apply(t.joined(ctx)).Count(&total).Error; err != nil {
		return nil, err
	}

	pages := int((total + PageSize - 1) / PageSize)
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	var items []ThesisRow
	err := apply(t.joined(ctx)).
		Select(thesisColumns).
		Order("m.created_at DESC").
		Order("m.id DESC").
		Limit(PageSize).
		Offset((page - 1) * PageSize).
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return &SearchResult{Items: items, Total: total, Page: page, Pages: pages}, nil
}

// Details 连表取单条
func (t *Theses) Details(ctx context.Context, id uint) (*ThesisRow, error) {
	var row ThesisRow
	res := t.joined(ctx).Select(thesisColumns).Where("m.id = ?", id).Limit(1).Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: thesis %d", ErrNotFound, id)
	}
	return &row, nil
}

type Download struct {
	URL      string `json:"url,omitempty"` // 预签名链接；为空表示内联字节
	Filename string `json:"filename"`
	Bytes    []byte `json:"-"`
}

// FetchFile 下载面：本地后端内联回传，对象存储返回限时 URL
func (t *Theses) FetchFile(ctx context.Context, id uint) (*Download, error) {
	row, err := t.Details(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &Download{Filename: storage.DisplayName(row.FileLocator)}

	url, err := t.files.DownloadURL(ctx, row.FileLocator, t.presignTTL)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: file for thesis %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if url != "" {
		d.URL = url
		return d, nil
	}

	b, err := t.files.Get(ctx, row.FileLocator)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: file for thesis %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	d.Bytes = b
	return d, nil
}
