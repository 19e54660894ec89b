package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"memotheque/internal/domain"
)

// Catalog 通用字典 CRUD：命名、可选父级、被子表引用。
// Entity/Program/Session 三类共用一套逻辑，只是绑定不同。
type Catalog[T any] struct {
	db       *gorm.DB
	activity *Activity

	orderBy   string
	parentCol string // 为空表示无父级过滤
	child     any    // 被引用的子模型
	childFK   string
	label     func(*T) string
	addFmt    string
	delFmt    string

	beforeAdd func(ctx context.Context, db *gorm.DB, row *T) error
}

// Add 插入一行；唯一约束冲突翻译为 ErrDuplicate
func (c *Catalog[T]) Add(ctx context.Context, actorID uint, row *T) error {
	if strings.TrimSpace(c.label(row)) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrValidation)
	}
	if c.beforeAdd != nil {
		if err := c.beforeAdd(ctx, c.db, row); err != nil {
			return err
		}
	}
	if err := c.db.WithContext(ctx).Create(row).Error; err != nil {
		if isDupKey(err) {
			return fmt.Errorf("%w: %s", ErrDuplicate, c.label(row))
		}
		return err
	}
	_ = c.activity.Record(ctx, fmt.Sprintf(c.addFmt, c.label(row)), &actorID)
	return nil
}

// List 全量列表；parentID 非零且有父级列时过滤
func (c *Catalog[T]) List(ctx context.Context, parentID uint) ([]T, error) {
	q := c.db.WithContext(ctx).Model(new(T)).Order(c.orderBy)
	if c.parentCol != "" && parentID != 0 {
		q = q.Where(c.parentCol+" = ?", parentID)
	}
	var rows []T
	return rows, q.Find(&rows).Error
}

// Delete 先查被引用数，有子行则拒绝，绝不级联
func (c *Catalog[T]) Delete(ctx context.Context, actorID, id uint) error {
	var row T
	err := c.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return err
	}

	var n int64
	if err := c.db.WithContext(ctx).Model(c.child).
		Where(c.childFK+" = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: %s", ErrReferenced, c.label(&row))
	}

	if err := c.db.WithContext(ctx).Delete(new(T), id).Error; err != nil {
		return err
	}
	_ = c.activity.Record(ctx, fmt.Sprintf(c.delFmt, c.label(&row)), &actorID)
	return nil
}

type Lookups struct {
	Entities *Catalog[domain.Entity]
	Programs *Catalog[domain.Program]
	Sessions *Catalog[domain.Session]
}

func NewLookups(db *gorm.DB, activity *Activity) *Lookups {
	return &Lookups{
		Entities: &Catalog[domain.Entity]{
			db: db, activity: activity,
			orderBy: "name ASC",
			child:   &domain.Program{}, childFK: "entity_id",
			label:  func(e *domain.Entity) string { return e.Name },
			addFmt: "Ajout de l'entité: %s",
			delFmt: "Suppression de l'entité: %s",
		},
		Programs: &Catalog[domain.Program]{
			db: db, activity: activity,
			// 先按所属实体名再按专业名
			orderBy:   "(SELECT name FROM entities WHERE entities.id = programs.entity_id) ASC, name ASC",
			parentCol: "entity_id",
			child:     &domain.Thesis{}, childFK: "program_id",
			label:  func(p *domain.Program) string { return p.Name },
			addFmt: "Ajout de la filière: %s",
			delFmt: "Suppression de la filière: %s",
			beforeAdd: func(ctx context.Context, db *gorm.DB, p *domain.Program) error {
				var n int64
				if err := db.WithContext(ctx).Model(&domain.Entity{}).
					Where("id = ?", p.EntityID).Count(&n).Error; err != nil {
					return err
				}
				if n == 0 {
					return fmt.Errorf("%w: entity %d", ErrNotFound, p.EntityID)
				}
				return nil
			},
		},
		Sessions: &Catalog[domain.Session]{
			db: db, activity: activity,
			orderBy: "label DESC", // 最近学年在前
			child:   &domain.Thesis{}, childFK: "session_id",
			label:  func(s *domain.Session) string { return s.Label },
			addFmt: "Ajout de la session: %s",
			delFmt: "Suppression de la session: %s",
		},
	}
}
