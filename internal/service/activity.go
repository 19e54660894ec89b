package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"memotheque/internal/domain"
)

const logDefaultLimit = 100

// Activity 操作日志，只追加
type Activity struct {
	db *gorm.DB
}

func NewActivity(db *gorm.DB) *Activity { return &Activity{db: db} }

func (a *Activity) Record(ctx context.Context, action string, userID *uint) error {
	return a.db.WithContext(ctx).Create(&domain.LogEntry{
		Action: action,
		UserID: userID,
	}).Error
}

type LogRow struct {
	ID        uint      `json:"id"`
	Action    string    `json:"action"`
	UserName  string    `json:"userName"`
	CreatedAt time.Time `json:"createdAt"`
}

// Recent 最新 limit 条（默认且最大 100），可按用户过滤；无用户显示为 Visiteur
func (a *Activity) Recent(ctx context.Context, limit int, actorID *uint) ([]LogRow, error) {
	if limit <= 0 || limit > logDefaultLimit {
		limit = logDefaultLimit
	}
	q := a.db.WithContext(ctx).
		Table("logs AS l").
		Select("l.id, l.action, u.name AS user_name, l.created_at").
		Joins("LEFT JOIN users u ON u.id = l.user_id").
		Order("l.created_at DESC").
		Order("l.id DESC").
		Limit(limit)
	if actorID != nil {
		q = q.Where("l.user_id = ?", *actorID)
	}

	var rows []struct {
		ID        uint
		Action    string
		UserName  *string
		CreatedAt time.Time
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]LogRow, 0, len(rows))
	for _, r := range rows {
		name := "Visiteur"
		if r.UserName != nil && *r.UserName != "" {
			name = *r.UserName
		}
		out = append(out, LogRow{ID: r.ID, Action: r.Action, UserName: name, CreatedAt: r.CreatedAt})
	}
	return out, nil
}
