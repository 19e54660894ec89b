package domain

import "time"

// LogEntry 操作日志，仅追加，应用层不修改不删除
type LogEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Action    string    `gorm:"type:text;not null" json:"action"`
	UserID    *uint     `gorm:"index" json:"userId,omitempty"` // 未登录操作为 NULL
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (LogEntry) TableName() string { return "logs" }

// AllModels 自动迁移用
func AllModels() []any {
	return []any{
		&User{}, &Entity{}, &Program{}, &Session{},
		&Thesis{}, &Favorite{}, &LogEntry{},
	}
}
