package domain

import "time"

type Thesis struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"type:text;not null" json:"title"`
	Authors     string    `gorm:"size:255;not null" json:"authors"`
	Supervisor  string    `gorm:"size:255;not null" json:"supervisor"`
	Abstract    string    `gorm:"type:text" json:"abstract"`
	Tags        string    `gorm:"type:text" json:"tags"` // 逗号分隔
	FileLocator string    `gorm:"type:text;not null" json:"fileLocator"`
	Version     string    `gorm:"size:50" json:"version,omitempty"`
	ProgramID   uint      `gorm:"not null;index" json:"programId"`
	SessionID   uint      `gorm:"not null;index" json:"sessionId"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Thesis) TableName() string { return "theses" }

// Favorite 收藏，(user, thesis) 唯一
type Favorite struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	UserID   uint `gorm:"not null;uniqueIndex:uniq_user_thesis" json:"userId"`
	ThesisID uint `gorm:"not null;uniqueIndex:uniq_user_thesis" json:"thesisId"`
}

func (Favorite) TableName() string { return "favorites" }
