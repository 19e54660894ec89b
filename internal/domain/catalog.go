package domain

// Entity 顶层机构（学院/学部）
type Entity struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:255;not null" json:"name"`
}

func (Entity) TableName() string { return "entities" }

// Program 专业，属于一个 Entity；(name, entity_id) 唯一
type Program struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:255;not null;uniqueIndex:uniq_program_per_entity" json:"name"`
	EntityID uint   `gorm:"not null;uniqueIndex:uniq_program_per_entity" json:"entityId"`
}

func (Program) TableName() string { return "programs" }

// Session 学年，如 "2024-2025"
type Session struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Label string `gorm:"uniqueIndex;size:50;not null" json:"label"`
}

func (Session) TableName() string { return "sessions" }
