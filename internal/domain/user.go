package domain

const (
	RoleAdmin   = "admin"
	RoleVisitor = "visitor"
)

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:255;not null" json:"name"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string `gorm:"size:100;not null" json:"-"`
	Role         string `gorm:"size:16;not null;default:visitor" json:"role"`
	BirthDate    string `gorm:"size:10" json:"birthDate,omitempty"` // YYYY-MM-DD，登记用，可空
	Gender       string `gorm:"size:50" json:"gender,omitempty"`
	Phone        string `gorm:"size:50" json:"phone,omitempty"`
}

func (User) TableName() string { return "users" }
