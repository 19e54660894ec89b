package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"memotheque/internal/domain"
	"memotheque/pkg/utils"
)

type Accounts struct {
	db       *gorm.DB
	activity *Activity
	log      *zap.Logger
}

func NewAccounts(db *gorm.DB, activity *Activity, log *zap.Logger) *Accounts {
	return &Accounts{db: db, activity: activity, log: log}
}

type AuthUser struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Authenticate 校验邮箱+密码；失败也记一条日志（带提交的邮箱，即使不存在）
func (s *Accounts) Authenticate(ctx context.Context, email, password string) (*AuthUser, error) {
	email = strings.TrimSpace(email)
	var u domain.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !utils.CheckPassword(password, u.PasswordHash)) {
		_ = s.activity.Record(ctx, fmt.Sprintf("Tentative de connexion échouée avec l'email: %s", email), nil)
		return nil, ErrAuth
	}
	if err != nil {
		return nil, err
	}
	if u.Role == domain.RoleAdmin {
		_ = s.activity.Record(ctx, "Connexion réussie (admin)", &u.ID)
	} else {
		_ = s.activity.Record(ctx, "Connexion réussie (visiteur)", &u.ID)
	}
	return &AuthUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}, nil
}

type RegisterInput struct {
	LastName  string `json:"lastName"`
	FirstName string `json:"firstName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	Confirm   string `json:"confirm"`
	BirthDate string `json:"birthDate"`
	Gender    string `json:"gender"`
}

// Register 访客自助注册，显示名 = "Prénom Nom"
func (s *Accounts) Register(ctx context.Context, in RegisterInput) error {
	in.Email = strings.TrimSpace(in.Email)
	for _, f := range []string{in.LastName, in.FirstName, in.Email, in.Phone, in.Password, in.Confirm} {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("%w: missing required field", ErrValidation)
		}
	}
	if in.Password != in.Confirm {
		return fmt.Errorf("%w: passwords do not match", ErrValidation)
	}

	u := domain.User{
		Name:         in.FirstName + " " + in.LastName,
		Email:        in.Email,
		PasswordHash: utils.HashPassword(in.Password),
		Role:         domain.RoleVisitor,
		BirthDate:    in.BirthDate,
		Gender:       in.Gender,
		Phone:        in.Phone,
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		if isDupKey(err) {
			return fmt.Errorf("%w: email already in use", ErrDuplicate)
		}
		return err
	}
	_ = s.activity.Record(ctx, fmt.Sprintf("Nouvelle inscription visiteur: %s", in.Email), nil)
	return nil
}

func (s *Accounts) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&domain.User{}).
		Where("email = ?", strings.TrimSpace(email)).Count(&n).Error
	return n > 0, err
}

// UpdatePassword 覆盖指定邮箱的口令散列
func (s *Accounts) UpdatePassword(ctx context.Context, email, newPassword string) error {
	email = strings.TrimSpace(email)
	res := s.db.WithContext(ctx).Model(&domain.User{}).
		Where("email = ?", email).
		Update("password_hash", utils.HashPassword(newPassword))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: unknown email", ErrNotFound)
	}
	_ = s.activity.Record(ctx, fmt.Sprintf("Réinitialisation du mot de passe pour: %s", email), nil)
	return nil
}

func (s *Accounts) Get(ctx context.Context, id uint) (*AuthUser, error) {
	var u domain.User
	err := s.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &AuthUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}, nil
}

// SeedAdmin 首次启动无 admin 时创建默认管理员，初始密码必须在真实部署中修改
func (s *Accounts) SeedAdmin(ctx context.Context, email, password string) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(&domain.User{}).
		Where("role = ?", domain.RoleAdmin).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	u := domain.User{
		Name:         "Administrateur",
		Email:        email,
		PasswordHash: utils.HashPassword(password),
		Role:         domain.RoleAdmin,
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		if isDupKey(err) {
			// 邮箱被占但非 admin，属于配置错误
			return fmt.Errorf("seed admin: email %s already taken: %w", email, err)
		}
		return err
	}
	s.log.Info("seeded default admin", zap.String("email", email))
	return nil
}
