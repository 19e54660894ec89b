package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"memotheque/internal/domain"
)

type Favorites struct {
	db *gorm.DB
}

func NewFavorites(db *gorm.DB) *Favorites { return &Favorites{db: db} }

func (f *Favorites) Add(ctx context.Context, userID, thesisID uint) error {
	var n int64
	if err := f.db.WithContext(ctx).Model(&domain.Thesis{}).
		Where("id = ?", thesisID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: thesis %d", ErrNotFound, thesisID)
	}
	err := f.db.WithContext(ctx).Create(&domain.Favorite{UserID: userID, ThesisID: thesisID}).Error
	if err != nil && isDupKey(err) {
		return fmt.Errorf("%w: already bookmarked", ErrDuplicate)
	}
	return err
}

func (f *Favorites) Remove(ctx context.Context, userID, thesisID uint) error {
	res := f.db.WithContext(ctx).
		Where("user_id = ? AND thesis_id = ?", userID, thesisID).
		Delete(&domain.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: bookmark", ErrNotFound)
	}
	return nil
}

type FavoriteRow struct {
	ThesisID  uint      `json:"thesisId"`
	Title     string    `json:"title"`
	Authors   string    `json:"authors"`
	CreatedAt time.Time `json:"createdAt"`
}

func (f *Favorites) List(ctx context.Context, userID uint) ([]FavoriteRow, error) {
	var rows []FavoriteRow
	err := f.db.WithContext(ctx).
		Table("favorites AS fav").
		Select("m.id AS thesis_id, m.title, m.authors, m.created_at").
		Joins("JOIN theses m ON m.id = fav.thesis_id").
		Where("fav.user_id = ?", userID).
		Order("m.created_at DESC").
		Scan(&rows).Error
	return rows, err
}
