package repository

import (
	"time"

	"github.com/user/reelog/internal/model"
	"gorm.io/gorm"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Append 追加一条动态
func (r *ActivityRepository) Append(a *model.Activity) error {
	if a.Metadata == "" {
		a.Metadata = "{}"
	}
	a.CreatedAt = time.Now()
	return r.db.Create(a).Error
}

// GlobalFeed 全站动态流，带用户与电影信息
func (r *ActivityRepository) GlobalFeed(limit int) ([]*model.Activity, error) {
	var activities []*model.Activity
	err := r.db.Preload("User").Preload("Movie").
		Order("created_at DESC").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}

// ListByUser 用户个人动态，带电影信息
func (r *ActivityRepository) ListByUser(userID, limit int) ([]*model.Activity, error) {
	var activities []*model.Activity
	err := r.db.Preload("Movie").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}
