package repository

import (
	"time"

	"github.com/user/reelog/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// Add 关注，重复关注静默忽略
func (r *FollowRepository) Add(followerID, followingID int) error {
	follow := &model.Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   time.Now(),
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(follow).Error
}

// Remove 取消关注
func (r *FollowRepository) Remove(followerID, followingID int) error {
	return r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.Follow{}).Error
}

// IsFollowing 检查是否已关注
func (r *FollowRepository) IsFollowing(followerID, followingID int) (bool, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

// Followers 粉丝列表
func (r *FollowRepository) Followers(userID int) ([]*model.User, error) {
	var users []*model.User
	err := r.db.Model(&model.User{}).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ?", userID).
		Order("follows.created_at DESC").
		Find(&users).Error
	return users, err
}

// Following 关注列表
func (r *FollowRepository) Following(userID int) ([]*model.User, error) {
	var users []*model.User
	err := r.db.Model(&model.User{}).
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at DESC").
		Find(&users).Error
	return users, err
}

// CountFollowers 粉丝数
func (r *FollowRepository) CountFollowers(userID int) (int, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).Where("following_id = ?", userID).Count(&count).Error
	return int(count), err
}

// CountFollowing 关注数
func (r *FollowRepository) CountFollowing(userID int) (int, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return int(count), err
}
