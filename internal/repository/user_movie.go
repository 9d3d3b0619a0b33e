package repository

import (
	"errors"
	"time"

	"github.com/user/reelog/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserMovieRepository struct {
	db *gorm.DB
}

func NewUserMovieRepository(db *gorm.DB) *UserMovieRepository {
	return &UserMovieRepository{db: db}
}

// GetByUserAndMovie 获取观影记录，不存在返回 nil
func (r *UserMovieRepository) GetByUserAndMovie(userID, movieID int) (*model.UserMovie, error) {
	var rec model.UserMovie
	err := r.db.Where("user_id = ? AND movie_id = ?", userID, movieID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpsertStatus 创建或更新观影状态
func (r *UserMovieRepository) UpsertStatus(userID, movieID int, status string) (*model.UserMovie, error) {
	rec := &model.UserMovie{
		UserID:    userID,
		MovieID:   movieID,
		Status:    status,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(rec).Error
	if err != nil {
		return nil, err
	}
	return r.GetByUserAndMovie(userID, movieID)
}

// UpsertRating 创建或更新评分
func (r *UserMovieRepository) UpsertRating(userID, movieID, rating int) (*model.UserMovie, error) {
	rec := &model.UserMovie{
		UserID:    userID,
		MovieID:   movieID,
		Rating:    &rating,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
	}).Create(rec).Error
	if err != nil {
		return nil, err
	}
	return r.GetByUserAndMovie(userID, movieID)
}

// UpsertReview 创建或更新短评
func (r *UserMovieRepository) UpsertReview(userID, movieID int, review string) (*model.UserMovie, error) {
	rec := &model.UserMovie{
		UserID:    userID,
		MovieID:   movieID,
		Review:    review,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"review", "updated_at"}),
	}).Create(rec).Error
	if err != nil {
		return nil, err
	}
	return r.GetByUserAndMovie(userID, movieID)
}

// ListByUser 用户的观影记录列表，status 为空时不过滤
func (r *UserMovieRepository) ListByUser(userID int, status string, limit, offset int) ([]*model.UserMovie, error) {
	q := r.db.Preload("Movie").Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var records []*model.UserMovie
	err := q.Order("updated_at DESC").Limit(limit).Offset(offset).Find(&records).Error
	return records, err
}

// StatsByUser 聚合统计：记录总数、看过数、平均评分
func (r *UserMovieRepository) StatsByUser(userID int) (total, watched int, avgRating float64, err error) {
	var row struct {
		Total     int
		Watched   int
		AvgRating *float64
	}
	err = r.db.Model(&model.UserMovie{}).
		Select("COUNT(*) AS total, COUNT(*) FILTER (WHERE status = ?) AS watched, AVG(rating) AS avg_rating", model.StatusWatched).
		Where("user_id = ?", userID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, 0, err
	}
	if row.AvgRating != nil {
		avgRating = *row.AvgRating
	}
	return row.Total, row.Watched, avgRating, nil
}
