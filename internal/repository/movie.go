package repository

import (
	"errors"
	"time"

	"github.com/user/reelog/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// FindByTMDBID 根据 TMDB ID 查找电影
func (r *MovieRepository) FindByTMDBID(tmdbID int) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.Where("tmdb_id = ?", tmdbID).First(&movie).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// FindByID 根据 ID 查找电影
func (r *MovieRepository) FindByID(id int) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.First(&movie, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// Create 创建电影
// tmdb_id 有唯一约束：并发同步撞上时忽略冲突，由调用方重查现存行
func (r *MovieRepository) Create(movie *model.Movie) error {
	movie.CreatedAt = time.Now()
	movie.UpdatedAt = time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tmdb_id"}},
		DoNothing: true,
	}).Create(movie).Error
}

// UpdateEmbedding 回写向量
func (r *MovieRepository) UpdateEmbedding(movie *model.Movie) error {
	return r.db.Model(&model.Movie{}).Where("id = ?", movie.ID).
		Updates(map[string]interface{}{
			"embedding_content": movie.EmbeddingContent,
			"embedding":         movie.Embedding,
			"updated_at":        time.Now(),
		}).Error
}

// FindSimilar 基于向量距离的相似电影（余弦距离，越小越相似）
func (r *MovieRepository) FindSimilar(movieID, limit int) ([]*model.Movie, error) {
	var movies []*model.Movie
	err := r.db.Raw(`
		SELECT m.id, m.tmdb_id, m.title, m.poster, m.release_date, m.runtime,
		       m.genres, m.rating, m.summary, m.created_at, m.updated_at
		FROM movies m, movies target
		WHERE target.id = ? AND m.id <> target.id
		  AND m.embedding IS NOT NULL AND target.embedding IS NOT NULL
		ORDER BY m.embedding <=> target.embedding
		LIMIT ?
	`, movieID, limit).Scan(&movies).Error
	return movies, err
}
