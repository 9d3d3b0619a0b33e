package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// Movie 电影模型（TMDB 同步信息）
// 同步创建后除重新同步外不再修改
type Movie struct {
	ID               int              `json:"id" db:"id"`
	TMDBID           int              `json:"tmdb_id" db:"tmdb_id" gorm:"unique"`
	Title            string           `json:"title" db:"title"`
	Poster           string           `json:"poster" db:"poster"`
	ReleaseDate      string           `json:"release_date" db:"release_date"`
	Runtime          int              `json:"runtime" db:"runtime"`
	Genres           string           `json:"genres" db:"genres"` // 以 / 分隔
	Rating           float64          `json:"rating" db:"rating" gorm:"index"`
	Summary          string           `json:"summary" db:"summary"`
	EmbeddingContent string           `json:"embedding_content" db:"embedding_content"`
	Embedding        *pgvector.Vector `json:"-" db:"embedding" gorm:"type:vector(768)"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at" db:"updated_at" gorm:"index"`
}

// MovieSummary 搜索/发现结果中的电影条目（来自 TMDB，未必已入库）
type MovieSummary struct {
	TMDBID      int     `json:"tmdb_id"`
	Title       string  `json:"title"`
	Poster      string  `json:"poster"`
	ReleaseDate string  `json:"release_date"`
	Rating      float64 `json:"rating"`
	Summary     string  `json:"summary"`
}

// MoviePage 分页的电影列表
type MoviePage struct {
	Results      []MovieSummary `json:"results"`
	Page         int            `json:"page"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

// DiscoverSortKeys 发现页允许的排序方式（固定集合）
var DiscoverSortKeys = map[string]bool{
	"popularity.desc":   true,
	"release_date.desc": true,
	"vote_average.desc": true,
	"revenue.desc":      true,
}
