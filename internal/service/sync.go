package service

import (
	"fmt"
	"log"

	"github.com/pgvector/pgvector-go"
	"github.com/user/reelog/internal/model"
	"golang.org/x/sync/singleflight"
)

// MovieStore 同步所需的电影存取能力
type MovieStore interface {
	FindByTMDBID(tmdbID int) (*model.Movie, error)
	Create(movie *model.Movie) error
	UpdateEmbedding(movie *model.Movie) error
}

// CatalogClient 外部目录详情拉取能力
type CatalogClient interface {
	FetchMovieDetail(tmdbID int) (*model.Movie, error)
}

// Embedder 文本向量生成能力
type Embedder interface {
	Generate(text string) ([]float32, error)
}

// SyncService 按 TMDB ID 取或建电影
// 同一 ID 的并发同步经 singleflight 串行化，配合 tmdb_id 唯一约束
// 避免先查后插竞态产生重复行
type SyncService struct {
	movieRepo MovieStore
	catalog   CatalogClient
	embedder  Embedder
	group     singleflight.Group
}

// NewSyncService 创建同步服务
func NewSyncService(repo MovieStore, catalog CatalogClient, embedder Embedder) *SyncService {
	return &SyncService{
		movieRepo: repo,
		catalog:   catalog,
		embedder:  embedder,
	}
}

// GetOrCreate 已有则原样返回，缺失则拉取详情入库后返回
func (s *SyncService) GetOrCreate(tmdbID int) (*model.Movie, error) {
	val, err, _ := s.group.Do(fmt.Sprint(tmdbID), func() (interface{}, error) {
		return s.getOrCreateInternal(tmdbID)
	})
	if err != nil {
		return nil, err
	}
	return val.(*model.Movie), nil
}

func (s *SyncService) getOrCreateInternal(tmdbID int) (*model.Movie, error) {
	// 1. 本地已有则直接返回，不做刷新
	existing, err := s.movieRepo.FindByTMDBID(tmdbID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	// 2. 从目录拉取完整详情
	movie, err := s.catalog.FetchMovieDetail(tmdbID)
	if err != nil {
		return nil, fmt.Errorf("拉取 TMDB 详情失败: %w", err)
	}

	// 3. 入库；唯一约束撞车时 Create 静默忽略，重查现存行兜底
	if err := s.movieRepo.Create(movie); err != nil {
		return nil, fmt.Errorf("保存电影失败: %w", err)
	}
	if movie.ID == 0 {
		if existing, err := s.movieRepo.FindByTMDBID(tmdbID); err == nil && existing != nil {
			movie = existing
		}
	}

	// 4. 异步生成向量，失败只记日志
	s.generateEmbeddingAsync(movie)

	return movie, nil
}

// generateEmbeddingAsync 后台生成并回写电影向量
func (s *SyncService) generateEmbeddingAsync(movie *model.Movie) {
	if s.embedder == nil {
		return
	}
	content := fmt.Sprintf("%s %s %s", movie.Title, movie.Genres, movie.Summary)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[Sync] 向量生成发生恐慌 (TMDBID: %d): %v", movie.TMDBID, r)
			}
		}()

		vec, err := s.embedder.Generate(content)
		if err != nil {
			log.Printf("[Sync] 向量生成失败 (TMDBID: %d): %v", movie.TMDBID, err)
			return
		}

		v := pgvector.NewVector(vec)
		movie.EmbeddingContent = content
		movie.Embedding = &v
		if err := s.movieRepo.UpdateEmbedding(movie); err != nil {
			log.Printf("[Sync] 向量回写失败 (TMDBID: %d): %v", movie.TMDBID, err)
		}
	}()
}
