package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/reelog/internal/model"
	"github.com/user/reelog/internal/query"
	"github.com/user/reelog/internal/service"
	"github.com/user/reelog/internal/utils"
)

// SearchMovies 关键词搜索（TMDB 代理）
func (h *Handler) SearchMovies(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		utils.BadRequest(c, "缺少搜索关键词")
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	result, err := h.TMDB.SearchMovies(keyword, page)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.Success(c, result)
}

// DiscoverMovies 条件发现（TMDB 代理）
func (h *Handler) DiscoverMovies(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	minRating, _ := strconv.ParseFloat(c.Query("vote_average_gte"), 64)

	result, err := h.TMDB.DiscoverMovies(service.DiscoverParams{
		Page:       page,
		SortBy:     c.Query("sort_by"),
		WithGenres: c.Query("with_genres"),
		Year:       c.Query("year"),
		MinRating:  minRating,
	})
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	utils.Success(c, result)
}

type syncRequest struct {
	TMDBID int `json:"tmdb_id" binding:"required"`
}

// SyncMovie 按 TMDB ID 取或建电影
func (h *Handler) SyncMovie(c *gin.Context) {
	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "tmdb_id 必填")
		return
	}

	movie, err := h.Sync.GetOrCreate(req.TMDBID)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.Success(c, movie)
}

// GetMovie 本地电影详情，未同步的 ID 返回 404
func (h *Handler) GetMovie(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "电影 ID 不合法")
		return
	}

	movie, err := query.Fetch(c.Request.Context(), h.Queries, query.MovieKey(id),
		func(ctx context.Context) (*model.Movie, error) {
			return h.Repos.Movie.FindByID(id)
		})
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	if movie == nil {
		utils.NotFound(c, "电影不存在")
		return
	}
	utils.Success(c, movie)
}

// MovieRecommendations 相似电影推荐（向量近邻）
func (h *Handler) MovieRecommendations(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "电影 ID 不合法")
		return
	}

	movies, err := h.Repos.Movie.FindSimilar(id, 10)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.Success(c, movies)
}
