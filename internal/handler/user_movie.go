package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/reelog/internal/middleware"
	"github.com/user/reelog/internal/model"
	"github.com/user/reelog/internal/query"
	"github.com/user/reelog/internal/utils"
)

// GetUserMovie 当前用户对某部电影的观影记录，无记录返回 null
func (h *Handler) GetUserMovie(c *gin.Context) {
	userID := middleware.GetUserID(c)
	movieID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "电影 ID 不合法")
		return
	}

	rec, err := query.Fetch(c.Request.Context(), h.Queries, query.UserMovieKey(userID, movieID),
		func(ctx context.Context) (*model.UserMovie, error) {
			return h.Repos.UserMovie.GetByUserAndMovie(userID, movieID)
		})
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.Success(c, rec)
}

type statusRequest struct {
	Status string `json:"status" binding:"required,watchstatus"`
}

// UpdateStatus 更新观影状态
// 乐观更新：先改缓存里的 status 字段，落库失败则整体还原
func (h *Handler) UpdateStatus(c *gin.Context) {
	userID := middleware.GetUserID(c)
	movieID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "电影 ID 不合法")
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "状态不合法")
		return
	}

	var updated *model.UserMovie
	err = h.Queries.Mutate(c.Request.Context(), query.Mutation{
		Key: query.UserMovieKey(userID, movieID),
		Patch: func(prev interface{}, found bool) interface{} {
			if rec, ok := prev.(*model.UserMovie); ok && rec != nil {
				cp := *rec
				cp.Status = req.Status
				return &cp
			}
			return &model.UserMovie{UserID: userID, MovieID: movieID, Status: req.Status}
		},
		Run: func(ctx context.Context) error {
			rec, err := h.Repos.UserMovie.UpsertStatus(userID, movieID, req.Status)
			if err != nil {
				return err
			}
			updated = rec
			return h.logActivity(ctx, userID, &movieID, model.ActivityKindForStatus(req.Status), nil)
		},
		Invalidate: []query.Key{
			query.UserStatsKey(userID),
			query.UserActivitiesKey(userID),
		},
	})
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.Success(c, updated)
}

type ratingRequest struct {
	Rating int `json:"rating" binding:"required,min=1,max=5"`
}

// UpdateRating 更新评分
// 乐观更新：先改缓存里的 rating 字段，落库失败则整体还原
func (h *Handler) UpdateRating(c *gin.Context) {
	userID := middleware.GetUserID(c)
	movieID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "电影 ID 不合法")
		return
	}

	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "评分需在 1-5 之间")
		return
	}

	var updated *model.UserMovie
	err = h.Queries.Mutate(c.Request.Context(), query.Mutation{
		Key: query.UserMovieKey(userID, movieID),
		Patch: func(prev interface{}, found bool) interface{} {
			rating := req.Rating
			if rec, ok := prev.(*model.UserMovie); ok && rec != nil {
				cp := *rec
				cp.Rating = &rating
				return &cp
			}
			return &model.UserMovie{UserID: userID, MovieID: movieID, Rating: &rating}
		},
		Run: func(ctx context.Context) error {
			rec, err := h.Repos.UserMovie.UpsertRating(userID, movieID, req.Rating)
			if err != nil {
				return err
			}
			updated = rec
			return h.logActivity(ctx, userID, &movieID, model.ActivityRated,
				map[string]interface{}{"rating": req.Rating})
		},
		Invalidate: []query.Key{
			query.UserStatsKey(userID),
			query.UserActivitiesKey(userID),
		},
	})
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.Success(c, updated)
}

type reviewRequest struct {
	Review string `json:"review" binding:"required"`
}

// UpdateReview 更新短评
func (h *Handler) UpdateReview(c *gin.Context) {
	userID := middleware.GetUserID(c)
	movieID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "电影 ID 不合法")
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "短评不能为空")
		return
	}

	var updated *model.UserMovie
	err = h.Queries.Mutate(c.Request.Context(), query.Mutation{
		Key: query.UserMovieKey(userID, movieID),
		Patch: func(prev interface{}, found bool) interface{} {
			if rec, ok := prev.(*model.UserMovie); ok && rec != nil {
				cp := *rec
				cp.Review = req.Review
				return &cp
			}
			return &model.UserMovie{UserID: userID, MovieID: movieID, Review: req.Review}
		},
		Run: func(ctx context.Context) error {
			rec, err := h.Repos.UserMovie.UpsertReview(userID, movieID, req.Review)
			if err != nil {
				return err
			}
			updated = rec
			return h.logActivity(ctx, userID, &movieID, model.ActivityReviewed, nil)
		},
		Invalidate: []query.Key{
			query.UserStatsKey(userID),
			query.UserActivitiesKey(userID),
		},
	})
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.Success(c, updated)
}

// ListUserMovies 当前用户的观影记录列表
func (h *Handler) ListUserMovies(c *gin.Context) {
	userID := middleware.GetUserID(c)
	status := c.Query("status")
	if status != "" && !model.ValidStatus(status) {
		utils.BadRequest(c, "状态不合法")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	records, err := h.Repos.UserMovie.ListByUser(userID, status, limit, offset)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.Success(c, records)
}
