package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/reelog/internal/middleware"
	"github.com/user/reelog/internal/model"
	"github.com/user/reelog/internal/query"
	"github.com/user/reelog/internal/repository"
	"github.com/user/reelog/internal/utils"
)

// ListWatchlists 当前用户的全部片单
func (h *Handler) ListWatchlists(c *gin.Context) {
	userID := middleware.GetUserID(c)

	lists, err := query.Fetch(c.Request.Context(), h.Queries, query.WatchlistsKey(userID),
		func(ctx context.Context) ([]*model.Watchlist, error) {
			return h.Repos.Watchlist.ListByUser(userID)
		})
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.Success(c, lists)
}

type watchlistRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

// CreateWatchlist 创建片单
func (h *Handler) CreateWatchlist(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req watchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "片单名称必填")
		return
	}

	w := &model.Watchlist{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	}
	err := h.Queries.Mutate(c.Request.Context(), query.Mutation{
		Run: func(ctx context.Context) error {
			return h.Repos.Watchlist.Create(w)
		},
		Invalidate: []query.Key{query.WatchlistsKey(userID)},
	})
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.Success(c, w)
}

// GetWatchlist 片单详情（条目按 priority 升序）
func (h *Handler) GetWatchlist(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "片单 ID 不合法")
		return
	}

	w, err := query.Fetch(c.Request.Context(), h.Queries, query.WatchlistKey(id),
		func(ctx context.Context) (*model.Watchlist, error) {
			return h.Repos.Watchlist.GetByID(id)
		})
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	if w == nil {
		utils.NotFound(c, "片单不存在")
		return
	}
	if !w.IsPublic && w.UserID != userID {
		utils.Forbidden(c, "")
		return
	}
	utils.Success(c, w)
}

type watchlistUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
}

// UpdateWatchlist 更新片单基本信息
func (h *Handler) UpdateWatchlist(c *gin.Context) {
	userID := middleware.GetUserID(c)
	w, ok := h.ownedWatchlist(c, userID)
	if !ok {
		return
	}

	var req watchlistUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数不合法")
		return
	}

	err := h.Queries.Mutate(c.Request.Context(), query.Mutation{
		Run: func(ctx context.Context) error {
			return h.Repos.Watchlist.Update(w.ID, req.Name, req.Description, req.IsPublic)
		},
		Invalidate: []query.Key{
			query.WatchlistKey(w.ID),
			query.WatchlistsKey(userID),
		},
	})
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.SuccessWithMessage(c, "已更新", nil)
}

// DeleteWatchlist 删除片单
func (h *Handler) DeleteWatchlist(c *gin.Context) {
	userID := middleware.GetUserID(c)
	w, ok := h.ownedWatchlist(c, userID)
	if !ok {
		return
	}

	err := h.Queries.Mutate(c.Request.Context(), query.Mutation{
		Run: func(ctx context.Context) error {
			return h.Repos.Watchlist.Delete(w.ID)
		},
		Invalidate: []query.Key{
			query.WatchlistKey(w.ID),
			query.WatchlistsKey(userID),
		},
	})
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.SuccessWithMessage(c, "已删除", nil)
}

type addItemRequest struct {
	MovieID int    `json:"movie_id" binding:"required"`
	Notes   string `json:"notes"`
}

// AddWatchlistItem 向片单添加电影
func (h *Handler) AddWatchlistItem(c *gin.Context) {
	userID := middleware.GetUserID(c)
	w, ok := h.ownedWatchlist(c, userID)
	if !ok {
		return
	}

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "movie_id 必填")
		return
	}

	var item *model.WatchlistItem
	err := h.Queries.Mutate(c.Request.Context(), query.Mutation{
		Run: func(ctx context.Context) error {
			created, err := h.Repos.Watchlist.AddItem(w.ID, req.MovieID, req.Notes)
			if err != nil {
				return err
			}
			item = created
			return h.logActivity(ctx, userID, &req.MovieID, model.ActivityAddedToWatchlist, nil)
		},
		Invalidate: []query.Key{
			query.WatchlistsKey(userID),
			query.WatchlistKey(w.ID),
		},
	})
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.Success(c, item)
}

// RemoveWatchlistItem 从片单移除电影
func (h *Handler) RemoveWatchlistItem(c *gin.Context) {
	userID := middleware.GetUserID(c)
	w, ok := h.ownedWatchlist(c, userID)
	if !ok {
		return
	}
	movieID, err := strconv.Atoi(c.Param("movieId"))
	if err != nil {
		utils.BadRequest(c, "电影 ID 不合法")
		return
	}

	err = h.Queries.Mutate(c.Request.Context(), query.Mutation{
		Run: func(ctx context.Context) error {
			return h.Repos.Watchlist.RemoveItem(w.ID, movieID)
		},
		Invalidate: []query.Key{
			query.WatchlistsKey(userID),
			query.WatchlistKey(w.ID),
		},
	})
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.SuccessWithMessage(c, "已移除", nil)
}

type reorderRequest struct {
	Items []model.PriorityAssignment `json:"items" binding:"required,min=1,dive"`
}

// ReorderWatchlist 批量调整条目优先级
// 乐观更新：缓存中的片单立即按新优先级重排，落库失败则整体还原
func (h *Handler) ReorderWatchlist(c *gin.Context) {
	userID := middleware.GetUserID(c)
	w, ok := h.ownedWatchlist(c, userID)
	if !ok {
		return
	}

	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "items 必填")
		return
	}

	err := h.Queries.Mutate(c.Request.Context(), query.Mutation{
		Key: query.WatchlistKey(w.ID),
		Patch: func(prev interface{}, found bool) interface{} {
			cached, ok := prev.(*model.Watchlist)
			if !ok || cached == nil {
				return nil
			}
			cp := *cached
			cp.Items = repository.ApplyPriorities(cached.Items, req.Items)
			return &cp
		},
		Run: func(ctx context.Context) error {
			return h.Repos.Watchlist.Reorder(w.ID, req.Items)
		},
	})
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.SuccessWithMessage(c, "已重新排序", nil)
}

// ownedWatchlist 加载路径里的片单并校验归属
func (h *Handler) ownedWatchlist(c *gin.Context, userID int) (*model.Watchlist, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "片单 ID 不合法")
		return nil, false
	}

	w, err := h.Repos.Watchlist.GetByID(id)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return nil, false
	}
	if w == nil {
		utils.NotFound(c, "片单不存在")
		return nil, false
	}
	if w.UserID != userID {
		utils.Forbidden(c, "只能操作自己的片单")
		return nil, false
	}
	return w, true
}
