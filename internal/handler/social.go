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

// FollowUser 关注用户
func (h *Handler) FollowUser(c *gin.Context) {
	followerID := middleware.GetUserID(c)
	followingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "用户 ID 不合法")
		return
	}
	if followerID == followingID {
		utils.BadRequest(c, "不能关注自己")
		return
	}

	target, err := h.Repos.User.FindByID(followingID)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	if target == nil {
		utils.NotFound(c, "用户不存在")
		return
	}

	err = h.Queries.Mutate(c.Request.Context(), query.Mutation{
		Key: query.FollowKey(followerID, followingID),
		Patch: func(prev interface{}, found bool) interface{} {
			return true
		},
		Run: func(ctx context.Context) error {
			return h.Repos.Follow.Add(followerID, followingID)
		},
		Invalidate: []query.Key{
			query.UserStatsKey(followingID),
			query.UserStatsKey(followerID),
		},
	})
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.SuccessWithMessage(c, "已关注", nil)
}

// UnfollowUser 取消关注
func (h *Handler) UnfollowUser(c *gin.Context) {
	followerID := middleware.GetUserID(c)
	followingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "用户 ID 不合法")
		return
	}

	err = h.Queries.Mutate(c.Request.Context(), query.Mutation{
		Key: query.FollowKey(followerID, followingID),
		Patch: func(prev interface{}, found bool) interface{} {
			return false
		},
		Run: func(ctx context.Context) error {
			return h.Repos.Follow.Remove(followerID, followingID)
		},
		Invalidate: []query.Key{
			query.UserStatsKey(followingID),
			query.UserStatsKey(followerID),
		},
	})
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.SuccessWithMessage(c, "已取消关注", nil)
}

// IsFollowing 检查当前用户是否关注了目标用户
func (h *Handler) IsFollowing(c *gin.Context) {
	followerID := middleware.GetUserID(c)
	followingID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "用户 ID 不合法")
		return
	}

	following, err := query.Fetch(c.Request.Context(), h.Queries, query.FollowKey(followerID, followingID),
		func(ctx context.Context) (bool, error) {
			return h.Repos.Follow.IsFollowing(followerID, followingID)
		})
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.Success(c, gin.H{"is_following": following})
}

// Followers 粉丝列表
func (h *Handler) Followers(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "用户 ID 不合法")
		return
	}

	users, err := h.Repos.Follow.Followers(userID)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.Success(c, summaries(users))
}

// Following 关注列表
func (h *Handler) Following(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "用户 ID 不合法")
		return
	}

	users, err := h.Repos.Follow.Following(userID)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.Success(c, summaries(users))
}

// SearchUsers 按用户名搜索
func (h *Handler) SearchUsers(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		utils.BadRequest(c, "缺少搜索关键词")
		return
	}

	users, err := h.Repos.User.SearchByUsername(keyword, 10)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.Success(c, summaries(users))
}

// GlobalActivity 全站动态流
func (h *Handler) GlobalActivity(c *gin.Context) {
	activities, err := query.Fetch(c.Request.Context(), h.Queries, query.GlobalActivityKey(),
		func(ctx context.Context) ([]*model.Activity, error) {
			return h.Repos.Activity.GlobalFeed(50)
		})
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.Success(c, activities)
}

func summaries(users []*model.User) []model.ProfileSummary {
	out := make([]model.ProfileSummary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	return out
}
