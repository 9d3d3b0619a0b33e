package handler

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/reelog/internal/middleware"
	"github.com/user/reelog/internal/model"
	"github.com/user/reelog/internal/query"
	"github.com/user/reelog/internal/repository"
	"github.com/user/reelog/internal/utils"
)

// GetProfile 用户资料
func (h *Handler) GetProfile(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "用户 ID 不合法")
		return
	}

	user, err := query.Fetch(c.Request.Context(), h.Queries, query.ProfileKey(id),
		func(ctx context.Context) (*model.User, error) {
			return h.Repos.User.FindByID(id)
		})
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	if user == nil {
		utils.NotFound(c, "用户不存在")
		return
	}
	utils.Success(c, user)
}

type profileUpdateRequest struct {
	Username    *string `json:"username"`
	Preferences *string `json:"preferences"`
}

// UpdateProfile 更新个人资料（仅限本人）
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "用户 ID 不合法")
		return
	}
	if id != userID {
		utils.Forbidden(c, "只能修改自己的资料")
		return
	}

	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数不合法")
		return
	}

	var updated *model.User
	err = h.Queries.Mutate(c.Request.Context(), query.Mutation{
		Run: func(ctx context.Context) error {
			user, err := h.Repos.User.UpdateProfile(userID, repository.ProfileUpdate{
				Username:    req.Username,
				Preferences: req.Preferences,
			})
			if err != nil {
				return err
			}
			updated = user
			return nil
		},
		Invalidate: []query.Key{query.ProfileKey(userID)},
	})
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.Success(c, updated)
}

// UploadAvatar 上传头像，返回公开 URL
func (h *Handler) UploadAvatar(c *gin.Context) {
	userID := middleware.GetUserID(c)

	file, err := c.FormFile("avatar")
	if err != nil {
		utils.BadRequest(c, "缺少头像文件")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		utils.BadRequest(c, "不支持的图片格式")
		return
	}

	filename := fmt.Sprintf("%d-%d%s", userID, time.Now().UnixNano(), ext)
	dst := filepath.Join(h.Config.AvatarDir, filename)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		utils.InternalServerError(c, "保存头像失败")
		return
	}

	publicURL := h.Config.SiteUrl + "/avatars/" + filename
	err = h.Queries.Mutate(c.Request.Context(), query.Mutation{
		Run: func(ctx context.Context) error {
			_, err := h.Repos.User.UpdateProfile(userID, repository.ProfileUpdate{AvatarURL: &publicURL})
			return err
		},
		Invalidate: []query.Key{query.ProfileKey(userID)},
	})
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.Success(c, gin.H{"avatar_url": publicURL})
}

// GetUserStats 用户统计数据
func (h *Handler) GetUserStats(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "用户 ID 不合法")
		return
	}

	stats, err := query.Fetch(c.Request.Context(), h.Queries, query.UserStatsKey(id),
		func(ctx context.Context) (*model.UserStats, error) {
			return h.Stats.UserStats(id)
		})
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.Success(c, stats)
}

// GetUserActivities 用户个人动态
func (h *Handler) GetUserActivities(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "用户 ID 不合法")
		return
	}

	activities, err := query.Fetch(c.Request.Context(), h.Queries, query.UserActivitiesKey(id),
		func(ctx context.Context) ([]*model.Activity, error) {
			return h.Repos.Activity.ListByUser(id, 10)
		})
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.Success(c, activities)
}
