package handler

import (
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/reelog/internal/middleware"
	"github.com/user/reelog/internal/realtime"
	"github.com/user/reelog/internal/utils"
)

// WatchingStream 电影详情页在场频道（SSE）
// 连接即宣告自己在场，成员每次变化推送完整观众集合，断开即离场
func (h *Handler) WatchingStream(c *gin.Context) {
	userID := middleware.GetUserID(c)
	movieID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "电影 ID 不合法")
		return
	}

	user, err := h.Repos.User.FindByID(userID)
	if err != nil || user == nil {
		utils.Unauthorized(c, "")
		return
	}

	updates, leave := h.Hub.JoinMovie(movieID, realtime.Viewer{
		UserID:   user.ID,
		Username: user.Username,
	})
	defer leave()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case update, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("presence", update)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// ActivityStream 全站新动态通知（SSE）
// 客户端收到事件后应将本地动态流视为过期并重新拉取
func (h *Handler) ActivityStream(c *gin.Context) {
	events, cancel := h.Hub.SubscribeActivity()
	defer cancel()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("activity", ev)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
