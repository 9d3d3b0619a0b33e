package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/reelog/internal/handler"
	"github.com/user/reelog/internal/middleware"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 头像静态文件
	r.Static("/avatars", h.Config.AvatarDir)

	// ==================== 认证 ====================
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
	}

	// ==================== 公开 API ====================
	api := r.Group("/api")
	api.Use(middleware.OptionalAuth(h.Config.AppSecret))
	{
		api.GET("/movies/search", h.SearchMovies)
		api.GET("/movies/discover", h.DiscoverMovies)
		api.GET("/movies/:id", h.GetMovie)
		api.GET("/movies/:id/recommendations", h.MovieRecommendations)
		api.GET("/users/search", h.SearchUsers)
		api.GET("/users/:id/followers", h.Followers)
		api.GET("/users/:id/following", h.Following)
		api.GET("/profile/:id", h.GetProfile)
		api.GET("/profile/:id/stats", h.GetUserStats)
		api.GET("/profile/:id/activities", h.GetUserActivities)
		api.GET("/activity", h.GlobalActivity)
		api.GET("/activity/stream", h.ActivityStream)
	}

	// ==================== 需要登录的 API ====================
	authed := r.Group("/api")
	authed.Use(middleware.RequireAuth(h.Config.AppSecret))
	{
		authed.POST("/movies/sync", h.SyncMovie)
		authed.GET("/movies/:id/record", h.GetUserMovie)
		authed.PUT("/movies/:id/status", h.UpdateStatus)
		authed.PUT("/movies/:id/rating", h.UpdateRating)
		authed.PUT("/movies/:id/review", h.UpdateReview)
		authed.GET("/movies/:id/watching/stream", h.WatchingStream)
		authed.GET("/records", h.ListUserMovies)

		authed.PUT("/profile/:id", h.UpdateProfile)
		authed.POST("/profile/avatar", h.UploadAvatar)

		authed.GET("/watchlists", h.ListWatchlists)
		authed.POST("/watchlists", h.CreateWatchlist)
		authed.GET("/watchlists/:id", h.GetWatchlist)
		authed.PUT("/watchlists/:id", h.UpdateWatchlist)
		authed.DELETE("/watchlists/:id", h.DeleteWatchlist)
		authed.POST("/watchlists/:id/items", h.AddWatchlistItem)
		authed.DELETE("/watchlists/:id/items/:movieId", h.RemoveWatchlistItem)
		authed.PUT("/watchlists/:id/reorder", h.ReorderWatchlist)

		authed.POST("/users/:id/follow", h.FollowUser)
		authed.DELETE("/users/:id/follow", h.UnfollowUser)
		authed.GET("/users/:id/follow", h.IsFollowing)
	}
}
