package handler

import (
	"context"
	"encoding/json"
	"log"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/user/reelog/internal/config"
	"github.com/user/reelog/internal/model"
	"github.com/user/reelog/internal/query"
	"github.com/user/reelog/internal/realtime"
	"github.com/user/reelog/internal/repository"
	"github.com/user/reelog/internal/service"
	"github.com/user/reelog/internal/utils"
)

// Handler HTTP 处理器
type Handler struct {
	Repos   *repository.Repositories
	Config  *config.Config
	Queries *query.Store
	Hub     *realtime.Hub
	TMDB    *service.TMDBService
	Sync    *service.SyncService
	Stats   *service.StatsService
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config, queries *query.Store, hub *realtime.Hub) *Handler {
	tmdb := service.NewTMDBService(cfg.TMDBToken)
	embedder := utils.NewEmbeddingClient(cfg.OllamaHost, cfg.OllamaModel)

	return &Handler{
		Repos:   repos,
		Config:  cfg,
		Queries: queries,
		Hub:     hub,
		TMDB:    tmdb,
		Sync:    service.NewSyncService(repos.Movie, tmdb, embedder),
		Stats:   service.NewStatsService(repos),
	}
}

// RegisterValidations 注册请求体的自定义校验规则，启动时调用一次
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("watchstatus", func(fl validator.FieldLevel) bool {
			return model.ValidStatus(fl.Field().String())
		})
	}
}

// logActivity 追加一条动态并广播通知，全站动态流缓存随之失效
func (h *Handler) logActivity(ctx context.Context, userID int, movieID *int, actionType string, metadata map[string]interface{}) error {
	meta := "{}"
	if len(metadata) > 0 {
		if b, err := json.Marshal(metadata); err == nil {
			meta = string(b)
		}
	}

	activity := &model.Activity{
		UserID:     userID,
		MovieID:    movieID,
		ActionType: actionType,
		Metadata:   meta,
	}
	if err := h.Repos.Activity.Append(activity); err != nil {
		return err
	}

	// 按动态类型发放经验值，失败不影响主流程
	if err := h.Repos.User.AddXP(userID, model.XPForAction(actionType)); err != nil {
		log.Printf("[Activity] 经验值发放失败 (UserID: %d): %v", userID, err)
	} else {
		h.Queries.Invalidate(query.ProfileKey(userID))
	}

	h.Queries.Invalidate(query.GlobalActivityKey())
	h.Hub.PublishActivity(realtime.ActivityEvent{
		ActivityID: activity.ID,
		UserID:     userID,
		ActionType: actionType,
		MovieID:    movieID,
	})
	return nil
}
