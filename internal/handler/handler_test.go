package handler_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/user/reelog/internal/config"
	"github.com/user/reelog/internal/handler"
	"github.com/user/reelog/internal/model"
	"github.com/user/reelog/internal/query"
	"github.com/user/reelog/internal/realtime"
	"github.com/user/reelog/internal/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	handler.RegisterValidations()
}

// newTestHandler 基于内存 SQLite 构建完整处理器，结构与生产装配一致
func newTestHandler(t *testing.T) *handler.Handler {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.UserMovie{},
		&model.Follow{},
		&model.Activity{},
		&model.Watchlist{},
		&model.WatchlistItem{},
	); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}

	repos := repository.NewRepositories(db)
	return handler.NewHandler(repos, &config.Config{}, query.NewStore(time.Minute), realtime.NewHub())
}

// doJSON 以指定登录用户直接调用一个处理函数
func doJSON(t *testing.T, userID int, method, body string, params gin.Params, fn gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params
	c.Set("user_id", userID)
	fn(c)
	return w
}

// primeKey 以计数回源预热一个缓存键，返回累计回源次数
// 键仍新鲜时计数不变，被标记失效后再取会 +1
func primeKey(t *testing.T, h *handler.Handler, key query.Key, calls *int32) int32 {
	t.Helper()

	_, err := query.Fetch(context.Background(), h.Queries, key,
		func(ctx context.Context) (int32, error) {
			return atomic.AddInt32(calls, 1), nil
		})
	if err != nil {
		t.Fatalf("预热缓存键 %s 失败: %v", key, err)
	}
	return atomic.LoadInt32(calls)
}
