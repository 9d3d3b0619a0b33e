package handler_test

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/user/reelog/internal/handler"
	"github.com/user/reelog/internal/query"
)

func isFollowing(t *testing.T, h *handler.Handler, followerID, followingID int) bool {
	t.Helper()

	params := gin.Params{{Key: "id", Value: strconv.Itoa(followingID)}}
	w := doJSON(t, followerID, "GET", "", params, h.IsFollowing)
	if w.Code != 200 {
		t.Fatalf("查询关注状态失败: %d %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			IsFollowing bool `json:"is_following"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	return resp.Data.IsFollowing
}

func TestFollowUnfollowRoundTrip(t *testing.T) {
	h := newTestHandler(t)

	alice, err := h.Repos.User.Create("alice@example.com", "alice", "password")
	if err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	bob, err := h.Repos.User.Create("bob@example.com", "bob", "password")
	if err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}

	// 预热双方的统计缓存键
	var aliceStats, bobStats int32
	primeKey(t, h, query.UserStatsKey(alice.ID), &aliceStats)
	primeKey(t, h, query.UserStatsKey(bob.ID), &bobStats)

	params := gin.Params{{Key: "id", Value: strconv.Itoa(bob.ID)}}
	w := doJSON(t, alice.ID, "POST", "", params, h.FollowUser)
	if w.Code != 200 {
		t.Fatalf("关注失败: %d %s", w.Code, w.Body.String())
	}
	if !isFollowing(t, h, alice.ID, bob.ID) {
		t.Fatal("关注后 is_following 应为 true")
	}

	// 关注使双方的统计键失效，再取必须重新回源
	if got := primeKey(t, h, query.UserStatsKey(alice.ID), &aliceStats); got != 2 {
		t.Fatalf("关注后关注方统计键应失效，回源次数 %d", got)
	}
	if got := primeKey(t, h, query.UserStatsKey(bob.ID), &bobStats); got != 2 {
		t.Fatalf("关注后被关注方统计键应失效，回源次数 %d", got)
	}

	w = doJSON(t, alice.ID, "DELETE", "", params, h.UnfollowUser)
	if w.Code != 200 {
		t.Fatalf("取消关注失败: %d %s", w.Code, w.Body.String())
	}
	if isFollowing(t, h, alice.ID, bob.ID) {
		t.Fatal("取关后 is_following 应为 false")
	}

	if got := primeKey(t, h, query.UserStatsKey(alice.ID), &aliceStats); got != 3 {
		t.Fatalf("取关后关注方统计键应失效，回源次数 %d", got)
	}
	if got := primeKey(t, h, query.UserStatsKey(bob.ID), &bobStats); got != 3 {
		t.Fatalf("取关后被关注方统计键应失效，回源次数 %d", got)
	}
}

func TestFollowSelfRejected(t *testing.T) {
	h := newTestHandler(t)

	alice, err := h.Repos.User.Create("alice@example.com", "alice", "password")
	if err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}

	params := gin.Params{{Key: "id", Value: strconv.Itoa(alice.ID)}}
	w := doJSON(t, alice.ID, "POST", "", params, h.FollowUser)
	if w.Code != 400 {
		t.Fatalf("自我关注应被拒绝，实际 %d", w.Code)
	}
}

func TestFollowUnknownUserNotFound(t *testing.T) {
	h := newTestHandler(t)

	alice, err := h.Repos.User.Create("alice@example.com", "alice", "password")
	if err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}

	params := gin.Params{{Key: "id", Value: "9999"}}
	w := doJSON(t, alice.ID, "POST", "", params, h.FollowUser)
	if w.Code != 404 {
		t.Fatalf("关注不存在的用户应 404，实际 %d", w.Code)
	}
}
