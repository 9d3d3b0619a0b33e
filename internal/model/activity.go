package model

import (
	"time"
)

// 动态类型（固定集合）
const (
	ActivityRated            = "rated"
	ActivityReviewed         = "reviewed"
	ActivityAddedToWatchlist = "added_to_watchlist"
	ActivityStartedWatching  = "started_watching"
	ActivityFinishedWatching = "finished_watching"
)

// ActivityKindForStatus 状态变更对应的动态类型
// watching -> started_watching，watched -> finished_watching，其余 -> added_to_watchlist
func ActivityKindForStatus(status string) string {
	switch status {
	case StatusWatching:
		return ActivityStartedWatching
	case StatusWatched:
		return ActivityFinishedWatching
	default:
		return ActivityAddedToWatchlist
	}
}

// XPForAction 各动态类型奖励的经验值
func XPForAction(kind string) int {
	switch kind {
	case ActivityFinishedWatching:
		return 10
	case ActivityReviewed:
		return 5
	case ActivityRated:
		return 3
	default:
		return 1
	}
}

// Activity 用户动态，只追加，客户端不修改不删除
type Activity struct {
	ID         int       `json:"id" db:"id"`
	UserID     int       `json:"user_id" db:"user_id" gorm:"index"`
	MovieID    *int      `json:"movie_id" db:"movie_id"`
	ActionType string    `json:"action_type" db:"action_type"`
	Metadata   string    `json:"metadata" db:"metadata"` // JSON 字符串，如 {"rating":5}
	CreatedAt  time.Time `json:"created_at" db:"created_at" gorm:"index"`
	User       *User     `json:"user,omitempty"`
	Movie      *Movie    `json:"movie,omitempty"`
}

// Follow 关注关系，(follower_id, following_id) 唯一，存在即关注
type Follow struct {
	ID          int       `json:"id" db:"id"`
	FollowerID  int       `json:"follower_id" db:"follower_id" gorm:"uniqueIndex:idx_follow_edge"`
	FollowingID int       `json:"following_id" db:"following_id" gorm:"uniqueIndex:idx_follow_edge"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
