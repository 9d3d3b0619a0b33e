package model

import (
	"time"
)

// 观影状态（固定集合）
const (
	StatusWantToWatch = "want_to_watch"
	StatusWatching    = "watching"
	StatusWatched     = "watched"
	StatusDropped     = "dropped"
)

// ValidStatus 检查观影状态是否合法
func ValidStatus(s string) bool {
	switch s {
	case StatusWantToWatch, StatusWatching, StatusWatched, StatusDropped:
		return true
	}
	return false
}

// UserMovie 用户观影记录，(user_id, movie_id) 唯一，创建与更新共用 Upsert
type UserMovie struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id" gorm:"uniqueIndex:idx_user_movie"`
	MovieID   int       `json:"movie_id" db:"movie_id" gorm:"uniqueIndex:idx_user_movie"`
	Status    string    `json:"status" db:"status"`
	Rating    *int      `json:"rating" db:"rating"` // 1-5 星，可空
	Review    string    `json:"review" db:"review"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	User      *User     `json:"user,omitempty"`
	Movie     *Movie    `json:"movie,omitempty"`
}
