package model

import (
	"time"
)

// User 用户模型（认证身份与个人资料 1:1，合并存储）
type User struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email" gorm:"unique"`
	Username     string    `json:"username" db:"username" gorm:"unique"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	AvatarURL    string    `json:"avatar_url" db:"avatar_url"`
	XP           int       `json:"xp" db:"xp"`
	Level        int       `json:"level" db:"level"`
	Preferences  string    `json:"preferences" db:"preferences"` // JSON 字符串，自由格式
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// SessionUser 专门用于 Session 存储的用户信息结构
type SessionUser struct {
	ID       int
	Email    string
	Username string
	Role     string
}

// ProfileSummary 用户搜索/关注列表里展示的简要资料
type ProfileSummary struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	Level     int    `json:"level"`
}

// Summary 转换为简要资料
func (u *User) Summary() ProfileSummary {
	return ProfileSummary{
		ID:        u.ID,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
		Level:     u.Level,
	}
}

// UserStats 用户统计数据（聚合查询结果，无对应表）
type UserStats struct {
	UserID         int     `json:"user_id"`
	TotalMovies    int     `json:"total_movies"`
	WatchedCount   int     `json:"watched_count"`
	AverageRating  float64 `json:"average_rating"`
	WatchlistCount int     `json:"watchlist_count"`
	FollowersCount int     `json:"followers_count"`
	FollowingCount int     `json:"following_count"`
}
