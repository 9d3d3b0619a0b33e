package model

import (
	"time"
)

// Watchlist 片单，归属唯一用户
type Watchlist struct {
	ID          int             `json:"id" db:"id"`
	UserID      int             `json:"user_id" db:"user_id" gorm:"index"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	IsPublic    bool            `json:"is_public" db:"is_public"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
	Items       []WatchlistItem `json:"items,omitempty" gorm:"foreignKey:WatchlistID"`
	ItemCount   int             `json:"item_count" gorm:"-"` // 列表页用，单独统计
}

// WatchlistItem 片单条目，priority 升序决定展示顺序
type WatchlistItem struct {
	ID          int       `json:"id" db:"id"`
	WatchlistID int       `json:"watchlist_id" db:"watchlist_id" gorm:"uniqueIndex:idx_watchlist_movie"`
	MovieID     int       `json:"movie_id" db:"movie_id" gorm:"uniqueIndex:idx_watchlist_movie"`
	Notes       string    `json:"notes" db:"notes"`
	Priority    int       `json:"priority" db:"priority"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	Movie       *Movie    `json:"movie,omitempty"` // 关联查询时填充
}

// PriorityAssignment 重排序时的 (条目, 新优先级) 对
type PriorityAssignment struct {
	ItemID   int `json:"id" binding:"required"`
	Priority int `json:"priority"`
}
