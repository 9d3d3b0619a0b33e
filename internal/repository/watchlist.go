package repository

import (
	"errors"
	"sort"
	"time"

	"github.com/user/reelog/internal/model"
	"gorm.io/gorm"
)

type WatchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// ListByUser 用户的全部片单（带条目数）
func (r *WatchlistRepository) ListByUser(userID int) ([]*model.Watchlist, error) {
	var lists []*model.Watchlist
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&lists).Error
	if err != nil {
		return nil, err
	}

	for _, w := range lists {
		var count int64
		if err := r.db.Model(&model.WatchlistItem{}).Where("watchlist_id = ?", w.ID).Count(&count).Error; err != nil {
			return nil, err
		}
		w.ItemCount = int(count)
	}
	return lists, nil
}

// GetByID 获取片单及其条目（priority 升序，带电影信息），不存在返回 nil
func (r *WatchlistRepository) GetByID(id int) (*model.Watchlist, error) {
	var w model.Watchlist
	err := r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("priority ASC")
	}).Preload("Items.Movie").First(&w, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	w.ItemCount = len(w.Items)
	return &w, nil
}

// Create 创建片单
func (r *WatchlistRepository) Create(w *model.Watchlist) error {
	w.CreatedAt = time.Now()
	w.UpdatedAt = time.Now()
	return r.db.Create(w).Error
}

// Update 更新片单基本信息
func (r *WatchlistRepository) Update(id int, name, description *string, isPublic *bool) error {
	values := map[string]interface{}{"updated_at": time.Now()}
	if name != nil {
		values["name"] = *name
	}
	if description != nil {
		values["description"] = *description
	}
	if isPublic != nil {
		values["is_public"] = *isPublic
	}
	return r.db.Model(&model.Watchlist{}).Where("id = ?", id).Updates(values).Error
}

// Delete 删除片单及其条目
func (r *WatchlistRepository) Delete(id int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("watchlist_id = ?", id).Delete(&model.WatchlistItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Watchlist{}, id).Error
	})
}

// AddItem 向片单添加电影，优先级排到末尾
func (r *WatchlistRepository) AddItem(watchlistID, movieID int, notes string) (*model.WatchlistItem, error) {
	item := &model.WatchlistItem{
		WatchlistID: watchlistID,
		MovieID:     movieID,
		Notes:       notes,
		CreatedAt:   time.Now(),
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var maxPriority *int
		if err := tx.Model(&model.WatchlistItem{}).
			Select("MAX(priority)").
			Where("watchlist_id = ?", watchlistID).
			Scan(&maxPriority).Error; err != nil {
			return err
		}
		if maxPriority != nil {
			item.Priority = *maxPriority + 1
		}
		return tx.Create(item).Error
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem 从片单移除电影
func (r *WatchlistRepository) RemoveItem(watchlistID, movieID int) error {
	return r.db.Where("watchlist_id = ? AND movie_id = ?", watchlistID, movieID).
		Delete(&model.WatchlistItem{}).Error
}

// Reorder 批量更新条目优先级，单事务内完成
func (r *WatchlistRepository) Reorder(watchlistID int, assignments []model.PriorityAssignment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, a := range assignments {
			err := tx.Model(&model.WatchlistItem{}).
				Where("id = ? AND watchlist_id = ?", a.ItemID, watchlistID).
				Update("priority", a.Priority).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// CountByUser 统计用户片单数量
func (r *WatchlistRepository) CountByUser(userID int) (int, error) {
	var count int64
	err := r.db.Model(&model.Watchlist{}).Where("user_id = ?", userID).Count(&count).Error
	return int(count), err
}

// ApplyPriorities 按新的优先级分配重排条目，返回排好序的副本
// 未出现在 assignments 中的条目保留原优先级
func ApplyPriorities(items []model.WatchlistItem, assignments []model.PriorityAssignment) []model.WatchlistItem {
	byID := make(map[int]int, len(assignments))
	for _, a := range assignments {
		byID[a.ItemID] = a.Priority
	}

	out := make([]model.WatchlistItem, len(items))
	copy(out, items)
	for i := range out {
		if p, ok := byID[out[i].ID]; ok {
			out[i].Priority = p
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return out
}
