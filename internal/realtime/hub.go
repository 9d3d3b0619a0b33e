package realtime

import (
	"sync"
	"time"
)

// Viewer 正在看某部电影详情页的用户
type Viewer struct {
	UserID   int       `json:"user_id"`
	Username string    `json:"username"`
	OnlineAt time.Time `json:"online_at"`
}

// PresenceUpdate 成员变化时推送的完整观众集合
// Display 为 false 时前端不展示人数（少于两人）
type PresenceUpdate struct {
	Viewers []Viewer `json:"viewers"`
	Count   int      `json:"count"`
	Display bool     `json:"display"`
}

// ActivityEvent 新动态插入通知
type ActivityEvent struct {
	ActivityID int    `json:"activity_id"`
	UserID     int    `json:"user_id"`
	ActionType string `json:"action_type"`
	MovieID    *int   `json:"movie_id,omitempty"`
}

type member struct {
	viewer Viewer
	ch     chan PresenceUpdate
}

// Hub 进程内的在场/通知通道
// 在场状态是临时的：断开即消失，无持久化与重连回放
type Hub struct {
	mu           sync.Mutex
	rooms        map[int]map[int64]*member // movieID -> 订阅号 -> 成员
	activitySubs map[int64]chan ActivityEvent
	nextID       int64
}

// NewHub 创建通道中枢
func NewHub() *Hub {
	return &Hub{
		rooms:        make(map[int]map[int64]*member),
		activitySubs: make(map[int64]chan ActivityEvent),
	}
}

// JoinMovie 加入某部电影的在场频道
// 返回的通道在每次成员变化时收到完整观众集合；leave 必须在断开时调用
func (h *Hub) JoinMovie(movieID int, v Viewer) (<-chan PresenceUpdate, func()) {
	if v.OnlineAt.IsZero() {
		v.OnlineAt = time.Now()
	}

	h.mu.Lock()
	id := h.nextID
	h.nextID++

	room := h.rooms[movieID]
	if room == nil {
		room = make(map[int64]*member)
		h.rooms[movieID] = room
	}
	m := &member{viewer: v, ch: make(chan PresenceUpdate, 8)}
	room[id] = m
	h.broadcastLocked(movieID)
	h.mu.Unlock()

	leave := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		room := h.rooms[movieID]
		if room == nil {
			return
		}
		if m, ok := room[id]; ok {
			delete(room, id)
			close(m.ch)
		}
		if len(room) == 0 {
			delete(h.rooms, movieID)
			return
		}
		h.broadcastLocked(movieID)
	}

	return m.ch, leave
}

// Snapshot 某部电影当前的观众集合
func (h *Hub) Snapshot(movieID int) PresenceUpdate {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotLocked(movieID)
}

// SubscribeActivity 订阅全站新动态通知，cancel 必须在断开时调用
func (h *Hub) SubscribeActivity() (<-chan ActivityEvent, func()) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	ch := make(chan ActivityEvent, 16)
	h.activitySubs[id] = ch
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if ch, ok := h.activitySubs[id]; ok {
			delete(h.activitySubs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// PublishActivity 广播一条新动态，慢订阅者直接丢弃
func (h *Hub) PublishActivity(ev ActivityEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.activitySubs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (h *Hub) snapshotLocked(movieID int) PresenceUpdate {
	room := h.rooms[movieID]
	viewers := make([]Viewer, 0, len(room))
	for _, m := range room {
		viewers = append(viewers, m.viewer)
	}
	return PresenceUpdate{
		Viewers: viewers,
		Count:   len(viewers),
		Display: len(viewers) >= 2,
	}
}

func (h *Hub) broadcastLocked(movieID int) {
	update := h.snapshotLocked(movieID)
	for _, m := range h.rooms[movieID] {
		select {
		case m.ch <- update:
		default: // 慢消费者丢弃本次更新，下次变化会再推全量
		}
	}
}
