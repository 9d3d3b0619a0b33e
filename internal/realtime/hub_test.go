package realtime_test

import (
	"testing"
	"time"

	"github.com/user/reelog/internal/realtime"
)

func recv(t *testing.T, ch <-chan realtime.PresenceUpdate) realtime.PresenceUpdate {
	t.Helper()
	select {
	case update := <-ch:
		return update
	case <-time.After(time.Second):
		t.Fatal("等待在场推送超时")
		return realtime.PresenceUpdate{}
	}
}

func TestPresenceDisplayThreshold(t *testing.T) {
	hub := realtime.NewHub()

	ch1, leave1 := hub.JoinMovie(7, realtime.Viewer{UserID: 1, Username: "alice"})
	defer leave1()

	first := recv(t, ch1)
	if first.Count != 1 {
		t.Fatalf("期望 1 个观众，实际 %d", first.Count)
	}
	if first.Display {
		t.Fatal("只有一个观众时不应展示人数")
	}

	ch2, leave2 := hub.JoinMovie(7, realtime.Viewer{UserID: 2, Username: "bob"})

	second := recv(t, ch1)
	if second.Count != 2 {
		t.Fatalf("期望 2 个观众，实际 %d", second.Count)
	}
	if !second.Display {
		t.Fatal("两个观众时应展示人数")
	}
	joined := recv(t, ch2)
	if joined.Count != 2 || !joined.Display {
		t.Fatalf("新加入者应收到完整集合: %+v", joined)
	}

	// 离开后回到单人，推送不再展示
	leave2()
	third := recv(t, ch1)
	if third.Count != 1 || third.Display {
		t.Fatalf("离开后期望单人且不展示: %+v", third)
	}
}

func TestPresenceRoomsAreScopedByMovie(t *testing.T) {
	hub := realtime.NewHub()

	ch1, leave1 := hub.JoinMovie(1, realtime.Viewer{UserID: 1, Username: "alice"})
	defer leave1()
	recv(t, ch1)

	_, leave2 := hub.JoinMovie(2, realtime.Viewer{UserID: 2, Username: "bob"})
	defer leave2()

	if snap := hub.Snapshot(1); snap.Count != 1 {
		t.Fatalf("电影 1 的频道不应受电影 2 影响: %+v", snap)
	}

	select {
	case update := <-ch1:
		t.Fatalf("不应收到其他电影频道的推送: %+v", update)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestLeaveIsIdempotent(t *testing.T) {
	hub := realtime.NewHub()

	_, leave := hub.JoinMovie(1, realtime.Viewer{UserID: 1, Username: "alice"})
	leave()
	leave() // 重复调用不应恐慌

	if snap := hub.Snapshot(1); snap.Count != 0 {
		t.Fatalf("离开后频道应为空: %+v", snap)
	}
}

func TestActivityBroadcast(t *testing.T) {
	hub := realtime.NewHub()

	ch1, cancel1 := hub.SubscribeActivity()
	defer cancel1()
	ch2, cancel2 := hub.SubscribeActivity()
	defer cancel2()

	movieID := 9
	hub.PublishActivity(realtime.ActivityEvent{ActivityID: 1, UserID: 5, ActionType: "rated", MovieID: &movieID})

	for _, ch := range []<-chan realtime.ActivityEvent{ch1, ch2} {
		select {
		case ev := <-ch:
			if ev.ActionType != "rated" || ev.UserID != 5 {
				t.Fatalf("事件内容不符: %+v", ev)
			}
		case <-time.After(time.Second):
			t.Fatal("等待动态事件超时")
		}
	}
}

func TestPublishDoesNotBlockOnSlowSubscriber(t *testing.T) {
	hub := realtime.NewHub()

	_, cancel := hub.SubscribeActivity() // 从不消费
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.PublishActivity(realtime.ActivityEvent{ActivityID: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("慢订阅者不应阻塞广播")
	}
}
