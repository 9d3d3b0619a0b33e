package query_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/user/reelog/internal/query"
)

type record struct {
	Status string
	Rating int
}

func TestFetchServesCachedValue(t *testing.T) {
	s := query.NewStore(time.Minute)
	key := query.NewKey("user_movies", 1, 2)

	var calls int32
	load := func(ctx context.Context) (*record, error) {
		atomic.AddInt32(&calls, 1)
		return &record{Status: "watching"}, nil
	}

	first, err := query.Fetch(context.Background(), s, key, load)
	require.NoError(t, err)
	second, err := query.Fetch(context.Background(), s, key, load)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls), "新鲜缓存不应再次回源")
}

func TestFetchDeduplicatesConcurrentLoads(t *testing.T) {
	s := query.NewStore(time.Minute)
	key := query.NewKey("user_movies", 1, 2)

	var calls int32
	release := make(chan struct{})
	load := func(ctx context.Context) (*record, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return &record{Status: "watched"}, nil
	}

	const n = 10
	results := make([]*record, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := query.Fetch(context.Background(), s, key, load)
			require.NoError(t, err)
			results[i] = v
		}(i)
	}

	// 等并发请求都排进来再放行回源
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.EqualValues(t, 1, atomic.LoadInt32(&calls), "并发同键请求应合并为一次回源")
	for i := 1; i < n; i++ {
		require.Same(t, results[0], results[i], "所有调用方应拿到同一结果")
	}
}

func TestMutateRollbackRestoresExactPriorValue(t *testing.T) {
	s := query.NewStore(time.Minute)
	key := query.NewKey("user_movies", 1, 2)

	prior := &record{Status: "want_to_watch", Rating: 4}
	_, err := query.Fetch(context.Background(), s, key, func(ctx context.Context) (*record, error) {
		return prior, nil
	})
	require.NoError(t, err)

	boom := errors.New("写入失败")
	err = s.Mutate(context.Background(), query.Mutation{
		Key: key,
		Patch: func(prev interface{}, found bool) interface{} {
			cp := *(prev.(*record))
			cp.Status = "watching"
			return &cp
		},
		Run: func(ctx context.Context) error { return boom },
	})
	require.ErrorIs(t, err, boom, "错误应原样上抛")

	v, ok := s.Peek(key)
	require.True(t, ok)
	require.Same(t, prior, v.(*record), "回滚必须恢复变更前的原值")
	require.Equal(t, &record{Status: "want_to_watch", Rating: 4}, v)
}

func TestMutateRollbackKeepsInvalidatedEntryStale(t *testing.T) {
	s := query.NewStore(time.Minute)
	key := query.NewKey("user_movies", 1, 2)

	var calls int32
	load := func(ctx context.Context) (*record, error) {
		atomic.AddInt32(&calls, 1)
		return &record{Status: "want_to_watch"}, nil
	}
	_, err := query.Fetch(context.Background(), s, key, load)
	require.NoError(t, err)

	// 标记失效后再执行一次失败的写：回滚不能顺手"复活"这条记录
	s.Invalidate(key)
	err = s.Mutate(context.Background(), query.Mutation{
		Key: key,
		Patch: func(prev interface{}, found bool) interface{} {
			return &record{Status: "watching"}
		},
		Run: func(ctx context.Context) error { return errors.New("写入失败") },
	})
	require.Error(t, err)

	_, err = query.Fetch(context.Background(), s, key, load)
	require.NoError(t, err)
	require.EqualValues(t, 2, atomic.LoadInt32(&calls), "回滚后的键应保持失效状态并重新回源")
}

func TestMutateRollbackRemovesValueThatWasAbsent(t *testing.T) {
	s := query.NewStore(time.Minute)
	key := query.NewKey("user_movies", 3, 4)

	err := s.Mutate(context.Background(), query.Mutation{
		Key: key,
		Patch: func(prev interface{}, found bool) interface{} {
			require.False(t, found)
			return &record{Status: "watching"}
		},
		Run: func(ctx context.Context) error { return errors.New("写入失败") },
	})
	require.Error(t, err)

	_, ok := s.Peek(key)
	require.False(t, ok, "原本不存在的键回滚后应仍然不存在")
}

func TestMutateAppliesOptimisticValueBeforeRun(t *testing.T) {
	s := query.NewStore(time.Minute)
	key := query.NewKey("user_movies", 1, 2)

	err := s.Mutate(context.Background(), query.Mutation{
		Key: key,
		Patch: func(prev interface{}, found bool) interface{} {
			return &record{Status: "watching"}
		},
		Run: func(ctx context.Context) error {
			// Run 执行期间读到的应是乐观值
			v, ok := s.Peek(key)
			require.True(t, ok)
			require.Equal(t, "watching", v.(*record).Status)
			return nil
		},
	})
	require.NoError(t, err)
}

func TestMutateInvalidatesFanOutKeys(t *testing.T) {
	s := query.NewStore(time.Minute)
	recordKey := query.UserMovieKey(1, 2)
	statsKey := query.UserStatsKey(1)

	var statsCalls int32
	loadStats := func(ctx context.Context) (int, error) {
		atomic.AddInt32(&statsCalls, 1)
		return 42, nil
	}
	_, err := query.Fetch(context.Background(), s, statsKey, loadStats)
	require.NoError(t, err)

	err = s.Mutate(context.Background(), query.Mutation{
		Key: recordKey,
		Patch: func(prev interface{}, found bool) interface{} {
			return &record{Status: "watched"}
		},
		Run:        func(ctx context.Context) error { return nil },
		Invalidate: []query.Key{statsKey},
	})
	require.NoError(t, err)

	_, err = query.Fetch(context.Background(), s, statsKey, loadStats)
	require.NoError(t, err)
	require.EqualValues(t, 2, atomic.LoadInt32(&statsCalls), "失效后的键应重新回源")
}

func TestInFlightFetchDiscardedWhenMutationIntervenes(t *testing.T) {
	s := query.NewStore(time.Minute)
	key := query.UserMovieKey(1, 2)

	started := make(chan struct{})
	release := make(chan struct{})
	staleValue := &record{Status: "want_to_watch"}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = query.Fetch(context.Background(), s, key, func(ctx context.Context) (*record, error) {
			close(started)
			<-release
			return staleValue, nil
		})
	}()

	<-started

	// 回源挂起期间应用乐观更新
	optimistic := &record{Status: "watching"}
	err := s.Mutate(context.Background(), query.Mutation{
		Key: key,
		Patch: func(prev interface{}, found bool) interface{} {
			return optimistic
		},
		Run: func(ctx context.Context) error { return nil },
	})
	require.NoError(t, err)

	// 放行旧的回源，其结果必须被丢弃
	close(release)
	<-done

	v, ok := s.Peek(key)
	require.True(t, ok)
	require.Same(t, optimistic, v.(*record), "过期的在途读取不能覆盖乐观值")
}
