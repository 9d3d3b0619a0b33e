package query

import (
	"context"
)

// PatchFunc 由旧缓存值计算乐观新值
// 必须返回副本，不能原地修改 prev，否则回滚无法还原
type PatchFunc func(prev interface{}, found bool) interface{}

// Mutation 一次写操作的描述
// 流程：记录旧值 -> 应用乐观补丁 -> 执行 Run -> 成功则失效关联 key，
// 失败则把乐观触碰过的 key 恢复为触碰前的值，并原样返回错误
type Mutation struct {
	Key        Key                             // 乐观更新的主 key，可为空
	Patch      PatchFunc                       // 为 nil 时跳过乐观更新
	Run        func(ctx context.Context) error // 实际的写调用
	Invalidate []Key                           // 成功后需要失效的其他 key
}

// Mutate 执行一次写操作
func (s *Store) Mutate(ctx context.Context, m Mutation) error {
	var snapshot entry
	var had, patched bool

	if m.Patch != nil && m.Key != "" {
		// 作废同 key 的在途查询，避免旧读回写覆盖乐观值
		s.bumpVersion(m.Key)

		// 整条快照，回滚时 stale 标记一并还原
		snapshot, had = s.peekEntry(m.Key)
		var prev interface{}
		if had {
			prev = snapshot.value
		}
		// Patch 返回 nil 表示无法就地推算新值，跳过乐观写入
		if next := m.Patch(prev, had); next != nil {
			s.set(m.Key, next)
			patched = true
		}
	}

	if err := m.Run(ctx); err != nil {
		if patched {
			if had {
				s.restore(m.Key, snapshot)
			} else {
				s.remove(m.Key)
			}
		}
		return err
	}

	keys := m.Invalidate
	if m.Key != "" {
		keys = append([]Key{m.Key}, keys...)
	}
	s.Invalidate(keys...)
	return nil
}
