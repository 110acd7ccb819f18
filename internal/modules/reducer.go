package modules

import (
	"maps"

	"github.com/any-hub/any-store/internal/store"
)

// reduce 是交给基础 store 的唯一 reducer：先播种新模块的初始状态，
// 再依次运行模块 reducer 与基础 reducer，最后浅合并（模块键优先）。
func (s *Store) reduce(state store.State, action store.Action) store.State {
	if added, ok := asModuleAdded(action); ok {
		seeded := make(store.State, len(state)+1)
		maps.Copy(seeded, state)
		seeded[added.ModuleID] = added.InitialState
		state = seeded
	}

	ids := s.registry.ids()
	modular := make(map[string]any, len(ids))
	for _, id := range ids {
		modular[id] = s.registry.reducer(id)(state[id], action)
	}

	base := s.baseReducer(state, action)

	merged := make(store.State, len(base)+len(modular))
	maps.Copy(merged, base)
	maps.Copy(merged, modular)
	return merged
}
