package modules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/any-hub/any-store/internal/store"
)

const amazingAction = "MY_AMAZING_ACTION"

func amazing() store.Plain {
	return store.Plain{Type: amazingAction}
}

func typeOf(action store.Action) string {
	typ, _ := store.TypeOf(action)
	return typ
}

// harness 创建带记录功能的基础 reducer 的模块化 store。
type harness struct {
	store       *Store
	baseActions []string
}

func newHarness(t *testing.T, preloaded store.State, opts ...Option) *harness {
	t.Helper()
	h := &harness{}
	s, err := New(func(state store.State, action store.Action) store.State {
		h.baseActions = append(h.baseActions, typeOf(action))
		if state == nil {
			state = store.State{}
		}
		return state
	}, preloaded, opts...)
	require.NoError(t, err)
	h.store = s
	return h
}

func (h *harness) dispatch(t *testing.T, action store.Action) store.State {
	t.Helper()
	state, err := h.store.Dispatch(action)
	require.NoError(t, err)
	return state
}

// probe 是一个测试模块：reducer 统计收到的动作，中间件记录经过的动作。
type probe struct {
	id          string
	reduced     []string
	intercepted []string
	trace       *[]string
}

func newProbe(id string) *probe {
	return &probe{id: id}
}

func (p *probe) reducer() Reducer {
	return func(state any, action store.Action) any {
		p.reduced = append(p.reduced, typeOf(action))
		seen, _ := state.(int)
		return seen + 1
	}
}

func (p *probe) middleware() Middleware {
	return func(api API) func(next store.Dispatch) store.Dispatch {
		return func(next store.Dispatch) store.Dispatch {
			return func(action store.Action) (store.State, error) {
				typ := typeOf(action)
				p.intercepted = append(p.intercepted, typ)
				if p.trace != nil {
					*p.trace = append(*p.trace, p.id+":"+typ)
				}
				return next(action)
			}
		}
	}
}

func (p *probe) descriptor() Descriptor {
	return Descriptor{
		ModuleID:     p.id,
		Reducer:      p.reducer(),
		InitialState: 0,
		Middleware:   []Middleware{p.middleware()},
	}
}
