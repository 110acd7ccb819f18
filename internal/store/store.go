package store

import (
	"errors"
	"fmt"
)

// State 是全局状态：顶层键到子状态的映射。
type State map[string]any

// Reducer 根据当前状态与动作计算下一份状态。
type Reducer func(state State, action Action) State

// Dispatch 分发一个动作并返回分发完成后的状态。
type Dispatch func(action Action) (State, error)

// Store 是基础状态容器对外暴露的能力集合。
type Store interface {
	GetState() State
	Dispatch(action Action) (State, error)
	ReplaceReducer(next Reducer)
	Subscribe(listener func()) (unsubscribe func())
}

// Creator 构造一个 Store；Enhancer 通过包装 Creator 扩展 Store 的行为。
type Creator func(reducer Reducer, preloaded State) (Store, error)

// Enhancer 包装 Creator，返回增强后的 Creator。
type Enhancer func(next Creator) Creator

var (
	// ErrNilReducer 表示创建或替换 store 时未提供 reducer。
	ErrNilReducer = errors.New("reducer is required")
	// ErrInvalidAction 表示到达基础 dispatch 的动作无法识别类型。
	ErrInvalidAction = errors.New("action must carry a non-empty type")
	// ErrReducerDispatch 表示 reducer 执行期间又发起了 dispatch。
	ErrReducerDispatch = errors.New("reducers may not dispatch actions")
)

// Create 构造基础 store；enhancer 非空时由 enhancer 负责调用底层构造逻辑。
func Create(reducer Reducer, preloaded State, enhancer Enhancer) (Store, error) {
	if enhancer != nil {
		return enhancer(create)(reducer, preloaded)
	}
	return create(reducer, preloaded)
}

// Compose 将多个 Enhancer 组合为一个，第一个参数位于最外层。
func Compose(enhancers ...Enhancer) Enhancer {
	return func(next Creator) Creator {
		for i := len(enhancers) - 1; i >= 0; i-- {
			if enhancers[i] != nil {
				next = enhancers[i](next)
			}
		}
		return next
	}
}

type baseStore struct {
	reducer     Reducer
	state       State
	dispatching bool

	nextListenerID int
	listeners      map[int]func()
	order          []int
}

func create(reducer Reducer, preloaded State) (Store, error) {
	if reducer == nil {
		return nil, ErrNilReducer
	}
	s := &baseStore{
		reducer:   reducer,
		state:     preloaded,
		listeners: make(map[int]func()),
	}
	if _, err := s.Dispatch(Plain{Type: ActionInit}); err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	return s, nil
}

// GetState 返回当前状态。返回值与 store 共享底层 map，调用方不应随意修改。
func (s *baseStore) GetState() State {
	return s.state
}

func (s *baseStore) Dispatch(action Action) (State, error) {
	if _, ok := TypeOf(action); !ok {
		return nil, fmt.Errorf("%w: got %T", ErrInvalidAction, action)
	}
	if s.dispatching {
		return nil, ErrReducerDispatch
	}

	s.dispatching = true
	func() {
		defer func() { s.dispatching = false }()
		s.state = s.reducer(s.state, action)
	}()

	for _, id := range append([]int(nil), s.order...) {
		if listener, ok := s.listeners[id]; ok {
			listener()
		}
	}
	return s.state, nil
}

func (s *baseStore) ReplaceReducer(next Reducer) {
	if next == nil {
		return
	}
	s.reducer = next
	_, _ = s.Dispatch(Plain{Type: ActionReplace})
}

func (s *baseStore) Subscribe(listener func()) func() {
	if listener == nil {
		return func() {}
	}
	id := s.nextListenerID
	s.nextListenerID++
	s.listeners[id] = listener
	s.order = append(s.order, id)

	return func() {
		if _, ok := s.listeners[id]; !ok {
			return
		}
		delete(s.listeners, id)
		for i, existing := range s.order {
			if existing == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}
