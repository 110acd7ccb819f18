package modules

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/any-hub/any-store/internal/store"
)

// Store 在基础 store 之上增加运行时模块管理。GetState/Subscribe 直接透传，
// Dispatch 与 ReplaceReducer 被覆盖。所有簿记状态只属于这一个实例。
type Store struct {
	store.Store

	baseReducer store.Reducer
	registry    *registry
	chain       *chain
	unloaders   map[string]Hook
	depth       int
	logger      *logrus.Logger
}

// Option 调整 Store 的可选行为。
type Option func(*Store)

// WithLogger 为模块加载/卸载输出结构化日志。
func WithLogger(logger *logrus.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// ModuleInfo 描述一个已加载模块，供诊断接口使用。
type ModuleInfo struct {
	ID            string
	HasMiddleware bool
	HasUnload     bool
}

// Enhancer 返回可交给 store.Create 的增强器，创建出的 store.Store 是 *Store。
func Enhancer(opts ...Option) store.Enhancer {
	return func(next store.Creator) store.Creator {
		return func(reducer store.Reducer, preloaded store.State) (store.Store, error) {
			if reducer == nil {
				return nil, store.ErrNilReducer
			}
			s := &Store{
				baseReducer: reducer,
				registry:    newRegistry(),
				unloaders:   make(map[string]Hook),
			}
			for _, opt := range opts {
				if opt != nil {
					opt(s)
				}
			}

			base, err := next(s.reduce, preloaded)
			if err != nil {
				return nil, err
			}
			s.Store = base
			s.chain = newChain(base.Dispatch)
			return s, nil
		}
	}
}

// New 是 store.Create(reducer, preloaded, Enhancer(opts...)) 的便捷写法。
func New(reducer store.Reducer, preloaded store.State, opts ...Option) (*Store, error) {
	created, err := store.Create(reducer, preloaded, Enhancer(opts...))
	if err != nil {
		return nil, err
	}
	s, ok := created.(*Store)
	if !ok {
		return nil, errors.New("modules enhancer did not produce a modules store")
	}
	return s, nil
}

// Dispatch 是唯一对外的 dispatch：动作经过中间件链到达基础 store。
// 对于 ModuleRemoved，模块 reducer 已经处理过这次动作，这里再删除它的状态键。
func (s *Store) Dispatch(action store.Action) (store.State, error) {
	s.depth++
	defer func() { s.depth-- }()

	state, err := s.chain.dispatch(action)
	if err != nil {
		return state, err
	}
	if removed, ok := asModuleRemoved(action); ok && state != nil {
		delete(state, removed.ModuleID)
	}
	return state, nil
}

// HasModule reports whether the referenced module is currently loaded.
// 模块 id 必须是非空字符串，零值 ref 或空 id 返回 ErrInvalidArgument。
func (s *Store) HasModule(ref ModuleRef) (bool, error) {
	id, err := ref.resolveID()
	if err != nil {
		return false, newModuleError("has", "", err)
	}
	return s.registry.has(id), nil
}

// AddModule 加载模块。ref 为描述符时忽略其余参数；否则 reducer、
// initialStateOrMiddleware 与 middleware 按位置解释。模块 id 必须非空、
// reducer 不能为 nil，否则返回 ErrInvalidArgument。校验失败时不会改动
// 注册表、中间件链或状态。
func (s *Store) AddModule(ref ModuleRef, reducer Reducer, initialStateOrMiddleware any, middleware ...Middleware) error {
	desc, err := ref.resolveDescriptor(reducer, initialStateOrMiddleware, middleware)
	if err != nil {
		return newModuleError("add", ref.String(), err)
	}
	id := desc.ModuleID

	if s.depth > 0 {
		return newModuleError("add", id, ErrReentrantMutation)
	}
	if s.registry.has(id) {
		return newModuleError("add", id, ErrDuplicateModule)
	}
	if value, ok := s.GetState()[id]; ok && value != nil {
		return newModuleError("add", id, ErrKeyCollision)
	}

	api := API{GetState: s.GetState, Dispatch: s.Dispatch}
	if err := s.chain.add(id, desc.Middleware, api); err != nil {
		return newModuleError("add", id, err)
	}
	if err := s.registry.register(id, desc.Reducer); err != nil {
		s.chain.remove(id)
		return newModuleError("add", id, ErrDuplicateModule)
	}
	if desc.OnUnload != nil {
		s.unloaders[id] = desc.OnUnload
	}

	if _, err := s.Dispatch(ModuleAdded{ModuleID: id, InitialState: desc.InitialState}); err != nil {
		return err
	}
	s.logModule("module_added", id, "模块已加载")

	if desc.OnLoad != nil {
		if err := desc.OnLoad(s.Dispatch); err != nil {
			return err
		}
	}
	return nil
}

// RemoveModule 卸载模块（id 规则同 AddModule）：先调用 onUnload，再分发 ModuleRemoved，
// 最后才摘除中间件段与 reducer，保证模块能观察到自己的卸载动作。
func (s *Store) RemoveModule(ref ModuleRef) error {
	id, err := ref.resolveID()
	if err != nil {
		return newModuleError("remove", "", err)
	}
	if s.depth > 0 {
		return newModuleError("remove", id, ErrReentrantMutation)
	}
	if !s.registry.has(id) {
		return newModuleError("remove", id, ErrUnknownModule)
	}

	if unload, ok := s.unloaders[id]; ok {
		delete(s.unloaders, id)
		if err := unload(s.Dispatch); err != nil {
			s.unloaders[id] = unload
			return err
		}
		// onUnload 可能已经自行卸载了该模块。
		if !s.registry.has(id) {
			return nil
		}
	}

	if _, err := s.Dispatch(ModuleRemoved{ModuleID: id}); err != nil {
		return err
	}
	s.chain.remove(id)
	_ = s.registry.unregister(id)
	s.logModule("module_removed", id, "模块已卸载")
	return nil
}

// ReplaceReducer 只替换基础 reducer；combined reducer 本身不变，
// 模块 reducer 与中间件链不受影响。
func (s *Store) ReplaceReducer(next store.Reducer) {
	if next == nil {
		return
	}
	s.baseReducer = next
	s.Store.ReplaceReducer(s.reduce)
}

// Modules 按加载顺序返回已加载模块。
func (s *Store) Modules() []ModuleInfo {
	ids := s.registry.ids()
	if len(ids) == 0 {
		return nil
	}
	result := make([]ModuleInfo, 0, len(ids))
	for _, id := range ids {
		_, unload := s.unloaders[id]
		result = append(result, ModuleInfo{
			ID:            id,
			HasMiddleware: s.chain.has(id),
			HasUnload:     unload,
		})
	}
	return result
}

// Chain 返回中间件调用顺序（只包含带中间件的模块）。
func (s *Store) Chain() []string {
	return s.chain.ids()
}

func (s *Store) logModule(action, id, msg string) {
	if s.logger == nil {
		return
	}
	s.logger.WithFields(logrus.Fields{
		"action":     action,
		"module_id":  id,
		"middleware": s.chain.has(id),
		"modules":    len(s.registry.order),
	}).Info(msg)
}
