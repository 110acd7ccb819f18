package modules

import (
	"fmt"

	"github.com/any-hub/any-store/internal/store"
)

// Reducer 计算单个模块的子状态。
type Reducer func(state any, action store.Action) any

// API 是中间件可以访问的 store 能力，Dispatch 指向增强后的 dispatch。
type API struct {
	GetState func() store.State
	Dispatch store.Dispatch
}

// Middleware 是中间件工厂：绑定 API 后返回包装 next 的函数。
type Middleware func(api API) func(next store.Dispatch) store.Dispatch

// Hook 是模块加载/卸载时的回调，参数为增强后的 dispatch。
type Hook func(dispatch store.Dispatch) error

// Descriptor 描述一个可加载模块。AddModule 只消费一次，不会保留描述符本身。
type Descriptor struct {
	ModuleID     string
	Reducer      Reducer
	InitialState any
	Middleware   []Middleware
	OnLoad       Hook
	OnUnload     Hook
}

type refKind int

const (
	refNone refKind = iota
	refID
	refDescriptor
)

// ModuleRef 是公共操作的入参：要么是模块 id，要么是完整的描述符。
// 零值两者都不是，传入任何操作都会返回 ErrInvalidArgument。
type ModuleRef struct {
	kind refKind
	id   string
	desc Descriptor
}

// ID 以模块 id 引用模块。
func ID(id string) ModuleRef {
	return ModuleRef{kind: refID, id: id}
}

// Module 以描述符引用模块。
func Module(desc Descriptor) ModuleRef {
	return ModuleRef{kind: refDescriptor, desc: desc}
}

// IsDescriptor reports whether the ref carries a full descriptor.
func (r ModuleRef) IsDescriptor() bool {
	return r.kind == refDescriptor
}

func (r ModuleRef) String() string {
	switch r.kind {
	case refID:
		return r.id
	case refDescriptor:
		return r.desc.ModuleID
	default:
		return "<invalid>"
	}
}

// resolveID 将引用归一为模块 id。
func (r ModuleRef) resolveID() (string, error) {
	var id string
	switch r.kind {
	case refID:
		id = r.id
	case refDescriptor:
		id = r.desc.ModuleID
	default:
		return "", fmt.Errorf("%w: expected a module id or a descriptor", ErrInvalidArgument)
	}
	if id == "" {
		return "", fmt.Errorf("%w: module id must be a non-empty string", ErrInvalidArgument)
	}
	return id, nil
}

// resolveDescriptor 按固定顺序归一 AddModule 的两种调用方式：
// 描述符优先且忽略其余参数；位置参数中若初始状态位是中间件，
// 则视为中间件列表的一部分，初始状态为空。
func (r ModuleRef) resolveDescriptor(reducer Reducer, initialStateOrMiddleware any, middleware []Middleware) (Descriptor, error) {
	var desc Descriptor
	if r.IsDescriptor() {
		desc = r.desc
		desc.Middleware = append([]Middleware(nil), r.desc.Middleware...)
	} else {
		desc = Descriptor{
			ModuleID:   r.id,
			Reducer:    reducer,
			Middleware: append([]Middleware(nil), middleware...),
		}
		switch v := initialStateOrMiddleware.(type) {
		case Middleware:
			desc.Middleware = append([]Middleware{v}, desc.Middleware...)
		case func(API) func(store.Dispatch) store.Dispatch:
			desc.Middleware = append([]Middleware{Middleware(v)}, desc.Middleware...)
		case []Middleware:
			if len(desc.Middleware) == 0 {
				desc.Middleware = append(desc.Middleware, v...)
			} else {
				desc.InitialState = v
			}
		default:
			desc.InitialState = v
		}
	}

	if _, err := r.resolveID(); err != nil {
		return Descriptor{}, err
	}
	if desc.Reducer == nil {
		return Descriptor{}, fmt.Errorf("%w: module %s has no reducer", ErrInvalidArgument, desc.ModuleID)
	}
	return desc, nil
}
