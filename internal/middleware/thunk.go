package middleware

import (
	"github.com/any-hub/any-store/internal/modules"
	"github.com/any-hub/any-store/internal/store"
)

// ThunkFunc 是可以被分发的函数动作，执行时拿到增强后的 dispatch 与 getState。
type ThunkFunc func(dispatch store.Dispatch, getState func() store.State) (store.State, error)

// Thunk 拦截 ThunkFunc 动作并直接执行，其余动作原样向下传递。
// 函数动作不会到达 reducer。
func Thunk() modules.Middleware {
	return func(api modules.API) func(next store.Dispatch) store.Dispatch {
		return func(next store.Dispatch) store.Dispatch {
			return func(action store.Action) (store.State, error) {
				switch fn := action.(type) {
				case ThunkFunc:
					return fn(api.Dispatch, api.GetState)
				case func(store.Dispatch, func() store.State) (store.State, error):
					return fn(api.Dispatch, api.GetState)
				}
				return next(action)
			}
		}
	}
}
