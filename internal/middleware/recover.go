package middleware

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	"github.com/any-hub/any-store/internal/modules"
	"github.com/any-hub/any-store/internal/store"
)

// ErrPanic 包装中间件链或 reducer 中被恢复的 panic。
var ErrPanic = errors.New("dispatch panicked")

// Recover 把下游的 panic 转换为带 ErrPanic 的错误并记录堆栈，logger 可为空。
func Recover(logger *logrus.Logger) modules.Middleware {
	return func(api modules.API) func(next store.Dispatch) store.Dispatch {
		return func(next store.Dispatch) store.Dispatch {
			return func(action store.Action) (state store.State, err error) {
				defer func() {
					if r := recover(); r != nil {
						typ, _ := store.TypeOf(action)
						if logger != nil {
							logger.WithFields(logrus.Fields{
								"action_type": typ,
								"panic":       fmt.Sprint(r),
								"stack":       string(debug.Stack()),
							}).Error("动作分发发生 panic")
						}
						state = nil
						err = fmt.Errorf("%w: %s: %v", ErrPanic, typ, r)
					}
				}()
				return next(action)
			}
		}
	}
}
