package middleware

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/any-hub/any-store/internal/modules"
	"github.com/any-hub/any-store/internal/store"
)

// Logger 记录每次分发的动作类型、耗时与结果，fields 会附加到每条日志上。
func Logger(logger *logrus.Logger, fields logrus.Fields) modules.Middleware {
	return func(api modules.API) func(next store.Dispatch) store.Dispatch {
		return func(next store.Dispatch) store.Dispatch {
			return func(action store.Action) (store.State, error) {
				if logger == nil {
					return next(action)
				}
				typ, ok := store.TypeOf(action)
				if !ok {
					typ = "<untyped>"
				}

				start := time.Now()
				state, err := next(action)
				entry := logger.WithFields(fields).WithFields(logrus.Fields{
					"action_type": typ,
					"elapsed_ms":  time.Since(start).Milliseconds(),
					"state_keys":  len(state),
				})
				if err != nil {
					entry.WithError(err).Warn("动作分发失败")
					return state, err
				}
				entry.Debug("动作已分发")
				return state, nil
			}
		}
	}
}
