// Package journal 提供 journal 模块种类：在子状态中保留最近 N 条动作记录，
// 并通过 logrus 中间件为每次分发打上 uuid 关联 id。
package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/any-hub/any-store/internal/catalog"
	"github.com/any-hub/any-store/internal/modules"
	"github.com/any-hub/any-store/internal/store"
)

const (
	kindKey      = "journal"
	defaultLimit = 50
)

// Options 为 [Module.Options] 中 journal 可用的字段。
type Options struct {
	Limit  int      `mapstructure:"limit"`
	Level  string   `mapstructure:"level"`
	Ignore []string `mapstructure:"ignore"`
}

// Entry 是一条动作记录，CorrelationID 与中间件日志中的 correlation_id 一致。
type Entry struct {
	CorrelationID string    `json:"correlationId" yaml:"correlationId"`
	Type          string    `json:"type" yaml:"type"`
	At            time.Time `json:"at" yaml:"at"`
}

func init() {
	catalog.MustRegister(catalog.Kind{
		Key:         kindKey,
		Description: "有界动作日志，记录最近的动作类型并输出带关联 id 的结构化日志",
		Build:       build,
	})
}

// recorder 在中间件与 reducer 之间共享当前分发的关联 id；嵌套分发结束后恢复外层 id。
type recorder struct {
	id      string
	opts    Options
	level   logrus.Level
	logger  *logrus.Logger
	current string
	now     func() time.Time
}

func build(id string, raw map[string]any, env catalog.Env) (modules.Descriptor, error) {
	opts := Options{Limit: defaultLimit, Level: "debug"}
	if err := catalog.DecodeOptions(raw, &opts); err != nil {
		return modules.Descriptor{}, err
	}
	if opts.Limit <= 0 {
		return modules.Descriptor{}, fmt.Errorf("limit must be positive")
	}
	level, err := logrus.ParseLevel(strings.TrimSpace(opts.Level))
	if err != nil {
		return modules.Descriptor{}, fmt.Errorf("invalid level: %w", err)
	}

	rec := &recorder{id: id, opts: opts, level: level, logger: env.Logger, now: time.Now}
	return modules.Descriptor{
		ModuleID:     id,
		Reducer:      rec.reduce,
		InitialState: []Entry{},
		Middleware:   []modules.Middleware{rec.middleware},
	}, nil
}

func (r *recorder) middleware(api modules.API) func(next store.Dispatch) store.Dispatch {
	return func(next store.Dispatch) store.Dispatch {
		return func(action store.Action) (store.State, error) {
			outer := r.current
			r.current = uuid.NewString()
			defer func() { r.current = outer }()

			state, err := next(action)
			if r.logger != nil {
				typ, _ := store.TypeOf(action)
				entry := r.logger.WithFields(logrus.Fields{
					"module_id":      r.id,
					"correlation_id": r.current,
					"action_type":    typ,
				})
				if err != nil {
					entry.WithError(err).Warn("journal 记录的动作分发失败")
				} else {
					entry.Log(r.level, "journal 记录动作")
				}
			}
			return state, err
		}
	}
}

func (r *recorder) reduce(state any, action store.Action) any {
	entries, _ := state.([]Entry)
	typ, ok := store.TypeOf(action)
	if !ok || r.ignored(typ) {
		return entries
	}

	next := make([]Entry, 0, min(len(entries)+1, r.opts.Limit))
	if overflow := len(entries) + 1 - r.opts.Limit; overflow > 0 {
		entries = entries[overflow:]
	}
	next = append(next, entries...)
	next = append(next, Entry{CorrelationID: r.current, Type: typ, At: r.now().UTC()})
	return next
}

func (r *recorder) ignored(typ string) bool {
	for _, prefix := range r.opts.Ignore {
		if prefix != "" && strings.HasPrefix(typ, prefix) {
			return true
		}
	}
	return false
}
