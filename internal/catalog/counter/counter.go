// Package counter 提供 counter 模块种类：一个整数子状态，支持按步长递增、递减与重置。
package counter

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/any-hub/any-store/internal/catalog"
	"github.com/any-hub/any-store/internal/modules"
	"github.com/any-hub/any-store/internal/store"
)

const kindKey = "counter"

// Options 为 [Module.Options] 中 counter 可用的字段。
type Options struct {
	Start int  `mapstructure:"start"`
	Step  int  `mapstructure:"step"`
	Min   *int `mapstructure:"min"`
	Max   *int `mapstructure:"max"`
}

// Payload 是 INCREMENT/DECREMENT 动作的载荷，By 为 0 时使用配置步长。
type Payload struct {
	By int `mapstructure:"by"`
}

// Increment 返回模块 id 对应的递增动作类型，例如 visits/INCREMENT。
func Increment(id string) string { return id + "/INCREMENT" }

// Decrement 返回递减动作类型。
func Decrement(id string) string { return id + "/DECREMENT" }

// Reset 返回重置动作类型，计数回到 Start。
func Reset(id string) string { return id + "/RESET" }

func init() {
	catalog.MustRegister(catalog.Kind{
		Key:         kindKey,
		Description: "整数计数器，响应 <id>/INCREMENT、<id>/DECREMENT、<id>/RESET",
		Build:       build,
	})
}

func build(id string, raw map[string]any, _ catalog.Env) (modules.Descriptor, error) {
	opts := Options{Step: 1}
	if err := catalog.DecodeOptions(raw, &opts); err != nil {
		return modules.Descriptor{}, err
	}
	if opts.Step <= 0 {
		return modules.Descriptor{}, fmt.Errorf("step must be positive")
	}
	if opts.Min != nil && opts.Max != nil && *opts.Min > *opts.Max {
		return modules.Descriptor{}, fmt.Errorf("min %d is greater than max %d", *opts.Min, *opts.Max)
	}

	return modules.Descriptor{
		ModuleID:     id,
		Reducer:      reducer(id, opts),
		InitialState: opts.clamp(opts.Start),
	}, nil
}

func reducer(id string, opts Options) modules.Reducer {
	inc, dec, reset := Increment(id), Decrement(id), Reset(id)
	return func(state any, action store.Action) any {
		current := toInt(state)
		typ, _ := store.TypeOf(action)
		switch typ {
		case inc:
			return opts.clamp(current + opts.amount(action))
		case dec:
			return opts.clamp(current - opts.amount(action))
		case reset:
			return opts.clamp(opts.Start)
		}
		return current
	}
}

// amount 从动作载荷中解码步长；载荷缺失或无法解码时退回配置步长。
func (o Options) amount(action store.Action) int {
	var source any
	switch v := action.(type) {
	case store.Plain:
		source = v.Payload
	case *store.Plain:
		source = v.Payload
	case map[string]any:
		source = v["payload"]
	}
	if source == nil {
		return o.Step
	}

	var payload Payload
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &payload,
		WeaklyTypedInput: true,
	})
	if err != nil || decoder.Decode(source) != nil || payload.By == 0 {
		return o.Step
	}
	return payload.By
}

func (o Options) clamp(value int) int {
	if o.Min != nil && value < *o.Min {
		return *o.Min
	}
	if o.Max != nil && value > *o.Max {
		return *o.Max
	}
	return value
}

func toInt(state any) int {
	switch v := state.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
