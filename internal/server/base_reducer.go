package server

import (
	"maps"

	"github.com/mitchellh/mapstructure"

	"github.com/any-hub/any-store/internal/store"
)

// 基础 reducer 负责 [State] 中的键，可通过以下动作在运行时修改。
const (
	ActionSet   = "@@state/SET"
	ActionUnset = "@@state/UNSET"
)

// setPayload 是 SET/UNSET 动作的载荷。
type setPayload struct {
	Key   string `mapstructure:"key"`
	Value any    `mapstructure:"value"`
}

// baseReducer 在 SET/UNSET 时返回修改后的副本，其余动作原样返回状态。
// 模块键由模块 reducer 覆盖，这里写入的同名键不会生效。
func baseReducer(state store.State, action store.Action) store.State {
	if state == nil {
		state = store.State{}
	}
	typ, _ := store.TypeOf(action)
	if typ != ActionSet && typ != ActionUnset {
		return state
	}

	payload, ok := decodeSetPayload(action)
	if !ok || payload.Key == "" {
		return state
	}
	next := maps.Clone(state)
	if typ == ActionSet {
		next[payload.Key] = payload.Value
	} else {
		delete(next, payload.Key)
	}
	return next
}

func decodeSetPayload(action store.Action) (setPayload, bool) {
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
		return setPayload{}, false
	}
	var payload setPayload
	if err := mapstructure.Decode(source, &payload); err != nil {
		return setPayload{}, false
	}
	return payload, true
}
