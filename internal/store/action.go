package store

import "strings"

// 基础 store 内部使用的动作类型，这些动作不会经过任何中间件。
const (
	Namespace     = "@@store/"
	ActionInit    = Namespace + "INIT"
	ActionReplace = Namespace + "REPLACE"
)

// Action 是可以被分发的任意值。只有能被 TypeOf 识别的动作才能到达 reducer，
// 其他值（例如 thunk 函数）必须在中间件链路上被消费。
type Action any

// Typed 由携带类型字符串的动作实现。
type Typed interface {
	ActionType() string
}

// Plain 是最常见的动作形态，HTTP 层解码出的动作也使用它。
type Plain struct {
	Type    string         `json:"type" mapstructure:"type"`
	Payload map[string]any `json:"payload,omitempty" mapstructure:"payload"`
}

// ActionType 实现 Typed。
func (p Plain) ActionType() string {
	return p.Type
}

// TypeOf 返回动作的类型字符串；无法识别或类型为空时第二个返回值为 false。
func TypeOf(action Action) (string, bool) {
	var typ string
	switch v := action.(type) {
	case nil:
		return "", false
	case *Plain:
		if v == nil {
			return "", false
		}
		typ = v.Type
	case Typed:
		typ = v.ActionType()
	case map[string]any:
		s, ok := v["type"].(string)
		if !ok {
			return "", false
		}
		typ = s
	default:
		return "", false
	}
	if strings.TrimSpace(typ) == "" {
		return "", false
	}
	return typ, true
}

// IsType reports whether action carries the given type.
func IsType(action Action, typ string) bool {
	got, ok := TypeOf(action)
	return ok && got == typ
}
