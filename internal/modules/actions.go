package modules

import "github.com/any-hub/any-store/internal/store"

// 内务动作的类型常量带命名空间前缀，避免与宿主应用的动作类型冲突。
const (
	Namespace           = "@@modules-enhancer/"
	ActionModuleAdded   = Namespace + "MODULE_ADDED"
	ActionModuleRemoved = Namespace + "MODULE_REMOVED"
)

// ModuleAdded 宣告模块加载，combined reducer 借此写入模块初始状态。
type ModuleAdded struct {
	ModuleID     string `json:"moduleId"`
	InitialState any    `json:"initialState,omitempty"`
}

// ActionType 实现 store.Typed。
func (ModuleAdded) ActionType() string { return ActionModuleAdded }

// ModuleRemoved 宣告模块卸载；模块自身的 reducer 与中间件仍会观察到它。
type ModuleRemoved struct {
	ModuleID string `json:"moduleId"`
}

// ActionType 实现 store.Typed。
func (ModuleRemoved) ActionType() string { return ActionModuleRemoved }

func asModuleAdded(action store.Action) (ModuleAdded, bool) {
	switch v := action.(type) {
	case ModuleAdded:
		return v, true
	case *ModuleAdded:
		if v != nil {
			return *v, true
		}
	}
	return ModuleAdded{}, false
}

func asModuleRemoved(action store.Action) (ModuleRemoved, bool) {
	switch v := action.(type) {
	case ModuleRemoved:
		return v, true
	case *ModuleRemoved:
		if v != nil {
			return *v, true
		}
	}
	return ModuleRemoved{}, false
}
