package modules

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument 表示模块 id、描述符或中间件不合法。
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDuplicateModule 表示同名模块已经处于加载状态。
	ErrDuplicateModule = errors.New("module already added")
	// ErrUnknownModule 表示模块尚未加载。
	ErrUnknownModule = errors.New("no such module")
	// ErrKeyCollision 表示模块 id 与基础 reducer/初始状态中的键冲突。
	ErrKeyCollision = errors.New("module id is used by the initial state or the base reducer")
	// ErrReentrantMutation 表示在 dispatch 尚未结束时尝试增删模块。
	ErrReentrantMutation = errors.New("modules cannot be added or removed while a dispatch is in flight")
)

// ModuleError 记录失败的操作与模块 id，Err 包装了上面的某个哨兵错误。
type ModuleError struct {
	Op       string
	ModuleID string
	Err      error
}

func (e *ModuleError) Error() string {
	if e.ModuleID == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s module [%s]: %v", e.Op, e.ModuleID, e.Err)
}

func (e *ModuleError) Unwrap() error {
	return e.Err
}

func newModuleError(op, moduleID string, err error) error {
	return &ModuleError{Op: op, ModuleID: moduleID, Err: err}
}
