package config

import "fmt"

// FieldError 指出出错的配置字段；Err 保留底层原因（如 catalog.ErrUnknownKind），可用 errors.Is 判断。
type FieldError struct {
	Field  string
	Reason string
	Err    error
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e FieldError) Unwrap() error {
	return e.Err
}

func newFieldError(field, reason string) error {
	return FieldError{Field: field, Reason: reason}
}

func wrapFieldError(field string, err error) error {
	return FieldError{Field: field, Reason: err.Error(), Err: err}
}

// moduleField 拼接 Module[id].Field 形式的路径；id 为空时输出 Module[].Field。
func moduleField(id, field string) string {
	return fmt.Sprintf("Module[%s].%s", id, field)
}
