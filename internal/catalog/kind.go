package catalog

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"

	"github.com/any-hub/any-store/internal/middleware"
	"github.com/any-hub/any-store/internal/modules"
)

var (
	// ErrUnknownKind 表示配置或 API 引用了未注册的模块种类。
	ErrUnknownKind = errors.New("unknown module kind")
	// ErrInvalidOptions 表示种类的 Builder 拒绝了 options。
	ErrInvalidOptions = errors.New("invalid module options")
)

// Env 是构造模块时可用的宿主能力。
type Env struct {
	Logger *logrus.Logger
}

// Builder 根据模块 id 与 options 构造描述符，返回的 ModuleID 会被 Build 覆盖为 id。
type Builder func(id string, options map[string]any, env Env) (modules.Descriptor, error)

// Kind 记录一个模块种类的静态信息，供配置校验、诊断端与 Build 使用。
type Kind struct {
	Key         string
	Description string
	Build       Builder
}

// Spec 描述一次模块实例化请求，来自配置文件的 [[Module]] 或 POST /-/modules。
type Spec struct {
	ID      string
	Kind    string
	Options map[string]any
	Recover bool
}

// Build 解析种类并构造描述符。Recover 为 true 时在模块中间件最前面加上
// middleware.Recover，使下游 reducer 的 panic 转换为错误。
func Build(spec Spec, env Env) (modules.Descriptor, error) {
	kind, ok := Resolve(spec.Kind)
	if !ok {
		return modules.Descriptor{}, fmt.Errorf("%w: %s", ErrUnknownKind, spec.Kind)
	}
	if kind.Build == nil {
		return modules.Descriptor{}, fmt.Errorf("kind %s has no builder", kind.Key)
	}
	desc, err := kind.Build(spec.ID, spec.Options, env)
	if err != nil {
		return modules.Descriptor{}, fmt.Errorf("%w for %s module [%s]: %w", ErrInvalidOptions, kind.Key, spec.ID, err)
	}
	desc.ModuleID = spec.ID
	if spec.Recover {
		desc.Middleware = append([]modules.Middleware{middleware.Recover(env.Logger)}, desc.Middleware...)
	}
	return desc, nil
}

// DecodeOptions 将 options 解码到 target，允许弱类型转换（TOML 的 int64、JSON 的 float64），
// 拒绝未知字段以便尽早暴露拼写错误。
func DecodeOptions(options map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	if options == nil {
		return nil
	}
	return decoder.Decode(options)
}
