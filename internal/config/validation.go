package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/any-hub/any-store/internal/catalog"
)

// Validate 针对语义级别做进一步校验，防止非法配置启动服务。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	g := c.Global
	if g.ListenPort <= 0 || g.ListenPort > 65535 {
		return newFieldError("Global.ListenPort", "必须在 1-65535")
	}
	if g.StoragePath == "" {
		return newFieldError("Global.StoragePath", "不能为空")
	}
	switch g.SnapshotFormat {
	case SnapshotJSON, SnapshotYAML:
	default:
		return newFieldError("Global.SnapshotFormat", "仅支持 json/yaml")
	}
	if g.LogMaxSize < 0 {
		return newFieldError("Global.LogMaxSize", "不能为负数")
	}
	if g.LogMaxBackups < 0 {
		return newFieldError("Global.LogMaxBackups", "不能为负数")
	}
	if g.ShutdownTimeout.DurationValue() <= 0 {
		return newFieldError("Global.ShutdownTimeout", "必须大于 0")
	}

	seenIDs := map[string]struct{}{}
	for i := range c.Modules {
		mod := &c.Modules[i]
		if mod.ID == "" {
			return newFieldError(moduleField("", "ID"), "不能为空")
		}
		if _, exists := seenIDs[mod.ID]; exists {
			return newFieldError(moduleField(mod.ID, "ID"), "重复")
		}
		seenIDs[mod.ID] = struct{}{}

		if value, exists := c.State[mod.ID]; exists && value != nil {
			return newFieldError(moduleField(mod.ID, "ID"), "与 [State] 中的键冲突")
		}

		kind := strings.ToLower(strings.TrimSpace(mod.Kind))
		if kind == "" {
			return newFieldError(moduleField(mod.ID, "Kind"), "不能为空")
		}
		if _, ok := catalog.Resolve(kind); !ok {
			return wrapFieldError(moduleField(mod.ID, "Kind"), fmt.Errorf("%w: %s，可选 %s", catalog.ErrUnknownKind, kind, strings.Join(catalog.Keys(), "|")))
		}
		mod.Kind = kind

		// 试构造一次，让 options 错误在启动前暴露。
		if _, err := catalog.Build(mod.Spec(), catalog.Env{}); err != nil {
			return wrapFieldError(moduleField(mod.ID, "Options"), err)
		}
	}

	return nil
}
