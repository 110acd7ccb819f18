package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/any-hub/any-store/internal/catalog"
)

// Duration 提供更灵活的反序列化能力，同时兼容纯秒整数与 Go Duration 字符串。
type Duration time.Duration

// UnmarshalText 使 Viper 可以识别诸如 "30s"、"5m" 或纯数字秒值等配置写法。
func (d *Duration) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*d = Duration(0)
		return nil
	}

	if parsed, err := time.ParseDuration(raw); err == nil {
		*d = Duration(parsed)
		return nil
	}

	if intVal, err := parseInt(raw); err == nil {
		*d = Duration(time.Duration(intVal) * time.Second)
		return nil
	}

	return fmt.Errorf("invalid duration value: %s", raw)
}

// DurationValue 返回真实的 time.Duration，便于调用方计算。
func (d Duration) DurationValue() time.Duration {
	return time.Duration(d)
}

// parseInt 支持十进制或 0x 前缀的十六进制字符串解析。
func parseInt(value string) (int64, error) {
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		return strconv.ParseInt(value, 0, 64)
	}
	return strconv.ParseInt(value, 10, 64)
}

// 快照文件格式。
const (
	SnapshotJSON = "json"
	SnapshotYAML = "yaml"
)

// GlobalConfig 描述全局运行时行为。
type GlobalConfig struct {
	ListenPort      int      `mapstructure:"ListenPort"`
	LogLevel        string   `mapstructure:"LogLevel"`
	LogFilePath     string   `mapstructure:"LogFilePath"`
	LogMaxSize      int      `mapstructure:"LogMaxSize"`
	LogMaxBackups   int      `mapstructure:"LogMaxBackups"`
	LogCompress     bool     `mapstructure:"LogCompress"`
	StoragePath     string   `mapstructure:"StoragePath"`
	SnapshotFormat  string   `mapstructure:"SnapshotFormat"`
	ShutdownTimeout Duration `mapstructure:"ShutdownTimeout"`
}

// ModuleConfig 描述启动时预加载的一个模块。
type ModuleConfig struct {
	ID      string         `mapstructure:"ID"`
	Kind    string         `mapstructure:"Kind"`
	Recover bool           `mapstructure:"Recover"`
	Options map[string]any `mapstructure:"Options"`
}

// Config 是 TOML 文件映射的整体结构。
// 注意 Viper 会把 [State] 与 Options 中的键统一转为小写。
type Config struct {
	Global  GlobalConfig   `mapstructure:",squash"`
	State   map[string]any `mapstructure:"State"`
	Modules []ModuleConfig `mapstructure:"Module"`
}

// Spec 将模块配置转换为 catalog 的构造请求。
func (m ModuleConfig) Spec() catalog.Spec {
	return catalog.Spec{
		ID:      m.ID,
		Kind:    m.Kind,
		Options: m.Options,
		Recover: m.Recover,
	}
}

// ModuleSummaries 返回所有预加载模块的摘要，例如 visits:counter，供启动日志使用。
func ModuleSummaries(mods []ModuleConfig) []string {
	if len(mods) == 0 {
		return nil
	}
	result := make([]string, len(mods))
	for i, mod := range mods {
		result[i] = fmt.Sprintf("%s:%s", mod.ID, mod.Kind)
	}
	return result
}
