package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Load 读取并解析 TOML 配置文件，同时注入默认值与校验逻辑。
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.toml"
	}

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置失败: %w", err)
	}

	if err := rejectUnknownModuleKeys(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	applyGlobalDefaults(&cfg.Global)
	for i := range cfg.Modules {
		applyModuleDefaults(&cfg.Modules[i])
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	absStorage, err := filepath.Abs(cfg.Global.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("无法解析存储目录: %w", err)
	}
	cfg.Global.StoragePath = absStorage

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ListenPort", 5000)
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFilePath", "")
	v.SetDefault("LogMaxSize", 100)
	v.SetDefault("LogMaxBackups", 10)
	v.SetDefault("LogCompress", true)
	v.SetDefault("StoragePath", "./storage")
	v.SetDefault("SnapshotFormat", SnapshotJSON)
	v.SetDefault("ShutdownTimeout", "10s")
}

func applyGlobalDefaults(g *GlobalConfig) {
	if g.ListenPort == 0 {
		g.ListenPort = 5000
	}
	g.SnapshotFormat = strings.ToLower(strings.TrimSpace(g.SnapshotFormat))
	if g.SnapshotFormat == "" {
		g.SnapshotFormat = SnapshotJSON
	}
	if g.ShutdownTimeout.DurationValue() == 0 {
		g.ShutdownTimeout = Duration(10 * time.Second)
	}
}

func applyModuleDefaults(m *ModuleConfig) {
	m.ID = strings.TrimSpace(m.ID)
	m.Kind = strings.ToLower(strings.TrimSpace(m.Kind))
	if m.Options == nil {
		m.Options = map[string]any{}
	}
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(Duration(0))

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			if v == "" {
				return Duration(0), nil
			}
			if parsed, err := time.ParseDuration(v); err == nil {
				return Duration(parsed), nil
			}
			if seconds, err := strconv.ParseFloat(v, 64); err == nil {
				return Duration(time.Duration(seconds * float64(time.Second))), nil
			}
			return nil, fmt.Errorf("无法解析 Duration 字段: %s", v)
		case int:
			return Duration(time.Duration(v) * time.Second), nil
		case int64:
			return Duration(time.Duration(v) * time.Second), nil
		case float64:
			return Duration(time.Duration(v * float64(time.Second))), nil
		case time.Duration:
			return Duration(v), nil
		case Duration:
			return v, nil
		default:
			return nil, fmt.Errorf("不支持的 Duration 类型: %T", v)
		}
	}
}

var allowedModuleKeys = map[string]struct{}{
	"id":      {},
	"kind":    {},
	"recover": {},
	"options": {},
}

// rejectUnknownModuleKeys 拒绝 [[Module]] 中的未知字段，避免 Optons 之类的拼写错误被静默忽略。
func rejectUnknownModuleKeys(v *viper.Viper) error {
	raw := v.Get("Module")
	mods, ok := raw.([]interface{})
	if !ok {
		return nil
	}

	for idx, entry := range mods {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		name := fmt.Sprintf("#%d", idx)
		if rawID, ok := m["id"].(string); ok && rawID != "" {
			name = rawID
		}
		for key := range m {
			if _, allowed := allowedModuleKeys[strings.ToLower(key)]; !allowed {
				return newFieldError(moduleField(name, key), "未知字段")
			}
		}
	}

	return nil
}
