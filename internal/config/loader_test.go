package config

import (
	"errors"
	"testing"
)

func TestLoadFailsWithMissingFields(t *testing.T) {
	if _, err := Load(fixture("missing.toml")); err == nil {
		t.Fatalf("缺失字段的配置应返回错误")
	}
}

func TestLoadRejectsInvalidDuration(t *testing.T) {
	cfg := `
StoragePath = "./data"
ShutdownTimeout = "boom"
`
	path := writeConfig(t, cfg)
	if _, err := Load(path); err == nil {
		t.Fatalf("无效 Duration 应失败")
	}
}

func TestLoadRejectsUnknownModuleKeys(t *testing.T) {
	cfg := `
[[Module]]
ID = "visits"
Kind = "counter"
Optons = { start = 1 }
`
	path := writeConfig(t, cfg)
	_, err := Load(path)
	var fieldErr FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("未知字段应返回 FieldError，实际: %v", err)
	}
	if fieldErr.Field != "Module[visits].optons" {
		t.Fatalf("字段路径不符合预期: %s", fieldErr.Field)
	}
}

func TestLoadWithoutModules(t *testing.T) {
	path := writeConfig(t, `ListenPort = 6000`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("仅全局配置应可加载: %v", err)
	}
	if len(cfg.Modules) != 0 || cfg.Global.SnapshotFormat != SnapshotJSON {
		t.Fatalf("默认值不符合预期: %+v", cfg)
	}
}
