package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// cliOutput 捕获 run 写往 stdOut/stdErr 的内容。
type cliOutput struct {
	out *bytes.Buffer
	err *bytes.Buffer
}

func captureCLI(t *testing.T) cliOutput {
	t.Helper()
	captured := cliOutput{out: &bytes.Buffer{}, err: &bytes.Buffer{}}

	prevOut, prevErr := stdOut, stdErr
	stdOut, stdErr = captured.out, captured.err
	t.Cleanup(func() {
		stdOut, stdErr = prevOut, prevErr
	})
	return captured
}

// fixture 返回 internal/config/testdata 下的示例配置；go test 以包目录（仓库根）为工作目录。
func fixture(name string) string {
	return filepath.Join("internal", "config", "testdata", name)
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(file, []byte(strings.TrimSpace(content)), 0o600); err != nil {
		t.Fatalf("写入配置失败: %v", err)
	}
	return file
}
