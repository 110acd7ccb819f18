package version

import "fmt"

// Name 是服务对外展示的名称，同时用作 Fiber AppName。
const Name = "any-store"

// Version/Commit 构建时通过 -ldflags 注入。
var (
	Version = "0.1.0"
	Commit  = "dev"
)

// Info 是 /-/version 的响应体。
type Info struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

func Current() Info {
	return Info{Name: Name, Version: Version, Commit: Commit}
}

// Full 返回 CLI 打印用的单行版本信息。
func Full() string {
	info := Current()
	return fmt.Sprintf("%s %s (%s)", info.Name, info.Version, info.Commit)
}
