package snapshot

import (
	"context"
	"errors"
	"time"
)

// Store 负责管理磁盘快照的读写。磁盘布局遵循：
//
//	<StoragePath>/snapshots/<name>.<json|yaml>
type Store interface {
	// Save 编码 state 并以临时文件 + rename 的方式写入，返回新的 Entry。
	Save(ctx context.Context, name string, state map[string]any) (*Entry, error)

	// Load 读取指定快照。若不存在则返回 ErrNotFound。
	Load(ctx context.Context, name string) (map[string]any, *Entry, error)

	// List 按修改时间倒序返回所有快照。
	List(ctx context.Context) ([]Entry, error)

	// Remove 删除快照，不存在时不报错。
	Remove(ctx context.Context, name string) error
}

// Entry 描述一个已写入的快照文件。
type Entry struct {
	Name      string    `json:"name"`
	Format    string    `json:"format"`
	FilePath  string    `json:"file_path"`
	SizeBytes int64     `json:"size_bytes"`
	ModTime   time.Time `json:"mod_time"`
}

var (
	// ErrNotFound 表示快照不存在。
	ErrNotFound = errors.New("snapshot not found")
	// ErrInvalidName 表示快照名包含路径分隔符或为空。
	ErrInvalidName = errors.New("invalid snapshot name")
)

// DefaultName 以 UTC 时间生成快照名，例如 state-20261018T093000Z。
func DefaultName(now time.Time) string {
	return "state-" + now.UTC().Format("20060102T150405Z")
}
