package server

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/any-hub/any-store/internal/catalog"
	"github.com/any-hub/any-store/internal/config"
	"github.com/any-hub/any-store/internal/logging"
	"github.com/any-hub/any-store/internal/modules"
	"github.com/any-hub/any-store/internal/snapshot"
	"github.com/any-hub/any-store/internal/store"
)

// ModuleView 是对外展示的模块信息，包含配置或 API 指定的种类。
type ModuleView struct {
	ID            string `json:"id"`
	Kind          string `json:"kind"`
	HasMiddleware bool   `json:"has_middleware"`
	HasUnload     bool   `json:"has_unload"`
}

// Host 持有唯一的模块化 store，所有操作都在 mu 下串行执行。
type Host struct {
	mu        sync.Mutex
	store     *modules.Store
	kinds     map[string]string
	version   uint64
	logger    *logrus.Logger
	snapshots snapshot.Store
	now       func() time.Time
}

// NewHost 以 [State] 作为初始状态创建 store，并按配置顺序预加载模块。
// snapshots 为空时快照接口返回 ErrSnapshotsDisabled。
func NewHost(cfg *config.Config, logger *logrus.Logger, snapshots snapshot.Store) (*Host, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	preloaded := store.State{}
	maps.Copy(preloaded, cfg.State)

	s, err := modules.New(baseReducer, preloaded, modules.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}

	h := &Host{
		store:     s,
		kinds:     make(map[string]string),
		logger:    logger,
		snapshots: snapshots,
		now:       time.Now,
	}
	s.Subscribe(func() { h.version++ })

	for _, mod := range cfg.Modules {
		if _, err := h.AddModule(mod.Spec()); err != nil {
			return nil, err
		}
		fields := logging.ModuleFields(mod.ID, mod.Kind)
		fields["action"] = "preload"
		logger.WithFields(fields).Info("预加载模块完成")
	}
	return h, nil
}

// ErrSnapshotsDisabled 表示未配置快照存储。
var ErrSnapshotsDisabled = errors.New("snapshots are disabled")

// State 返回当前状态的浅拷贝。
func (h *Host) State() store.State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return maps.Clone(h.store.GetState())
}

// StateKey 返回单个顶层键。
func (h *Host) StateKey(key string) (any, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	value, ok := h.store.GetState()[key]
	return value, ok
}

// Version 返回状态变更计数（每次成功到达基础 store 的 dispatch 加一）。
func (h *Host) Version() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.version
}

// Dispatch 通过模块中间件链分发动作，返回新状态的浅拷贝。
func (h *Host) Dispatch(action store.Action) (store.State, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	state, err := h.store.Dispatch(action)
	if err != nil {
		return nil, err
	}
	return maps.Clone(state), nil
}

// AddModule 根据种类构造并加载模块。
func (h *Host) AddModule(spec catalog.Spec) (ModuleView, error) {
	spec.ID = strings.TrimSpace(spec.ID)
	spec.Kind = strings.ToLower(strings.TrimSpace(spec.Kind))
	if spec.ID == "" {
		return ModuleView{}, &modules.ModuleError{Op: "add", Err: modules.ErrInvalidArgument}
	}
	desc, err := catalog.Build(spec, catalog.Env{Logger: h.logger})
	if err != nil {
		return ModuleView{}, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.store.AddModule(modules.Module(desc), nil, nil); err != nil {
		return ModuleView{}, err
	}
	h.kinds[spec.ID] = spec.Kind
	view, _ := h.moduleLocked(spec.ID)
	return view, nil
}

// RemoveModule 卸载模块。
func (h *Host) RemoveModule(id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.store.RemoveModule(modules.ID(id)); err != nil {
		return err
	}
	delete(h.kinds, id)
	return nil
}

// Modules 按加载顺序返回已加载模块。
func (h *Host) Modules() []ModuleView {
	h.mu.Lock()
	defer h.mu.Unlock()
	infos := h.store.Modules()
	result := make([]ModuleView, 0, len(infos))
	for _, info := range infos {
		result = append(result, h.view(info))
	}
	return result
}

// Module 返回单个模块。
func (h *Host) Module(id string) (ModuleView, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.moduleLocked(id)
}

// Chain 返回中间件调用顺序。
func (h *Host) Chain() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.store.Chain()
}

// Snapshot 将当前状态写入快照存储，name 为空时按当前时间命名。
func (h *Host) Snapshot(ctx context.Context, name string) (*snapshot.Entry, error) {
	if h.snapshots == nil {
		return nil, ErrSnapshotsDisabled
	}
	if name == "" {
		name = snapshot.DefaultName(h.now())
	}
	state := h.State()
	return h.snapshots.Save(ctx, name, state)
}

// Snapshots 列出已写入的快照。
func (h *Host) Snapshots(ctx context.Context) ([]snapshot.Entry, error) {
	if h.snapshots == nil {
		return nil, ErrSnapshotsDisabled
	}
	return h.snapshots.List(ctx)
}

// SnapshotFile 读取一份已导出的快照；只读，不会把内容写回 store。
func (h *Host) SnapshotFile(ctx context.Context, name string) (map[string]any, *snapshot.Entry, error) {
	if h.snapshots == nil {
		return nil, nil, ErrSnapshotsDisabled
	}
	return h.snapshots.Load(ctx, name)
}

// RemoveSnapshot 删除快照文件，文件不存在时同样视为成功。
func (h *Host) RemoveSnapshot(ctx context.Context, name string) error {
	if h.snapshots == nil {
		return ErrSnapshotsDisabled
	}
	return h.snapshots.Remove(ctx, name)
}

func (h *Host) moduleLocked(id string) (ModuleView, bool) {
	for _, info := range h.store.Modules() {
		if info.ID == id {
			return h.view(info), true
		}
	}
	return ModuleView{}, false
}

func (h *Host) view(info modules.ModuleInfo) ModuleView {
	return ModuleView{
		ID:            info.ID,
		Kind:          h.kinds[info.ID],
		HasMiddleware: info.HasMiddleware,
		HasUnload:     info.HasUnload,
	}
}
