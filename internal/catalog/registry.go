package catalog

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

var globalRegistry = newRegistry()

type registry struct {
	mu    sync.RWMutex
	kinds map[string]Kind
}

func newRegistry() *registry {
	return &registry{kinds: make(map[string]Kind)}
}

// Register 将模块种类加入全局注册表，重复键会返回错误。
func Register(kind Kind) error {
	return globalRegistry.register(kind)
}

// MustRegister 在注册失败时 panic，适合种类包的 init() 中调用。
func MustRegister(kind Kind) {
	if err := Register(kind); err != nil {
		panic(err)
	}
}

// Resolve 返回指定键的模块种类。
func Resolve(key string) (Kind, bool) {
	return globalRegistry.resolve(key)
}

// List 返回按键排序的模块种类列表。
func List() []Kind {
	return globalRegistry.list()
}

// Keys 返回所有已注册种类的键值，供诊断使用。
func Keys() []string {
	items := List()
	result := make([]string, len(items))
	for i, kind := range items {
		result[i] = kind.Key
	}
	return result
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func (r *registry) register(kind Kind) error {
	key := normalizeKey(kind.Key)
	if key == "" {
		return fmt.Errorf("kind key is required")
	}
	if kind.Build == nil {
		return fmt.Errorf("kind %s requires a builder", key)
	}
	kind.Key = key

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.kinds[key]; exists {
		return fmt.Errorf("kind %s already registered", key)
	}
	r.kinds[key] = kind
	return nil
}

func (r *registry) resolve(key string) (Kind, bool) {
	normalized := normalizeKey(key)
	if normalized == "" {
		return Kind{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	kind, ok := r.kinds[normalized]
	return kind, ok
}

func (r *registry) list() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.kinds) == 0 {
		return nil
	}

	keys := make([]string, 0, len(r.kinds))
	for key := range r.kinds {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := make([]Kind, 0, len(keys))
	for _, key := range keys {
		result = append(result, r.kinds[key])
	}
	return result
}
