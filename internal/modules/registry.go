package modules

import "fmt"

// registry 保存已加载模块的 reducer，order 记录加载顺序以保证 reducer 调用顺序稳定。
type registry struct {
	reducers map[string]Reducer
	order    []string
}

func newRegistry() *registry {
	return &registry{reducers: make(map[string]Reducer)}
}

func (r *registry) has(id string) bool {
	_, ok := r.reducers[id]
	return ok
}

func (r *registry) register(id string, reducer Reducer) error {
	if r.has(id) {
		return fmt.Errorf("%w: %s", ErrDuplicateModule, id)
	}
	r.reducers[id] = reducer
	r.order = append(r.order, id)
	return nil
}

func (r *registry) unregister(id string) error {
	if !r.has(id) {
		return fmt.Errorf("%w: %s", ErrUnknownModule, id)
	}
	delete(r.reducers, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *registry) reducer(id string) Reducer {
	return r.reducers[id]
}

// ids 返回按加载顺序排列的模块 id 副本。
func (r *registry) ids() []string {
	if len(r.order) == 0 {
		return nil
	}
	return append([]string(nil), r.order...)
}
