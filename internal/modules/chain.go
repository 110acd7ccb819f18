package modules

import (
	"fmt"

	"github.com/any-hub/any-store/internal/store"
)

// segment 是一个模块已实例化并组合好的中间件。entry 只在加载时组合一次，
// 最内层通过 next 链接转发，结构变化时只需要改写 next。
type segment struct {
	id    string
	entry store.Dispatch
	next  store.Dispatch
}

// chain 维护按加载顺序排列的中间件段：第一个加载的模块最先看到动作，
// 最后一段转发到基础 store 的 dispatch。
type chain struct {
	base  store.Dispatch
	order []*segment
	head  store.Dispatch
}

func newChain(base store.Dispatch) *chain {
	c := &chain{base: base}
	c.relink()
	return c
}

// add 实例化并组合模块的中间件，然后追加到链尾。任何工厂不合法时
// 在修改链之前返回 ErrInvalidArgument。没有中间件的模块不占用段。
func (c *chain) add(id string, factories []Middleware, api API) error {
	if len(factories) == 0 {
		return nil
	}
	if c.index(id) >= 0 {
		return fmt.Errorf("%w: middleware for %s already linked", ErrDuplicateModule, id)
	}

	wrappers := make([]func(store.Dispatch) store.Dispatch, 0, len(factories))
	for i, factory := range factories {
		if factory == nil {
			return fmt.Errorf("%w: middleware #%d of %s is nil", ErrInvalidArgument, i, id)
		}
		wrap := factory(api)
		if wrap == nil {
			return fmt.Errorf("%w: middleware #%d of %s returned no wrapper", ErrInvalidArgument, i, id)
		}
		wrappers = append(wrappers, wrap)
	}

	seg := &segment{id: id, next: c.base}
	var entry store.Dispatch = func(action store.Action) (store.State, error) {
		return seg.next(action)
	}
	for i := len(wrappers) - 1; i >= 0; i-- {
		entry = wrappers[i](entry)
		if entry == nil {
			return fmt.Errorf("%w: middleware #%d of %s returned a nil dispatch", ErrInvalidArgument, i, id)
		}
	}
	seg.entry = entry

	c.order = append(c.order, seg)
	c.relink()
	return nil
}

// remove 摘除模块的段，前驱改为指向被摘除段原先的后继。
func (c *chain) remove(id string) bool {
	idx := c.index(id)
	if idx < 0 {
		return false
	}
	removed := c.order[idx]
	c.order = append(c.order[:idx:idx], c.order[idx+1:]...)
	c.relink()

	// 被摘除段若仍被延迟任务持有，直接落到基础 dispatch。
	removed.next = c.base
	return true
}

// relink 从链尾向前重建 next 链接并刷新入口。
func (c *chain) relink() {
	next := c.base
	for i := len(c.order) - 1; i >= 0; i-- {
		c.order[i].next = next
		next = c.order[i].entry
	}
	c.head = next
}

func (c *chain) dispatch(action store.Action) (store.State, error) {
	if len(c.order) == 0 {
		return c.base(action)
	}
	return c.head(action)
}

func (c *chain) index(id string) int {
	for i, seg := range c.order {
		if seg.id == id {
			return i
		}
	}
	return -1
}

func (c *chain) has(id string) bool {
	return c.index(id) >= 0
}

// ids 返回当前调用顺序。
func (c *chain) ids() []string {
	if len(c.order) == 0 {
		return nil
	}
	result := make([]string, len(c.order))
	for i, seg := range c.order {
		result[i] = seg.id
	}
	return result
}
