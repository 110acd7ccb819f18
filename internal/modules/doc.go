// Package modules 为 store 增加运行时模块管理：每个模块贡献一个子 reducer、
// 可选的中间件列表以及 onLoad/onUnload 回调，宿主在创建 store 时无需知道它们。
//
// 中间件按模块加载顺序串成一条链，先加载的模块先看到动作，链尾转发到基础
// store 的 dispatch。模块增删只改写段之间的 next 链接，不会重新实例化已有
// 中间件。加载与卸载分别通过 ModuleAdded / ModuleRemoved 内务动作通告给所有
// reducer 与中间件。
//
// Store 不是并发安全的：所有公共操作都应在同一个逻辑线程中串行调用。
// dispatch 进行中调用 AddModule/RemoveModule 会返回 ErrReentrantMutation。
package modules
