// Package middleware 提供可以挂在模块上的常用 dispatch 中间件：
// Thunk 允许分发函数动作，Logger 用 logrus 记录每次分发，Recover 把
// 下游（含 reducer）的 panic 转换为错误。
package middleware
