// Package catalog 聚合可由配置文件预加载的模块种类（kind），并提供统一的注册入口。
//
// 种类作者需要：
//  1. 在 internal/catalog/<kind>/ 目录下实现 Builder，根据 options 构造 modules.Descriptor；
//  2. 在 init() 中通过 MustRegister 注册；
//  3. 在 config/kinds.go 中以空白导入引入该包，使配置校验能识别新种类。
package catalog
