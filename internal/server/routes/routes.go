// Package routes 将 /-/ 下的管理接口翻译为 server.Host 操作。
package routes

import (
	"github.com/gofiber/fiber/v3"

	"github.com/any-hub/any-store/internal/server"
	"github.com/any-hub/any-store/internal/version"
)

// Register 挂载全部 /-/ 接口。
func Register(app *fiber.App, host *server.Host) {
	RegisterStateRoutes(app, host)
	RegisterModuleRoutes(app, host)
	RegisterSnapshotRoutes(app, host)
	app.Get("/-/version", func(c fiber.Ctx) error {
		return c.JSON(version.Current())
	})
}
