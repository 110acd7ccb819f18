package routes

import (
	"github.com/gofiber/fiber/v3"

	"github.com/any-hub/any-store/internal/server"
)

// RegisterSnapshotRoutes 暴露快照导出、列表、查看与删除接口。
func RegisterSnapshotRoutes(app *fiber.App, host *server.Host) {
	if app == nil || host == nil {
		return
	}

	app.Post("/-/snapshot", func(c fiber.Ctx) error {
		entry, err := host.Snapshot(c.Context(), c.Query("name"))
		if err != nil {
			return renderError(c, err, fiber.StatusInternalServerError, "snapshot_failed")
		}
		return c.Status(fiber.StatusCreated).JSON(entry)
	})

	app.Get("/-/snapshots", func(c fiber.Ctx) error {
		entries, err := host.Snapshots(c.Context())
		if err != nil {
			return renderError(c, err, fiber.StatusInternalServerError, "snapshot_list_failed")
		}
		return c.JSON(fiber.Map{"snapshots": entries})
	})

	// 快照只导出不恢复：这里只提供查看与删除。
	app.Get("/-/snapshots/:name", func(c fiber.Ctx) error {
		state, entry, err := host.SnapshotFile(c.Context(), c.Params("name"))
		if err != nil {
			return renderError(c, err, fiber.StatusInternalServerError, "snapshot_read_failed")
		}
		return c.JSON(fiber.Map{"entry": entry, "state": state})
	})

	app.Delete("/-/snapshots/:name", func(c fiber.Ctx) error {
		if err := host.RemoveSnapshot(c.Context(), c.Params("name")); err != nil {
			return renderError(c, err, fiber.StatusInternalServerError, "snapshot_remove_failed")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
