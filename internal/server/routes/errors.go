package routes

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/any-hub/any-store/internal/catalog"
	"github.com/any-hub/any-store/internal/modules"
	"github.com/any-hub/any-store/internal/server"
	"github.com/any-hub/any-store/internal/snapshot"
	"github.com/any-hub/any-store/internal/store"
)

// errorMapping 将领域错误映射为 HTTP 状态码与稳定的错误码。
var errorMapping = []struct {
	target error
	status int
	code   string
}{
	{modules.ErrInvalidArgument, fiber.StatusBadRequest, "invalid_argument"},
	{catalog.ErrUnknownKind, fiber.StatusBadRequest, "unknown_kind"},
	{catalog.ErrInvalidOptions, fiber.StatusBadRequest, "invalid_options"},
	{modules.ErrDuplicateModule, fiber.StatusConflict, "duplicate_module"},
	{modules.ErrKeyCollision, fiber.StatusConflict, "key_collision"},
	{modules.ErrReentrantMutation, fiber.StatusConflict, "reentrant_mutation"},
	{modules.ErrUnknownModule, fiber.StatusNotFound, "module_not_found"},
	{store.ErrInvalidAction, fiber.StatusBadRequest, "invalid_action"},
	{snapshot.ErrInvalidName, fiber.StatusBadRequest, "invalid_snapshot_name"},
	{snapshot.ErrNotFound, fiber.StatusNotFound, "snapshot_not_found"},
	{server.ErrSnapshotsDisabled, fiber.StatusServiceUnavailable, "snapshots_disabled"},
}

// renderError 输出 {"error": code, "message": ...}；未识别的错误使用 fallback。
func renderError(c fiber.Ctx, err error, fallbackStatus int, fallbackCode string) error {
	status, code := fallbackStatus, fallbackCode
	for _, m := range errorMapping {
		if errors.Is(err, m.target) {
			status, code = m.status, m.code
			break
		}
	}
	return c.Status(status).JSON(fiber.Map{
		"error":      code,
		"message":    err.Error(),
		"request_id": server.RequestID(c),
	})
}
