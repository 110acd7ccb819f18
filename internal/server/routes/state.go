package routes

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/any-hub/any-store/internal/modules"
	"github.com/any-hub/any-store/internal/server"
	"github.com/any-hub/any-store/internal/store"
)

// reservedPrefixes 是 store 与模块管理内部使用的动作命名空间，客户端不能伪造。
var reservedPrefixes = []string{modules.Namespace, store.Namespace}

func reserved(typ string) bool {
	typ = strings.TrimSpace(typ)
	for _, prefix := range reservedPrefixes {
		if strings.HasPrefix(typ, prefix) {
			return true
		}
	}
	return false
}

// dispatchRequest 是 POST /-/dispatch 的请求体。
type dispatchRequest struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

// RegisterStateRoutes 暴露状态读取与动作分发接口。
func RegisterStateRoutes(app *fiber.App, host *server.Host) {
	if app == nil || host == nil {
		return
	}

	app.Get("/-/state", func(c fiber.Ctx) error {
		c.Set("X-State-Version", strconv.FormatUint(host.Version(), 10))
		return c.JSON(host.State())
	})

	app.Get("/-/state/:key", func(c fiber.Ctx) error {
		key := c.Params("key")
		value, ok := host.StateKey(key)
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "key_not_found", "key": key})
		}
		return c.JSON(fiber.Map{"key": key, "value": value})
	})

	app.Post("/-/dispatch", func(c fiber.Ctx) error {
		var req dispatchRequest
		if err := server.JSON.Unmarshal(c.Body(), &req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_action", "message": err.Error()})
		}
		if reserved(req.Type) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":      "invalid_action",
				"message":    "action type " + req.Type + " is reserved for internal use",
				"request_id": server.RequestID(c),
			})
		}
		state, err := host.Dispatch(store.Plain{Type: req.Type, Payload: req.Payload})
		if err != nil {
			return renderError(c, err, fiber.StatusInternalServerError, "dispatch_failed")
		}
		c.Set("X-State-Version", strconv.FormatUint(host.Version(), 10))
		return c.JSON(state)
	})
}
