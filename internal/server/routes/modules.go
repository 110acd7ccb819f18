package routes

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/any-hub/any-store/internal/catalog"
	"github.com/any-hub/any-store/internal/server"
)

// RegisterModuleRoutes 暴露 /-/modules 管理接口：查询、加载与卸载模块。
func RegisterModuleRoutes(app *fiber.App, host *server.Host) {
	if app == nil || host == nil {
		return
	}

	app.Get("/-/modules", func(c fiber.Ctx) error {
		payload := fiber.Map{
			"modules": host.Modules(),
			"chain":   nonNil(host.Chain()),
			"kinds":   encodeKinds(catalog.List()),
		}
		return c.JSON(payload)
	})

	app.Get("/-/modules/:id", func(c fiber.Ctx) error {
		id := strings.TrimSpace(c.Params("id"))
		view, ok := host.Module(id)
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "module_not_found"})
		}
		return c.JSON(view)
	})

	app.Post("/-/modules", func(c fiber.Ctx) error {
		var req addModuleRequest
		if err := server.JSON.Unmarshal(c.Body(), &req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_argument", "message": err.Error()})
		}
		view, err := host.AddModule(req.spec())
		if err != nil {
			return renderError(c, err, fiber.StatusInternalServerError, "add_module_failed")
		}
		return c.Status(fiber.StatusCreated).JSON(view)
	})

	app.Delete("/-/modules/:id", func(c fiber.Ctx) error {
		if err := host.RemoveModule(c.Params("id")); err != nil {
			return renderError(c, err, fiber.StatusInternalServerError, "remove_module_failed")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

type addModuleRequest struct {
	ID      string         `json:"id"`
	Kind    string         `json:"kind"`
	Options map[string]any `json:"options"`
	Recover bool           `json:"recover"`
}

func (r addModuleRequest) spec() catalog.Spec {
	return catalog.Spec{
		ID:      r.ID,
		Kind:    r.Kind,
		Options: r.Options,
		Recover: r.Recover,
	}
}

type kindPayload struct {
	Key         string `json:"key"`
	Description string `json:"description"`
}

func encodeKinds(kinds []catalog.Kind) []kindPayload {
	result := make([]kindPayload, 0, len(kinds))
	for _, kind := range kinds {
		result = append(result, kindPayload{Key: kind.Key, Description: kind.Description})
	}
	return result
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
