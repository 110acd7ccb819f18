package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/any-hub/any-store/internal/logging"
	"github.com/any-hub/any-store/internal/version"
)

// AppOptions controls how the Fiber application should behave.
type AppOptions struct {
	Logger *logrus.Logger
	Host   *Host
}

const contextKeyRequestID = "_anystore_request_id"

// JSON is the codec shared by the Fiber app and the route handlers.
var JSON = jsoniter.ConfigCompatibleWithStandardLibrary

// NewApp builds a Fiber application with request ids, access logging and
// panic recovery. Routes are attached by the routes package.
func NewApp(opts AppOptions) (*fiber.App, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Host == nil {
		return nil, errors.New("host is required")
	}

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
		AppName:       version.Name,
		JSONEncoder:   JSON.Marshal,
		JSONDecoder:   JSON.Unmarshal,
	})

	app.Use(recover.New())
	app.Use(requestContextMiddleware(opts.Logger))

	return app, nil
}

// requestContextMiddleware 负责生成请求 ID，并在请求结束后输出访问日志。
func requestContextMiddleware(logger *logrus.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		reqID := uuid.NewString()
		c.Locals(contextKeyRequestID, reqID)
		c.Set("X-Request-ID", reqID)

		start := time.Now()
		err := c.Next()

		fields := logging.RequestFields(reqID, c.Method(), c.Path())
		fields["status"] = c.Response().StatusCode()
		fields["elapsed_ms"] = time.Since(start).Milliseconds()
		if err != nil {
			logger.WithFields(fields).WithError(err).Warn("request_failed")
			return err
		}
		logger.WithFields(fields).Debug("request_complete")
		return nil
	}
}

// RequestID returns the request identifier stored by the router middleware.
func RequestID(c fiber.Ctx) string {
	if value := c.Locals(contextKeyRequestID); value != nil {
		if reqID, ok := value.(string); ok {
			return reqID
		}
	}
	return ""
}
