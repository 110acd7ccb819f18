package server

import (
	"bytes"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

func TestRouterSetsRequestID(t *testing.T) {
	app, hook := newTestApp(t)
	var seen string
	app.Get("/-/ping", func(c fiber.Ctx) error {
		seen = RequestID(c)
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/-/ping", nil))
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNoContent {
		t.Fatalf("expected 204 status, got %d", resp.StatusCode)
	}
	reqID := resp.Header.Get("X-Request-ID")
	if reqID == "" || reqID != seen {
		t.Fatalf("expected X-Request-ID %q to match handler value %q", reqID, seen)
	}

	entries := hook.AllEntries()
	if len(entries) == 0 {
		t.Fatalf("expected an access log entry")
	}
	last := entries[len(entries)-1]
	if last.Data["request_id"] != reqID || last.Data["path"] != "/-/ping" {
		t.Fatalf("access log fields mismatch: %v", last.Data)
	}
}

func TestRouterRecoversPanics(t *testing.T) {
	app, _ := newTestApp(t)
	app.Get("/-/panic", func(c fiber.Ctx) error {
		panic("handler exploded")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/-/panic", nil))
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 500 status, got %d (body=%s)", resp.StatusCode, string(body))
	}
}

func TestRouterUsesJSONCodec(t *testing.T) {
	app, _ := newTestApp(t)
	app.Get("/-/json", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/-/json", nil))
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(body, []byte(`"ok":true`)) {
		t.Fatalf("unexpected body: %s", string(body))
	}
}

func TestNewAppRequiresDependencies(t *testing.T) {
	if _, err := NewApp(AppOptions{Host: &Host{}}); err == nil {
		t.Fatalf("missing logger should fail")
	}
	if _, err := NewApp(AppOptions{Logger: logrus.New()}); err == nil {
		t.Fatalf("missing host should fail")
	}
}

func newTestApp(t *testing.T) (*fiber.App, *logtest.Hook) {
	t.Helper()

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	host := newTestHost(t, nil)
	app, err := NewApp(AppOptions{Logger: logger, Host: host})
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}
	return app, hook
}
