package routes

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/any-hub/any-store/internal/catalog/counter"
	"github.com/any-hub/any-store/internal/config"
	"github.com/any-hub/any-store/internal/server"
	"github.com/any-hub/any-store/internal/snapshot"
	"github.com/any-hub/any-store/internal/version"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	snaps, err := snapshot.NewStore(t.TempDir(), "yaml")
	require.NoError(t, err)
	host, err := server.NewHost(&config.Config{
		State: map[string]any{"app": "any-store"},
		Modules: []config.ModuleConfig{
			{ID: "visits", Kind: "counter", Options: map[string]any{"start": 1}},
		},
	}, logger, snaps)
	require.NoError(t, err)

	app, err := server.NewApp(server.AppOptions{Logger: logger, Host: host})
	require.NoError(t, err)
	Register(app, host)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	decoded := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, server.JSON.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp.StatusCode, decoded
}

func TestStateRoutes(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, http.MethodGet, "/-/state", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "any-store", body["app"])
	assert.Equal(t, float64(1), body["visits"])

	status, body = do(t, app, http.MethodGet, "/-/state/visits", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(1), body["value"])

	status, body = do(t, app, http.MethodGet, "/-/state/missing", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "key_not_found", body["error"])
}

func TestVersionRoute(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, http.MethodGet, "/-/version", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, version.Name, body["name"])
	assert.Equal(t, version.Version, body["version"])
	assert.Equal(t, version.Commit, body["commit"])
}

func TestDispatchRoute(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, http.MethodPost, "/-/dispatch", `{"type":"`+counter.Increment("visits")+`","payload":{"by":4}}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(5), body["visits"])

	status, body = do(t, app, http.MethodPost, "/-/dispatch", `{"payload":{}}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "invalid_action", body["error"])

	status, body = do(t, app, http.MethodPost, "/-/dispatch", `not json`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "invalid_action", body["error"])
}

func TestDispatchRejectsReservedTypes(t *testing.T) {
	app := newTestApp(t)

	for _, typ := range []string{
		"@@modules-enhancer/MODULE_REMOVED",
		"@@modules-enhancer/MODULE_ADDED",
		"@@store/INIT",
		" @@store/REPLACE",
	} {
		status, body := do(t, app, http.MethodPost, "/-/dispatch", `{"type":"`+typ+`","payload":{"moduleId":"visits"}}`)
		assert.Equal(t, fiber.StatusBadRequest, status, typ)
		assert.Equal(t, "invalid_action", body["error"], typ)
	}

	status, body := do(t, app, http.MethodGet, "/-/modules/visits", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "visits", body["id"])

	status, body = do(t, app, http.MethodGet, "/-/state/visits", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(1), body["value"])

	// @@state/ 动作属于基础 reducer，客户端可以使用。
	status, body = do(t, app, http.MethodPost, "/-/dispatch", `{"type":"@@state/SET","payload":{"key":"mode","value":"dark"}}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "dark", body["mode"])
}

func TestModuleRoutes(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, http.MethodGet, "/-/modules", "")
	require.Equal(t, fiber.StatusOK, status)
	mods := body["modules"].([]any)
	require.Len(t, mods, 1)
	assert.Equal(t, "visits", mods[0].(map[string]any)["id"])
	assert.Empty(t, body["chain"])
	kinds := body["kinds"].([]any)
	assert.GreaterOrEqual(t, len(kinds), 2)

	status, body = do(t, app, http.MethodPost, "/-/modules", `{"id":"audit","kind":"journal","options":{"limit":5},"recover":true}`)
	require.Equal(t, fiber.StatusCreated, status, "body: %v", body)
	assert.Equal(t, "journal", body["kind"])
	assert.Equal(t, true, body["has_middleware"])

	status, body = do(t, app, http.MethodGet, "/-/modules/audit", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "audit", body["id"])

	status, body = do(t, app, http.MethodGet, "/-/modules", "")
	assert.Equal(t, []any{"audit"}, body["chain"])

	status, _ = do(t, app, http.MethodDelete, "/-/modules/audit", "")
	assert.Equal(t, fiber.StatusNoContent, status)

	status, body = do(t, app, http.MethodGet, "/-/modules/audit", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "module_not_found", body["error"])

	status, body = do(t, app, http.MethodGet, "/-/state/audit", "")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestModuleRouteErrors(t *testing.T) {
	app := newTestApp(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"duplicate", http.MethodPost, "/-/modules", `{"id":"visits","kind":"counter"}`, fiber.StatusConflict, "duplicate_module"},
		{"collision", http.MethodPost, "/-/modules", `{"id":"app","kind":"counter"}`, fiber.StatusConflict, "key_collision"},
		{"unknown kind", http.MethodPost, "/-/modules", `{"id":"x","kind":"rubygems"}`, fiber.StatusBadRequest, "unknown_kind"},
		{"missing id", http.MethodPost, "/-/modules", `{"kind":"counter"}`, fiber.StatusBadRequest, "invalid_argument"},
		{"bad options", http.MethodPost, "/-/modules", `{"id":"x","kind":"counter","options":{"step":-1}}`, fiber.StatusBadRequest, "invalid_options"},
		{"bad body", http.MethodPost, "/-/modules", `[`, fiber.StatusBadRequest, "invalid_argument"},
		{"remove unknown", http.MethodDelete, "/-/modules/ghost", "", fiber.StatusNotFound, "module_not_found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := do(t, app, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body["error"])
		})
	}
}

func TestSnapshotRoutes(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, http.MethodPost, "/-/snapshot?name=manual", "")
	require.Equal(t, fiber.StatusCreated, status, "body: %v", body)
	assert.Equal(t, "manual", body["name"])
	assert.Equal(t, "yaml", body["format"])

	status, body = do(t, app, http.MethodPost, "/-/snapshot?name=..%2Fescape", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "invalid_snapshot_name", body["error"])

	status, body = do(t, app, http.MethodGet, "/-/snapshots", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["snapshots"], 1)

	status, body = do(t, app, http.MethodGet, "/-/snapshots/manual", "")
	require.Equal(t, fiber.StatusOK, status, "body: %v", body)
	state, ok := body["state"].(map[string]any)
	require.True(t, ok, "state: %v", body["state"])
	assert.Equal(t, "any-store", state["app"])
	assert.Equal(t, float64(1), state["visits"])
	entry, ok := body["entry"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "manual", entry["name"])

	status, body = do(t, app, http.MethodDelete, "/-/snapshots/manual", "")
	assert.Equal(t, fiber.StatusNoContent, status)

	status, body = do(t, app, http.MethodGet, "/-/snapshots/manual", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "snapshot_not_found", body["error"])

	status, body = do(t, app, http.MethodGet, "/-/snapshots", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, body["snapshots"])
}
