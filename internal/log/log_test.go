package log

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := L()
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(prev) })
	return logs
}

func TestRequestScopedEntries(t *testing.T) {
	logs := observe(t)

	app := fiber.New()
	app.Use(Access())
	app.Post("/brand/create", func(c *fiber.Ctx) error {
		Audit(c, "brand.create", map[string]any{"brand_id": "b1"})
		Error(c, "brand.create.fail", errors.New("boom"), nil)
		return c.SendStatus(fiber.StatusFound)
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/brand/create", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)

	audit := logs.FilterMessage("brand.create").All()
	require.Len(t, audit, 1)
	ctx := audit[0].ContextMap()
	assert.Equal(t, true, ctx["audit"])
	assert.Equal(t, "/brand/create", ctx["path"])
	assert.Equal(t, map[string]any{"brand_id": "b1"}, ctx["fields"])

	failed := logs.FilterMessage("brand.create.fail").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.ErrorLevel, failed[0].Level)
	assert.Equal(t, "boom", failed[0].ContextMap()["error"])

	access := logs.FilterMessage("http.access").All()
	require.Len(t, access, 1)
	assert.EqualValues(t, fiber.StatusFound, access[0].ContextMap()["status"])
}

func TestAccessLogsRecoveredPanic(t *testing.T) {
	logs := observe(t)

	app := fiber.New()
	app.Use(Access())
	app.Use(recover.New())
	app.Get("/product/:id", func(c *fiber.Ctx) error {
		panic("nil brand")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/product/p1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	access := logs.FilterMessage("http.access").All()
	require.Len(t, access, 1)
	assert.EqualValues(t, fiber.StatusInternalServerError, access[0].ContextMap()["status"])
	assert.Equal(t, "/product/p1", access[0].ContextMap()["path"])
}

func TestSetupRejectsBadLevel(t *testing.T) {
	_, err := Setup("loud", "")
	require.Error(t, err)
}
