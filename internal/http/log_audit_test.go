package handlers_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	applog "kustomkeys/internal/log"
)

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := applog.L()
	applog.SetLogger(zap.New(core))
	t.Cleanup(func() { applog.SetLogger(prev) })
	return logs
}

// successful writes leave an audit trail
func TestAuditLogOnWrites(t *testing.T) {
	logs := observeLogs(t)
	a := newTestApp(t)

	resp, _ := a.postForm(t, "/category/create", url.Values{"name": {"Switches"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	loc := resp.Header.Get("Location")
	resp, _ = a.postForm(t, loc+"/delete", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	created := logs.FilterMessage("category.create").All()
	require.Len(t, created, 1)
	assert.Equal(t, true, created[0].ContextMap()["audit"])
	assert.Equal(t, map[string]any{"url": loc}, created[0].ContextMap()["fields"])
	assert.Len(t, logs.FilterMessage("category.delete").All(), 1)
	assert.NotEmpty(t, logs.FilterMessage("http.access").All())
}

func TestSecurityLogOnRejectedUpload(t *testing.T) {
	logs := observeLogs(t)
	a := newTestApp(t)

	fields := url.Values{"name": {"x"}, "price": {"1"}, "details": {"x"}, "brand": {"b"}}
	resp, _ := a.do(t, multipartRequest(t, "/product/create", fields, "x.png", "image/png", []byte("not a png")))
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
	rejects := logs.FilterMessage("upload.reject").All()
	require.Len(t, rejects, 1)
	assert.Equal(t, zapcore.WarnLevel, rejects[0].Level)
}
