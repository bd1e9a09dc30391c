package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func TestCSRFRequiredOnForms(t *testing.T) {
	a := newTestApp(t, withCSRF)

	resp, _ := a.postForm(t, "/brand/create", url.Values{"name": {"KeyWerk"}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := a.get(t, "/brand/create")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tok := extractCookie(resp, "csrf_")
	require.NotEmpty(t, tok, "csrf cookie missing")
	assert.Contains(t, body, `name="csrf" value="`+tok+`"`)

	form := url.Values{"csrf": {tok}, "name": {"KeyWerk"}}
	req := httptest.NewRequest(http.MethodPost, "/brand/create", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: tok})
	resp, _ = a.do(t, req)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}
