package handlers_test

import (
	"bytes"
	"image"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"kustomkeys/internal/config"
	"kustomkeys/internal/domain"
	"kustomkeys/internal/http/handlers"
	"kustomkeys/internal/images"
	"kustomkeys/internal/repos"
	"kustomkeys/internal/services"
	"kustomkeys/web"
)

type testApp struct {
	app    *fiber.App
	stores domain.Stores
	images *images.Service
}

// newTestApp wires the real routes against in-memory SQLite and a temp media dir.
func newTestApp(t *testing.T, mutate ...func(*config.Config)) testApp {
	t.Helper()
	cfg := config.Config{
		Env:          "production",
		StoreDriver:  "sqlite",
		DBDSN:        ":memory:",
		ImageBackend: "disk",
		MediaDir:     t.TempDir(),
		ThumbWidth:   64,
		ThumbHeight:  64,
	}
	for _, m := range mutate {
		m(&cfg)
	}
	db, err := repos.OpenDB(cfg.DBDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	disk, err := images.NewDisk(cfg.MediaDir+"/products", "/media/products")
	require.NoError(t, err)

	st := repos.NewStores(db)
	imgs := images.NewService(disk, images.Transform{Width: cfg.ThumbWidth, Height: cfg.ThumbHeight})
	deps := handlers.NewDeps(services.NewCatalog(st, imgs))
	app := handlers.NewApp(cfg, web.Views(false), web.Static(), deps)
	return testApp{app: app, stores: st, images: imgs}
}

func (a testApp) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (a testApp) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	return a.do(t, httptest.NewRequest(http.MethodGet, path, nil))
}

func (a testApp) postForm(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(t, req)
}

// multipartRequest builds a product form submission carrying one file under product_image.
func multipartRequest(t *testing.T, path string, fields url.Values, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, vs := range fields {
		for _, v := range vs {
			require.NoError(t, mw.WriteField(k, v))
		}
	}
	if filename != "" {
		h := make(map[string][]string)
		h["Content-Disposition"] = []string{`form-data; name="product_image"; filename="` + filename + `"`}
		h["Content-Type"] = []string{contentType}
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func jpegData(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 200, 100)), nil))
	return buf.Bytes()
}

func withCSRF(c *config.Config) { c.CSRF = true }

func decimalOf(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
