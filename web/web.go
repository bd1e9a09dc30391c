// Package web embeds the page templates and static assets.
package web

import (
	"embed"
	"html"
	"html/template"
	"io/fs"
	"net/http"

	htmlengine "github.com/gofiber/template/html/v2"

	"kustomkeys/internal/domain"
)

//go:embed templates/*.html static/*
var files embed.FS

func sub(dir string) http.FileSystem {
	f, err := fs.Sub(files, dir)
	if err != nil {
		panic(err)
	}
	return http.FS(f)
}

// Static is mounted under /static.
func Static() http.FileSystem { return sub("static") }

// Views parses every template up front; reload re-reads them on each render.
func Views(reload bool) *htmlengine.Engine {
	engine := htmlengine.NewFileSystem(sub("templates"), ".html")
	engine.Reload(reload)
	engine.AddFuncMap(template.FuncMap{
		// stored text is entity-escaped at submission; unescape so the template escapes it once
		"text":        html.UnescapeString,
		"price":       domain.FormatPrice,
		"brandURL":    domain.BrandURL,
		"categoryURL": domain.CategoryURL,
		"productURL":  domain.ProductURL,
		"instanceURL": domain.ProductInstanceURL,
	})
	return engine
}
