package handlers

import (
	"context"
	"io"

	"kustomkeys/internal/domain"
	"kustomkeys/internal/services"
)

// ObjectSource streams stored images that have no file on disk.
type ObjectSource interface {
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
}

type Deps struct {
	HomeHandler     *HomeHandler
	BrandHandler    *LabelHandler[domain.Brand]
	CategoryHandler *LabelHandler[domain.Category]
	ProductHandler  *ProductHandler
	InstanceHandler *InstanceHandler

	// Objects is set when images live in an object store instead of MediaDir.
	Objects ObjectSource
}

func NewDeps(catalog *services.Catalog) *Deps {
	return &Deps{
		HomeHandler:     &HomeHandler{Products: catalog.Products},
		BrandHandler:    &LabelHandler[domain.Brand]{Svc: catalog.Brands, Kind: "brand", Title: "Brand"},
		CategoryHandler: &LabelHandler[domain.Category]{Svc: catalog.Categories, Kind: "category", Title: "Category"},
		ProductHandler:  &ProductHandler{Products: catalog.Products},
		InstanceHandler: &InstanceHandler{Instances: catalog.Instances},
	}
}
