package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"kustomkeys/internal/domain"
	"kustomkeys/internal/images"
	applog "kustomkeys/internal/log"
)

// Images is the asset host used for product pictures.
type Images interface {
	Upload(ctx context.Context, f *images.File) (string, error)
	URL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Option is one entry of a select/radio list with its selection state.
type Option struct {
	ID       string
	Name     string
	Selected bool
}

type ProductCard struct {
	domain.Product
	ImageURL     string
	CategoryName string
}

// Catalog bundles the per-entity workflows.
type Catalog struct {
	Brands     *LabelService[domain.Brand]
	Categories *LabelService[domain.Category]
	Products   *ProductService
	Instances  *InstanceService
}

func NewCatalog(st domain.Stores, imgs Images) *Catalog {
	return &Catalog{
		Brands:     NewBrandService(st.Brands, st.Products, imgs),
		Categories: NewCategoryService(st.Categories, st.Products, imgs),
		Products:   &ProductService{Brands: st.Brands, Categories: st.Categories, Products: st.Products, Instances: st.Instances, Images: imgs},
		Instances:  &InstanceService{Products: st.Products, Instances: st.Instances, Images: imgs},
	}
}

// imageURL resolves a product image; a missing asset renders as no image.
func imageURL(ctx context.Context, imgs Images, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	url, err := imgs.URL(ctx, key)
	if errors.Is(err, images.ErrAssetNotFound) {
		return "", nil
	}
	return url, err
}

// cards resolves every product's image concurrently.
func cards(ctx context.Context, imgs Images, products []domain.Product) ([]ProductCard, error) {
	out := make([]ProductCard, len(products))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range products {
		i, p := i, p
		out[i].Product = p
		g.Go(func() error {
			url, err := imageURL(gctx, imgs, p.Image)
			out[i].ImageURL = url
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// discardImage removes an asset nobody references any more. Failures are only logged.
func discardImage(ctx context.Context, imgs Images, key, reason string) {
	if key == "" {
		return
	}
	if err := imgs.Delete(ctx, key); err != nil {
		applog.L().Warn("image.delete.fail", zap.String("key", key), zap.String("reason", reason), zap.Error(err))
	}
}
