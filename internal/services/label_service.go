package services

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"kustomkeys/internal/domain"
	"kustomkeys/internal/validate"
)

// Labeled is the set of entities that are nothing but a name products point at.
type Labeled interface {
	domain.Brand | domain.Category
}

type label struct {
	ID   string
	Name string
}

type labelRepo[T Labeled] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	FindByName(ctx context.Context, name string) ([]T, error)
	Create(ctx context.Context, draft T) (T, error)
	Update(ctx context.Context, id string, draft T) (T, error)
	Delete(ctx context.Context, id string) error
}

// LabelService runs the brand and category workflows. Both entities are a name that products
// point at, so they share one implementation.
type LabelService[T Labeled] struct {
	repo      labelRepo[T]
	products  domain.ProductRepository
	images    Images
	normalize func(validate.LabelInput) (validate.LabelInput, T, validate.Errors)
	filter    func(id string) domain.ProductFilter
	url       func(id string) string
	listURL   string
}

func NewBrandService(repo domain.BrandRepository, products domain.ProductRepository, imgs Images) *LabelService[domain.Brand] {
	return &LabelService[domain.Brand]{
		repo:      repo,
		products:  products,
		images:    imgs,
		normalize: validate.Brand,
		filter:    func(id string) domain.ProductFilter { return domain.ProductFilter{BrandID: id} },
		url:       domain.BrandURL,
		listURL:   "/brands",
	}
}

func NewCategoryService(repo domain.CategoryRepository, products domain.ProductRepository, imgs Images) *LabelService[domain.Category] {
	return &LabelService[domain.Category]{
		repo:      repo,
		products:  products,
		images:    imgs,
		normalize: validate.Category,
		filter:    func(id string) domain.ProductFilter { return domain.ProductFilter{CategoryID: id} },
		url:       domain.CategoryURL,
		listURL:   "/categories",
	}
}

type LabelDetail[T Labeled] struct {
	Item     T
	Products []ProductCard
}

type LabelForm struct {
	ID     string
	Input  validate.LabelInput
	Errors validate.Errors
}

// ListURL is where deletes and dangling links land.
func (s *LabelService[T]) ListURL() string { return s.listURL }

func (s *LabelService[T]) List(ctx context.Context) ([]T, error) {
	return s.repo.List(ctx)
}

// Detail loads the entity and every product referencing it.
func (s *LabelService[T]) Detail(ctx context.Context, id string) (LabelDetail[T], error) {
	var (
		out      LabelDetail[T]
		products []domain.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Item, err = s.repo.Get(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		products, err = s.products.Find(gctx, s.filter(id))
		return err
	})
	if err := g.Wait(); err != nil {
		return out, err
	}
	var err error
	out.Products, err = cards(ctx, s.images, products)
	return out, err
}

func (s *LabelService[T]) EditForm(ctx context.Context, id string) (LabelForm, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return LabelForm{}, err
	}
	l := label(item)
	return LabelForm{ID: l.ID, Input: validate.LabelInput{Name: l.Name}}, nil
}

// Create stores a new entity unless one with the same name exists, in which case it redirects
// there. A non-nil form means the submission was rejected and must be re-rendered.
func (s *LabelService[T]) Create(ctx context.Context, in validate.LabelInput) (string, *LabelForm, error) {
	in, draft, errs := s.normalize(in)
	if len(errs) > 0 {
		return "", &LabelForm{Input: in, Errors: errs}, nil
	}
	same, err := s.repo.FindByName(ctx, in.Name)
	if err != nil {
		return "", nil, err
	}
	if len(same) > 0 {
		return s.url(label(same[0]).ID), nil, nil
	}
	created, err := s.repo.Create(ctx, draft)
	if err != nil {
		return "", nil, err
	}
	return s.url(label(created).ID), nil, nil
}

// Update renames the entity. A name already held by another entity redirects to that one.
func (s *LabelService[T]) Update(ctx context.Context, id string, in validate.LabelInput) (string, *LabelForm, error) {
	in, draft, errs := s.normalize(in)
	if len(errs) > 0 {
		return "", &LabelForm{ID: id, Input: in, Errors: errs}, nil
	}
	same, err := s.repo.FindByName(ctx, in.Name)
	if err != nil {
		return "", nil, err
	}
	for _, other := range same {
		if oid := label(other).ID; oid != id {
			return s.url(oid), nil, nil
		}
	}
	if _, err := s.repo.Update(ctx, id, draft); err != nil {
		return "", nil, err
	}
	return s.url(id), nil, nil
}

// DeleteView returns nil when the entity is already gone.
func (s *LabelService[T]) DeleteView(ctx context.Context, id string) (*LabelDetail[T], error) {
	d, err := s.Detail(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Delete removes the entity when no product references it. Otherwise the returned view lists
// the blocking products and nothing is deleted.
func (s *LabelService[T]) Delete(ctx context.Context, id string) (string, *LabelDetail[T], error) {
	d, err := s.DeleteView(ctx, id)
	if err != nil {
		return "", nil, err
	}
	if d == nil {
		return s.listURL, nil, nil
	}
	if len(d.Products) > 0 {
		return "", d, nil
	}
	if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return "", nil, err
	}
	return s.listURL, nil, nil
}
