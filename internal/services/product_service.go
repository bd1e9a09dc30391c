package services

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"kustomkeys/internal/domain"
	"kustomkeys/internal/images"
	"kustomkeys/internal/validate"
)

const newestOnHome = 5

type ProductService struct {
	Brands     domain.BrandRepository
	Categories domain.CategoryRepository
	Products   domain.ProductRepository
	Instances  domain.InstanceRepository
	Images     Images
}

type HomeView struct {
	Newest   []ProductCard
	Products []ProductCard
}

type ProductDetail struct {
	Product   domain.Product
	Brand     domain.Brand
	Category  *domain.Category
	Instances []domain.ProductInstance
	ImageURL  string
}

type ProductForm struct {
	ID         string
	Input      validate.ProductInput
	Brands     []Option
	Categories []Option
	ImageURL   string
	Errors     validate.Errors
}

type ProductDelete struct {
	Product   domain.Product
	Instances []domain.ProductInstance
	ImageURL  string
}

// Home lists the newest products with their pictures, followed by the whole catalog with
// category names.
func (s *ProductService) Home(ctx context.Context) (HomeView, error) {
	var (
		newest, all []domain.Product
		cats        []domain.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		newest, err = s.Products.Find(gctx, domain.ProductFilter{Sort: domain.SortNewest, Limit: newestOnHome})
		return err
	})
	g.Go(func() (err error) {
		all, err = s.Products.Find(gctx, domain.ProductFilter{Sort: domain.SortByName})
		return err
	})
	g.Go(func() (err error) {
		cats, err = s.Categories.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return HomeView{}, err
	}

	newestCards, err := cards(ctx, s.Images, newest)
	if err != nil {
		return HomeView{}, err
	}
	names := make(map[string]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}
	allCards := make([]ProductCard, len(all))
	for i, p := range all {
		allCards[i] = ProductCard{Product: p, CategoryName: names[p.CategoryID]}
	}
	return HomeView{Newest: newestCards, Products: allCards}, nil
}

// List returns the catalog, most expensive first.
func (s *ProductService) List(ctx context.Context) ([]ProductCard, error) {
	products, err := s.Products.Find(ctx, domain.ProductFilter{Sort: domain.SortByPriceDesc})
	if err != nil {
		return nil, err
	}
	return cards(ctx, s.Images, products)
}

func (s *ProductService) Detail(ctx context.Context, id string) (ProductDetail, error) {
	var out ProductDetail
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Product, err = s.Products.Get(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		out.Instances, err = s.Instances.Find(gctx, domain.InstanceFilter{ProductID: id, Sort: domain.SortByPriceDesc})
		return err
	})
	if err := g.Wait(); err != nil {
		return out, err
	}

	p := out.Product
	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := s.Brands.Get(gctx, p.BrandID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		out.Brand = b
		return err
	})
	if p.CategoryID != "" {
		g.Go(func() error {
			c, err := s.Categories.Get(gctx, p.CategoryID)
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			out.Category = &c
			return nil
		})
	}
	g.Go(func() (err error) {
		out.ImageURL, err = imageURL(gctx, s.Images, p.Image)
		return err
	})
	return out, g.Wait()
}

// lookups fetches the brand and category selectors in name order.
func (s *ProductService) lookups(ctx context.Context) ([]domain.Brand, []domain.Category, error) {
	var (
		brands []domain.Brand
		cats   []domain.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		brands, err = s.Brands.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		cats, err = s.Categories.List(gctx)
		return err
	})
	return brands, cats, g.Wait()
}

func (s *ProductService) form(brands []domain.Brand, cats []domain.Category, in validate.ProductInput) ProductForm {
	f := ProductForm{Input: in}
	for _, b := range brands {
		f.Brands = append(f.Brands, Option{ID: b.ID, Name: b.Name, Selected: b.ID == in.Brand})
	}
	for _, c := range cats {
		f.Categories = append(f.Categories, Option{ID: c.ID, Name: c.Name, Selected: c.ID == in.Category})
	}
	return f
}

func (s *ProductService) NewForm(ctx context.Context) (ProductForm, error) {
	brands, cats, err := s.lookups(ctx)
	if err != nil {
		return ProductForm{}, err
	}
	return s.form(brands, cats, validate.ProductInput{}), nil
}

func (s *ProductService) EditForm(ctx context.Context, id string) (ProductForm, error) {
	var (
		p      domain.Product
		brands []domain.Brand
		cats   []domain.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		p, err = s.Products.Get(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		brands, cats, err = s.lookups(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return ProductForm{}, err
	}
	f := s.form(brands, cats, validate.ProductInput{
		Name:     p.Name,
		Price:    p.Price.String(),
		Details:  p.Details,
		Brand:    p.BrandID,
		Category: p.CategoryID,
	})
	f.ID = p.ID
	url, err := imageURL(ctx, s.Images, p.Image)
	f.ImageURL = url
	return f, err
}

// check normalizes the submission and verifies that the referenced brand and category exist.
// The returned form is non-nil only when the submission is rejected.
func (s *ProductService) check(ctx context.Context, in validate.ProductInput) (domain.Product, *ProductForm, error) {
	in, draft, errs := validate.Product(in)
	brands, cats, err := s.lookups(ctx)
	if err != nil {
		return draft, nil, err
	}
	if in.Brand != "" && !hasLabel(brands, in.Brand) {
		errs.Add("brand", "Brand must reference an existing brand.")
	}
	if in.Category != "" && !hasLabel(cats, in.Category) {
		errs.Add("category", "Category must reference an existing category.")
	}
	if len(errs) == 0 {
		return draft, nil, nil
	}
	f := s.form(brands, cats, in)
	f.Errors = errs
	return draft, &f, nil
}

func hasLabel[T Labeled](items []T, id string) bool {
	for _, it := range items {
		if label(it).ID == id {
			return true
		}
	}
	return false
}

// Create persists a new product with its optional picture. An upload is only made once the
// submission is valid, so rejected submissions leave nothing behind.
func (s *ProductService) Create(ctx context.Context, in validate.ProductInput, file *images.File) (string, *ProductForm, error) {
	draft, form, err := s.check(ctx, in)
	if err != nil || form != nil {
		return "", form, err
	}
	if file != nil {
		if draft.Image, err = s.Images.Upload(ctx, file); err != nil {
			return "", nil, err
		}
	}
	created, err := s.Products.Create(ctx, draft)
	if err != nil {
		discardImage(ctx, s.Images, draft.Image, "product.create.fail")
		return "", nil, err
	}
	return domain.ProductURL(created.ID), nil, nil
}

// Update replaces the stored record. Without a new file the current picture is kept; with one,
// the previous asset is removed once the record points at the new one.
func (s *ProductService) Update(ctx context.Context, id string, in validate.ProductInput, file *images.File) (string, *ProductForm, error) {
	current, err := s.Products.Get(ctx, id)
	if err != nil {
		return "", nil, err
	}
	draft, form, err := s.check(ctx, in)
	if err != nil {
		return "", nil, err
	}
	if form != nil {
		form.ID = id
		form.ImageURL, err = imageURL(ctx, s.Images, current.Image)
		return "", form, err
	}

	draft.Image = current.Image
	if file != nil {
		if draft.Image, err = s.Images.Upload(ctx, file); err != nil {
			return "", nil, err
		}
	}
	if _, err := s.Products.Update(ctx, id, draft); err != nil {
		if draft.Image != current.Image {
			discardImage(ctx, s.Images, draft.Image, "product.update.fail")
		}
		return "", nil, err
	}
	if draft.Image != current.Image {
		discardImage(ctx, s.Images, current.Image, "product.image.replaced")
	}
	return domain.ProductURL(id), nil, nil
}

// DeleteView returns nil when the product is already gone.
func (s *ProductService) DeleteView(ctx context.Context, id string) (*ProductDelete, error) {
	var out ProductDelete
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Product, err = s.Products.Get(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		out.Instances, err = s.Instances.Find(gctx, domain.InstanceFilter{ProductID: id})
		return err
	})
	err := g.Wait()
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out.ImageURL, err = imageURL(ctx, s.Images, out.Product.Image)
	return &out, err
}

// Delete refuses while instances reference the product. Otherwise the picture is removed
// (best effort) and then the record.
func (s *ProductService) Delete(ctx context.Context, id string) (string, *ProductDelete, error) {
	d, err := s.DeleteView(ctx, id)
	if err != nil {
		return "", nil, err
	}
	if d == nil {
		return "/products", nil, nil
	}
	if len(d.Instances) > 0 {
		return "", d, nil
	}
	discardImage(ctx, s.Images, d.Product.Image, "product.delete")
	if err := s.Products.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return "", nil, err
	}
	return "/products", nil, nil
}
