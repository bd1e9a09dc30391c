package services

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"kustomkeys/internal/domain"
	"kustomkeys/internal/validate"
)

type InstanceService struct {
	Products  domain.ProductRepository
	Instances domain.InstanceRepository
	Images    Images
}

type InstanceDetail struct {
	Instance domain.ProductInstance
	Product  *domain.Product
	ImageURL string
}

// InstanceForm is bound to one product when Product is set; otherwise Products is the selector.
type InstanceForm struct {
	ID         string
	Input      validate.InstanceInput
	Product    *domain.Product
	Products   []Option
	Conditions []Option
	Errors     validate.Errors
}

type InstanceRow struct {
	domain.ProductInstance
	ProductName string
}

// List returns every instance with the name of its product, most expensive first.
func (s *InstanceService) List(ctx context.Context) ([]InstanceRow, error) {
	var (
		instances []domain.ProductInstance
		products  []domain.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		instances, err = s.Instances.Find(gctx, domain.InstanceFilter{Sort: domain.SortByPriceDesc})
		return err
	})
	g.Go(func() (err error) {
		products, err = s.Products.Find(gctx, domain.ProductFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}
	out := make([]InstanceRow, len(instances))
	for i, pi := range instances {
		out[i] = InstanceRow{ProductInstance: pi, ProductName: names[pi.ProductID]}
	}
	return out, nil
}

func (s *InstanceService) Detail(ctx context.Context, id string) (InstanceDetail, error) {
	var out InstanceDetail
	pi, err := s.Instances.Get(ctx, id)
	if err != nil {
		return out, err
	}
	out.Instance = pi
	p, err := s.Products.Get(ctx, pi.ProductID)
	if errors.Is(err, domain.ErrNotFound) {
		return out, nil
	}
	if err != nil {
		return out, err
	}
	out.Product = &p
	out.ImageURL, err = imageURL(ctx, s.Images, p.Image)
	return out, err
}

func conditionOptions(selected string) []Option {
	if selected == "" {
		selected = string(domain.ConditionNew)
	}
	out := make([]Option, len(domain.Conditions))
	for i, c := range domain.Conditions {
		out[i] = Option{ID: string(c), Name: string(c), Selected: string(c) == selected}
	}
	return out
}

// form fills the product selector, or binds the form to productID when it is set.
func (s *InstanceService) form(ctx context.Context, productID string, in validate.InstanceInput) (InstanceForm, error) {
	f := InstanceForm{Input: in, Conditions: conditionOptions(in.Condition)}
	if productID != "" {
		p, err := s.Products.Get(ctx, productID)
		if err != nil {
			return f, err
		}
		f.Product = &p
		f.Input.Product = p.ID
		return f, nil
	}
	products, err := s.Products.Find(ctx, domain.ProductFilter{Sort: domain.SortByName})
	if err != nil {
		return f, err
	}
	for _, p := range products {
		f.Products = append(f.Products, Option{ID: p.ID, Name: p.Name, Selected: p.ID == in.Product})
	}
	return f, nil
}

// NewForm renders a blank form. With a productID the instance is created for that product.
func (s *InstanceService) NewForm(ctx context.Context, productID string) (InstanceForm, error) {
	return s.form(ctx, productID, validate.InstanceInput{})
}

func (s *InstanceService) EditForm(ctx context.Context, id string) (InstanceForm, error) {
	pi, err := s.Instances.Get(ctx, id)
	if err != nil {
		return InstanceForm{}, err
	}
	f, err := s.form(ctx, "", validate.InstanceInput{
		Product:     pi.ProductID,
		Model:       pi.Model,
		Condition:   string(pi.Condition),
		Price:       pi.Price.String(),
		Description: pi.Description,
	})
	f.ID = id
	return f, err
}

// check normalizes the submission and verifies the referenced product exists. boundTo is the
// product a product-scoped form was opened for.
func (s *InstanceService) check(ctx context.Context, boundTo string, in validate.InstanceInput) (domain.ProductInstance, *InstanceForm, error) {
	if boundTo != "" && in.Product == "" {
		in.Product = boundTo
	}
	in, draft, errs := validate.Instance(in)
	if in.Product != "" {
		_, err := s.Products.Get(ctx, in.Product)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			errs.Add("product", "Product must reference an existing product.")
		case err != nil:
			return draft, nil, err
		}
	}
	if len(errs) == 0 {
		return draft, nil, nil
	}
	f, err := s.form(ctx, boundTo, in)
	if err != nil {
		return draft, nil, err
	}
	f.Errors = errs
	return draft, &f, nil
}

func (s *InstanceService) Create(ctx context.Context, boundTo string, in validate.InstanceInput) (string, *InstanceForm, error) {
	draft, form, err := s.check(ctx, boundTo, in)
	if err != nil || form != nil {
		return "", form, err
	}
	created, err := s.Instances.Create(ctx, draft)
	if err != nil {
		return "", nil, err
	}
	return domain.ProductInstanceURL(created.ID), nil, nil
}

func (s *InstanceService) Update(ctx context.Context, id string, in validate.InstanceInput) (string, *InstanceForm, error) {
	if _, err := s.Instances.Get(ctx, id); err != nil {
		return "", nil, err
	}
	draft, form, err := s.check(ctx, "", in)
	if err != nil {
		return "", nil, err
	}
	if form != nil {
		form.ID = id
		return "", form, nil
	}
	if _, err := s.Instances.Update(ctx, id, draft); err != nil {
		return "", nil, err
	}
	return domain.ProductInstanceURL(id), nil, nil
}

// DeleteView returns nil when the instance is already gone.
func (s *InstanceService) DeleteView(ctx context.Context, id string) (*InstanceDetail, error) {
	d, err := s.Detail(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Delete removes the instance and sends the user back to its product. Nothing depends on an
// instance, so the delete is never refused.
func (s *InstanceService) Delete(ctx context.Context, id string) (string, error) {
	pi, err := s.Instances.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return "/productinstances", nil
	}
	if err != nil {
		return "", err
	}
	if err := s.Instances.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}
	return domain.ProductURL(pi.ProductID), nil
}
