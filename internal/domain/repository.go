package domain

import "context"

type Sort int

const (
	SortByName Sort = iota
	SortByPriceDesc
	SortNewest
)

type ProductFilter struct {
	BrandID    string
	CategoryID string
	Sort       Sort
	Limit      int
}

type InstanceFilter struct {
	ProductID string
	Sort      Sort
}

// Repositories return ErrNotFound for unknown ids and pass storage errors through unchanged.
// Update is a full replace of the stored record.

type BrandRepository interface {
	List(ctx context.Context) ([]Brand, error)
	Get(ctx context.Context, id string) (Brand, error)
	FindByName(ctx context.Context, name string) ([]Brand, error)
	Create(ctx context.Context, draft Brand) (Brand, error)
	Update(ctx context.Context, id string, draft Brand) (Brand, error)
	Delete(ctx context.Context, id string) error
}

type CategoryRepository interface {
	List(ctx context.Context) ([]Category, error)
	Get(ctx context.Context, id string) (Category, error)
	FindByName(ctx context.Context, name string) ([]Category, error)
	Create(ctx context.Context, draft Category) (Category, error)
	Update(ctx context.Context, id string, draft Category) (Category, error)
	Delete(ctx context.Context, id string) error
}

type ProductRepository interface {
	Find(ctx context.Context, f ProductFilter) ([]Product, error)
	Get(ctx context.Context, id string) (Product, error)
	Create(ctx context.Context, draft Product) (Product, error)
	Update(ctx context.Context, id string, draft Product) (Product, error)
	Delete(ctx context.Context, id string) error
}

type InstanceRepository interface {
	Find(ctx context.Context, f InstanceFilter) ([]ProductInstance, error)
	Get(ctx context.Context, id string) (ProductInstance, error)
	Create(ctx context.Context, draft ProductInstance) (ProductInstance, error)
	Update(ctx context.Context, id string, draft ProductInstance) (ProductInstance, error)
	Delete(ctx context.Context, id string) error
}

// Stores bundles one backend's repositories.
type Stores struct {
	Brands     BrandRepository
	Categories CategoryRepository
	Products   ProductRepository
	Instances  InstanceRepository
}
