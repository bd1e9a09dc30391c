package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"kustomkeys/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
    id, brand_id, COALESCE(category_id,'') AS category_id, price, name, details,
    COALESCE(image_key,'') AS image_key`

func productOrder(s domain.Sort) string {
	switch s {
	case domain.SortByPriceDesc:
		return `CAST(price AS REAL) DESC, name`
	case domain.SortNewest:
		return `created_at DESC, rowid DESC`
	default:
		return `name`
	}
}

// Find lists products matching every non-empty field of f.
func (r *ProductRepo) Find(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	where := `1 = 1`
	args := []any{}
	if f.BrandID != "" {
		where += ` AND brand_id = ?`
		args = append(args, f.BrandID)
	}
	if f.CategoryID != "" {
		where += ` AND category_id = ?`
		args = append(args, f.CategoryID)
	}
	q := `SELECT` + productCols + `
  FROM products
  WHERE ` + where + `
  ORDER BY ` + productOrder(f.Sort)
	if f.Limit > 0 {
		q += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	out := []domain.Product{}
	err := r.db.SelectContext(ctx, &out, q, args...)
	return out, err
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.GetContext(ctx, &p, `SELECT`+productCols+` FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return p, domain.ErrNotFound
	}
	return p, err
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	p.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
  INSERT INTO products(id, brand_id, category_id, price, name, details, image_key)
  VALUES(?, ?, ?, ?, ?, ?, ?)
`, p.ID, p.BrandID, nullable(p.CategoryID), p.Price.String(), p.Name, p.Details, nullable(p.Image))
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (r *ProductRepo) Update(ctx context.Context, id string, p domain.Product) (domain.Product, error) {
	p.ID = id
	res, err := r.db.ExecContext(ctx, `
  UPDATE products
  SET brand_id = ?, category_id = ?, price = ?, name = ?, details = ?, image_key = ?,
      updated_at = CURRENT_TIMESTAMP
  WHERE id = ?
`, p.BrandID, nullable(p.CategoryID), p.Price.String(), p.Name, p.Details, nullable(p.Image), id)
	if err := affected(res, err); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	return affected(res, err)
}
