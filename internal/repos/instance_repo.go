package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"kustomkeys/internal/domain"
)

// InstanceRepo holds the sellable units of each product.
type InstanceRepo struct{ db *sqlx.DB }

func NewInstanceRepo(db *sqlx.DB) *InstanceRepo { return &InstanceRepo{db: db} }

const instanceCols = `
    id, product_id, model, condition, price, COALESCE(description,'') AS description`

func (r *InstanceRepo) Find(ctx context.Context, f domain.InstanceFilter) ([]domain.ProductInstance, error) {
	where := `1 = 1`
	args := []any{}
	if f.ProductID != "" {
		where += ` AND product_id = ?`
		args = append(args, f.ProductID)
	}
	order := `model`
	switch f.Sort {
	case domain.SortByPriceDesc:
		order = `CAST(price AS REAL) DESC, model`
	case domain.SortNewest:
		order = `created_at DESC, rowid DESC`
	}

	out := []domain.ProductInstance{}
	err := r.db.SelectContext(ctx, &out, `SELECT`+instanceCols+`
  FROM product_instances
  WHERE `+where+`
  ORDER BY `+order, args...)
	return out, err
}

func (r *InstanceRepo) Get(ctx context.Context, id string) (domain.ProductInstance, error) {
	var pi domain.ProductInstance
	err := r.db.GetContext(ctx, &pi, `SELECT`+instanceCols+` FROM product_instances WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return pi, domain.ErrNotFound
	}
	return pi, err
}

func (r *InstanceRepo) Create(ctx context.Context, pi domain.ProductInstance) (domain.ProductInstance, error) {
	pi.ID = uuid.NewString()
	if pi.Condition == "" {
		pi.Condition = domain.ConditionNew
	}
	_, err := r.db.ExecContext(ctx, `
  INSERT INTO product_instances(id, product_id, model, condition, price, description)
  VALUES(?, ?, ?, ?, ?, ?)
`, pi.ID, pi.ProductID, pi.Model, string(pi.Condition), pi.Price.String(), nullable(pi.Description))
	if err != nil {
		return domain.ProductInstance{}, err
	}
	return pi, nil
}

func (r *InstanceRepo) Update(ctx context.Context, id string, pi domain.ProductInstance) (domain.ProductInstance, error) {
	pi.ID = id
	if pi.Condition == "" {
		pi.Condition = domain.ConditionNew
	}
	res, err := r.db.ExecContext(ctx, `
  UPDATE product_instances
  SET product_id = ?, model = ?, condition = ?, price = ?, description = ?,
      updated_at = CURRENT_TIMESTAMP
  WHERE id = ?
`, pi.ProductID, pi.Model, string(pi.Condition), pi.Price.String(), nullable(pi.Description), id)
	if err := affected(res, err); err != nil {
		return domain.ProductInstance{}, err
	}
	return pi, nil
}

func (r *InstanceRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM product_instances WHERE id = ?`, id)
	return affected(res, err)
}
