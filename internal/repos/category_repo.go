package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"kustomkeys/internal/domain"
)

// named is the shape shared by brands and categories.
type named interface {
	domain.Brand | domain.Category
}

type label struct {
	ID   string
	Name string
}

// NamedRepo stores id/name records in one table. Name uniqueness is not enforced here.
type NamedRepo[T named] struct {
	db    *sqlx.DB
	table string
}

func NewBrandRepo(db *sqlx.DB) *NamedRepo[domain.Brand] {
	return &NamedRepo[domain.Brand]{db: db, table: "brands"}
}

func NewCategoryRepo(db *sqlx.DB) *NamedRepo[domain.Category] {
	return &NamedRepo[domain.Category]{db: db, table: "categories"}
}

func (r *NamedRepo[T]) List(ctx context.Context) ([]T, error) {
	out := []T{}
	err := r.db.SelectContext(ctx, &out, `SELECT id, name FROM `+r.table+` ORDER BY name`)
	return out, err
}

func (r *NamedRepo[T]) Get(ctx context.Context, id string) (T, error) {
	var v T
	err := r.db.GetContext(ctx, &v, `SELECT id, name FROM `+r.table+` WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return v, domain.ErrNotFound
	}
	return v, err
}

func (r *NamedRepo[T]) FindByName(ctx context.Context, name string) ([]T, error) {
	out := []T{}
	err := r.db.SelectContext(ctx, &out, `
  SELECT id, name FROM `+r.table+`
  WHERE name = ?
  ORDER BY created_at, rowid
`, name)
	return out, err
}

func (r *NamedRepo[T]) Create(ctx context.Context, draft T) (T, error) {
	l := label(draft)
	l.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx, `INSERT INTO `+r.table+`(id, name) VALUES(?, ?)`, l.ID, l.Name)
	if err != nil {
		var zero T
		return zero, err
	}
	return T(l), nil
}

func (r *NamedRepo[T]) Update(ctx context.Context, id string, draft T) (T, error) {
	l := label(draft)
	l.ID = id
	res, err := r.db.ExecContext(ctx, `
  UPDATE `+r.table+` SET name = ?, updated_at = CURRENT_TIMESTAMP
  WHERE id = ?
`, l.Name, id)
	if err := affected(res, err); err != nil {
		var zero T
		return zero, err
	}
	return T(l), nil
}

func (r *NamedRepo[T]) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM `+r.table+` WHERE id = ?`, id)
	return affected(res, err)
}

// affected turns "no row touched" into ErrNotFound.
func affected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
