package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

type Brand struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

type Category struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

// Product.CategoryID and Product.Image are empty when unset.
type Product struct {
	ID         string          `db:"id"`
	BrandID    string          `db:"brand_id"`
	CategoryID string          `db:"category_id"`
	Price      decimal.Decimal `db:"price"`
	Name       string          `db:"name"`
	Details    string          `db:"details"`
	Image      string          `db:"image_key"`
}

type ProductInstance struct {
	ID          string          `db:"id"`
	ProductID   string          `db:"product_id"`
	Model       string          `db:"model"`
	Condition   Condition       `db:"condition"`
	Price       decimal.Decimal `db:"price"`
	Description string          `db:"description"`
}

type Condition string

const (
	ConditionNew        Condition = "New"
	ConditionLikeNew    Condition = "Used - Like New"
	ConditionSomeDamage Condition = "Used - Some Damage"
	ConditionPoor       Condition = "Used - Poor Condition"
)

var Conditions = []Condition{ConditionNew, ConditionLikeNew, ConditionSomeDamage, ConditionPoor}

func (c Condition) Valid() bool {
	for _, x := range Conditions {
		if c == x {
			return true
		}
	}
	return false
}
