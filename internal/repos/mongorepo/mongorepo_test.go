package mongorepo

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"kustomkeys/internal/domain"
)

func TestProductDocKeepsExactPriceAndOptionalCategory(t *testing.T) {
	brand := primitive.NewObjectID()
	p := domain.Product{
		BrandID: brand.Hex(),
		Price:   decimal.RequireFromString("175.00088"),
		Name:    "Paeron M1 Barebones",
		Details: "65% kit",
	}

	d, err := toProductDoc(p)
	require.NoError(t, err)
	assert.Nil(t, d.Category)
	assert.Equal(t, "175.00088", d.Price.String())

	back, err := fromProductDoc(d)
	require.NoError(t, err)
	assert.Equal(t, brand.Hex(), back.BrandID)
	assert.Equal(t, "", back.CategoryID)
	assert.True(t, back.Price.Equal(p.Price))
}

func TestProductDocRejectsForeignBrandID(t *testing.T) {
	_, err := toProductDoc(domain.Product{BrandID: "not-an-object-id", Price: decimal.NewFromInt(1)})
	require.Error(t, err)
}

func TestInstanceDocDefaultsCondition(t *testing.T) {
	d, err := toInstanceDoc(domain.ProductInstance{
		ProductID: primitive.NewObjectID().Hex(),
		Model:     "A1",
		Price:     decimal.RequireFromString("19.99"),
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.ConditionNew), d.Condition)
}

func TestMalformedIDsAreNotFound(t *testing.T) {
	_, err := objectID("123")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	filter, ok := productFilter(domain.ProductFilter{BrandID: "zzz"})
	assert.False(t, ok)
	assert.Nil(t, filter)

	// malformed ids short-circuit before any collection access
	r := &ProductRepo{}
	_, err = r.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, r.Delete(context.Background(), "nope"), domain.ErrNotFound)
}

func TestProductFindQuery(t *testing.T) {
	brand, category := primitive.NewObjectID(), primitive.NewObjectID()
	byName := bson.D{{Key: "name", Value: 1}}
	byPrice := bson.D{{Key: "price", Value: -1}, {Key: "name", Value: 1}}
	newest := bson.D{{Key: "_id", Value: -1}}

	tests := []struct {
		name   string
		filter domain.ProductFilter
		want   bson.M
		ok     bool
		sort   bson.D
		limit  *int64
	}{
		{"all", domain.ProductFilter{}, bson.M{}, true, byName, nil},
		{"brand", domain.ProductFilter{BrandID: brand.Hex(), Sort: domain.SortByPriceDesc}, bson.M{"brand": brand}, true, byPrice, nil},
		{"category", domain.ProductFilter{CategoryID: category.Hex()}, bson.M{"category": category}, true, byName, nil},
		{"brand and category", domain.ProductFilter{BrandID: brand.Hex(), CategoryID: category.Hex(), Sort: domain.SortNewest},
			bson.M{"brand": brand, "category": category}, true, newest, nil},
		{"newest with limit", domain.ProductFilter{Sort: domain.SortNewest, Limit: 5}, bson.M{}, true, newest, ptr(int64(5))},
		{"bad brand", domain.ProductFilter{BrandID: "not-hex"}, nil, false, byName, nil},
		{"bad category", domain.ProductFilter{BrandID: brand.Hex(), CategoryID: "zz"}, nil, false, byName, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := productFilter(tt.filter)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)

			opts := productFindOptions(tt.filter)
			assert.Equal(t, tt.sort, opts.Sort)
			assert.Equal(t, tt.limit, opts.Limit)
		})
	}
}

func TestInstanceFindQuery(t *testing.T) {
	product := primitive.NewObjectID()
	tests := []struct {
		name   string
		filter domain.InstanceFilter
		want   bson.M
		ok     bool
		sort   bson.D
	}{
		{"all", domain.InstanceFilter{}, bson.M{}, true, bson.D{{Key: "model", Value: 1}}},
		{"product", domain.InstanceFilter{ProductID: product.Hex()}, bson.M{"product": product}, true, bson.D{{Key: "model", Value: 1}}},
		{"by price", domain.InstanceFilter{ProductID: product.Hex(), Sort: domain.SortByPriceDesc}, bson.M{"product": product}, true,
			bson.D{{Key: "price", Value: -1}, {Key: "model", Value: 1}}},
		{"newest", domain.InstanceFilter{Sort: domain.SortNewest}, bson.M{}, true, bson.D{{Key: "_id", Value: -1}}},
		{"bad product", domain.InstanceFilter{ProductID: "../x"}, nil, false, bson.D{{Key: "model", Value: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := instanceFilter(tt.filter)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.sort, instanceSort(tt.filter.Sort))
		})
	}
}

func TestLargestAcceptedPriceFitsDecimal128(t *testing.T) {
	price := decimal.RequireFromString("999999999.9999999999999999999999")
	d, err := toDecimal128(price)
	require.NoError(t, err)
	back, err := fromDecimal128(d)
	require.NoError(t, err)
	assert.True(t, price.Equal(back))
}

func ptr[T any](v T) *T { return &v }
