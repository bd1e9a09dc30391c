package mongorepo

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"kustomkeys/internal/domain"
)

type productDoc struct {
	ID       primitive.ObjectID   `bson:"_id,omitempty"`
	Brand    primitive.ObjectID   `bson:"brand"`
	Category *primitive.ObjectID  `bson:"category,omitempty"`
	Price    primitive.Decimal128 `bson:"price"`
	Name     string               `bson:"name"`
	Details  string               `bson:"details"`
	Image    string               `bson:"product_image,omitempty"`
}

func toProductDoc(p domain.Product) (productDoc, error) {
	brand, err := primitive.ObjectIDFromHex(p.BrandID)
	if err != nil {
		return productDoc{}, fmt.Errorf("brand id %q: %w", p.BrandID, err)
	}
	price, err := toDecimal128(p.Price)
	if err != nil {
		return productDoc{}, err
	}
	d := productDoc{Brand: brand, Price: price, Name: p.Name, Details: p.Details, Image: p.Image}
	if p.CategoryID != "" {
		cat, err := primitive.ObjectIDFromHex(p.CategoryID)
		if err != nil {
			return productDoc{}, fmt.Errorf("category id %q: %w", p.CategoryID, err)
		}
		d.Category = &cat
	}
	return d, nil
}

func fromProductDoc(d productDoc) (domain.Product, error) {
	price, err := fromDecimal128(d.Price)
	if err != nil {
		return domain.Product{}, err
	}
	p := domain.Product{
		ID: d.ID.Hex(), BrandID: d.Brand.Hex(), Price: price,
		Name: d.Name, Details: d.Details, Image: d.Image,
	}
	if d.Category != nil {
		p.CategoryID = d.Category.Hex()
	}
	return p, nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	out, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("price %s: %w", d, err)
	}
	return out, nil
}

func fromDecimal128(d primitive.Decimal128) (decimal.Decimal, error) {
	return decimal.NewFromString(d.String())
}

func sortFor(s domain.Sort) bson.D {
	switch s {
	case domain.SortByPriceDesc:
		return bson.D{{Key: "price", Value: -1}, {Key: "name", Value: 1}}
	case domain.SortNewest:
		return bson.D{{Key: "_id", Value: -1}}
	default:
		return bson.D{{Key: "name", Value: 1}}
	}
}

// productFilter returns ok=false when an id in f cannot match any document.
func productFilter(f domain.ProductFilter) (bson.M, bool) {
	filter := bson.M{}
	if f.BrandID != "" {
		oid, err := primitive.ObjectIDFromHex(f.BrandID)
		if err != nil {
			return nil, false
		}
		filter["brand"] = oid
	}
	if f.CategoryID != "" {
		oid, err := primitive.ObjectIDFromHex(f.CategoryID)
		if err != nil {
			return nil, false
		}
		filter["category"] = oid
	}
	return filter, true
}

func productFindOptions(f domain.ProductFilter) *options.FindOptions {
	opts := options.Find().SetSort(sortFor(f.Sort))
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	return opts
}

type ProductRepo struct{ coll *mongo.Collection }

func (r *ProductRepo) Find(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	filter, ok := productFilter(f)
	if !ok {
		return []domain.Product{}, nil
	}
	cur, err := r.coll.Find(ctx, filter, productFindOptions(f))
	if err != nil {
		return nil, err
	}
	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(docs))
	for _, d := range docs {
		p, err := fromProductDoc(d)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	var d productDoc
	if err := findOne(ctx, r.coll, id, &d); err != nil {
		return domain.Product{}, err
	}
	return fromProductDoc(d)
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	d, err := toProductDoc(p)
	if err != nil {
		return domain.Product{}, err
	}
	res, err := r.coll.InsertOne(ctx, d)
	if err != nil {
		return domain.Product{}, err
	}
	p.ID = insertedID(res)
	return p, nil
}

func (r *ProductRepo) Update(ctx context.Context, id string, p domain.Product) (domain.Product, error) {
	d, err := toProductDoc(p)
	if err != nil {
		return domain.Product{}, err
	}
	if err := replace(ctx, r.coll, id, d); err != nil {
		return domain.Product{}, err
	}
	p.ID = id
	return p, nil
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.coll, id)
}
