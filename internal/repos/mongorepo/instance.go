package mongorepo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"kustomkeys/internal/domain"
)

type instanceDoc struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Product     primitive.ObjectID   `bson:"product"`
	Model       string               `bson:"model"`
	Condition   string               `bson:"condition"`
	Price       primitive.Decimal128 `bson:"price"`
	Description string               `bson:"description,omitempty"`
}

func toInstanceDoc(pi domain.ProductInstance) (instanceDoc, error) {
	prod, err := primitive.ObjectIDFromHex(pi.ProductID)
	if err != nil {
		return instanceDoc{}, fmt.Errorf("product id %q: %w", pi.ProductID, err)
	}
	price, err := toDecimal128(pi.Price)
	if err != nil {
		return instanceDoc{}, err
	}
	cond := pi.Condition
	if cond == "" {
		cond = domain.ConditionNew
	}
	return instanceDoc{
		Product: prod, Model: pi.Model, Condition: string(cond),
		Price: price, Description: pi.Description,
	}, nil
}

func fromInstanceDoc(d instanceDoc) (domain.ProductInstance, error) {
	price, err := fromDecimal128(d.Price)
	if err != nil {
		return domain.ProductInstance{}, err
	}
	return domain.ProductInstance{
		ID: d.ID.Hex(), ProductID: d.Product.Hex(), Model: d.Model,
		Condition: domain.Condition(d.Condition), Price: price, Description: d.Description,
	}, nil
}

type InstanceRepo struct{ coll *mongo.Collection }

// instanceFilter returns ok=false when f.ProductID cannot match any document.
func instanceFilter(f domain.InstanceFilter) (bson.M, bool) {
	filter := bson.M{}
	if f.ProductID != "" {
		oid, err := primitive.ObjectIDFromHex(f.ProductID)
		if err != nil {
			return nil, false
		}
		filter["product"] = oid
	}
	return filter, true
}

func instanceSort(s domain.Sort) bson.D {
	switch s {
	case domain.SortByPriceDesc:
		return bson.D{{Key: "price", Value: -1}, {Key: "model", Value: 1}}
	case domain.SortNewest:
		return bson.D{{Key: "_id", Value: -1}}
	default:
		return bson.D{{Key: "model", Value: 1}}
	}
}

func (r *InstanceRepo) Find(ctx context.Context, f domain.InstanceFilter) ([]domain.ProductInstance, error) {
	filter, ok := instanceFilter(f)
	if !ok {
		return []domain.ProductInstance{}, nil
	}
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(instanceSort(f.Sort)))
	if err != nil {
		return nil, err
	}
	var docs []instanceDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.ProductInstance, 0, len(docs))
	for _, d := range docs {
		pi, err := fromInstanceDoc(d)
		if err != nil {
			return nil, err
		}
		out = append(out, pi)
	}
	return out, nil
}

func (r *InstanceRepo) Get(ctx context.Context, id string) (domain.ProductInstance, error) {
	var d instanceDoc
	if err := findOne(ctx, r.coll, id, &d); err != nil {
		return domain.ProductInstance{}, err
	}
	return fromInstanceDoc(d)
}

func (r *InstanceRepo) Create(ctx context.Context, pi domain.ProductInstance) (domain.ProductInstance, error) {
	d, err := toInstanceDoc(pi)
	if err != nil {
		return domain.ProductInstance{}, err
	}
	res, err := r.coll.InsertOne(ctx, d)
	if err != nil {
		return domain.ProductInstance{}, err
	}
	pi.ID = insertedID(res)
	pi.Condition = domain.Condition(d.Condition)
	return pi, nil
}

func (r *InstanceRepo) Update(ctx context.Context, id string, pi domain.ProductInstance) (domain.ProductInstance, error) {
	d, err := toInstanceDoc(pi)
	if err != nil {
		return domain.ProductInstance{}, err
	}
	if err := replace(ctx, r.coll, id, d); err != nil {
		return domain.ProductInstance{}, err
	}
	pi.ID = id
	pi.Condition = domain.Condition(d.Condition)
	return pi, nil
}

func (r *InstanceRepo) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.coll, id)
}
