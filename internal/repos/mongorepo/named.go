package mongorepo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"kustomkeys/internal/domain"
)

type named interface {
	domain.Brand | domain.Category
}

type label struct {
	ID   string
	Name string
}

type labelDoc struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Name string             `bson:"name"`
}

type NamedRepo[T named] struct{ coll *mongo.Collection }

func (r *NamedRepo[T]) find(ctx context.Context, filter bson.M) ([]T, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []labelDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		out = append(out, T(label{ID: d.ID.Hex(), Name: d.Name}))
	}
	return out, nil
}

func (r *NamedRepo[T]) List(ctx context.Context) ([]T, error) {
	return r.find(ctx, bson.M{})
}

func (r *NamedRepo[T]) FindByName(ctx context.Context, name string) ([]T, error) {
	return r.find(ctx, bson.M{"name": name})
}

func (r *NamedRepo[T]) Get(ctx context.Context, id string) (T, error) {
	var d labelDoc
	if err := findOne(ctx, r.coll, id, &d); err != nil {
		var zero T
		return zero, err
	}
	return T(label{ID: d.ID.Hex(), Name: d.Name}), nil
}

func (r *NamedRepo[T]) Create(ctx context.Context, draft T) (T, error) {
	l := label(draft)
	res, err := r.coll.InsertOne(ctx, labelDoc{Name: l.Name})
	if err != nil {
		var zero T
		return zero, err
	}
	l.ID = insertedID(res)
	return T(l), nil
}

func (r *NamedRepo[T]) Update(ctx context.Context, id string, draft T) (T, error) {
	l := label(draft)
	if err := replace(ctx, r.coll, id, labelDoc{Name: l.Name}); err != nil {
		var zero T
		return zero, err
	}
	l.ID = id
	return T(l), nil
}

func (r *NamedRepo[T]) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.coll, id)
}
