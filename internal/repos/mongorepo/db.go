// Package mongorepo implements the catalog repositories on MongoDB. Collection and field names
// follow the existing catalog database (brands, categories, products, productinstances).
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

const (
	brandsColl    = "brands"
	categoryColl  = "categories"
	productsColl  = "products"
	instancesColl = "productinstances"
)

func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the lookup indexes. None of them are unique.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	idx := map[string][]string{
		brandsColl:    {"name"},
		categoryColl:  {"name"},
		productsColl:  {"brand", "category"},
		instancesColl: {"product"},
	}
	for coll, keys := range idx {
		models := make([]mongo.IndexModel, 0, len(keys))
		for _, k := range keys {
			models = append(models, mongo.IndexModel{Keys: bson.D{{Key: k, Value: 1}}})
		}
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("indexes %s: %w", coll, err)
		}
	}
	return nil
}

func NewStores(db *mongo.Database) domain.Stores {
	return domain.Stores{
		Brands:     &NamedRepo[domain.Brand]{coll: db.Collection(brandsColl)},
		Categories: &NamedRepo[domain.Category]{coll: db.Collection(categoryColl)},
		Products:   &ProductRepo{coll: db.Collection(productsColl)},
		Instances:  &InstanceRepo{coll: db.Collection(instancesColl)},
	}
}

// objectID parses a hex id. Ids that cannot exist in the store are reported as ErrNotFound.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrNotFound
	}
	return oid, nil
}

func byID(oid primitive.ObjectID) bson.M { return bson.M{"_id": oid} }

func findOne(ctx context.Context, coll *mongo.Collection, id string, out any) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	err = coll.FindOne(ctx, byID(oid)).Decode(out)
	if err == mongo.ErrNoDocuments {
		return domain.ErrNotFound
	}
	return err
}

func replace(ctx context.Context, coll *mongo.Collection, id string, doc any) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := coll.ReplaceOne(ctx, byID(oid), doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func deleteOne(ctx context.Context, coll *mongo.Collection, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := coll.DeleteOne(ctx, byID(oid))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func insertedID(res *mongo.InsertOneResult) string {
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(res.InsertedID)
}
