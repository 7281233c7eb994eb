package options

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"

	"reportfilter/internal/constants"
)

// MongoProvider reads entities stored one document per entity, with the
// entity id in _id.
type MongoProvider struct {
	db      *mongo.Database
	catalog *Catalog
}

func NewMongoProvider(db *mongo.Database, catalog *Catalog) *MongoProvider {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &MongoProvider{db: db, catalog: catalog}
}

func (p *MongoProvider) Name() string {
	return constants.SourceTypeMongoDB
}

type entityDocument struct {
	ID    string `bson:"_id"`
	Label string `bson:"label"`
}

func (p *MongoProvider) Query(ctx context.Context, entityType string, q Query) (Sequence, error) {
	entity, err := p.catalog.resolve(entityType, q)
	if err != nil {
		return nil, err
	}

	filter := buildFilter(q)
	findOpts := mongooptions.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"_id": 1, "label": 1})
	if q.Limit > 0 {
		findOpts.SetLimit(int64(q.Limit))
	}

	seq := func(yield func(Option, error) bool) {
		cursor, err := p.db.Collection(entity.Table).Find(ctx, filter, findOpts)
		if err != nil {
			yield(Option{}, fmt.Errorf("find %s: %w", entity.Table, err))
			return
		}
		defer cursor.Close(context.WithoutCancel(ctx))

		for cursor.Next(ctx) {
			var doc entityDocument
			if err := cursor.Decode(&doc); err != nil {
				yield(Option{}, fmt.Errorf("decode %s: %w", entity.Table, err))
				return
			}
			if !yield(Option{Value: doc.ID, Label: doc.Label}, nil) {
				return
			}
		}

		if err := cursor.Err(); err != nil {
			yield(Option{}, fmt.Errorf("iterate %s: %w", entity.Table, err))
		}
	}

	return observe(seq, entityType, p.Name()), nil
}

func buildFilter(q Query) bson.M {
	filter := bson.M{}

	if q.Restriction != nil {
		for _, c := range q.Restriction.Conditions {
			filter[c.Field] = c.Equals
		}
	}

	if q.Search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(q.Search), "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"_id": pattern},
			bson.M{"label": pattern},
		}
	}

	return filter
}
