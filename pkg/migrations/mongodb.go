package migrations

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureEntityIndexes creates one compound index per restrictable field,
// (field, _id), so restricted lookups sorted by id stay index-only.
// collections maps collection name to its restrictable fields.
func EnsureEntityIndexes(ctx context.Context, db *mongo.Database, collections map[string][]string) error {
	names := make([]string, 0, len(collections))
	for name := range collections {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fields := collections[name]
		models := make([]mongo.IndexModel, 0, len(fields)+1)
		for _, field := range fields {
			models = append(models, mongo.IndexModel{
				Keys:    bson.D{{Key: field, Value: 1}, {Key: "_id", Value: 1}},
				Options: options.Index().SetName(IndexName(name, field)),
			})
		}
		models = append(models, mongo.IndexModel{
			Keys:    bson.D{{Key: "label", Value: 1}},
			Options: options.Index().SetName(IndexName(name, "label")),
		})

		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}

	return nil
}

func IndexName(collection, field string) string {
	return fmt.Sprintf("idx_%s_%s", collection, field)
}
