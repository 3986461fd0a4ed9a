package mongo

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/pricingkit/pkg/catalog"
	"github.com/dmitrymomot/pricingkit/pkg/contract"
)

// Indexes maps collection names to the indexes their stores rely on.
type Indexes map[string][]mongo.IndexModel

// DefaultIndexes returns the indexes of the catalog and contract collections.
func DefaultIndexes() Indexes {
	return Indexes{
		catalog.CollectionName:  catalog.Indexes(),
		contract.CollectionName: contract.Indexes(),
	}
}

// EnsureIndexes creates every index in idx. Existing identical indexes are
// left untouched by the server.
func EnsureIndexes(ctx context.Context, db *mongo.Database, idx Indexes) error {
	for _, coll := range slices.Sorted(maps.Keys(idx)) {
		models := idx[coll]
		if len(models) == 0 {
			continue
		}
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return errors.Join(ErrEnsureIndexes, fmt.Errorf("%s: %w", coll, err))
		}
	}
	return nil
}
