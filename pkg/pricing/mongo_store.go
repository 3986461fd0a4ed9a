package pricing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CollectionName is the MongoDB collection holding locally stored pricings.
const CollectionName = "pricings"

type mongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore returns a DocumentStore backed by the pricings collection of db.
func NewMongoStore(db *mongo.Database) DocumentStore {
	return &mongoStore{coll: db.Collection(CollectionName)}
}

func (s *mongoStore) Get(ctx context.Context, id string) (*Document, error) {
	var doc Document
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPricingNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (s *mongoStore) Save(ctx context.Context, doc *Document) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

func (s *mongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrPricingNotFound
	}
	return nil
}
