package catalog

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/pricingkit/pkg/versionkey"
)

// CollectionName is the MongoDB collection holding catalog services.
const CollectionName = "services"

type mongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore returns a Store backed by the services collection of db.
// Pricing map keys are stored escaped with versionkey.
func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{coll: db.Collection(CollectionName)}
}

// Indexes returns the indexes the services collection relies on.
func Indexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "foldedName", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
}

func (s *mongoStore) Get(ctx context.Context, name string) (*Service, error) {
	var svc Service
	if err := s.coll.FindOne(ctx, bson.M{"foldedName": FoldName(name)}).Decode(&svc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return decode(&svc), nil
}

func (s *mongoStore) Search(ctx context.Context, query string, includeDisabled bool) ([]*Service, error) {
	filter := bson.M{"foldedName": bson.M{"$regex": regexp.QuoteMeta(FoldName(query))}}
	if !includeDisabled {
		filter["disabled"] = bson.M{"$ne": true}
	}

	cur, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "foldedName", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var stored []*Service
	if err := cur.All(ctx, &stored); err != nil {
		return nil, err
	}
	for _, svc := range stored {
		decode(svc)
	}
	return stored, nil
}

func (s *mongoStore) Create(ctx context.Context, svc *Service) error {
	prepare(svc)
	if _, err := s.coll.InsertOne(ctx, encode(svc)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrServiceExists
		}
		return err
	}
	return nil
}

func (s *mongoStore) Update(ctx context.Context, svc *Service) error {
	prepare(svc)
	res, err := s.coll.ReplaceOne(ctx, bson.M{"foldedName": svc.FoldedName}, encode(svc))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrServiceNotFound
	}
	return nil
}

func (s *mongoStore) Delete(ctx context.Context, name string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"foldedName": FoldName(name)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrServiceNotFound
	}
	return nil
}

func encode(svc *Service) *Service {
	out := svc.Clone()
	out.ActivePricings = versionkey.EscapeKeys(out.ActivePricings)
	out.ArchivedPricings = versionkey.EscapeKeys(out.ArchivedPricings)
	return out
}

func decode(svc *Service) *Service {
	svc.ActivePricings = versionkey.UnescapeKeys(svc.ActivePricings)
	svc.ArchivedPricings = versionkey.UnescapeKeys(svc.ArchivedPricings)
	return svc
}
