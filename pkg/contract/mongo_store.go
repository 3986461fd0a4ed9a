package contract

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/pricingkit/pkg/versionkey"
)

// CollectionName is the MongoDB collection holding contracts.
const CollectionName = "contracts"

type mongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore returns a Store backed by the contracts collection of db.
// Pricing versions are stored escaped with versionkey.
func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{coll: db.Collection(CollectionName)}
}

// Indexes returns the indexes the contracts collection relies on.
func Indexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userContact.userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "disabled", Value: 1}},
		},
	}
}

func (s *mongoStore) Get(ctx context.Context, id string) (*Contract, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *mongoStore) GetByUser(ctx context.Context, userID string) (*Contract, error) {
	return s.findOne(ctx, bson.M{"userContact.userId": userID})
}

func (s *mongoStore) findOne(ctx context.Context, filter bson.M) (*Contract, error) {
	var c Contract
	if err := s.coll.FindOne(ctx, filter).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrContractNotFound
		}
		return nil, err
	}
	return decode(&c), nil
}

func (s *mongoStore) FindByService(ctx context.Context, service string) ([]*Contract, error) {
	return s.find(ctx, serviceFilter(service))
}

func (s *mongoStore) FindByServiceVersion(ctx context.Context, service, version string) ([]*Contract, error) {
	return s.find(ctx, serviceVersionFilter(service, version))
}

func serviceFilter(service string) bson.M {
	return bson.M{
		"contractedServices." + ServiceKey(service): bson.M{"$exists": true},
		"disabled": bson.M{"$ne": true},
	}
}

func serviceVersionFilter(service, version string) bson.M {
	return bson.M{
		"contractedServices." + ServiceKey(service): versionkey.Escape(version),
		"disabled": bson.M{"$ne": true},
	}
}

func (s *mongoStore) find(ctx context.Context, filter bson.M) ([]*Contract, error) {
	cur, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var stored []*Contract
	if err := cur.All(ctx, &stored); err != nil {
		return nil, err
	}

	out := make([]*Contract, 0, len(stored))
	for _, c := range stored {
		out = append(out, decode(c))
	}
	return out, nil
}

func (s *mongoStore) Create(ctx context.Context, c *Contract) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, err := s.coll.InsertOne(ctx, encode(c)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrContractExists
		}
		return err
	}
	return nil
}

func (s *mongoStore) Update(ctx context.Context, c *Contract) error {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": c.ID}, encode(c))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrContractNotFound
	}
	return nil
}

func (s *mongoStore) BulkUpdate(ctx context.Context, contracts []*Contract, disable bool) error {
	if len(contracts) == 0 {
		return nil
	}

	res, err := s.coll.BulkWrite(ctx, replaceModels(contracts, disable), options.BulkWrite().SetOrdered(false))
	if err != nil {
		return err
	}
	if res == nil || !res.Acknowledged {
		return nil
	}
	return checkMatched(res.MatchedCount, len(contracts))
}

func replaceModels(contracts []*Contract, disable bool) []mongo.WriteModel {
	models := make([]mongo.WriteModel, 0, len(contracts))
	for _, c := range contracts {
		doc := encode(c)
		if disable {
			doc.Disabled = true
		}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": c.ID}).
			SetReplacement(doc))
	}
	return models
}

// checkMatched reports replacements that matched no stored contract. The
// server does not treat them as errors.
func checkMatched(matched int64, want int) error {
	if missing := int64(want) - matched; missing > 0 {
		return fmt.Errorf("%w: %d of %d contracts were not written", ErrContractNotFound, missing, want)
	}
	return nil
}

// encode returns a copy ready for storage.
func encode(c *Contract) *Contract {
	out := c.Clone()
	out.ContractedServices = versionkey.EscapeValues(out.ContractedServices)
	for i := range out.History {
		out.History[i].ContractedServices = versionkey.EscapeValues(out.History[i].ContractedServices)
	}
	return out
}

// decode reverses encode in place.
func decode(c *Contract) *Contract {
	c.ContractedServices = versionkey.UnescapeValues(c.ContractedServices)
	for i := range c.History {
		c.History[i].ContractedServices = versionkey.UnescapeValues(c.History[i].ContractedServices)
	}
	return c
}
