package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gbianchi/implant-passport-api/internal/apperr"
	"github.com/gbianchi/implant-passport-api/internal/models"
)

const (
	identitiesCollection = "identities"
	passportsCollection  = "passports"
)

// EnsureIndexes creates the indexes the stores rely on: the unique email
// index backing duplicate detection and the list ordering/scoping indexes.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(identitiesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = db.Collection(passportsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "dentistId", Value: 1}}},
	})
	return err
}

// MongoIdentityStore implements IdentityStore on a Mongo collection.
type MongoIdentityStore struct {
	coll *mongo.Collection
}

func NewMongoIdentityStore(db *mongo.Database) *MongoIdentityStore {
	return &MongoIdentityStore{coll: db.Collection(identitiesCollection)}
}

func (s *MongoIdentityStore) FindByEmail(ctx context.Context, email string) (*models.Identity, error) {
	var ident models.Identity
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&ident)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ident, nil
}

func (s *MongoIdentityStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Identity, error) {
	var ident models.Identity
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&ident)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ident, nil
}

func (s *MongoIdentityStore) Save(ctx context.Context, ident *models.Identity) error {
	if ident.ID.IsZero() {
		ident.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, ident)
	if mongo.IsDuplicateKeyError(err) {
		return apperr.ErrDuplicateIdentity
	}
	return err
}

// MongoPassportStore implements PassportStore on a Mongo collection.
type MongoPassportStore struct {
	coll *mongo.Collection
}

func NewMongoPassportStore(db *mongo.Database) *MongoPassportStore {
	return &MongoPassportStore{coll: db.Collection(passportsCollection)}
}

func (f PassportFilter) query() bson.M {
	q := bson.M{}
	if !f.DentistID.IsZero() {
		q["dentistId"] = f.DentistID
	}
	return q
}

func (s *MongoPassportStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Passport, error) {
	var p models.Passport
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *MongoPassportStore) Find(ctx context.Context, filter PassportFilter, skip, limit int64) ([]models.Passport, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := s.coll.Find(ctx, filter.query(), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var passports []models.Passport
	if err := cursor.All(ctx, &passports); err != nil {
		return nil, err
	}
	if passports == nil {
		passports = make([]models.Passport, 0)
	}
	return passports, nil
}

func (s *MongoPassportStore) Count(ctx context.Context, filter PassportFilter) (int64, error) {
	return s.coll.CountDocuments(ctx, filter.query())
}

func (s *MongoPassportStore) Save(ctx context.Context, p *models.Passport) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
		_, err := s.coll.InsertOne(ctx, p)
		return err
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	return err
}

func (s *MongoPassportStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
