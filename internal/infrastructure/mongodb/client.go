package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/oksasatya/jobboard-api/internal/domain/repository"
)

const (
	UsersCollection        = "users"
	CompaniesCollection    = "companies"
	JobsCollection         = "jobs"
	ApplicationsCollection = "applications"
)

// NewClient connects to uri and pings the primary.
func NewClient(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	opts := options.Client().ApplyURI(uri).SetConnectTimeout(timeout).SetServerSelectionTimeout(timeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// EnsureIndexes creates the unique indexes the repositories rely on for
// conflict detection, plus lookup indexes for cascades.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := func(keys bson.D) mongo.IndexModel {
		return mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(true)}
	}
	plain := func(keys bson.D) mongo.IndexModel { return mongo.IndexModel{Keys: keys} }

	specs := map[string][]mongo.IndexModel{
		UsersCollection: {
			unique(bson.D{{Key: "email", Value: 1}}),
			unique(bson.D{{Key: "mobileNumber", Value: 1}}),
			plain(bson.D{{Key: "recoveryEmail", Value: 1}}),
		},
		CompaniesCollection: {
			unique(bson.D{{Key: "companyName", Value: 1}}),
			unique(bson.D{{Key: "companyEmail", Value: 1}}),
			plain(bson.D{{Key: "companyHR", Value: 1}}),
		},
		JobsCollection: {
			plain(bson.D{{Key: "addedBy", Value: 1}}),
			plain(bson.D{{Key: "companyId", Value: 1}}),
		},
		ApplicationsCollection: {
			unique(bson.D{{Key: "jobId", Value: 1}, {Key: "userId", Value: 1}}),
			plain(bson.D{{Key: "userId", Value: 1}}),
		},
	}
	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}

// translate maps driver errors onto repository errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return errors.Join(repository.ErrDuplicate, err)
	}
	return err
}
