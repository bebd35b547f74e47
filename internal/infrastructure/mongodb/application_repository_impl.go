package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/jobboard-api/internal/domain/entity"
	"github.com/oksasatya/jobboard-api/internal/domain/repository"
)

type ApplicationRepository struct {
	coll *mongo.Collection
}

func NewApplicationRepository(db *mongo.Database) *ApplicationRepository {
	return &ApplicationRepository{coll: db.Collection(ApplicationsCollection)}
}

func (r *ApplicationRepository) Create(ctx context.Context, a *entity.Application) error {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, a)
	return translate(err)
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Application, error) {
	a := &entity.Application{}
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(a); err != nil {
		return nil, translate(err)
	}
	return a, nil
}

func (r *ApplicationRepository) ExistsForUser(ctx context.Context, jobID, userID primitive.ObjectID) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"jobId": jobID, "userId": userID}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID primitive.ObjectID) ([]entity.Application, error) {
	cur, err := r.coll.Find(ctx, bson.M{"jobId": jobID}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var out []entity.Application
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ApplicationRepository) DeleteByUserOrJobs(ctx context.Context, userID primitive.ObjectID, jobIDs []primitive.ObjectID) (int64, error) {
	var or bson.A
	if !userID.IsZero() {
		or = append(or, bson.M{"userId": userID})
	}
	if len(jobIDs) > 0 {
		or = append(or, bson.M{"jobId": bson.M{"$in": jobIDs}})
	}
	if len(or) == 0 {
		return 0, nil
	}
	res, err := r.coll.DeleteMany(ctx, bson.M{"$or": or})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

var _ repository.ApplicationRepository = (*ApplicationRepository)(nil)
