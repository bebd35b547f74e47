package mongodb

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/jobboard-api/internal/domain/entity"
	"github.com/oksasatya/jobboard-api/internal/domain/repository"
)

type JobRepository struct {
	coll *mongo.Collection
}

func NewJobRepository(db *mongo.Database) *JobRepository {
	return &JobRepository{coll: db.Collection(JobsCollection)}
}

func (r *JobRepository) Create(ctx context.Context, j *entity.Job) error {
	if j.ID.IsZero() {
		j.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, j)
	return translate(err)
}

func (r *JobRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Job, error) {
	j := &entity.Job{}
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(j); err != nil {
		return nil, translate(err)
	}
	return j, nil
}

func (r *JobRepository) List(ctx context.Context, f repository.JobFilter) ([]entity.Job, error) {
	cur, err := r.coll.Find(ctx, filterQuery(f), options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var out []entity.Job
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func filterQuery(f repository.JobFilter) bson.M {
	q := bson.M{}
	if f.WorkingTime != "" {
		q["workingTime"] = f.WorkingTime
	}
	if f.JobLocation != "" {
		q["jobLocation"] = f.JobLocation
	}
	if f.SeniorityLevel != "" {
		q["seniorityLevel"] = f.SeniorityLevel
	}
	if f.JobTitle != "" {
		q["jobTitle"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.JobTitle), Options: "i"}
	}
	if len(f.TechnicalSkills) > 0 {
		q["technicalSkills"] = bson.M{"$all": f.TechnicalSkills}
	}
	if len(f.CompanyIDs) > 0 {
		q["companyId"] = bson.M{"$in": f.CompanyIDs}
	}
	return q
}

// ownershipQuery returns nil when o selects nothing.
func ownershipQuery(o repository.JobOwnership) bson.M {
	var or bson.A
	if !o.AddedBy.IsZero() {
		or = append(or, bson.M{"addedBy": o.AddedBy})
	}
	if len(o.CompanyIDs) > 0 {
		or = append(or, bson.M{"companyId": bson.M{"$in": o.CompanyIDs}})
	}
	if len(or) == 0 {
		return nil
	}
	return bson.M{"$or": or}
}

func (r *JobRepository) ListIDsByOwnership(ctx context.Context, o repository.JobOwnership) ([]primitive.ObjectID, error) {
	q := ownershipQuery(o)
	if q == nil {
		return nil, nil
	}
	return distinctIDs(ctx, r.coll, q)
}

func (r *JobRepository) Update(ctx context.Context, j *entity.Job) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": j.ID}, j)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *JobRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *JobRepository) DeleteByOwnership(ctx context.Context, o repository.JobOwnership) (int64, error) {
	q := ownershipQuery(o)
	if q == nil {
		return 0, nil
	}
	res, err := r.coll.DeleteMany(ctx, q)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

var _ repository.JobRepository = (*JobRepository)(nil)
