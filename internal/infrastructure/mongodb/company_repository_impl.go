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

type CompanyRepository struct {
	coll *mongo.Collection
}

func NewCompanyRepository(db *mongo.Database) *CompanyRepository {
	return &CompanyRepository{coll: db.Collection(CompaniesCollection)}
}

func (r *CompanyRepository) Create(ctx context.Context, c *entity.Company) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, c)
	return translate(err)
}

func (r *CompanyRepository) findOne(ctx context.Context, filter bson.M) (*entity.Company, error) {
	c := &entity.Company{}
	if err := r.coll.FindOne(ctx, filter).Decode(c); err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func (r *CompanyRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]entity.Company, error) {
	cur, err := r.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var out []entity.Company
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CompanyRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Company, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *CompanyRepository) GetByName(ctx context.Context, name string) (*entity.Company, error) {
	return r.findOne(ctx, bson.M{"companyName": name})
}

func (r *CompanyRepository) GetByEmail(ctx context.Context, email string) (*entity.Company, error) {
	return r.findOne(ctx, bson.M{"companyEmail": email})
}

func (r *CompanyRepository) SearchByName(ctx context.Context, name string) ([]entity.Company, error) {
	re := primitive.Regex{Pattern: regexp.QuoteMeta(name), Options: "i"}
	return r.find(ctx, bson.M{"companyName": re}, options.Find().SetSort(bson.D{{Key: "companyName", Value: 1}}))
}

func (r *CompanyRepository) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]entity.Company, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *CompanyRepository) ListIDsByHR(ctx context.Context, hrID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return distinctIDs(ctx, r.coll, bson.M{"companyHR": hrID})
}

func (r *CompanyRepository) Update(ctx context.Context, c *entity.Company) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CompanyRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CompanyRepository) DeleteByHR(ctx context.Context, hrID primitive.ObjectID) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"companyHR": hrID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// distinctIDs returns the _id of every document matching filter.
func distinctIDs(ctx context.Context, coll *mongo.Collection, filter bson.M) ([]primitive.ObjectID, error) {
	cur, err := coll.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

var _ repository.CompanyRepository = (*CompanyRepository)(nil)
