package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/jobboard-api/internal/domain/entity"
	"github.com/oksasatya/jobboard-api/internal/domain/repository"
)

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(UsersCollection)}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, u)
	return translate(err)
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	u := &entity.User{}
	if err := r.coll.FindOne(ctx, filter).Decode(u); err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) GetByMobile(ctx context.Context, mobile string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"mobileNumber": mobile})
}

func (r *UserRepository) FindForLogin(ctx context.Context, q repository.LoginLookup) ([]entity.User, error) {
	var or bson.A
	if q.Email != "" {
		or = append(or, bson.M{"email": q.Email})
	}
	if q.MobileNumber != "" {
		or = append(or, bson.M{"mobileNumber": q.MobileNumber})
	}
	if q.RecoveryEmail != "" {
		or = append(or, bson.M{"recoveryEmail": q.RecoveryEmail})
	}
	if len(or) == 0 {
		return nil, nil
	}
	return r.findMany(ctx, bson.M{"$or": or})
}

func (r *UserRepository) ListByRecoveryEmail(ctx context.Context, recoveryEmail string) ([]entity.User, error) {
	return r.findMany(ctx, bson.M{"recoveryEmail": recoveryEmail})
}

func (r *UserRepository) findMany(ctx context.Context, filter bson.M) ([]entity.User, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var out []entity.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, p repository.ProfileUpdate) (*entity.User, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	setIf := func(field string, v *string) {
		if v != nil {
			set[field] = *v
		}
	}
	setIf("firstName", p.FirstName)
	setIf("lastName", p.LastName)
	setIf("username", p.Username)
	setIf("email", p.Email)
	setIf("mobileNumber", p.MobileNumber)
	setIf("recoveryEmail", p.RecoveryEmail)
	if p.DOB != nil {
		set["DOB"] = *p.DOB
	}
	if p.Unconfirm {
		set["isConfirmed"] = false
		set["status"] = entity.StatusOffline
	}

	u := &entity.User{}
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(u)
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (r *UserRepository) SetOTP(ctx context.Context, id primitive.ObjectID, code string, expiry time.Time) error {
	return r.updateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"otp": code, "otpExpiry": expiry, "updatedAt": time.Now().UTC()}})
}

func (r *UserRepository) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	return r.updateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"password":  hash,
		"status":    entity.StatusOffline,
		"updatedAt": time.Now().UTC(),
	}})
}

// ResetPassword matches on the stored code so that it can be used once.
func (r *UserRepository) ResetPassword(ctx context.Context, id primitive.ObjectID, otp, hash string) error {
	return r.updateOne(ctx, bson.M{"_id": id, "otp": otp}, bson.M{
		"$set": bson.M{
			"password":  hash,
			"status":    entity.StatusOffline,
			"otp":       nil,
			"otpExpiry": nil,
			"updatedAt": time.Now().UTC(),
		},
	})
}

func (r *UserRepository) updateOne(ctx context.Context, filter, update bson.M) error {
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ConfirmEmail only matches unconfirmed users, so a second confirmation is ErrNotFound.
func (r *UserRepository) ConfirmEmail(ctx context.Context, id primitive.ObjectID) (*entity.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	u := &entity.User{}
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "isConfirmed": false},
		bson.M{"$set": bson.M{"isConfirmed": true, "updatedAt": time.Now().UTC()}},
		opts,
	).Decode(u)
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (r *UserRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status entity.Status) error {
	return r.updateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}})
}

func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
