package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/jobboard-api/internal/domain/entity"
)

// LoginLookup matches a user by any of the non-empty identifiers (logical OR).
type LoginLookup struct {
	Email         string
	MobileNumber  string
	RecoveryEmail string
}

func (l LoginLookup) Empty() bool {
	return l.Email == "" && l.MobileNumber == "" && l.RecoveryEmail == ""
}

// ProfileUpdate lists the profile fields to set. Nil fields are left unchanged.
type ProfileUpdate struct {
	FirstName     *string
	LastName      *string
	Username      *string
	Email         *string
	MobileNumber  *string
	RecoveryEmail *string
	DOB           *time.Time
	// Unconfirm clears isConfirmed and signs the user out.
	Unconfirm bool
}

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByMobile(ctx context.Context, mobile string) (*entity.User, error)
	// FindForLogin returns every user matching q. Email and mobile number are
	// unique but a recovery email can be shared by several accounts.
	FindForLogin(ctx context.Context, q LoginLookup) ([]entity.User, error)
	ListByRecoveryEmail(ctx context.Context, recoveryEmail string) ([]entity.User, error)
	// UpdateProfile sets only the fields present in p and returns the stored user.
	UpdateProfile(ctx context.Context, id primitive.ObjectID, p ProfileUpdate) (*entity.User, error)
	SetOTP(ctx context.Context, id primitive.ObjectID, code string, expiry time.Time) error
	// SetPassword stores a new hash and signs the user out.
	SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error
	// ResetPassword is SetPassword for a user still holding otp, which it clears.
	// ErrNotFound means the code is no longer stored.
	ResetPassword(ctx context.Context, id primitive.ObjectID, otp, hash string) error
	// ConfirmEmail flips isConfirmed only for a currently unconfirmed user.
	ConfirmEmail(ctx context.Context, id primitive.ObjectID) (*entity.User, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status entity.Status) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
