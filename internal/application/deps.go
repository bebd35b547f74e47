package application

import (
	"context"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/jobboard-api/internal/domain/entity"
	"github.com/oksasatya/jobboard-api/pkg/helpers"
)

// TokenIssuer is implemented by helpers.JWTManager.
type TokenIssuer interface {
	Issue(subject string, purpose helpers.TokenPurpose) (string, time.Time, error)
	Verify(token string, purpose helpers.TokenPurpose) (string, error)
}

// PasswordHasher is implemented by helpers.BcryptHasher.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

// NotificationQueue is implemented by helpers.RabbitQueue.
type NotificationQueue interface {
	PublishJSON(ctx context.Context, body any) error
}

// CompanyIndex keeps a search index of companies.
type CompanyIndex interface {
	Index(ctx context.Context, c *entity.Company) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Search(ctx context.Context, name string, size int) ([]primitive.ObjectID, error)
}

// ResumeStore persists uploaded resumes and returns their URL.
type ResumeStore interface {
	Upload(ctx context.Context, userID primitive.ObjectID, filename, contentType string, r io.Reader) (string, error)
}

// AttemptCounter counts hits per key inside a fixed window. Implemented by helpers.RedisAttempts.
type AttemptCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}

// Links feeds the email templates.
type Links struct {
	AppName             string
	ConfirmEmailBaseURL string
	SupportURL          string
}

func parseID(op, raw, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, newError(op, ErrValidation, "invalid "+what+" id")
	}
	return id, nil
}
