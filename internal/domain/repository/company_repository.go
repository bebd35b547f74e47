package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/jobboard-api/internal/domain/entity"
)

type CompanyRepository interface {
	Create(ctx context.Context, c *entity.Company) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Company, error)
	GetByName(ctx context.Context, name string) (*entity.Company, error)
	GetByEmail(ctx context.Context, email string) (*entity.Company, error)
	// SearchByName is a case-insensitive substring match.
	SearchByName(ctx context.Context, name string) ([]entity.Company, error)
	ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]entity.Company, error)
	ListIDsByHR(ctx context.Context, hrID primitive.ObjectID) ([]primitive.ObjectID, error)
	Update(ctx context.Context, c *entity.Company) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByHR(ctx context.Context, hrID primitive.ObjectID) (int64, error)
}
