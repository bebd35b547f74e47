package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/jobboard-api/internal/domain/entity"
)

type ApplicationRepository interface {
	Create(ctx context.Context, a *entity.Application) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Application, error)
	ExistsForUser(ctx context.Context, jobID, userID primitive.ObjectID) (bool, error)
	ListByJob(ctx context.Context, jobID primitive.ObjectID) ([]entity.Application, error)
	// DeleteByUserOrJobs removes applications submitted by userID or addressed to any of jobIDs.
	// A zero userID matches no user.
	DeleteByUserOrJobs(ctx context.Context, userID primitive.ObjectID, jobIDs []primitive.ObjectID) (int64, error)
}
