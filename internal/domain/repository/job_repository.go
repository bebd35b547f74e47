package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/jobboard-api/internal/domain/entity"
)

// JobFilter narrows a job listing. Zero fields are ignored.
type JobFilter struct {
	WorkingTime     entity.WorkingTime
	JobLocation     entity.JobLocation
	SeniorityLevel  entity.SeniorityLevel
	JobTitle        string   // case-insensitive substring
	TechnicalSkills []string // job must list all of them
	CompanyIDs      []primitive.ObjectID
}

// JobOwnership selects jobs added by a user or belonging to any of the companies.
type JobOwnership struct {
	AddedBy    primitive.ObjectID
	CompanyIDs []primitive.ObjectID
}

type JobRepository interface {
	Create(ctx context.Context, j *entity.Job) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Job, error)
	List(ctx context.Context, f JobFilter) ([]entity.Job, error)
	ListIDsByOwnership(ctx context.Context, o JobOwnership) ([]primitive.ObjectID, error)
	Update(ctx context.Context, j *entity.Job) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByOwnership(ctx context.Context, o JobOwnership) (int64, error)
}
