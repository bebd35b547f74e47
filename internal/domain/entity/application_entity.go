package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Application struct {
	ID             primitive.ObjectID `bson:"_id" json:"_id"`
	JobID          primitive.ObjectID `bson:"jobId" json:"jobId"`
	UserID         primitive.ObjectID `bson:"userId" json:"userId"`
	UserTechSkills []string           `bson:"userTechSkills" json:"userTechSkills"`
	UserSoftSkills []string           `bson:"userSoftSkills" json:"userSoftSkills"`
	UserResume     string             `bson:"userResume,omitempty" json:"userResume,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ApplicationWithApplicant pairs an application with the applicant's public profile.
type ApplicationWithApplicant struct {
	Application
	Applicant *PublicProfile `json:"applicant,omitempty"`
}
