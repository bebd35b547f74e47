package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Company struct {
	ID                primitive.ObjectID `bson:"_id" json:"_id"`
	CompanyName       string             `bson:"companyName" json:"companyName"`
	Description       string             `bson:"description" json:"description"`
	Industry          string             `bson:"industry" json:"industry"`
	Address           string             `bson:"address" json:"address"`
	NumberOfEmployees string             `bson:"numberOfEmployees" json:"numberOfEmployees"` // e.g. "11-20"
	CompanyEmail      string             `bson:"companyEmail" json:"companyEmail"`
	CompanyHR         primitive.ObjectID `bson:"companyHR" json:"companyHR"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (c *Company) OwnedBy(userID primitive.ObjectID) bool { return c.CompanyHR == userID }

// CompanyWithJobs is the read model for a company page.
type CompanyWithJobs struct {
	Company
	Jobs []Job `json:"jobs"`
}
