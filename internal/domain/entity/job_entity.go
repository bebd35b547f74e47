package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type JobLocation string

const (
	JobLocationOnsite   JobLocation = "onsite"
	JobLocationRemotely JobLocation = "remotely"
	JobLocationHybrid   JobLocation = "hybrid"
)

type WorkingTime string

const (
	WorkingTimePartTime WorkingTime = "part-time"
	WorkingTimeFullTime WorkingTime = "full-time"
)

type SeniorityLevel string

const (
	SeniorityJunior   SeniorityLevel = "Junior"
	SeniorityMidLevel SeniorityLevel = "Mid-Level"
	SenioritySenior   SeniorityLevel = "Senior"
	SeniorityTeamLead SeniorityLevel = "Team-Lead"
	SeniorityCTO      SeniorityLevel = "CTO"
)

type Job struct {
	ID              primitive.ObjectID `bson:"_id" json:"_id"`
	JobTitle        string             `bson:"jobTitle" json:"jobTitle"`
	JobLocation     JobLocation        `bson:"jobLocation" json:"jobLocation"`
	WorkingTime     WorkingTime        `bson:"workingTime" json:"workingTime"`
	SeniorityLevel  SeniorityLevel     `bson:"seniorityLevel" json:"seniorityLevel"`
	JobDescription  string             `bson:"jobDescription" json:"jobDescription"`
	TechnicalSkills []string           `bson:"technicalSkills" json:"technicalSkills"`
	SoftSkills      []string           `bson:"softSkills" json:"softSkills"`
	AddedBy         primitive.ObjectID `bson:"addedBy" json:"addedBy"`
	CompanyID       primitive.ObjectID `bson:"companyId" json:"companyId"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// JobWithCompany is the listing read model.
type JobWithCompany struct {
	Job
	Company *Company `json:"company,omitempty"`
}
