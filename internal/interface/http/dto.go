package handlers

import (
	"time"

	"github.com/oksasatya/jobboard-api/internal/application"
	"github.com/oksasatya/jobboard-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

type signUpRequest struct {
	FirstName     string `json:"firstName" binding:"required,personname"`
	LastName      string `json:"lastName" binding:"required,personname"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,strongpwd"`
	RecoveryEmail string `json:"recoveryEmail" binding:"required,email"`
	DOB           string `json:"DOB" binding:"omitempty,datetime=2006-01-02"`
	MobileNumber  string `json:"mobileNumber" binding:"required,mobile"`
	Role          string `json:"role" binding:"required,oneof=user company_HR"`
}

func (r signUpRequest) input() application.SignUpInput {
	return application.SignUpInput{
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Email:         r.Email,
		Password:      r.Password,
		RecoveryEmail: r.RecoveryEmail,
		DOB:           parseDate(r.DOB),
		MobileNumber:  r.MobileNumber,
		Role:          entity.Role(r.Role),
	}
}

type signInRequest struct {
	Email         string `json:"email" binding:"omitempty,email"`
	MobileNumber  string `json:"mobileNumber" binding:"omitempty,mobile"`
	RecoveryEmail string `json:"recoveryEmail" binding:"omitempty,email"`
	Password      string `json:"password" binding:"required"`
}

type updateAccountRequest struct {
	FirstName     string `json:"firstName" binding:"omitempty,personname"`
	LastName      string `json:"lastName" binding:"omitempty,personname"`
	Email         string `json:"email" binding:"omitempty,email"`
	MobileNumber  string `json:"mobileNumber" binding:"omitempty,mobile"`
	RecoveryEmail string `json:"recoveryEmail" binding:"omitempty,email"`
	DOB           string `json:"DOB" binding:"omitempty,datetime=2006-01-02"`
	// rejected by the service when present
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (r updateAccountRequest) input() application.UpdateAccountInput {
	in := application.UpdateAccountInput{
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Email:         r.Email,
		MobileNumber:  r.MobileNumber,
		RecoveryEmail: r.RecoveryEmail,
		Password:      r.Password,
		Role:          r.Role,
	}
	if r.DOB != "" {
		dob := parseDate(r.DOB)
		in.DOB = &dob
	}
	return in
}

type updatePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,strongpwd,nefield=OldPassword"`
}

type forgetPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" binding:"required,strongpwd"`
}

type createCompanyRequest struct {
	CompanyName       string `json:"companyName" binding:"required,min=2,max=100"`
	Description       string `json:"description" binding:"required"`
	Industry          string `json:"industry" binding:"required"`
	Address           string `json:"address" binding:"required"`
	NumberOfEmployees string `json:"numberOfEmployees" binding:"required,employees"`
	CompanyEmail      string `json:"companyEmail" binding:"required,email"`
}

type updateCompanyRequest struct {
	CompanyName       string `json:"companyName" binding:"omitempty,min=2,max=100"`
	Description       string `json:"description"`
	Industry          string `json:"industry"`
	Address           string `json:"address"`
	NumberOfEmployees string `json:"numberOfEmployees" binding:"omitempty,employees"`
	CompanyEmail      string `json:"companyEmail" binding:"omitempty,email"`
}

func companyInput(name, desc, industry, address, employees, email string) application.CompanyInput {
	return application.CompanyInput{
		CompanyName:       name,
		Description:       desc,
		Industry:          industry,
		Address:           address,
		NumberOfEmployees: employees,
		CompanyEmail:      email,
	}
}

type addJobRequest struct {
	JobTitle        string   `json:"jobTitle" binding:"required"`
	JobLocation     string   `json:"jobLocation" binding:"required,oneof=onsite remotely hybrid"`
	WorkingTime     string   `json:"workingTime" binding:"required,oneof=part-time full-time"`
	SeniorityLevel  string   `json:"seniorityLevel" binding:"required,oneof=Junior Mid-Level Senior Team-Lead CTO"`
	JobDescription  string   `json:"jobDescription" binding:"required"`
	TechnicalSkills []string `json:"technicalSkills" binding:"required,min=1,dive,required"`
	SoftSkills      []string `json:"softSkills" binding:"omitempty,dive,required"`
	CompanyID       string   `json:"companyId" binding:"required,objectid"`
}

type updateJobRequest struct {
	JobTitle        string   `json:"jobTitle"`
	JobLocation     string   `json:"jobLocation" binding:"omitempty,oneof=onsite remotely hybrid"`
	WorkingTime     string   `json:"workingTime" binding:"omitempty,oneof=part-time full-time"`
	SeniorityLevel  string   `json:"seniorityLevel" binding:"omitempty,oneof=Junior Mid-Level Senior Team-Lead CTO"`
	JobDescription  string   `json:"jobDescription"`
	TechnicalSkills []string `json:"technicalSkills" binding:"omitempty,dive,required"`
	SoftSkills      []string `json:"softSkills" binding:"omitempty,dive,required"`
	// rejected by the service when present
	CompanyID string `json:"companyId"`
}

func jobInput(title, location, workingTime, seniority, desc string, tech, soft []string, companyID string) application.JobInput {
	return application.JobInput{
		JobTitle:        title,
		JobLocation:     entity.JobLocation(location),
		WorkingTime:     entity.WorkingTime(workingTime),
		SeniorityLevel:  entity.SeniorityLevel(seniority),
		JobDescription:  desc,
		TechnicalSkills: tech,
		SoftSkills:      soft,
		CompanyID:       companyID,
	}
}

type filterJobsQuery struct {
	WorkingTime     string `form:"workingTime" binding:"omitempty,oneof=part-time full-time"`
	JobLocation     string `form:"jobLocation" binding:"omitempty,oneof=onsite remotely hybrid"`
	SeniorityLevel  string `form:"seniorityLevel" binding:"omitempty,oneof=Junior Mid-Level Senior Team-Lead CTO"`
	JobTitle        string `form:"jobTitle"`
	TechnicalSkills string `form:"technicalSkills"`
}

// applyJobRequest binds from JSON or from the multipart form that carries userResume.
type applyJobRequest struct {
	JobID          string   `json:"jobId" form:"jobId" binding:"required,objectid"`
	UserTechSkills []string `json:"userTechSkills" form:"userTechSkills" binding:"omitempty,dive,required"`
	UserSoftSkills []string `json:"userSoftSkills" form:"userSoftSkills" binding:"omitempty,dive,required"`
}

// parseDate is only called on values that passed the datetime binding.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(dateLayout, s)
	return t
}
