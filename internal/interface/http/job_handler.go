package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/jobboard-api/internal/application"
	"github.com/oksasatya/jobboard-api/internal/domain/entity"
	"github.com/oksasatya/jobboard-api/internal/interface/middleware"
	"github.com/oksasatya/jobboard-api/pkg/response"
)

const resumeField = "userResume"

type JobHandler struct {
	Svc    *application.JobService
	Logger *logrus.Logger
}

func NewJobHandler(svc *application.JobService, logger *logrus.Logger) *JobHandler {
	return &JobHandler{Svc: svc, Logger: logger}
}

func (h *JobHandler) Add(c *gin.Context) {
	var req addJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	in := jobInput(req.JobTitle, req.JobLocation, req.WorkingTime, req.SeniorityLevel, req.JobDescription, req.TechnicalSkills, req.SoftSkills, req.CompanyID)
	job, err := h.Svc.Add(c.Request.Context(), middleware.PrincipalFrom(c), in)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, job, "job added", nil)
}

func (h *JobHandler) Update(c *gin.Context) {
	var req updateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	in := jobInput(req.JobTitle, req.JobLocation, req.WorkingTime, req.SeniorityLevel, req.JobDescription, req.TechnicalSkills, req.SoftSkills, req.CompanyID)
	job, err := h.Svc.Update(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("jobId"), in)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, job, "job updated", nil)
}

func (h *JobHandler) Delete(c *gin.Context) {
	report, err := h.Svc.Delete(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("jobId"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, report, "job deleted", nil)
}

func (h *JobHandler) ListWithCompany(c *gin.Context) {
	jobs, err := h.Svc.ListWithCompany(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, jobs, "jobs", gin.H{"count": len(jobs)})
}

func (h *JobHandler) ListByCompanyName(c *gin.Context) {
	jobs, err := h.Svc.ListByCompanyName(c.Request.Context(), middleware.PrincipalFrom(c), c.Query("companyName"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, jobs, "jobs", gin.H{"count": len(jobs)})
}

func (h *JobHandler) Filter(c *gin.Context) {
	var q filterJobsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalidPayload(c, err)
		return
	}
	jobs, err := h.Svc.Filter(c.Request.Context(), middleware.PrincipalFrom(c), application.FilterInput{
		WorkingTime:     entity.WorkingTime(q.WorkingTime),
		JobLocation:     entity.JobLocation(q.JobLocation),
		SeniorityLevel:  entity.SeniorityLevel(q.SeniorityLevel),
		JobTitle:        q.JobTitle,
		TechnicalSkills: q.TechnicalSkills,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, jobs, "jobs", gin.H{"count": len(jobs)})
}

// Apply accepts JSON, or a multipart form with an optional userResume PDF.
func (h *JobHandler) Apply(c *gin.Context) {
	var req applyJobRequest
	multipart := strings.HasPrefix(c.ContentType(), binding.MIMEMultipartPOSTForm)
	var err error
	if multipart {
		err = c.ShouldBindWith(&req, binding.FormMultipart)
	} else {
		err = c.ShouldBindJSON(&req)
	}
	if err != nil {
		invalidPayload(c, err)
		return
	}

	in := application.ApplyInput{
		JobID:          req.JobID,
		UserTechSkills: splitFormList(req.UserTechSkills),
		UserSoftSkills: splitFormList(req.UserSoftSkills),
	}
	if multipart {
		if fh, ferr := c.FormFile(resumeField); ferr == nil {
			f, oerr := fh.Open()
			if oerr != nil {
				fail(c, h.Logger, oerr)
				return
			}
			defer f.Close()
			in.Resume = &application.ResumeUpload{
				Filename:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Size:        fh.Size,
				Body:        f,
			}
		}
	}

	app, err := h.Svc.Apply(c.Request.Context(), middleware.PrincipalFrom(c), in)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, app, "application submitted", nil)
}

// splitFormList accepts both repeated form keys and a single comma separated value.
func splitFormList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
