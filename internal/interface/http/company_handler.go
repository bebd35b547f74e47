package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/jobboard-api/internal/application"
	"github.com/oksasatya/jobboard-api/internal/interface/middleware"
	"github.com/oksasatya/jobboard-api/pkg/response"
)

type CompanyHandler struct {
	Svc    *application.CompanyService
	Logger *logrus.Logger
}

func NewCompanyHandler(svc *application.CompanyService, logger *logrus.Logger) *CompanyHandler {
	return &CompanyHandler{Svc: svc, Logger: logger}
}

func (h *CompanyHandler) Create(c *gin.Context) {
	var req createCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	in := companyInput(req.CompanyName, req.Description, req.Industry, req.Address, req.NumberOfEmployees, req.CompanyEmail)
	company, err := h.Svc.Create(c.Request.Context(), middleware.PrincipalFrom(c), in)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, company, "company created", nil)
}

func (h *CompanyHandler) Update(c *gin.Context) {
	var req updateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	in := companyInput(req.CompanyName, req.Description, req.Industry, req.Address, req.NumberOfEmployees, req.CompanyEmail)
	company, err := h.Svc.Update(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id"), in)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, company, "company updated", nil)
}

func (h *CompanyHandler) Delete(c *gin.Context) {
	report, err := h.Svc.Delete(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, report, "company deleted", nil)
}

func (h *CompanyHandler) Get(c *gin.Context) {
	company, err := h.Svc.Get(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, company, "company data", nil)
}

func (h *CompanyHandler) Search(c *gin.Context) {
	companies, err := h.Svc.Search(c.Request.Context(), middleware.PrincipalFrom(c), c.Query("name"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, companies, "companies found", gin.H{"count": len(companies)})
}

func (h *CompanyHandler) Applications(c *gin.Context) {
	apps, err := h.Svc.Applications(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("jobId"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, apps, "applications", gin.H{"count": len(apps)})
}
