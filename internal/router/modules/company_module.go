package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/jobboard-api/internal/container"
	handlers "github.com/oksasatya/jobboard-api/internal/interface/http"
	"github.com/oksasatya/jobboard-api/internal/interface/middleware"
)

// CompanyModule mounts /company. All routes require a session token.
type CompanyModule struct {
	Handler  *handlers.CompanyHandler
	Resolver middleware.PrincipalResolver
}

func NewCompanyModule(h *handlers.CompanyHandler, resolver middleware.PrincipalResolver) *CompanyModule {
	return &CompanyModule{Handler: h, Resolver: resolver}
}

func (m *CompanyModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/company")
	g.Use(
		middleware.Auth(m.Resolver),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByPrincipal(), nil),
	)
	g.POST("/createCompany", m.Handler.Create)
	g.PATCH("/updateCompany/:id", m.Handler.Update)
	g.DELETE("/deleteCompany/:id", m.Handler.Delete)
	g.GET("/getCompany/:id", m.Handler.Get)
	g.GET("/searchCompany", m.Handler.Search)
	g.GET("/getApplications/:jobId", m.Handler.Applications)
}
