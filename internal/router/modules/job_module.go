package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/jobboard-api/internal/container"
	handlers "github.com/oksasatya/jobboard-api/internal/interface/http"
	"github.com/oksasatya/jobboard-api/internal/interface/middleware"
)

// JobModule mounts /job. All routes require a session token.
type JobModule struct {
	Handler  *handlers.JobHandler
	Resolver middleware.PrincipalResolver
}

func NewJobModule(h *handlers.JobHandler, resolver middleware.PrincipalResolver) *JobModule {
	return &JobModule{Handler: h, Resolver: resolver}
}

func (m *JobModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	g := rg.Group("/job")
	g.Use(
		middleware.Auth(m.Resolver),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByPrincipal(), nil),
	)
	g.POST("/addJob", m.Handler.Add)
	g.PUT("/updateJob/:jobId", m.Handler.Update)
	g.DELETE("/deleteJob/:jobId", m.Handler.Delete)
	g.GET("/getAllJobsAndCompanyInfo", m.Handler.ListWithCompany)
	g.GET("/getAllJobsAndCompanyInfoSpecificCompanyName", m.Handler.ListByCompanyName)
	g.GET("/filterJob", m.Handler.Filter)
	// uploads are heavier, so applying gets its own tighter budget
	g.POST("/applyJob", middleware.RateLimit(rdb, 20, time.Minute, middleware.KeyByPrincipal(), nil), m.Handler.Apply)
}
