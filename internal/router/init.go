package router

import (
	"github.com/oksasatya/jobboard-api/internal/container"
	handlers "github.com/oksasatya/jobboard-api/internal/interface/http"
	"github.com/oksasatya/jobboard-api/internal/router/modules"
)

// InitModules builds handlers from the container and registers every module.
// Call once at startup after the container is populated.
func InitModules(r *Registry) {
	logger := container.GetLogger()
	users := container.GetUserService()

	r.Add(modules.NewUserModule(handlers.NewUserHandler(users, logger), users))
	r.Add(modules.NewCompanyModule(handlers.NewCompanyHandler(container.GetCompanyService(), logger), users))
	r.Add(modules.NewJobModule(handlers.NewJobHandler(container.GetJobService(), logger), users))

	if cfg := container.GetConfig(); cfg != nil && cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
