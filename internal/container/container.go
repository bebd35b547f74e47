package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/jobboard-api/config"
	"github.com/oksasatya/jobboard-api/internal/application"
)

// app-level container to share constructed components across packages.
// cmd/main builds everything once; the router reads it back when wiring modules.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	redisClient *redis.Client

	userService    *application.UserService
	companyService *application.CompanyService
	jobService     *application.JobService
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config  { return cfg }
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger  { return logger }

// SetRedis may receive nil; rate limiting is then disabled.
func SetRedis(r *redis.Client) { redisClient = r }
func GetRedis() *redis.Client  { return redisClient }

func SetUserService(s *application.UserService)       { userService = s }
func GetUserService() *application.UserService        { return userService }
func SetCompanyService(s *application.CompanyService) { companyService = s }
func GetCompanyService() *application.CompanyService  { return companyService }
func SetJobService(s *application.JobService)         { jobService = s }
func GetJobService() *application.JobService          { return jobService }
