package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/jobboard-api/config"
	"github.com/oksasatya/jobboard-api/internal/application"
	"github.com/oksasatya/jobboard-api/internal/container"
	"github.com/oksasatya/jobboard-api/internal/infrastructure/gcs"
	"github.com/oksasatya/jobboard-api/internal/infrastructure/mongodb"
	pginfra "github.com/oksasatya/jobboard-api/internal/infrastructure/postgres"
	"github.com/oksasatya/jobboard-api/internal/infrastructure/search"
	"github.com/oksasatya/jobboard-api/internal/interface/middleware"
	"github.com/oksasatya/jobboard-api/internal/router"
	"github.com/oksasatya/jobboard-api/pkg/helpers"
	"github.com/oksasatya/jobboard-api/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// MongoDB
	mongoClient, err := mongodb.NewClient(ctx, cfg.Mongo.URI, cfg.Mongo.Timeout)
	if err != nil {
		logger.Fatalf("failed to connect to mongo: %v", err)
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()
	db := mongoClient.Database(cfg.Mongo.Database)
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		logger.Fatalf("failed to ensure mongo indexes: %v", err)
	}

	users := mongodb.NewUserRepository(db)
	companies := mongodb.NewCompanyRepository(db)
	jobs := mongodb.NewJobRepository(db)
	apps := mongodb.NewApplicationRepository(db)

	// JWT + mail
	jwtManager := helpers.NewJWTManager(cfg.JWT.ConfirmationSecret, cfg.JWT.SessionSecret, cfg.JWT.ConfirmationTTL, cfg.JWT.SessionTTL)
	sender, err := container.NewMailSender(cfg, logger)
	if err != nil {
		logger.Fatalf("mail sender: %v", err)
	}

	links := application.Links{AppName: cfg.AppName, ConfirmEmailBaseURL: cfg.ConfirmEmailBaseURL, SupportURL: cfg.SupportURL}
	cascade := &application.Cascade{Users: users, Companies: companies, Jobs: jobs, Applications: apps}
	userSvc := application.NewUserService(users, jwtManager, helpers.BcryptHasher{}, sender, cascade, logger, links)
	jobSvc := application.NewJobService(jobs, companies, apps, users, cascade, logger, links)
	jobSvc.MaxResumeBytes = cfg.GCS.MaxResumeBytes

	// Postgres audit log (optional)
	if cfg.AuditEnabled() {
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DB)
		if err != nil {
			logger.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.DB.MigrationsDir, logger); err != nil {
			logger.Fatalf("migration failed: %v", err)
		}
		userSvc.Audit = pginfra.NewAuditRepository(pool)
	} else {
		logger.Info("DB_HOST not set; audit log disabled")
	}

	// Redis (rate limiting fails open, so a failed ping only warns)
	rdb, err := helpers.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.WithError(err).Warn("redis ping failed; rate limits fail open until it recovers")
	}
	defer func() { _ = rdb.Close() }()
	userSvc.Attempts = helpers.NewRedisAttempts(rdb)

	// RabbitMQ notification queue (optional)
	if cfg.RabbitMQ.URL != "" {
		queue, err := helpers.OpenRabbitQueue(cfg.RabbitMQ.URL, cfg.RabbitMQ.EmailQueue)
		if err != nil {
			logger.Fatalf("failed to open rabbitmq queue: %v", err)
		}
		defer queue.Close()
		userSvc.Queue = queue
		jobSvc.Queue = queue
	} else {
		logger.Info("RABBITMQ_URL not set; notifications disabled")
	}

	// Elasticsearch company index (optional)
	var index application.CompanyIndex
	if len(cfg.ES.Addrs) > 0 {
		es, err := helpers.NewESClient(cfg.ES.Addrs, cfg.ES.Username, cfg.ES.Password)
		if err != nil {
			logger.Fatalf("failed to init elasticsearch: %v", err)
		}
		index = search.NewCompanyIndex(es, cfg.ES.CompaniesIndex)
		cascade.Index = index
	} else {
		logger.Info("ELASTICSEARCH_ADDRS not set; company search uses mongo")
	}
	companySvc := application.NewCompanyService(companies, jobs, apps, users, cascade, index, logger)

	// GCS resume store (optional)
	if cfg.GCS.Bucket != "" {
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCS.CredentialsFile)
		if err != nil {
			logger.Fatalf("failed to init GCS client: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
		jobSvc.Resumes = gcs.NewResumeStore(gcsClient, cfg.GCS.Bucket)
	} else {
		logger.Info("GCS_BUCKET not set; resume uploads disabled")
	}

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetRedis(rdb)
	container.SetUserService(userSvc)
	container.SetCompanyService(companySvc)
	container.SetJobService(jobSvc)

	// Gin engine and global middleware
	r := gin.New()
	if err := middleware.TrustProxies(r, cfg.TrustedProxies, cfg.TrustedPlatform); err != nil {
		logger.Fatalf("invalid TRUSTED_PROXIES: %v", err)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(), middleware.RealIP())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowAllOrigins:  len(cfg.CORSAllowedOrigins) == 0,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "token", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: len(cfg.CORSAllowedOrigins) > 0,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.HTTPLogEnabled {
		r.Use(middleware.AccessLog(logger))
	}
	r.MaxMultipartMemory = cfg.GCS.MaxResumeBytes + 1<<20

	reg := router.NewRegistry(r, cfg.APIPrefix)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}
