package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oksasatya/jobboard-api/config"
	"github.com/oksasatya/jobboard-api/internal/domain/entity"
	"github.com/oksasatya/jobboard-api/internal/domain/repository"
	"github.com/oksasatya/jobboard-api/internal/infrastructure/mongodb"
	"github.com/oksasatya/jobboard-api/pkg/helpers"
)

const seedPassword = "Secret@123"

// Seeds a confirmed HR with a company and a confirmed applicant. Safe to rerun.
func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	client, err := mongodb.NewClient(ctx, cfg.Mongo.URI, cfg.Mongo.Timeout)
	if err != nil {
		logger.Fatalf("failed to connect to mongo: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.Mongo.Database)
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		logger.Fatalf("failed to ensure indexes: %v", err)
	}

	hash, err := helpers.HashPassword(seedPassword)
	if err != nil {
		logger.Fatalf("failed to hash password: %v", err)
	}

	users := mongodb.NewUserRepository(db)
	hr := seedUser(ctx, logger, users, "Sara", "Adel", "hr@jobboard.test", "01011111111", entity.RoleCompanyHR, hash)
	seedUser(ctx, logger, users, "Omar", "Nabil", "dev@jobboard.test", "01022222222", entity.RoleUser, hash)
	seedCompany(ctx, logger, db, hr.ID)

	fmt.Printf("seeded hr@jobboard.test and dev@jobboard.test, password=%s\n", seedPassword)
}

func seedUser(ctx context.Context, logger *logrus.Logger, users *mongodb.UserRepository, first, last, email, mobile string, role entity.Role, hash string) *entity.User {
	if u, err := users.GetByEmail(ctx, email); err == nil {
		logger.WithField("email", email).Info("user already seeded")
		return u
	} else if !errors.Is(err, repository.ErrNotFound) {
		logger.Fatalf("lookup %s: %v", email, err)
	}
	now := time.Now()
	u := &entity.User{
		ID:            primitive.NewObjectID(),
		Email:         email,
		Password:      hash,
		RecoveryEmail: "recovery@jobboard.test",
		DOB:           time.Date(1995, time.March, 14, 0, 0, 0, 0, time.UTC),
		MobileNumber:  mobile,
		Role:          role,
		Status:        entity.StatusOffline,
		IsConfirmed:   true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	u.SetName(first, last)
	if err := users.Create(ctx, u); err != nil {
		logger.Fatalf("seed %s: %v", email, err)
	}
	logger.WithFields(logrus.Fields{"email": email, "role": role}).Info("seeded user")
	return u
}

func seedCompany(ctx context.Context, logger *logrus.Logger, db *mongo.Database, hrID primitive.ObjectID) {
	companies := mongodb.NewCompanyRepository(db)
	const name = "Acme Labs"
	if _, err := companies.GetByName(ctx, name); err == nil {
		logger.WithField("company", name).Info("company already seeded")
		return
	}
	now := time.Now()
	c := &entity.Company{
		ID:                primitive.NewObjectID(),
		CompanyName:       name,
		Description:       "Developer tooling",
		Industry:          "Software",
		Address:           "Cairo",
		NumberOfEmployees: "11-20",
		CompanyEmail:      "contact@acme.test",
		CompanyHR:         hrID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := companies.Create(ctx, c); err != nil {
		logger.Fatalf("seed company: %v", err)
	}
	logger.WithField("company", name).Info("seeded company")
}
