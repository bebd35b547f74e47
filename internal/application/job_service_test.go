package application_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/jobboard-api/internal/application"
	"github.com/oksasatya/jobboard-api/internal/domain/entity"
	tpl "github.com/oksasatya/jobboard-api/pkg/mailer/templates"
)

func jobInput(companyID primitive.ObjectID) application.JobInput {
	return application.JobInput{
		JobTitle:        "Backend Engineer",
		JobLocation:     entity.JobLocationHybrid,
		WorkingTime:     entity.WorkingTimeFullTime,
		SeniorityLevel:  entity.SeniorityMidLevel,
		JobDescription:  "Build APIs",
		TechnicalSkills: []string{"go", "mongodb"},
		SoftSkills:      []string{"communication"},
		CompanyID:       companyID.Hex(),
	}
}

func TestAddJob(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	hr := f.seedUser("hr@test.com", "01011111111", entity.RoleCompanyHR, entity.StatusOnline)
	other := f.seedUser("hr2@test.com", "01022222222", entity.RoleCompanyHR, entity.StatusOnline)
	c := f.seedCompany(hr.ID, "Acme")

	j, err := f.jobSvc.Add(ctx, online(hr), jobInput(c.ID))
	require.NoError(t, err)
	assert.Equal(t, hr.ID, j.AddedBy)
	assert.Equal(t, c.ID, j.CompanyID)

	_, err = f.jobSvc.Add(ctx, online(other), jobInput(c.ID))
	assert.ErrorIs(t, err, application.ErrForbidden)

	_, err = f.jobSvc.Add(ctx, online(hr), jobInput(primitive.NewObjectID()))
	assert.ErrorIs(t, err, application.ErrNotFound)

	_, err = f.jobSvc.Add(ctx, offline(hr), jobInput(c.ID))
	assert.ErrorIs(t, err, application.ErrPresenceRequired)
}

func TestUpdateAndDeleteJobOnlyByAdder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	hr := f.seedUser("hr@test.com", "01011111111", entity.RoleCompanyHR, entity.StatusOnline)
	other := f.seedUser("hr2@test.com", "01022222222", entity.RoleCompanyHR, entity.StatusOnline)
	dev := f.seedUser("dev@test.com", "01033333333", entity.RoleUser, entity.StatusOnline)
	c := f.seedCompany(hr.ID, "Acme")
	j := f.seedJob(hr.ID, c.ID, "Backend", "go")
	f.seedApplication(j.ID, dev.ID)

	_, err := f.jobSvc.Update(ctx, online(other), j.ID.Hex(), application.JobInput{JobTitle: "Hijacked"})
	assert.ErrorIs(t, err, application.ErrForbidden)

	got, err := f.jobSvc.Update(ctx, online(hr), j.ID.Hex(), application.JobInput{SeniorityLevel: entity.SenioritySenior})
	require.NoError(t, err)
	assert.Equal(t, entity.SenioritySenior, got.SeniorityLevel)
	assert.Equal(t, "Backend", got.JobTitle)

	_, err = f.jobSvc.Delete(ctx, online(other), j.ID.Hex())
	assert.ErrorIs(t, err, application.ErrForbidden)

	report, err := f.jobSvc.Delete(ctx, online(hr), j.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Jobs)
	assert.Equal(t, int64(1), report.Applications)

	_, err = f.jobSvc.Delete(ctx, online(hr), j.ID.Hex())
	assert.ErrorIs(t, err, application.ErrNotFound)
}

func TestListJobs(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	hr := f.seedUser("hr@test.com", "01011111111", entity.RoleCompanyHR, entity.StatusOnline)
	dev := f.seedUser("dev@test.com", "01022222222", entity.RoleUser, entity.StatusOnline)
	acme := f.seedCompany(hr.ID, "Acme")
	globex := f.seedCompany(hr.ID, "Globex")
	f.seedJob(hr.ID, acme.ID, "Backend Engineer", "go", "mongodb")
	f.seedJob(hr.ID, globex.ID, "Frontend Engineer", "react")

	all, err := f.jobSvc.ListWithCompany(ctx, online(dev))
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, j := range all {
		require.NotNil(t, j.Company)
		assert.Equal(t, j.CompanyID, j.Company.ID)
	}

	byName, err := f.jobSvc.ListByCompanyName(ctx, online(dev), "Acme")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Backend Engineer", byName[0].JobTitle)

	_, err = f.jobSvc.ListByCompanyName(ctx, online(dev), "Initech")
	assert.ErrorIs(t, err, application.ErrNotFound)

	_, err = f.jobSvc.ListWithCompany(ctx, entity.Anonymous)
	assert.ErrorIs(t, err, application.ErrUnauthenticated)
}

func TestFilterJobs(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	hr := f.seedUser("hr@test.com", "01011111111", entity.RoleCompanyHR, entity.StatusOnline)
	dev := f.seedUser("dev@test.com", "01022222222", entity.RoleUser, entity.StatusOnline)
	c := f.seedCompany(hr.ID, "Acme")
	f.seedJob(hr.ID, c.ID, "Backend Engineer", "go", "mongodb")
	f.seedJob(hr.ID, c.ID, "Go Developer", "go")
	f.seedJob(hr.ID, c.ID, "Designer", "figma")

	tests := []struct {
		name string
		in   application.FilterInput
		want int
	}{
		{"no filter", application.FilterInput{}, 3},
		{"title substring", application.FilterInput{JobTitle: "engineer"}, 1},
		{"all skills", application.FilterInput{TechnicalSkills: "go, mongodb"}, 1},
		{"one skill", application.FilterInput{TechnicalSkills: "go"}, 2},
		{"location", application.FilterInput{JobLocation: entity.JobLocationOnsite}, 0},
		{"working time", application.FilterInput{WorkingTime: entity.WorkingTimeFullTime}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.jobSvc.Filter(ctx, online(dev), tt.in)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestApplyJob(t *testing.T) {
	ctx := context.Background()
	setup := func() (*fixture, *entity.User, *entity.Job) {
		f := newFixture()
		hr := f.seedUser("hr@test.com", "01011111111", entity.RoleCompanyHR, entity.StatusOnline)
		dev := f.seedUser("dev@test.com", "01022222222", entity.RoleUser, entity.StatusOnline)
		c := f.seedCompany(hr.ID, "Acme")
		j := f.seedJob(hr.ID, c.ID, "Backend Engineer", "go")
		return f, dev, j
	}

	t.Run("success notifies the HR", func(t *testing.T) {
		f, dev, j := setup()
		a, err := f.jobSvc.Apply(ctx, online(dev), application.ApplyInput{JobID: j.ID.Hex(), UserTechSkills: []string{"go"}})
		require.NoError(t, err)
		assert.Equal(t, dev.ID, a.UserID)
		assert.Empty(t, a.UserResume)

		require.Len(t, f.queue.jobs, 1)
		assert.Equal(t, tpl.ApplicationReceived, f.queue.jobs[0].Template)
		assert.Equal(t, "hr@test.com", f.queue.jobs[0].To)
		assert.Equal(t, "Backend Engineer", f.queue.jobs[0].Data["JobTitle"])
	})

	t.Run("second application conflicts", func(t *testing.T) {
		f, dev, j := setup()
		_, err := f.jobSvc.Apply(ctx, online(dev), application.ApplyInput{JobID: j.ID.Hex()})
		require.NoError(t, err)
		_, err = f.jobSvc.Apply(ctx, online(dev), application.ApplyInput{JobID: j.ID.Hex()})
		assert.ErrorIs(t, err, application.ErrConflict)
		assert.Equal(t, 1, f.apps.count())
	})

	t.Run("only users apply", func(t *testing.T) {
		f, _, j := setup()
		hr, _ := f.users.GetByEmail(ctx, "hr@test.com")
		_, err := f.jobSvc.Apply(ctx, online(hr), application.ApplyInput{JobID: j.ID.Hex()})
		assert.ErrorIs(t, err, application.ErrForbidden)
	})

	t.Run("unknown job", func(t *testing.T) {
		f, dev, _ := setup()
		_, err := f.jobSvc.Apply(ctx, online(dev), application.ApplyInput{JobID: primitive.NewObjectID().Hex()})
		assert.ErrorIs(t, err, application.ErrNotFound)
	})

	t.Run("pdf resume is stored", func(t *testing.T) {
		f, dev, j := setup()
		a, err := f.jobSvc.Apply(ctx, online(dev), application.ApplyInput{
			JobID:  j.ID.Hex(),
			Resume: &application.ResumeUpload{Filename: "cv.pdf", ContentType: "application/pdf", Size: 4, Body: strings.NewReader("%PDF")},
		})
		require.NoError(t, err)
		assert.Contains(t, a.UserResume, dev.ID.Hex())
		assert.Len(t, f.resumes.uploaded, 1)
	})

	t.Run("non pdf resume is rejected", func(t *testing.T) {
		f, dev, j := setup()
		_, err := f.jobSvc.Apply(ctx, online(dev), application.ApplyInput{
			JobID:  j.ID.Hex(),
			Resume: &application.ResumeUpload{Filename: "cv.docx", ContentType: "application/msword", Size: 4, Body: strings.NewReader("doc")},
		})
		assert.ErrorIs(t, err, application.ErrValidation)
		assert.Equal(t, 0, f.apps.count())
	})

	t.Run("oversized resume is rejected", func(t *testing.T) {
		f, dev, j := setup()
		f.jobSvc.MaxResumeBytes = 2
		_, err := f.jobSvc.Apply(ctx, online(dev), application.ApplyInput{
			JobID:  j.ID.Hex(),
			Resume: &application.ResumeUpload{Filename: "cv.pdf", ContentType: "application/pdf", Size: 4, Body: strings.NewReader("%PDF")},
		})
		assert.ErrorIs(t, err, application.ErrValidation)
	})
}
