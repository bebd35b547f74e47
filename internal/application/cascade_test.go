package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/jobboard-api/internal/application"
	"github.com/oksasatya/jobboard-api/internal/domain/entity"
)

func TestCascadeDeleteUserMissing(t *testing.T) {
	f := newFixture()
	c := &application.Cascade{Users: f.users, Companies: f.companies, Jobs: f.jobs, Applications: f.apps}

	_, err := c.DeleteUser(context.Background(), primitive.NewObjectID())
	assert.Error(t, err)
}

func TestCascadeDeleteUserRemovesJobsInOwnedCompanies(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	hr := f.seedUser("hr@test.com", "01011111111", entity.RoleCompanyHR, entity.StatusOnline)
	colleague := f.seedUser("hr2@test.com", "01022222222", entity.RoleCompanyHR, entity.StatusOnline)
	dev := f.seedUser("dev@test.com", "01033333333", entity.RoleUser, entity.StatusOnline)

	c := f.seedCompany(hr.ID, "Acme")
	// a job in hr's company added by someone else still goes with the company
	j := f.seedJob(colleague.ID, c.ID, "Backend")
	f.seedApplication(j.ID, dev.ID)

	cascade := &application.Cascade{Users: f.users, Companies: f.companies, Jobs: f.jobs, Applications: f.apps, Index: f.index}
	report, err := cascade.DeleteUser(ctx, hr.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Companies)
	assert.Equal(t, int64(1), report.Jobs)
	assert.Equal(t, int64(1), report.Applications)
	assert.NoError(t, report.Err)
}

func TestCascadeDeleteJobReportsCleanupError(t *testing.T) {
	f := newFixture()
	hr := f.seedUser("hr@test.com", "01011111111", entity.RoleCompanyHR, entity.StatusOnline)
	c := f.seedCompany(hr.ID, "Acme")
	j := f.seedJob(hr.ID, c.ID, "Backend")
	f.apps.deleteErr = errBoom

	cascade := &application.Cascade{Users: f.users, Companies: f.companies, Jobs: f.jobs, Applications: f.apps}
	report, err := cascade.DeleteJob(context.Background(), j.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Jobs)
	assert.ErrorIs(t, report.Err, errBoom)
}
