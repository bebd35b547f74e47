package application

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	repo "github.com/oksasatya/jobboard-api/internal/domain/repository"
)

// CascadeReport counts what a cascading delete removed. Err joins every
// cleanup failure that happened after the root record was gone.
type CascadeReport struct {
	Companies    int64 `json:"companies"`
	Jobs         int64 `json:"jobs"`
	Applications int64 `json:"applications"`
	Err          error `json:"-"`
}

// Cascade removes a record together with its dependents:
// user -> companies it runs -> their jobs -> applications.
type Cascade struct {
	Users        repo.UserRepository
	Companies    repo.CompanyRepository
	Jobs         repo.JobRepository
	Applications repo.ApplicationRepository
	Index        CompanyIndex // optional
}

// DeleteUser deletes the user first; dependents are removed best-effort.
func (c *Cascade) DeleteUser(ctx context.Context, userID primitive.ObjectID) (CascadeReport, error) {
	var report CascadeReport

	companyIDs, err := c.Companies.ListIDsByHR(ctx, userID)
	if err != nil {
		return report, fmt.Errorf("list companies: %w", err)
	}
	own := repo.JobOwnership{AddedBy: userID, CompanyIDs: companyIDs}
	jobIDs, err := c.Jobs.ListIDsByOwnership(ctx, own)
	if err != nil {
		return report, fmt.Errorf("list jobs: %w", err)
	}

	if err := c.Users.Delete(ctx, userID); err != nil {
		return report, err
	}

	var errs []error
	if report.Companies, err = c.Companies.DeleteByHR(ctx, userID); err != nil {
		errs = append(errs, fmt.Errorf("delete companies: %w", err))
	}
	if report.Jobs, err = c.Jobs.DeleteByOwnership(ctx, own); err != nil {
		errs = append(errs, fmt.Errorf("delete jobs: %w", err))
	}
	if report.Applications, err = c.Applications.DeleteByUserOrJobs(ctx, userID, jobIDs); err != nil {
		errs = append(errs, fmt.Errorf("delete applications: %w", err))
	}
	for _, id := range companyIDs {
		if err := c.unindex(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	report.Err = errors.Join(errs...)
	return report, nil
}

// DeleteCompany deletes a company, its jobs and the applications to them.
func (c *Cascade) DeleteCompany(ctx context.Context, companyID primitive.ObjectID) (CascadeReport, error) {
	report := CascadeReport{}
	own := repo.JobOwnership{CompanyIDs: []primitive.ObjectID{companyID}}
	jobIDs, err := c.Jobs.ListIDsByOwnership(ctx, own)
	if err != nil {
		return report, fmt.Errorf("list jobs: %w", err)
	}
	if err := c.Companies.Delete(ctx, companyID); err != nil {
		return report, err
	}
	report.Companies = 1

	var errs []error
	if report.Jobs, err = c.Jobs.DeleteByOwnership(ctx, own); err != nil {
		errs = append(errs, fmt.Errorf("delete jobs: %w", err))
	}
	if len(jobIDs) > 0 {
		if report.Applications, err = c.Applications.DeleteByUserOrJobs(ctx, primitive.NilObjectID, jobIDs); err != nil {
			errs = append(errs, fmt.Errorf("delete applications: %w", err))
		}
	}
	if err := c.unindex(ctx, companyID); err != nil {
		errs = append(errs, err)
	}
	report.Err = errors.Join(errs...)
	return report, nil
}

// DeleteJob deletes a job and the applications to it.
func (c *Cascade) DeleteJob(ctx context.Context, jobID primitive.ObjectID) (CascadeReport, error) {
	report := CascadeReport{}
	if err := c.Jobs.Delete(ctx, jobID); err != nil {
		return report, err
	}
	report.Jobs = 1
	n, err := c.Applications.DeleteByUserOrJobs(ctx, primitive.NilObjectID, []primitive.ObjectID{jobID})
	report.Applications = n
	if err != nil {
		report.Err = fmt.Errorf("delete applications: %w", err)
	}
	return report, nil
}

func (c *Cascade) unindex(ctx context.Context, id primitive.ObjectID) error {
	if c.Index == nil {
		return nil
	}
	if err := c.Index.Delete(ctx, id); err != nil {
		return fmt.Errorf("unindex company %s: %w", id.Hex(), err)
	}
	return nil
}
