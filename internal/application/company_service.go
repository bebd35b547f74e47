package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/jobboard-api/internal/domain/entity"
	repo "github.com/oksasatya/jobboard-api/internal/domain/repository"
	"github.com/oksasatya/jobboard-api/pkg/helpers"
)

const searchLimit = 50

type CompanyService struct {
	Companies repo.CompanyRepository
	Jobs      repo.JobRepository
	Apps      repo.ApplicationRepository
	Users     repo.UserRepository
	Cascade   *Cascade
	Index     CompanyIndex // optional
	Logger    *logrus.Logger
	Now       func() time.Time
}

func NewCompanyService(companies repo.CompanyRepository, jobs repo.JobRepository, apps repo.ApplicationRepository, users repo.UserRepository, cascade *Cascade, index CompanyIndex, logger *logrus.Logger) *CompanyService {
	if logger == nil {
		logger = helpers.NopLogger()
	}
	return &CompanyService{
		Companies: companies,
		Jobs:      jobs,
		Apps:      apps,
		Users:     users,
		Cascade:   cascade,
		Index:     index,
		Logger:    logger,
		Now:       time.Now,
	}
}

// CompanyInput carries company fields; on update empty means unchanged.
type CompanyInput struct {
	CompanyName       string
	Description       string
	Industry          string
	Address           string
	NumberOfEmployees string
	CompanyEmail      string
}

func (s *CompanyService) Create(ctx context.Context, p entity.Principal, in CompanyInput) (*entity.Company, error) {
	const op = "CreateCompany"
	if err := Guard(p, op, entity.RoleCompanyHR); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, op, in.CompanyName, in.CompanyEmail, primitive.NilObjectID); err != nil {
		return nil, err
	}
	now := s.Now()
	c := &entity.Company{
		ID:                primitive.NewObjectID(),
		CompanyName:       in.CompanyName,
		Description:       in.Description,
		Industry:          in.Industry,
		Address:           in.Address,
		NumberOfEmployees: in.NumberOfEmployees,
		CompanyEmail:      in.CompanyEmail,
		CompanyHR:         p.ID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.Companies.Create(ctx, c); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, wrapError(op, ErrConflict, "company name or email already exists", err)
		}
		return nil, internal(op, err)
	}
	s.reindex(ctx, c)
	return c, nil
}

func (s *CompanyService) Update(ctx context.Context, p entity.Principal, id string, in CompanyInput) (*entity.Company, error) {
	const op = "UpdateCompany"
	if err := Guard(p, op, entity.RoleCompanyHR); err != nil {
		return nil, err
	}
	c, err := s.owned(ctx, op, p, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, op, in.CompanyName, in.CompanyEmail, c.ID); err != nil {
		return nil, err
	}

	if in.CompanyName != "" {
		c.CompanyName = in.CompanyName
	}
	if in.Description != "" {
		c.Description = in.Description
	}
	if in.Industry != "" {
		c.Industry = in.Industry
	}
	if in.Address != "" {
		c.Address = in.Address
	}
	if in.NumberOfEmployees != "" {
		c.NumberOfEmployees = in.NumberOfEmployees
	}
	if in.CompanyEmail != "" {
		c.CompanyEmail = in.CompanyEmail
	}
	c.UpdatedAt = s.Now()

	if err := s.Companies.Update(ctx, c); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicate):
			return nil, wrapError(op, ErrConflict, "company name or email already exists", err)
		case errors.Is(err, repo.ErrNotFound):
			return nil, newError(op, ErrNotFound, "company not found")
		}
		return nil, internal(op, err)
	}
	s.reindex(ctx, c)
	return c, nil
}

func (s *CompanyService) Delete(ctx context.Context, p entity.Principal, id string) (CascadeReport, error) {
	const op = "DeleteCompany"
	if err := Guard(p, op, entity.RoleCompanyHR); err != nil {
		return CascadeReport{}, err
	}
	c, err := s.owned(ctx, op, p, id)
	if err != nil {
		return CascadeReport{}, err
	}
	report, err := s.Cascade.DeleteCompany(ctx, c.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return report, newError(op, ErrNotFound, "company not found")
		}
		return report, internal(op, err)
	}
	if report.Err != nil {
		s.Logger.WithError(report.Err).WithField("company_id", c.ID.Hex()).Error("cascade cleanup incomplete")
	}
	return report, nil
}

// Get returns a company together with its jobs.
func (s *CompanyService) Get(ctx context.Context, p entity.Principal, id string) (*entity.CompanyWithJobs, error) {
	const op = "GetCompany"
	if err := Guard(p, op, entity.RoleCompanyHR); err != nil {
		return nil, err
	}
	cid, err := parseID(op, id, "company")
	if err != nil {
		return nil, err
	}
	c, err := s.getCompany(ctx, op, cid)
	if err != nil {
		return nil, err
	}
	jobs, err := s.Jobs.List(ctx, repo.JobFilter{CompanyIDs: []primitive.ObjectID{c.ID}})
	if err != nil {
		return nil, internal(op, err)
	}
	if jobs == nil {
		jobs = []entity.Job{}
	}
	return &entity.CompanyWithJobs{Company: *c, Jobs: jobs}, nil
}

// Search looks companies up by name, through the search index when one is
// configured and by regex on the store otherwise.
func (s *CompanyService) Search(ctx context.Context, p entity.Principal, name string) ([]entity.Company, error) {
	const op = "SearchCompany"
	if err := Guard(p, op, entity.RoleUser, entity.RoleCompanyHR); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, newError(op, ErrValidation, "name is required")
	}

	var (
		companies []entity.Company
		err       error
	)
	if s.Index != nil {
		var ids []primitive.ObjectID
		ids, err = s.Index.Search(ctx, name, searchLimit)
		if err == nil {
			companies, err = s.Companies.ListByIDs(ctx, ids)
		} else {
			s.Logger.WithError(err).Warn("company index search failed, falling back to store")
		}
	}
	if s.Index == nil || err != nil {
		companies, err = s.Companies.SearchByName(ctx, name)
	}
	if err != nil {
		return nil, internal(op, err)
	}
	if len(companies) == 0 {
		return nil, newError(op, ErrNotFound, "no company matches "+name)
	}
	return companies, nil
}

// Applications lists the applications to a job, visible only to the HR who added it.
func (s *CompanyService) Applications(ctx context.Context, p entity.Principal, jobID string) ([]entity.ApplicationWithApplicant, error) {
	const op = "GetApplications"
	if err := Guard(p, op, entity.RoleCompanyHR); err != nil {
		return nil, err
	}
	jid, err := parseID(op, jobID, "job")
	if err != nil {
		return nil, err
	}
	job, err := s.Jobs.GetByID(ctx, jid)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, newError(op, ErrNotFound, "job not found")
		}
		return nil, internal(op, err)
	}
	if job.AddedBy != p.ID {
		return nil, newError(op, ErrForbidden, "only the HR who added this job can view its applications")
	}

	apps, err := s.Apps.ListByJob(ctx, jid)
	if err != nil {
		return nil, internal(op, err)
	}
	out := make([]entity.ApplicationWithApplicant, 0, len(apps))
	for _, a := range apps {
		item := entity.ApplicationWithApplicant{Application: a}
		u, err := s.Users.GetByID(ctx, a.UserID)
		switch {
		case err == nil:
			profile := u.Public()
			item.Applicant = &profile
		case !errors.Is(err, repo.ErrNotFound):
			return nil, internal(op, err)
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *CompanyService) getCompany(ctx context.Context, op string, id primitive.ObjectID) (*entity.Company, error) {
	c, err := s.Companies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, newError(op, ErrNotFound, "company not found")
		}
		return nil, internal(op, err)
	}
	return c, nil
}

func (s *CompanyService) owned(ctx context.Context, op string, p entity.Principal, id string) (*entity.Company, error) {
	cid, err := parseID(op, id, "company")
	if err != nil {
		return nil, err
	}
	c, err := s.getCompany(ctx, op, cid)
	if err != nil {
		return nil, err
	}
	if !c.OwnedBy(p.ID) {
		return nil, newError(op, ErrForbidden, "only the company HR can do this")
	}
	return c, nil
}

func (s *CompanyService) ensureUnique(ctx context.Context, op, name, email string, self primitive.ObjectID) error {
	if name != "" {
		other, err := s.Companies.GetByName(ctx, name)
		switch {
		case err == nil && other.ID != self:
			return newError(op, ErrConflict, "company name already exists")
		case err != nil && !errors.Is(err, repo.ErrNotFound):
			return internal(op, err)
		}
	}
	if email != "" {
		other, err := s.Companies.GetByEmail(ctx, email)
		switch {
		case err == nil && other.ID != self:
			return newError(op, ErrConflict, "company email already exists")
		case err != nil && !errors.Is(err, repo.ErrNotFound):
			return internal(op, err)
		}
	}
	return nil
}

func (s *CompanyService) reindex(ctx context.Context, c *entity.Company) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, c); err != nil {
		s.Logger.WithError(err).WithField("company_id", c.ID.Hex()).Warn("index company failed")
	}
}
