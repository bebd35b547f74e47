package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/jobboard-api/internal/domain/entity"
	repo "github.com/oksasatya/jobboard-api/internal/domain/repository"
	"github.com/oksasatya/jobboard-api/pkg/helpers"
	tpl "github.com/oksasatya/jobboard-api/pkg/mailer/templates"
)

const DefaultMaxResumeBytes = 5 << 20

type JobService struct {
	Jobs         repo.JobRepository
	Companies    repo.CompanyRepository
	Applications repo.ApplicationRepository
	Users        repo.UserRepository
	Cascade      *Cascade
	Resumes      ResumeStore       // optional
	Queue        NotificationQueue // optional
	Logger       *logrus.Logger
	Links        Links
	Now          func() time.Time

	MaxResumeBytes int64
}

func NewJobService(jobs repo.JobRepository, companies repo.CompanyRepository, apps repo.ApplicationRepository, users repo.UserRepository, cascade *Cascade, logger *logrus.Logger, links Links) *JobService {
	if logger == nil {
		logger = helpers.NopLogger()
	}
	return &JobService{
		Jobs:           jobs,
		Companies:      companies,
		Applications:   apps,
		Users:          users,
		Cascade:        cascade,
		Logger:         logger,
		Links:          links,
		Now:            time.Now,
		MaxResumeBytes: DefaultMaxResumeBytes,
	}
}

// JobInput carries job fields; on update zero values mean unchanged.
type JobInput struct {
	JobTitle        string
	JobLocation     entity.JobLocation
	WorkingTime     entity.WorkingTime
	SeniorityLevel  entity.SeniorityLevel
	JobDescription  string
	TechnicalSkills []string
	SoftSkills      []string
	CompanyID       string
}

func (s *JobService) Add(ctx context.Context, p entity.Principal, in JobInput) (*entity.Job, error) {
	const op = "AddJob"
	if err := Guard(p, op, entity.RoleCompanyHR); err != nil {
		return nil, err
	}
	cid, err := parseID(op, in.CompanyID, "company")
	if err != nil {
		return nil, err
	}
	c, err := s.Companies.GetByID(ctx, cid)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, newError(op, ErrNotFound, "company not found")
		}
		return nil, internal(op, err)
	}
	if !c.OwnedBy(p.ID) {
		return nil, newError(op, ErrForbidden, "only the company HR can add jobs to it")
	}

	now := s.Now()
	j := &entity.Job{
		ID:              primitive.NewObjectID(),
		JobTitle:        in.JobTitle,
		JobLocation:     in.JobLocation,
		WorkingTime:     in.WorkingTime,
		SeniorityLevel:  in.SeniorityLevel,
		JobDescription:  in.JobDescription,
		TechnicalSkills: in.TechnicalSkills,
		SoftSkills:      in.SoftSkills,
		AddedBy:         p.ID,
		CompanyID:       c.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Jobs.Create(ctx, j); err != nil {
		return nil, internal(op, err)
	}
	return j, nil
}

func (s *JobService) Update(ctx context.Context, p entity.Principal, id string, in JobInput) (*entity.Job, error) {
	const op = "UpdateJob"
	if err := Guard(p, op, entity.RoleCompanyHR); err != nil {
		return nil, err
	}
	j, err := s.added(ctx, op, p, id)
	if err != nil {
		return nil, err
	}
	if in.CompanyID != "" {
		return nil, newError(op, ErrValidation, "company of a job cannot be changed")
	}
	if in.JobTitle != "" {
		j.JobTitle = in.JobTitle
	}
	if in.JobLocation != "" {
		j.JobLocation = in.JobLocation
	}
	if in.WorkingTime != "" {
		j.WorkingTime = in.WorkingTime
	}
	if in.SeniorityLevel != "" {
		j.SeniorityLevel = in.SeniorityLevel
	}
	if in.JobDescription != "" {
		j.JobDescription = in.JobDescription
	}
	if in.TechnicalSkills != nil {
		j.TechnicalSkills = in.TechnicalSkills
	}
	if in.SoftSkills != nil {
		j.SoftSkills = in.SoftSkills
	}
	j.UpdatedAt = s.Now()

	if err := s.Jobs.Update(ctx, j); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, newError(op, ErrNotFound, "job not found")
		}
		return nil, internal(op, err)
	}
	return j, nil
}

func (s *JobService) Delete(ctx context.Context, p entity.Principal, id string) (CascadeReport, error) {
	const op = "DeleteJob"
	if err := Guard(p, op, entity.RoleCompanyHR); err != nil {
		return CascadeReport{}, err
	}
	j, err := s.added(ctx, op, p, id)
	if err != nil {
		return CascadeReport{}, err
	}
	report, err := s.Cascade.DeleteJob(ctx, j.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return report, newError(op, ErrNotFound, "job not found")
		}
		return report, internal(op, err)
	}
	if report.Err != nil {
		s.Logger.WithError(report.Err).WithField("job_id", j.ID.Hex()).Error("cascade cleanup incomplete")
	}
	return report, nil
}

// ListWithCompany returns every job with the company it belongs to.
func (s *JobService) ListWithCompany(ctx context.Context, p entity.Principal) ([]entity.JobWithCompany, error) {
	const op = "ListJobsWithCompany"
	if err := Guard(p, op, entity.RoleUser, entity.RoleCompanyHR); err != nil {
		return nil, err
	}
	jobs, err := s.Jobs.List(ctx, repo.JobFilter{})
	if err != nil {
		return nil, internal(op, err)
	}
	return s.withCompanies(ctx, op, jobs)
}

// ListByCompanyName returns the jobs of the company with exactly that name.
func (s *JobService) ListByCompanyName(ctx context.Context, p entity.Principal, name string) ([]entity.Job, error) {
	const op = "ListJobsByCompanyName"
	if err := Guard(p, op, entity.RoleUser, entity.RoleCompanyHR); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, newError(op, ErrValidation, "companyName is required")
	}
	c, err := s.Companies.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, newError(op, ErrNotFound, "company not found")
		}
		return nil, internal(op, err)
	}
	jobs, err := s.Jobs.List(ctx, repo.JobFilter{CompanyIDs: []primitive.ObjectID{c.ID}})
	if err != nil {
		return nil, internal(op, err)
	}
	if jobs == nil {
		jobs = []entity.Job{}
	}
	return jobs, nil
}

type FilterInput struct {
	WorkingTime     entity.WorkingTime
	JobLocation     entity.JobLocation
	SeniorityLevel  entity.SeniorityLevel
	JobTitle        string
	TechnicalSkills string // comma separated
}

func (s *JobService) Filter(ctx context.Context, p entity.Principal, in FilterInput) ([]entity.JobWithCompany, error) {
	const op = "FilterJobs"
	if err := Guard(p, op, entity.RoleUser, entity.RoleCompanyHR); err != nil {
		return nil, err
	}
	f := repo.JobFilter{
		WorkingTime:     in.WorkingTime,
		JobLocation:     in.JobLocation,
		SeniorityLevel:  in.SeniorityLevel,
		JobTitle:        strings.TrimSpace(in.JobTitle),
		TechnicalSkills: splitSkills(in.TechnicalSkills),
	}
	jobs, err := s.Jobs.List(ctx, f)
	if err != nil {
		return nil, internal(op, err)
	}
	return s.withCompanies(ctx, op, jobs)
}

// ResumeUpload is an optional PDF attached to an application.
type ResumeUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type ApplyInput struct {
	JobID          string
	UserTechSkills []string
	UserSoftSkills []string
	Resume         *ResumeUpload
}

func (s *JobService) Apply(ctx context.Context, p entity.Principal, in ApplyInput) (*entity.Application, error) {
	const op = "ApplyJob"
	if err := Guard(p, op, entity.RoleUser); err != nil {
		return nil, err
	}
	jid, err := parseID(op, in.JobID, "job")
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
	exists, err := s.Applications.ExistsForUser(ctx, jid, p.ID)
	if err != nil {
		return nil, internal(op, err)
	}
	if exists {
		return nil, newError(op, ErrConflict, "you already applied to this job")
	}

	now := s.Now()
	a := &entity.Application{
		ID:             primitive.NewObjectID(),
		JobID:          jid,
		UserID:         p.ID,
		UserTechSkills: in.UserTechSkills,
		UserSoftSkills: in.UserSoftSkills,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if in.Resume != nil {
		url, err := s.storeResume(ctx, op, p.ID, in.Resume)
		if err != nil {
			return nil, err
		}
		a.UserResume = url
	}
	if err := s.Applications.Create(ctx, a); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, wrapError(op, ErrConflict, "you already applied to this job", err)
		}
		return nil, internal(op, err)
	}
	s.notifyHR(ctx, job, p.ID)
	return a, nil
}

func (s *JobService) storeResume(ctx context.Context, op string, userID primitive.ObjectID, r *ResumeUpload) (string, error) {
	if s.Resumes == nil {
		return "", newError(op, ErrValidation, "resume uploads are not enabled")
	}
	if !isPDF(r.Filename, r.ContentType) {
		return "", newError(op, ErrValidation, "resume must be a PDF file")
	}
	if s.MaxResumeBytes > 0 && r.Size > s.MaxResumeBytes {
		return "", newError(op, ErrValidation, "resume must be at most "+strconv.FormatInt(s.MaxResumeBytes>>20, 10)+"MB")
	}
	url, err := s.Resumes.Upload(ctx, userID, r.Filename, "application/pdf", r.Body)
	if err != nil {
		return "", internal(op, err)
	}
	return url, nil
}

func (s *JobService) notifyHR(ctx context.Context, job *entity.Job, applicantID primitive.ObjectID) {
	if s.Queue == nil {
		return
	}
	hr, err := s.Users.GetByID(ctx, job.AddedBy)
	if err != nil {
		s.Logger.WithError(err).WithField("job_id", job.ID.Hex()).Warn("load job HR for notification failed")
		return
	}
	var companyName, applicantName string
	if c, err := s.Companies.GetByID(ctx, job.CompanyID); err == nil {
		companyName = c.CompanyName
	}
	if u, err := s.Users.GetByID(ctx, applicantID); err == nil {
		applicantName = u.Username
	}
	data := tpl.New(s.Links.AppName, s.Links.SupportURL, hr.FirstName, hr.Email,
		tpl.WithApplication(job.JobTitle, companyName, applicantName), tpl.WithTime(s.Now()))
	publish(ctx, s.Queue, s.Logger, hr.Email, tpl.ApplicationReceived, data)
}

func (s *JobService) added(ctx context.Context, op string, p entity.Principal, id string) (*entity.Job, error) {
	jid, err := parseID(op, id, "job")
	if err != nil {
		return nil, err
	}
	j, err := s.Jobs.GetByID(ctx, jid)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, newError(op, ErrNotFound, "job not found")
		}
		return nil, internal(op, err)
	}
	if j.AddedBy != p.ID {
		return nil, newError(op, ErrForbidden, "only the HR who added this job can change it")
	}
	return j, nil
}

func (s *JobService) withCompanies(ctx context.Context, op string, jobs []entity.Job) ([]entity.JobWithCompany, error) {
	seen := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	for _, j := range jobs {
		if !seen[j.CompanyID] {
			seen[j.CompanyID] = true
			ids = append(ids, j.CompanyID)
		}
	}
	byID := make(map[primitive.ObjectID]*entity.Company, len(ids))
	if len(ids) > 0 {
		companies, err := s.Companies.ListByIDs(ctx, ids)
		if err != nil {
			return nil, internal(op, err)
		}
		for i := range companies {
			byID[companies[i].ID] = &companies[i]
		}
	}
	out := make([]entity.JobWithCompany, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, entity.JobWithCompany{Job: j, Company: byID[j.CompanyID]})
	}
	return out, nil
}

func splitSkills(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func isPDF(filename, contentType string) bool {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return false
	}
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	return ct == "" || ct == "application/pdf" || ct == "application/octet-stream"
}
