package application_test

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/jobboard-api/internal/application"
	"github.com/oksasatya/jobboard-api/internal/domain/entity"
	repo "github.com/oksasatya/jobboard-api/internal/domain/repository"
	"github.com/oksasatya/jobboard-api/pkg/helpers"
	"github.com/oksasatya/jobboard-api/pkg/mailer"
)

// ---- users ----

type memUsers struct {
	mu   sync.Mutex
	rows map[primitive.ObjectID]entity.User
}

func newMemUsers() *memUsers { return &memUsers{rows: map[primitive.ObjectID]entity.User{}} }

func (m *memUsers) find(match func(entity.User) bool) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if match(u) {
			cp := u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.rows {
		if o.Email == u.Email || o.MobileNumber == u.MobileNumber {
			return repo.ErrDuplicate
		}
	}
	m.rows[u.ID] = *u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id primitive.ObjectID) (*entity.User, error) {
	return m.find(func(u entity.User) bool { return u.ID == id })
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return m.find(func(u entity.User) bool { return u.Email == email })
}

func (m *memUsers) GetByMobile(_ context.Context, mobile string) (*entity.User, error) {
	return m.find(func(u entity.User) bool { return u.MobileNumber == mobile })
}

func (m *memUsers) FindForLogin(_ context.Context, q repo.LoginLookup) ([]entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.User
	for _, u := range m.rows {
		if (q.Email != "" && u.Email == q.Email) ||
			(q.MobileNumber != "" && u.MobileNumber == q.MobileNumber) ||
			(q.RecoveryEmail != "" && u.RecoveryEmail == q.RecoveryEmail) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUsers) ListByRecoveryEmail(_ context.Context, email string) ([]entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.User
	for _, u := range m.rows {
		if u.RecoveryEmail == email {
			out = append(out, u)
		}
	}
	return out, nil
}

// mutate applies fn to the stored row under the lock, like a single $set.
func (m *memUsers) mutate(id primitive.ObjectID, fn func(u *entity.User) error) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	if err := fn(&u); err != nil {
		return nil, err
	}
	m.rows[id] = u
	return &u, nil
}

func (m *memUsers) UpdateProfile(_ context.Context, id primitive.ObjectID, p repo.ProfileUpdate) (*entity.User, error) {
	return m.mutate(id, func(u *entity.User) error {
		for oid, o := range m.rows {
			if oid == id {
				continue
			}
			if (p.Email != nil && o.Email == *p.Email) || (p.MobileNumber != nil && o.MobileNumber == *p.MobileNumber) {
				return repo.ErrDuplicate
			}
		}
		setIf := func(dst *string, v *string) {
			if v != nil {
				*dst = *v
			}
		}
		setIf(&u.FirstName, p.FirstName)
		setIf(&u.LastName, p.LastName)
		setIf(&u.Username, p.Username)
		setIf(&u.Email, p.Email)
		setIf(&u.MobileNumber, p.MobileNumber)
		setIf(&u.RecoveryEmail, p.RecoveryEmail)
		if p.DOB != nil {
			u.DOB = *p.DOB
		}
		if p.Unconfirm {
			u.IsConfirmed = false
			u.Status = entity.StatusOffline
		}
		return nil
	})
}

func (m *memUsers) SetOTP(_ context.Context, id primitive.ObjectID, code string, expiry time.Time) error {
	_, err := m.mutate(id, func(u *entity.User) error {
		u.OTP, u.OTPExpiry = &code, &expiry
		return nil
	})
	return err
}

func (m *memUsers) SetPassword(_ context.Context, id primitive.ObjectID, hash string) error {
	_, err := m.mutate(id, func(u *entity.User) error {
		u.Password, u.Status = hash, entity.StatusOffline
		return nil
	})
	return err
}

func (m *memUsers) ResetPassword(_ context.Context, id primitive.ObjectID, otp, hash string) error {
	_, err := m.mutate(id, func(u *entity.User) error {
		if u.OTP == nil || *u.OTP != otp {
			return repo.ErrNotFound
		}
		u.Password, u.Status = hash, entity.StatusOffline
		u.OTP, u.OTPExpiry = nil, nil
		return nil
	})
	return err
}

func (m *memUsers) ConfirmEmail(_ context.Context, id primitive.ObjectID) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok || u.IsConfirmed {
		return nil, repo.ErrNotFound
	}
	u.IsConfirmed = true
	m.rows[id] = u
	return &u, nil
}

func (m *memUsers) SetStatus(_ context.Context, id primitive.ObjectID, s entity.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.Status = s
	m.rows[id] = u
	return nil
}

func (m *memUsers) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// racingUsers hides stored rows from the uniqueness pre-checks, as when two
// requests both pass them before either one writes.
type racingUsers struct{ *memUsers }

func (racingUsers) GetByEmail(context.Context, string) (*entity.User, error) {
	return nil, repo.ErrNotFound
}

func (racingUsers) GetByMobile(context.Context, string) (*entity.User, error) {
	return nil, repo.ErrNotFound
}

// staleUsers serves reads from a snapshot taken before a concurrent write landed.
type staleUsers struct {
	*memUsers
	snapshot entity.User
}

func (s staleUsers) GetByID(_ context.Context, id primitive.ObjectID) (*entity.User, error) {
	if id != s.snapshot.ID {
		return nil, repo.ErrNotFound
	}
	cp := s.snapshot
	return &cp, nil
}

func (s staleUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	if email != s.snapshot.Email {
		return nil, repo.ErrNotFound
	}
	cp := s.snapshot
	return &cp, nil
}

// ---- companies ----

type memCompanies struct {
	mu   sync.Mutex
	rows map[primitive.ObjectID]entity.Company
}

func newMemCompanies() *memCompanies {
	return &memCompanies{rows: map[primitive.ObjectID]entity.Company{}}
}

func (m *memCompanies) find(match func(entity.Company) bool) (*entity.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.rows {
		if match(c) {
			cp := c
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memCompanies) Create(_ context.Context, c *entity.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.rows {
		if o.CompanyName == c.CompanyName || o.CompanyEmail == c.CompanyEmail {
			return repo.ErrDuplicate
		}
	}
	m.rows[c.ID] = *c
	return nil
}

func (m *memCompanies) GetByID(_ context.Context, id primitive.ObjectID) (*entity.Company, error) {
	return m.find(func(c entity.Company) bool { return c.ID == id })
}

func (m *memCompanies) GetByName(_ context.Context, name string) (*entity.Company, error) {
	return m.find(func(c entity.Company) bool { return c.CompanyName == name })
}

func (m *memCompanies) GetByEmail(_ context.Context, email string) (*entity.Company, error) {
	return m.find(func(c entity.Company) bool { return c.CompanyEmail == email })
}

func (m *memCompanies) SearchByName(_ context.Context, name string) ([]entity.Company, error) {
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(name))
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Company
	for _, c := range m.rows {
		if re.MatchString(c.CompanyName) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCompanies) ListByIDs(_ context.Context, ids []primitive.ObjectID) ([]entity.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Company
	for _, id := range ids {
		if c, ok := m.rows[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCompanies) ListIDsByHR(_ context.Context, hr primitive.ObjectID) ([]primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []primitive.ObjectID
	for _, c := range m.rows {
		if c.CompanyHR == hr {
			out = append(out, c.ID)
		}
	}
	return out, nil
}

func (m *memCompanies) Update(_ context.Context, c *entity.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[c.ID]; !ok {
		return repo.ErrNotFound
	}
	m.rows[c.ID] = *c
	return nil
}

func (m *memCompanies) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memCompanies) DeleteByHR(_ context.Context, hr primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, c := range m.rows {
		if c.CompanyHR == hr {
			delete(m.rows, id)
			n++
		}
	}
	return n, nil
}

// ---- jobs ----

type memJobs struct {
	mu   sync.Mutex
	rows map[primitive.ObjectID]entity.Job
}

func newMemJobs() *memJobs { return &memJobs{rows: map[primitive.ObjectID]entity.Job{}} }

func owns(o repo.JobOwnership, j entity.Job) bool {
	if !o.AddedBy.IsZero() && j.AddedBy == o.AddedBy {
		return true
	}
	for _, id := range o.CompanyIDs {
		if j.CompanyID == id {
			return true
		}
	}
	return false
}

func (m *memJobs) Create(_ context.Context, j *entity.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[j.ID] = *j
	return nil
}

func (m *memJobs) GetByID(_ context.Context, id primitive.ObjectID) (*entity.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.rows[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &j, nil
}

func (m *memJobs) List(_ context.Context, f repo.JobFilter) ([]entity.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Job
	for _, j := range m.rows {
		if f.WorkingTime != "" && j.WorkingTime != f.WorkingTime ||
			f.JobLocation != "" && j.JobLocation != f.JobLocation ||
			f.SeniorityLevel != "" && j.SeniorityLevel != f.SeniorityLevel {
			continue
		}
		if f.JobTitle != "" && !strings.Contains(strings.ToLower(j.JobTitle), strings.ToLower(f.JobTitle)) {
			continue
		}
		if len(f.CompanyIDs) > 0 && !owns(repo.JobOwnership{CompanyIDs: f.CompanyIDs}, j) {
			continue
		}
		if !containsAll(j.TechnicalSkills, f.TechnicalSkills) {
			continue
		}
		out = append(out, j)
	}
	return out, nil
}

func containsAll(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (m *memJobs) ListIDsByOwnership(_ context.Context, o repo.JobOwnership) ([]primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []primitive.ObjectID
	for _, j := range m.rows {
		if owns(o, j) {
			out = append(out, j.ID)
		}
	}
	return out, nil
}

func (m *memJobs) Update(_ context.Context, j *entity.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[j.ID]; !ok {
		return repo.ErrNotFound
	}
	m.rows[j.ID] = *j
	return nil
}

func (m *memJobs) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memJobs) DeleteByOwnership(_ context.Context, o repo.JobOwnership) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, j := range m.rows {
		if owns(o, j) {
			delete(m.rows, id)
			n++
		}
	}
	return n, nil
}

// ---- applications ----

type memApplications struct {
	mu        sync.Mutex
	rows      map[primitive.ObjectID]entity.Application
	deleteErr error
}

func newMemApplications() *memApplications {
	return &memApplications{rows: map[primitive.ObjectID]entity.Application{}}
}

func (m *memApplications) Create(_ context.Context, a *entity.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[a.ID] = *a
	return nil
}

func (m *memApplications) GetByID(_ context.Context, id primitive.ObjectID) (*entity.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &a, nil
}

func (m *memApplications) ExistsForUser(_ context.Context, jobID, userID primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.rows {
		if a.JobID == jobID && a.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memApplications) ListByJob(_ context.Context, jobID primitive.ObjectID) ([]entity.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Application
	for _, a := range m.rows {
		if a.JobID == jobID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memApplications) DeleteByUserOrJobs(_ context.Context, userID primitive.ObjectID, jobIDs []primitive.ObjectID) (int64, error) {
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, a := range m.rows {
		match := !userID.IsZero() && a.UserID == userID
		for _, j := range jobIDs {
			if a.JobID == j {
				match = true
			}
		}
		if match {
			delete(m.rows, id)
			n++
		}
	}
	return n, nil
}

func (m *memApplications) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// ---- collaborators ----

// fakeTokens encodes "purpose|subject"; tokens listed in expired verify as expired.
type fakeTokens struct {
	expired map[string]bool
	issued  []string
}

func newFakeTokens() *fakeTokens { return &fakeTokens{expired: map[string]bool{}} }

func (f *fakeTokens) Issue(subject string, purpose helpers.TokenPurpose) (string, time.Time, error) {
	t := string(purpose) + "|" + subject + "|" + primitive.NewObjectID().Hex()
	f.issued = append(f.issued, t)
	return t, time.Now().Add(time.Hour), nil
}

func (f *fakeTokens) Verify(token string, purpose helpers.TokenPurpose) (string, error) {
	parts := strings.Split(token, "|")
	if len(parts) != 3 || parts[0] != string(purpose) {
		return "", helpers.ErrTokenInvalid
	}
	if f.expired[token] {
		return parts[1], helpers.ErrTokenExpired
	}
	return parts[1], nil
}

func (f *fakeTokens) last() string { return f.issued[len(f.issued)-1] }

type fakeHasher struct{}

func (fakeHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }
func (fakeHasher) Compare(hash, plain string) bool  { return hash == "hashed:"+plain }

type sentMail struct {
	To, Subject, Text string
}

type fakeSender struct {
	mu     sync.Mutex
	sent   []sentMail
	reject bool
	err    error
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, _ string) (mailer.Delivery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return mailer.Delivery{}, f.err
	}
	if f.reject {
		return mailer.Delivery{Rejected: []string{to}}, nil
	}
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Text: text})
	return mailer.Delivery{Accepted: []string{to}}, nil
}

type fakeQueue struct {
	jobs []mailer.EmailJob
}

func (q *fakeQueue) PublishJSON(_ context.Context, body any) error {
	if j, ok := body.(mailer.EmailJob); ok {
		q.jobs = append(q.jobs, j)
	}
	return nil
}

type fakeAudit struct {
	entries []entity.AuditEntry
}

func (a *fakeAudit) Insert(_ context.Context, e entity.AuditEntry) error {
	a.entries = append(a.entries, e)
	return nil
}

func (a *fakeAudit) actions() []string {
	out := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.Action)
	}
	return out
}

type fakeAttempts struct {
	hits map[string]int64
	err  error
}

func newFakeAttempts() *fakeAttempts { return &fakeAttempts{hits: map[string]int64{}} }

func (a *fakeAttempts) Hit(_ context.Context, key string, _ time.Duration) (int64, error) {
	if a.err != nil {
		return 0, a.err
	}
	a.hits[key]++
	return a.hits[key], nil
}

func (a *fakeAttempts) Reset(_ context.Context, key string) error {
	delete(a.hits, key)
	return nil
}

type fakeIndex struct {
	docs      map[primitive.ObjectID]string
	searchErr error
}

func newFakeIndex() *fakeIndex { return &fakeIndex{docs: map[primitive.ObjectID]string{}} }

func (f *fakeIndex) Index(_ context.Context, c *entity.Company) error {
	f.docs[c.ID] = c.CompanyName
	return nil
}

func (f *fakeIndex) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.docs, id)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, name string, _ int) ([]primitive.ObjectID, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	var ids []primitive.ObjectID
	for id, n := range f.docs {
		if strings.Contains(strings.ToLower(n), strings.ToLower(name)) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type fakeResumes struct {
	uploaded []string
}

func (f *fakeResumes) Upload(_ context.Context, userID primitive.ObjectID, filename, _ string, r io.Reader) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	url := "https://storage.test/resumes/" + userID.Hex() + "/" + filename
	f.uploaded = append(f.uploaded, url)
	return url, nil
}

// ---- fixture ----

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	users     *memUsers
	companies *memCompanies
	jobs      *memJobs
	apps      *memApplications
	tokens    *fakeTokens
	sender    *fakeSender
	queue     *fakeQueue
	audit     *fakeAudit
	attempts  *fakeAttempts
	index     *fakeIndex
	resumes   *fakeResumes
	now       time.Time

	userSvc    *application.UserService
	companySvc *application.CompanyService
	jobSvc     *application.JobService
}

func newFixture() *fixture {
	f := &fixture{
		users:     newMemUsers(),
		companies: newMemCompanies(),
		jobs:      newMemJobs(),
		apps:      newMemApplications(),
		tokens:    newFakeTokens(),
		sender:    &fakeSender{},
		queue:     &fakeQueue{},
		audit:     &fakeAudit{},
		attempts:  newFakeAttempts(),
		index:     newFakeIndex(),
		resumes:   &fakeResumes{},
		now:       fixedNow,
	}
	clock := func() time.Time { return f.now }
	links := application.Links{AppName: "JobBoard", ConfirmEmailBaseURL: "http://api.test/user/confirm-email/", SupportURL: "http://support.test"}
	cascade := &application.Cascade{Users: f.users, Companies: f.companies, Jobs: f.jobs, Applications: f.apps, Index: f.index}

	f.userSvc = application.NewUserService(f.users, f.tokens, fakeHasher{}, f.sender, cascade, nil, links)
	f.userSvc.Queue = f.queue
	f.userSvc.Audit = f.audit
	f.userSvc.Attempts = f.attempts
	f.userSvc.Now = clock
	f.userSvc.GenOTP = func() (string, error) { return "654321", nil }

	f.companySvc = application.NewCompanyService(f.companies, f.jobs, f.apps, f.users, cascade, f.index, nil)
	f.companySvc.Now = clock

	f.jobSvc = application.NewJobService(f.jobs, f.companies, f.apps, f.users, cascade, nil, links)
	f.jobSvc.Resumes = f.resumes
	f.jobSvc.Queue = f.queue
	f.jobSvc.Now = clock
	return f
}

// seedUser stores a confirmed user directly and returns it.
func (f *fixture) seedUser(email, mobile string, role entity.Role, status entity.Status) *entity.User {
	u := &entity.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		Password:     "hashed:Secret@123",
		MobileNumber: mobile,
		Role:         role,
		Status:       status,
		IsConfirmed:  true,
		CreatedAt:    f.now,
		UpdatedAt:    f.now,
	}
	u.SetName("Test", "User")
	f.users.rows[u.ID] = *u
	return u
}

func (f *fixture) seedCompany(hr primitive.ObjectID, name string) *entity.Company {
	c := &entity.Company{
		ID:                primitive.NewObjectID(),
		CompanyName:       name,
		CompanyEmail:      strings.ToLower(name) + "@corp.test",
		NumberOfEmployees: "11-20",
		CompanyHR:         hr,
	}
	f.companies.rows[c.ID] = *c
	f.index.docs[c.ID] = name
	return c
}

func (f *fixture) seedJob(hr, company primitive.ObjectID, title string, skills ...string) *entity.Job {
	j := &entity.Job{
		ID:              primitive.NewObjectID(),
		JobTitle:        title,
		JobLocation:     entity.JobLocationRemotely,
		WorkingTime:     entity.WorkingTimeFullTime,
		SeniorityLevel:  entity.SeniorityJunior,
		TechnicalSkills: skills,
		AddedBy:         hr,
		CompanyID:       company,
	}
	f.jobs.rows[j.ID] = *j
	return j
}

func (f *fixture) seedApplication(job, user primitive.ObjectID) *entity.Application {
	a := &entity.Application{ID: primitive.NewObjectID(), JobID: job, UserID: user}
	f.apps.rows[a.ID] = *a
	return a
}

func online(u *entity.User) entity.Principal {
	p := u.Principal()
	p.Status = entity.StatusOnline
	return p
}

func offline(u *entity.User) entity.Principal {
	p := u.Principal()
	p.Status = entity.StatusOffline
	return p
}

var errBoom = errors.New("boom")
