package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/jobboard-api/internal/domain/entity"
	repo "github.com/oksasatya/jobboard-api/internal/domain/repository"
	"github.com/oksasatya/jobboard-api/pkg/helpers"
	"github.com/oksasatya/jobboard-api/pkg/mailer"
	tpl "github.com/oksasatya/jobboard-api/pkg/mailer/templates"
)

const (
	otpTTL           = time.Hour
	maxResetAttempts = 5
)

// UserService drives the account lifecycle: signup and confirmation,
// sessions and presence, password recovery, update and deletion.
type UserService struct {
	Users   repo.UserRepository
	Tokens  TokenIssuer
	Hasher  PasswordHasher
	Mailer  mailer.Sender
	Cascade *Cascade
	Queue    NotificationQueue    // optional
	Audit    repo.AuditRepository // optional
	Attempts AttemptCounter       // optional
	Logger  *logrus.Logger
	Links   Links

	Now    func() time.Time
	GenOTP func() (string, error)
	// MaxResetAttempts bounds resetPassword calls per email within one OTP lifetime.
	MaxResetAttempts int

	dummyOnce sync.Once
	dummyHash string
}

func NewUserService(users repo.UserRepository, tokens TokenIssuer, hasher PasswordHasher, sender mailer.Sender, cascade *Cascade, logger *logrus.Logger, links Links) *UserService {
	if logger == nil {
		logger = helpers.NopLogger()
	}
	return &UserService{
		Users:   users,
		Tokens:  tokens,
		Hasher:  hasher,
		Mailer:  sender,
		Cascade: cascade,
		Logger:  logger,
		Links:   links,
		Now:     time.Now,
		GenOTP:  helpers.GenOTPCode,

		MaxResetAttempts: maxResetAttempts,
	}
}

type SignUpInput struct {
	FirstName     string
	LastName      string
	Email         string
	Password      string
	RecoveryEmail string
	DOB           time.Time
	MobileNumber  string
	Role          entity.Role
}

// SignUp creates an unconfirmed, offline user after the confirmation link was delivered.
func (s *UserService) SignUp(ctx context.Context, in SignUpInput) (*entity.User, error) {
	const op = "SignUp"
	if !in.Role.Valid() {
		return nil, newError(op, ErrValidation, "role must be user or company_HR")
	}
	if err := s.ensureUnique(ctx, op, in.Email, in.MobileNumber, primitive.NilObjectID); err != nil {
		return nil, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, internal(op, err)
	}
	now := s.Now()
	u := &entity.User{
		ID:            primitive.NewObjectID(),
		Email:         in.Email,
		Password:      hash,
		RecoveryEmail: in.RecoveryEmail,
		DOB:           in.DOB,
		MobileNumber:  in.MobileNumber,
		Role:          in.Role,
		Status:        entity.StatusOffline,
		IsConfirmed:   false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	u.SetName(in.FirstName, in.LastName)

	if err := s.sendConfirmation(ctx, op, u, tpl.VerifyEmail); err != nil {
		return nil, err
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, wrapError(op, ErrConflict, "email or mobile number already exists", err)
		}
		return nil, internal(op, err)
	}
	s.audit(ctx, u, "sign_up", nil)
	return u, nil
}

// ConfirmEmail moves the token's subject from unconfirmed to confirmed. An
// expired token for a still unconfirmed user triggers a fresh link.
func (s *UserService) ConfirmEmail(ctx context.Context, token string) (*entity.User, error) {
	const op = "ConfirmEmail"
	sub, err := s.Tokens.Verify(token, helpers.PurposeConfirmation)
	switch {
	case err == nil:
		id, perr := primitive.ObjectIDFromHex(sub)
		if perr != nil {
			return nil, newError(op, ErrInvalidToken, "invalid token")
		}
		u, err := s.Users.ConfirmEmail(ctx, id)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, newError(op, ErrNotFound, "user not found or already confirmed")
			}
			return nil, internal(op, err)
		}
		s.audit(ctx, u, "email_confirmed", nil)
		return u, nil

	case errors.Is(err, helpers.ErrTokenExpired):
		id, perr := primitive.ObjectIDFromHex(sub)
		if perr != nil {
			return nil, newError(op, ErrInvalidToken, "invalid token")
		}
		u, err := s.Users.GetByID(ctx, id)
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			return nil, internal(op, err)
		}
		if u == nil || u.IsConfirmed {
			return nil, newError(op, ErrTokenExpired, "token expired")
		}
		if err := s.sendConfirmation(ctx, op, u, tpl.VerifyEmailReissued); err != nil {
			return nil, err
		}
		s.audit(ctx, u, "confirmation_reissued", nil)
		return nil, newError(op, ErrTokenExpired, "confirmation link expired, a new link has been sent")

	default:
		return nil, newError(op, ErrInvalidToken, "invalid token")
	}
}

type SignInInput struct {
	Email         string
	MobileNumber  string
	RecoveryEmail string
	Password      string
}

type SignInResult struct {
	Token     string
	ExpiresAt time.Time
	User      *entity.User
}

// SignIn issues a session token and marks the user online.
func (s *UserService) SignIn(ctx context.Context, in SignInInput) (*SignInResult, error) {
	const op = "SignIn"
	q := repo.LoginLookup{Email: in.Email, MobileNumber: in.MobileNumber, RecoveryEmail: in.RecoveryEmail}
	if q.Empty() {
		return nil, newError(op, ErrValidation, "email, mobile number or recovery email is required")
	}

	candidates, err := s.Users.FindForLogin(ctx, q)
	if err != nil {
		return nil, internal(op, err)
	}
	u := s.matchPassword(candidates, in.Password)
	if u == nil {
		var known *entity.User
		switch len(candidates) {
		case 0:
			s.Hasher.Compare(s.dummyPasswordHash(), in.Password)
		case 1:
			known = &candidates[0]
		}
		s.audit(ctx, known, "sign_in_failed", nil)
		return nil, newError(op, ErrInvalidCredentials, "invalid login credentials")
	}
	if !u.IsConfirmed {
		return nil, newError(op, ErrUnconfirmed, "please confirm your email first")
	}

	token, exp, err := s.Tokens.Issue(u.ID.Hex(), helpers.PurposeSession)
	if err != nil {
		return nil, internal(op, err)
	}
	if err := s.Users.SetStatus(ctx, u.ID, entity.StatusOnline); err != nil {
		return nil, internal(op, err)
	}
	u.Status = entity.StatusOnline
	s.audit(ctx, u, "sign_in", nil)
	return &SignInResult{Token: token, ExpiresAt: exp, User: u}, nil
}

// SignOut marks the principal offline. The token itself stays valid until it expires.
func (s *UserService) SignOut(ctx context.Context, p entity.Principal) error {
	const op = "SignOut"
	if err := RequireAuthenticated(p, op); err != nil {
		return err
	}
	if err := s.Users.SetStatus(ctx, p.ID, entity.StatusOffline); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return newError(op, ErrNotFound, "user not found")
		}
		return internal(op, err)
	}
	s.audit(ctx, &entity.User{ID: p.ID}, "sign_out", nil)
	return nil
}

// Resolve turns a session token into the caller's principal.
func (s *UserService) Resolve(ctx context.Context, token string) (entity.Principal, error) {
	const op = "Authenticate"
	if token == "" {
		return entity.Anonymous, newError(op, ErrUnauthenticated, "missing token")
	}
	sub, err := s.Tokens.Verify(token, helpers.PurposeSession)
	if err != nil {
		if errors.Is(err, helpers.ErrTokenExpired) {
			return entity.Anonymous, wrapError(op, ErrUnauthenticated, "session expired, please sign in again", ErrTokenExpired)
		}
		return entity.Anonymous, wrapError(op, ErrUnauthenticated, "invalid token", ErrInvalidToken)
	}
	id, err := primitive.ObjectIDFromHex(sub)
	if err != nil {
		return entity.Anonymous, wrapError(op, ErrUnauthenticated, "invalid token", ErrInvalidToken)
	}
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return entity.Anonymous, newError(op, ErrUnauthenticated, "user no longer exists")
		}
		return entity.Anonymous, internal(op, err)
	}
	return u.Principal(), nil
}

// UpdateAccountInput holds the mutable profile fields; empty means unchanged.
// Password and Role are only present so that supplying them can be rejected.
type UpdateAccountInput struct {
	FirstName     string
	LastName      string
	Email         string
	MobileNumber  string
	RecoveryEmail string
	DOB           *time.Time
	Password      string
	Role          string
}

func (s *UserService) UpdateAccount(ctx context.Context, p entity.Principal, in UpdateAccountInput) (*entity.User, error) {
	const op = "UpdateAccount"
	if err := Guard(p, op); err != nil {
		return nil, err
	}
	if in.Password != "" || in.Role != "" {
		return nil, newError(op, ErrValidation, "password and role cannot be changed here")
	}
	u, err := s.getUser(ctx, op, p.ID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, op, in.Email, in.MobileNumber, u.ID); err != nil {
		return nil, err
	}

	emailChanged := in.Email != "" && in.Email != u.Email
	next := *u
	next.SetName(in.FirstName, in.LastName)

	var upd repo.ProfileUpdate
	if in.FirstName != "" || in.LastName != "" {
		upd.FirstName, upd.LastName, upd.Username = &next.FirstName, &next.LastName, &next.Username
	}
	if emailChanged {
		upd.Email = &in.Email
		upd.Unconfirm = true
		next.Email = in.Email
		if err := s.sendConfirmation(ctx, op, &next, tpl.VerifyEmail); err != nil {
			return nil, err
		}
	}
	if in.MobileNumber != "" {
		upd.MobileNumber = &in.MobileNumber
	}
	if in.RecoveryEmail != "" {
		upd.RecoveryEmail = &in.RecoveryEmail
	}
	upd.DOB = in.DOB

	u, err = s.Users.UpdateProfile(ctx, u.ID, upd)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicate):
			return nil, wrapError(op, ErrConflict, "email or mobile number already exists", err)
		case errors.Is(err, repo.ErrNotFound):
			return nil, newError(op, ErrNotFound, "user not found")
		}
		return nil, internal(op, err)
	}
	if emailChanged {
		s.audit(ctx, u, "email_changed", nil)
	}
	return u, nil
}

// DeleteAccount removes the caller and everything that depends on them.
func (s *UserService) DeleteAccount(ctx context.Context, p entity.Principal) (CascadeReport, error) {
	const op = "DeleteAccount"
	if err := Guard(p, op); err != nil {
		return CascadeReport{}, err
	}
	u, err := s.getUser(ctx, op, p.ID)
	if err != nil {
		return CascadeReport{}, err
	}
	report, err := s.Cascade.DeleteUser(ctx, u.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return report, newError(op, ErrNotFound, "user not found")
		}
		return report, internal(op, err)
	}
	if report.Err != nil {
		s.Logger.WithError(report.Err).WithField("user_id", u.ID.Hex()).Error("cascade cleanup incomplete")
	}
	s.audit(ctx, u, "account_deleted", map[string]any{
		"companies":    report.Companies,
		"jobs":         report.Jobs,
		"applications": report.Applications,
	})
	s.notify(ctx, u.Email, tpl.AccountDeleted, tpl.New(s.Links.AppName, s.Links.SupportURL, u.FirstName, u.Email))
	return report, nil
}

func (s *UserService) GetAccountData(ctx context.Context, p entity.Principal) (*entity.User, error) {
	const op = "GetAccountData"
	if err := Guard(p, op); err != nil {
		return nil, err
	}
	return s.getUser(ctx, op, p.ID)
}

func (s *UserService) GetProfileData(ctx context.Context, p entity.Principal, userID string) (*entity.PublicProfile, error) {
	const op = "GetProfileData"
	if err := RequireAuthenticated(p, op); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, newError(op, ErrValidation, "user id is required")
	}
	id, err := parseID(op, userID, "user")
	if err != nil {
		return nil, err
	}
	u, err := s.getUser(ctx, op, id)
	if err != nil {
		return nil, err
	}
	profile := u.Public()
	return &profile, nil
}

// UpdatePassword changes the password of the caller and signs them out.
func (s *UserService) UpdatePassword(ctx context.Context, p entity.Principal, oldPassword, newPassword string) error {
	const op = "UpdatePassword"
	if err := Guard(p, op); err != nil {
		return err
	}
	u, err := s.getUser(ctx, op, p.ID)
	if err != nil {
		return err
	}
	if !s.Hasher.Compare(u.Password, oldPassword) {
		return newError(op, ErrInvalidCredentials, "old password does not match")
	}
	hash, err := s.Hasher.Hash(newPassword)
	if err != nil {
		return internal(op, err)
	}
	if err := s.Users.SetPassword(ctx, u.ID, hash); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return newError(op, ErrNotFound, "user not found")
		}
		return internal(op, err)
	}
	s.audit(ctx, u, "password_changed", nil)
	s.notifyPasswordChanged(ctx, u)
	return nil
}

// ForgetPassword stores a fresh OTP for the user and emails it.
func (s *UserService) ForgetPassword(ctx context.Context, email string) error {
	const op = "ForgetPassword"
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return newError(op, ErrNotFound, "user not found")
		}
		return internal(op, err)
	}
	code, err := s.GenOTP()
	if err != nil {
		return internal(op, err)
	}
	expiry := s.Now().Add(otpTTL)
	if err := s.Users.SetOTP(ctx, u.ID, code, expiry); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return newError(op, ErrNotFound, "user not found")
		}
		return internal(op, err)
	}
	s.resetAttempts(ctx, email)

	data := tpl.New(s.Links.AppName, s.Links.SupportURL, u.FirstName, u.Email, tpl.WithCode(code), tpl.WithExpiresAt(expiry))
	if err := s.deliver(ctx, op, u.Email, tpl.PasswordOTP, data); err != nil {
		return err
	}
	s.audit(ctx, u, "password_otp_sent", nil)
	return nil
}

// ResetPassword checks the OTP, sets the new password, clears the OTP and signs the user out.
// Attempts are counted per email, known or not.
func (s *UserService) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	const op = "ResetPassword"
	if err := s.countResetAttempt(ctx, op, email); err != nil {
		return err
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return newError(op, ErrNotFound, "user not found")
		}
		return internal(op, err)
	}
	if !u.OTPMatches(otp) {
		return newError(op, ErrOtpMismatch, "invalid otp")
	}
	if u.OTPExpired(s.Now()) {
		return newError(op, ErrOtpExpired, "otp expired")
	}
	hash, err := s.Hasher.Hash(newPassword)
	if err != nil {
		return internal(op, err)
	}
	if err := s.Users.ResetPassword(ctx, u.ID, otp, hash); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return newError(op, ErrOtpMismatch, "invalid otp")
		}
		return internal(op, err)
	}
	s.resetAttempts(ctx, email)
	s.audit(ctx, u, "password_reset", nil)
	s.notifyPasswordChanged(ctx, u)
	return nil
}

// GetRecoveryEmailAccounts lists every account sharing the caller's recovery email.
func (s *UserService) GetRecoveryEmailAccounts(ctx context.Context, p entity.Principal) ([]entity.PublicProfile, error) {
	const op = "GetRecoveryEmailAccounts"
	if err := RequireAuthenticated(p, op); err != nil {
		return nil, err
	}
	u, err := s.getUser(ctx, op, p.ID)
	if err != nil {
		return nil, err
	}
	if u.RecoveryEmail == "" {
		return []entity.PublicProfile{}, nil
	}
	users, err := s.Users.ListByRecoveryEmail(ctx, u.RecoveryEmail)
	if err != nil {
		return nil, internal(op, err)
	}
	out := make([]entity.PublicProfile, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out, nil
}

func (s *UserService) getUser(ctx context.Context, op string, id primitive.ObjectID) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, newError(op, ErrNotFound, "user not found")
		}
		return nil, internal(op, err)
	}
	return u, nil
}

// ensureUnique rejects an email or mobile number held by any user other than self.
func (s *UserService) ensureUnique(ctx context.Context, op, email, mobile string, self primitive.ObjectID) error {
	if email != "" {
		other, err := s.Users.GetByEmail(ctx, email)
		switch {
		case err == nil && other.ID != self:
			return newError(op, ErrConflict, "email already exists")
		case err != nil && !errors.Is(err, repo.ErrNotFound):
			return internal(op, err)
		}
	}
	if mobile != "" {
		other, err := s.Users.GetByMobile(ctx, mobile)
		switch {
		case err == nil && other.ID != self:
			return newError(op, ErrConflict, "mobile number already exists")
		case err != nil && !errors.Is(err, repo.ErrNotFound):
			return internal(op, err)
		}
	}
	return nil
}

// matchPassword returns the first candidate whose hash matches plain.
func (s *UserService) matchPassword(candidates []entity.User, plain string) *entity.User {
	for i := range candidates {
		if s.Hasher.Compare(candidates[i].Password, plain) {
			return &candidates[i]
		}
	}
	return nil
}

func resetAttemptKey(email string) string {
	return "reset:" + strings.ToLower(strings.TrimSpace(email))
}

// countResetAttempt fails open when the counter is unavailable.
func (s *UserService) countResetAttempt(ctx context.Context, op, email string) error {
	if s.Attempts == nil || s.MaxResetAttempts <= 0 {
		return nil
	}
	n, err := s.Attempts.Hit(ctx, resetAttemptKey(email), otpTTL)
	if err != nil {
		s.Logger.WithError(err).Warn("reset attempt counter unavailable")
		return nil
	}
	if n > int64(s.MaxResetAttempts) {
		return newError(op, ErrTooManyAttempts, "too many attempts, request a new code")
	}
	return nil
}

func (s *UserService) resetAttempts(ctx context.Context, email string) {
	if s.Attempts == nil {
		return
	}
	if err := s.Attempts.Reset(ctx, resetAttemptKey(email)); err != nil {
		s.Logger.WithError(err).Warn("reset attempt counter not cleared")
	}
}

func (s *UserService) sendConfirmation(ctx context.Context, op string, u *entity.User, template string) error {
	token, _, err := s.Tokens.Issue(u.ID.Hex(), helpers.PurposeConfirmation)
	if err != nil {
		return internal(op, err)
	}
	link := strings.TrimRight(s.Links.ConfirmEmailBaseURL, "/") + "/" + token
	data := tpl.New(s.Links.AppName, s.Links.SupportURL, u.FirstName, u.Email, tpl.WithConfirmURL(link))
	return s.deliver(ctx, op, u.Email, template, data)
}

// deliver renders and sends synchronously; any rejection is ErrDeliveryFailed.
func (s *UserService) deliver(ctx context.Context, op, to, template string, data tpl.EmailData) error {
	subject, text, html, err := tpl.Render(template, data)
	if err != nil {
		return internal(op, err)
	}
	d, err := s.Mailer.Send(ctx, to, subject, text, html)
	if err != nil || d.Failed() {
		s.Logger.WithError(err).WithFields(logrus.Fields{"to": to, "template": template, "rejected": d.Rejected}).Warn("email delivery failed")
		return wrapError(op, ErrDeliveryFailed, "could not send email to "+to, err)
	}
	return nil
}

func (s *UserService) notifyPasswordChanged(ctx context.Context, u *entity.User) {
	info := helpers.ClientInfoFrom(ctx)
	s.notify(ctx, u.Email, tpl.PasswordChanged,
		tpl.New(s.Links.AppName, s.Links.SupportURL, u.FirstName, u.Email, tpl.WithTime(s.Now()), tpl.WithIP(info.IP)))
}

// notify enqueues a best-effort email for the worker.
func (s *UserService) notify(ctx context.Context, to, template string, data tpl.EmailData) {
	publish(ctx, s.Queue, s.Logger, to, template, data)
}

func (s *UserService) audit(ctx context.Context, u *entity.User, action string, metadata map[string]any) {
	record(ctx, s.Audit, s.Logger, s.Now(), u, action, metadata)
}

func (s *UserService) dummyPasswordHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.Hasher.Hash("timing-equaliser-password")
	})
	return s.dummyHash
}

func publish(ctx context.Context, q NotificationQueue, logger *logrus.Logger, to, template string, data tpl.EmailData) {
	if q == nil || to == "" {
		return
	}
	job := mailer.EmailJob{To: to, Template: template, Data: tpl.ToMap(data)}
	if err := q.PublishJSON(ctx, job); err != nil {
		logger.WithError(err).WithFields(logrus.Fields{"to": to, "template": template}).Warn("enqueue notification failed")
	}
}

func record(ctx context.Context, a repo.AuditRepository, logger *logrus.Logger, now time.Time, u *entity.User, action string, metadata map[string]any) {
	if a == nil {
		return
	}
	info := helpers.ClientInfoFrom(ctx)
	e := entity.AuditEntry{
		Action:    action,
		IP:        info.IP,
		UserAgent: info.UserAgent,
		Metadata:  metadata,
		CreatedAt: now,
	}
	if u != nil {
		e.UserID = u.ID.Hex()
		e.Email = u.Email
	}
	if info.RequestID != "" {
		if e.Metadata == nil {
			e.Metadata = map[string]any{}
		}
		e.Metadata["request_id"] = info.RequestID
	}
	if err := a.Insert(ctx, e); err != nil {
		logger.WithError(err).WithField("action", action).Warn("audit insert failed")
	}
}
