package templates

import (
	"time"
)

// Option pattern
type Option func(*EmailData)

// New builds EmailData for one recipient.
func New(appName, supportURL, name, email string, opts ...Option) EmailData {
	d := EmailData{
		AppName:    appName,
		SupportURL: supportURL,
		Name:       name,
		Email:      email,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func WithIP(ip string) Option { return func(d *EmailData) { d.IP = ip } }

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04 MST")
	}
}

func WithConfirmURL(url string) Option { return func(d *EmailData) { d.ConfirmURL = url } }

func WithCode(code string) Option { return func(d *EmailData) { d.Code = code } }

func WithExpiresAt(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format("02 January 2006, 15:04 MST")
	}
}

func WithApplication(jobTitle, companyName, applicantName string) Option {
	return func(d *EmailData) {
		d.JobTitle = jobTitle
		d.CompanyName = companyName
		d.ApplicantName = applicantName
	}
}
