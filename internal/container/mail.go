package container

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/jobboard-api/config"
	"github.com/oksasatya/jobboard-api/pkg/mailer"
)

// NewMailSender picks the transport named by MAIL_TRANSPORT, or a LogSender
// when MAIL_SEND_ENABLED is false.
func NewMailSender(cfg *config.Config, logger *logrus.Logger) (mailer.Sender, error) {
	if !cfg.MailSendEnabled {
		return mailer.LogSender{Logger: logger}, nil
	}
	switch cfg.MailTransport {
	case "mailgun":
		if cfg.Mailgun.Domain == "" || cfg.Mailgun.APIKey == "" {
			return nil, fmt.Errorf("mailgun transport needs MAILGUN_DOMAIN and MAILGUN_API_KEY")
		}
		from := cfg.Mailgun.Sender
		if from == "" {
			from = cfg.MailFrom
		}
		return mailer.NewMailgun(cfg.Mailgun.Domain, cfg.Mailgun.APIKey, from), nil
	case "smtp":
		if cfg.SMTP.Host == "" {
			return nil, fmt.Errorf("smtp transport needs SMTP_HOST")
		}
		return &mailer.SMTP{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.MailFrom,
			SSL:      cfg.SMTP.SSL,
		}, nil
	}
	return nil, fmt.Errorf("unknown MAIL_TRANSPORT %q", cfg.MailTransport)
}
