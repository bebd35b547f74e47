package mailer

import (
	"context"
	"time"

	"github.com/wneessen/go-mail"
)

// SMTP sends through a plain SMTP relay.
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	SSL      bool
}

func (s *SMTP) client() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(s.Port),
		mail.WithTimeout(10 * time.Second),
	}
	if s.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.Username),
			mail.WithPassword(s.Password),
		)
	}
	if s.SSL {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSOpportunistic))
	}
	return mail.NewClient(s.Host, opts...)
}

func (s *SMTP) Send(ctx context.Context, to, subject, text, html string) (Delivery, error) {
	msg := mail.NewMsg()
	if err := msg.From(s.From); err != nil {
		return rejected(to), err
	}
	if err := msg.To(to); err != nil {
		return rejected(to), err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, text)
	if html != "" {
		msg.AddAlternativeString(mail.TypeTextHTML, html)
	}

	c, err := s.client()
	if err != nil {
		return rejected(to), err
	}
	if err := c.DialAndSendWithContext(ctx, msg); err != nil {
		return rejected(to), err
	}
	return accepted(to), nil
}
