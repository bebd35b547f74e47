package mailer

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogSender accepts every message and only logs it. Used when MAIL_SEND_ENABLED=false.
type LogSender struct {
	Logger *logrus.Logger
}

func (l LogSender) Send(_ context.Context, to, subject, text, _ string) (Delivery, error) {
	if l.Logger != nil {
		l.Logger.WithFields(logrus.Fields{"to": to, "subject": subject}).Debug(text)
		l.Logger.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("mail sending disabled; message logged")
	}
	return accepted(to), nil
}
