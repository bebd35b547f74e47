package mailer

import "context"

// Delivery reports which recipients the transport accepted.
type Delivery struct {
	Accepted []string
	Rejected []string
}

// Failed is true when any recipient was rejected or none was accepted.
func (d Delivery) Failed() bool {
	return len(d.Rejected) > 0 || len(d.Accepted) == 0
}

func accepted(to string) Delivery { return Delivery{Accepted: []string{to}} }
func rejected(to string) Delivery { return Delivery{Rejected: []string{to}} }

// Sender delivers one message synchronously.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) (Delivery, error)
}
