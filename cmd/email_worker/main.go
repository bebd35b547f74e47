package main

import (
	"context"
	"encoding/json"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/jobboard-api/config"
	"github.com/oksasatya/jobboard-api/internal/container"
	"github.com/oksasatya/jobboard-api/pkg/helpers"
	"github.com/oksasatya/jobboard-api/pkg/mailer"
	mailtpl "github.com/oksasatya/jobboard-api/pkg/mailer/templates"
)

const (
	prefetch     = 16
	sendTimeout  = 15 * time.Second
	requeueDelay = 5 * time.Second
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)
	if cfg.RabbitMQ.URL == "" || cfg.RabbitMQ.EmailQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}

	sender, err := container.NewMailSender(cfg, logger)
	if err != nil {
		logger.Fatalf("mail sender: %v", err)
	}

	queue, err := helpers.OpenRabbitQueue(cfg.RabbitMQ.URL, cfg.RabbitMQ.EmailQueue)
	if err != nil {
		logger.Fatalf("rabbitmq: %v", err)
	}
	defer queue.Close()

	msgs, err := queue.Consume(prefetch)
	if err != nil {
		logger.Fatalf("consume: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			handle(ctx, logger, sender, msg, requeueDelay)
		}
	}()

	logger.WithField("queue", cfg.RabbitMQ.EmailQueue).Info("email worker listening")
	<-ctx.Done()
	logger.Info("shutting down")
	queue.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

type outcome int

const (
	ack outcome = iota
	requeue
	drop
)

// handle settles one delivery. A requeue waits for delay first, or until shutdown.
func handle(ctx context.Context, logger *logrus.Logger, sender mailer.Sender, msg amqp.Delivery, delay time.Duration) {
	switch process(ctx, logger, sender, msg.Body) {
	case ack:
		_ = msg.Ack(false)
	case requeue:
		t := time.NewTimer(delay)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
		}
		_ = msg.Nack(false, true)
	case drop:
		_ = msg.Nack(false, false)
	}
}

// process renders and sends one job. Malformed payloads and unknown templates
// are dropped; transport failures are requeued; a rejected recipient is dropped.
func process(ctx context.Context, logger *logrus.Logger, sender mailer.Sender, body []byte) outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil || job.To == "" {
		logger.WithError(err).Warn("dropping malformed email job")
		return drop
	}
	job.Normalize()
	log := logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template})

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		s, t, h, err := mailtpl.Render(job.Template, job.Data)
		if err != nil {
			log.WithError(err).Warn("dropping email job with unrenderable template")
			return drop
		}
		subject, text, html = s, t, h
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	d, err := sender.Send(sendCtx, job.To, subject, text, html)
	if err != nil {
		log.WithError(err).Error("send failed; requeueing")
		return requeue
	}
	if d.Failed() {
		log.WithField("rejected", d.Rejected).Warn("recipient rejected; dropping")
		return drop
	}
	log.Info("email sent")
	return ack
}
