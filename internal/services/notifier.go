// internal/services/notifier.go
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"churchdir/internal/logger"
	"churchdir/internal/utils/helpers"

	"go.uber.org/zap"
)

const defaultQueueSize = 100

type EmailJob struct {
	To      []string
	Subject string
	Body    string
	IsHTML  bool
}

type MailSender interface {
	Send(to []string, subject, body string, isHTML bool) error
}

// MailNotifier: OTP уходит синхронно, подтверждения и приветствия через очередь.
// Переполненная очередь роняет письмо, запрос не блокируется.
type MailNotifier struct {
	sender  MailSender
	appName string
	otpTTL  time.Duration
	queue   chan EmailJob
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewMailNotifier(sender MailSender, appName string, otpTTL time.Duration, queueSize int) *MailNotifier {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &MailNotifier{
		sender:  sender,
		appName: appName,
		otpTTL:  otpTTL,
		queue:   make(chan EmailJob, queueSize),
	}
}

// StartWorkers запускает n воркеров. Они разбирают очередь, пока её не закроет Close.
func (n *MailNotifier) StartWorkers(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		n.wg.Add(1)
		go func(id int) {
			defer n.wg.Done()
			for job := range n.queue {
				if err := n.sender.Send(job.To, job.Subject, job.Body, job.IsHTML); err != nil {
					logger.Log.Error("Не удалось отправить письмо",
						zap.Int("worker", id),
						zap.String("subject", job.Subject),
						zap.Error(err),
					)
				}
			}
		}(i)
	}
	logger.Log.Info("Воркеры почты запущены", zap.Int("workers", workers))
}

// Close закрывает очередь и ждёт, пока воркеры отправят всё, что в ней осталось.
// Вызывать после остановки HTTP-сервера. Письма, поставленные позже, отбрасываются.
func (n *MailNotifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	close(n.queue)
	n.mu.Unlock()

	n.wg.Wait()
	logger.Log.Info("Очередь писем разобрана, воркеры остановлены")
}

func (n *MailNotifier) enqueue(ctx context.Context, job EmailJob) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		logger.WithCtx(ctx).Warn("Очередь писем закрыта, письмо отброшено", zap.String("subject", job.Subject))
		return
	}
	select {
	case n.queue <- job:
	default:
		logger.WithCtx(ctx).Warn("Очередь писем переполнена, письмо отброшено", zap.String("subject", job.Subject))
	}
}

func (n *MailNotifier) SendOTP(_ context.Context, to, name, otp string) error {
	subject := fmt.Sprintf("Password Reset Code - %s", n.appName)
	body := helpers.BuildPasswordResetOTPHTML(n.appName, name, otp, n.otpTTL)
	return n.sender.Send([]string{to}, subject, body, true)
}

func (n *MailNotifier) SendPasswordChanged(ctx context.Context, to, name string) {
	n.enqueue(ctx, EmailJob{
		To:      []string{to},
		Subject: fmt.Sprintf("Password Reset Successful - %s", n.appName),
		Body:    helpers.BuildPasswordChangedHTML(n.appName, name),
		IsHTML:  true,
	})
}

func (n *MailNotifier) SendWelcome(ctx context.Context, to, name, password string) {
	n.enqueue(ctx, EmailJob{
		To:      []string{to},
		Subject: fmt.Sprintf("Welcome to %s", n.appName),
		Body:    helpers.BuildWelcomeHTML(n.appName, name, to, password),
		IsHTML:  true,
	})
}
