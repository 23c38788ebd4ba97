package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []EmailJob
	fail bool
	done chan struct{}
}

func (s *recordingSender) Send(to []string, subject, body string, isHTML bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("smtp down")
	}
	s.sent = append(s.sent, EmailJob{To: to, Subject: subject, Body: body, IsHTML: isHTML})
	if s.done != nil {
		s.done <- struct{}{}
	}
	return nil
}

func TestMailNotifier_SendOTPIsSynchronous(t *testing.T) {
	sender := &recordingSender{}
	n := NewMailNotifier(sender, "Bethel AG Dubai", 10*time.Minute, 1)

	if err := n.SendOTP(context.Background(), "anna@example.com", "Anna", "482913"); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(sender.sent) != 1 || !strings.Contains(sender.sent[0].Body, "482913") {
		t.Fatalf("код не отправлен: %+v", sender.sent)
	}

	sender.fail = true
	if err := n.SendOTP(context.Background(), "anna@example.com", "Anna", "482913"); err == nil {
		t.Fatal("ошибка доставки должна вернуться вызывающему")
	}
}

func TestMailNotifier_QueueAndWorkers(t *testing.T) {
	sender := &recordingSender{done: make(chan struct{}, 1)}
	n := NewMailNotifier(sender, "Bethel AG Dubai", 10*time.Minute, 4)
	n.StartWorkers(2)

	n.SendPasswordChanged(context.Background(), "anna@example.com", "Anna")
	select {
	case <-sender.done:
	case <-time.After(2 * time.Second):
		t.Fatal("воркер не отправил письмо")
	}

	n.Close()
	if len(sender.sent) != 1 || !strings.Contains(sender.sent[0].Subject, "Password Reset Successful") {
		t.Fatalf("неверное письмо: %+v", sender.sent)
	}
}

type slowSender struct {
	recordingSender
	delay time.Duration
}

func (s *slowSender) Send(to []string, subject, body string, isHTML bool) error {
	time.Sleep(s.delay)
	return s.recordingSender.Send(to, subject, body, isHTML)
}

func TestMailNotifier_CloseDrainsQueue(t *testing.T) {
	sender := &slowSender{delay: 20 * time.Millisecond}
	n := NewMailNotifier(sender, "Bethel AG Dubai", 10*time.Minute, 10)
	n.StartWorkers(1)

	const total = 5
	for i := 0; i < total; i++ {
		n.SendWelcome(context.Background(), "new@example.com", "New", "Pa55word")
	}
	n.Close()

	sender.mu.Lock()
	sent := len(sender.sent)
	sender.mu.Unlock()
	if sent != total {
		t.Fatalf("при остановке потеряны приветственные письма: отправлено %d из %d", sent, total)
	}

	// после Close письмо отбрасывается без паники
	n.SendPasswordChanged(context.Background(), "anna@example.com", "Anna")
	n.Close()
	if got := len(sender.sent); got != total {
		t.Fatalf("письмо после Close не должно уходить, отправлено %d", got)
	}
}

func TestMailNotifier_FullQueueDrops(t *testing.T) {
	sender := &recordingSender{}
	n := NewMailNotifier(sender, "Bethel AG Dubai", 10*time.Minute, 1)

	// воркеров нет: первое письмо ляжет в очередь, второе отбросится без блокировки
	n.SendWelcome(context.Background(), "a@example.com", "A", "pw")
	n.SendWelcome(context.Background(), "b@example.com", "B", "pw")

	if got := len(n.queue); got != 1 {
		t.Fatalf("ожидали 1 письмо в очереди, получили %d", got)
	}
}
