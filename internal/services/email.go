package services

import (
	"errors"

	"churchdir/internal/config"

	"gopkg.in/gomail.v2"
)

var ErrSMTPNotConfigured = errors.New("smtp is not configured")

type EmailService struct {
	dialer *gomail.Dialer
	from   string
	ready  bool
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.SMTPFrom,
		ready:  cfg.SMTPHost != "" && cfg.SMTPFrom != "",
	}
}

func (s *EmailService) Send(to []string, subject, body string, isHTML bool) error {
	if !s.ready {
		return ErrSMTPNotConfigured
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	if isHTML {
		m.SetBody("text/html", body)
	} else {
		m.SetBody("text/plain", body)
	}

	return s.dialer.DialAndSend(m)
}
