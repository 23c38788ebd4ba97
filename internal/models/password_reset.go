package models

import "time"

// ResetState: эфемерное состояние сброса пароля для одного аккаунта.
// Открытый OTP никогда не хранится, только OTPHash.
type ResetState struct {
	AccountID   string
	OTPHash     string
	OTPExpiry   time.Time
	Attempts    int
	LastAttempt time.Time
}

// InWindow: был ли последний запрос внутри окна троттлинга.
func (s *ResetState) InWindow(now time.Time, window time.Duration) bool {
	return !s.LastAttempt.IsZero() && s.LastAttempt.After(now.Add(-window))
}

// OTPValid: OTP выдан и ещё не истёк (строго now < expiry).
func (s *ResetState) OTPValid(now time.Time) bool {
	return s.OTPHash != "" && now.Before(s.OTPExpiry)
}
