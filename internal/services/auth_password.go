package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"churchdir/internal/logger"
	"churchdir/internal/models"
	"churchdir/internal/repository"
	"churchdir/internal/utils"

	"go.uber.org/zap"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 72 // предел bcrypt

	msgResetGeneric     = "If an account exists with this email, you will receive a password reset code."
	msgResetUnavailable = "Email service unavailable. Please use the verification code below or contact support."
	msgResetThrottled   = "Too many password reset attempts. Please try again after 15 minutes."
)

type ResetStore interface {
	Get(ctx context.Context, accountID string) (*models.ResetState, error)
	Save(ctx context.Context, st *models.ResetState, ttl time.Duration) error
	Delete(ctx context.Context, accountID string) error
}

// Notifier: OTP отправляется синхронно (результат нужен ответу),
// остальные письма ставятся в очередь.
type Notifier interface {
	SendOTP(ctx context.Context, to, name, otp string) error
	SendPasswordChanged(ctx context.Context, to, name string)
	SendWelcome(ctx context.Context, to, name, password string)
}

type TokenIssuer interface {
	Sign(accountID, role, tokenType string, ttl time.Duration) (string, error)
	Parse(token, tokenType string) (*utils.Claims, error)
}

type ResetPolicy struct {
	OTPTTL      time.Duration
	Window      time.Duration
	MaxAttempts int
	GrantTTL    time.Duration
}

func DefaultResetPolicy() ResetPolicy {
	return ResetPolicy{
		OTPTTL:      10 * time.Minute,
		Window:      15 * time.Minute,
		MaxAttempts: 3,
		GrantTTL:    15 * time.Minute,
	}
}

type ResetRequestResult struct {
	Message   string
	ExpiresIn int
	OTP       string // только при ENV=dev и недоставленном письме
}

type PasswordService struct {
	accounts AccountRepo
	resets   ResetStore
	notifier Notifier
	tokens   TokenIssuer
	hasher   *OTPHasher
	policy   ResetPolicy

	now       func() time.Time
	generate  func() (string, error)
	exposeOTP bool
}

type PasswordOption func(*PasswordService)

func WithClock(now func() time.Time) PasswordOption {
	return func(s *PasswordService) { s.now = now }
}

func WithCodeGenerator(gen func() (string, error)) PasswordOption {
	return func(s *PasswordService) { s.generate = gen }
}

// WithOTPExposure возвращает код в ответе, если письмо не ушло. Только для dev.
func WithOTPExposure(enabled bool) PasswordOption {
	return func(s *PasswordService) { s.exposeOTP = enabled }
}

func NewPasswordService(
	accounts AccountRepo,
	resets ResetStore,
	notifier Notifier,
	tokens TokenIssuer,
	pepper string,
	policy ResetPolicy,
	opts ...PasswordOption,
) *PasswordService {
	s := &PasswordService{
		accounts: accounts,
		resets:   resets,
		notifier: notifier,
		tokens:   tokens,
		hasher:   NewOTPHasher(pepper),
		policy:   policy,
		now:      time.Now,
		generate: GenerateOTP,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PasswordService) genericResult() *ResetRequestResult {
	return &ResetRequestResult{Message: msgResetGeneric, ExpiresIn: int(s.policy.OTPTTL / time.Second)}
}

// RequestReset выдаёт OTP на email. Для неизвестной почты ответ тот же,
// что и для известной, и ничего не записывается.
func (s *PasswordService) RequestReset(ctx context.Context, email string) (*ResetRequestResult, error) {
	log := logger.WithCtx(ctx)
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, invalidRequest("Email is required")
	}

	acc, err := s.accounts.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		log.Info("Запрос сброса для неизвестной почты (service)")
		return s.genericResult(), nil
	}
	if err != nil {
		log.Error("Ошибка поиска аккаунта при запросе сброса (service)", zap.Error(err))
		return nil, serverError("Error processing request", err)
	}

	now := s.now()
	st, err := s.resets.Get(ctx, acc.ID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		st = &models.ResetState{AccountID: acc.ID}
	case err != nil:
		log.Error("Ошибка чтения состояния сброса (service)", zap.Error(err), zap.String("account_id", acc.ID))
		return nil, serverError("Error processing request", err)
	}

	if st.InWindow(now, s.policy.Window) {
		if st.Attempts >= s.policy.MaxAttempts {
			retryAfter := int(math.Ceil(st.LastAttempt.Add(s.policy.Window).Sub(now).Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			log.Warn("Превышен лимит запросов сброса (service)",
				zap.String("account_id", acc.ID),
				zap.Int("attempts", st.Attempts),
				zap.Int("retry_after", retryAfter),
			)
			return nil, rateLimited(msgResetThrottled, retryAfter)
		}
	} else {
		st.Attempts = 0
	}

	code, err := s.generate()
	if err != nil {
		log.Error("Ошибка генерации OTP (service)", zap.Error(err))
		return nil, serverError("Error processing request", err)
	}

	st.OTPHash = s.hasher.Digest(acc.ID, code)
	st.OTPExpiry = now.Add(s.policy.OTPTTL)
	st.Attempts++
	st.LastAttempt = now

	if err := s.resets.Save(ctx, st, s.stateTTL()); err != nil {
		log.Error("Ошибка сохранения состояния сброса (service)", zap.Error(err), zap.String("account_id", acc.ID))
		return nil, serverError("Error processing request", err)
	}

	res := s.genericResult()
	if err := s.notifier.SendOTP(ctx, acc.Email, acc.Name, code); err != nil {
		log.Warn("Не удалось отправить OTP, запрос всё равно успешен (service)",
			zap.String("account_id", acc.ID),
			zap.Error(err),
		)
		if s.exposeOTP {
			res.Message = msgResetUnavailable
			res.OTP = code
		}
		return res, nil
	}

	log.Info("OTP для сброса пароля выдан (service)",
		zap.String("account_id", acc.ID),
		zap.Int("attempts", st.Attempts),
		zap.Time("expires_at", st.OTPExpiry),
	)
	return res, nil
}

// VerifyOTP обменивает действующий код на грант сброса.
// Состояние не очищается: повторная проверка того же кода до истечения разрешена.
func (s *PasswordService) VerifyOTP(ctx context.Context, email, code string) (string, error) {
	log := logger.WithCtx(ctx)
	email = strings.TrimSpace(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return "", invalidRequest("Email and OTP are required")
	}

	acc, err := s.accounts.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		log.Info("Проверка OTP для неизвестной почты (service)")
		return "", ErrInvalidOrExpiredOTP
	}
	if err != nil {
		log.Error("Ошибка поиска аккаунта при проверке OTP (service)", zap.Error(err))
		return "", serverError("Server error", err)
	}

	st, err := s.resets.Get(ctx, acc.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrInvalidOrExpiredOTP
	}
	if err != nil {
		log.Error("Ошибка чтения состояния сброса (service)", zap.Error(err), zap.String("account_id", acc.ID))
		return "", serverError("Server error", err)
	}

	if !st.OTPValid(s.now()) || !s.hasher.Match(acc.ID, code, st.OTPHash) {
		log.Info("Неверный или просроченный OTP (service)", zap.String("account_id", acc.ID))
		return "", ErrInvalidOrExpiredOTP
	}

	grant, err := s.tokens.Sign(acc.ID, "", utils.TokenTypePasswordReset, s.policy.GrantTTL)
	if err != nil {
		log.Error("Ошибка подписи гранта сброса (service)", zap.Error(err))
		return "", serverError("Server error", err)
	}

	log.Info("OTP подтверждён (service)", zap.String("account_id", acc.ID))
	return grant, nil
}

// ResetPassword меняет пароль по гранту и очищает состояние сброса.
func (s *PasswordService) ResetPassword(ctx context.Context, grant, newPassword string) error {
	log := logger.WithCtx(ctx)
	grant = strings.TrimSpace(grant)
	// пробелы по краям срезаются так же, как при входе
	newPassword = strings.TrimSpace(newPassword)
	if grant == "" || newPassword == "" {
		return invalidRequest("Reset token and password are required")
	}

	claims, err := s.tokens.Parse(grant, utils.TokenTypePasswordReset)
	if err != nil {
		log.Info("Невалидный грант сброса (service)", zap.Error(err))
		return ErrInvalidGrant
	}
	if err := validateNewPassword(newPassword); err != nil {
		return err
	}

	acc, err := s.accounts.GetByID(ctx, claims.AccountID)
	if errors.Is(err, repository.ErrNotFound) {
		log.Warn("Аккаунт из гранта не найден (service)", zap.String("account_id", claims.AccountID))
		return ErrAccountNotFound
	}
	if err != nil {
		log.Error("Ошибка поиска аккаунта при сбросе (service)", zap.Error(err))
		return serverError("Server error", err)
	}

	if err := s.accounts.UpdatePassword(ctx, acc.ID, newPassword); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		log.Error("Ошибка обновления пароля при сбросе (service)", zap.Error(err), zap.String("account_id", acc.ID))
		return serverError("Server error", err)
	}

	if err := s.resets.Delete(ctx, acc.ID); err != nil {
		// пароль уже сменён, ключ убьёт TTL
		log.Error("Не удалось очистить состояние сброса (service)", zap.Error(err), zap.String("account_id", acc.ID))
	}

	s.notifier.SendPasswordChanged(ctx, acc.Email, acc.Name)
	log.Info("Пароль сброшен (service)", zap.String("account_id", acc.ID))
	return nil
}

// ChangePassword: смена пароля авторизованным пользователем. Состояние сброса не трогает.
func (s *PasswordService) ChangePassword(ctx context.Context, accountID, oldPassword, newPassword string) error {
	log := logger.WithCtx(ctx)
	oldPassword = strings.TrimSpace(oldPassword)
	newPassword = strings.TrimSpace(newPassword)
	if oldPassword == "" || newPassword == "" {
		return invalidRequest("Current and new password are required")
	}
	if err := validateNewPassword(newPassword); err != nil {
		return err
	}

	acc, err := s.accounts.GetByID(ctx, accountID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrAccountNotFound
	}
	if err != nil {
		log.Error("Ошибка поиска аккаунта при смене пароля (service)", zap.Error(err))
		return serverError("Server error", err)
	}

	if !utils.CheckPasswordHash(oldPassword, acc.PasswordHash) {
		log.Info("Текущий пароль не совпадает (service)", zap.String("account_id", accountID))
		return ErrCurrentPasswordIncorrect
	}

	if err := s.accounts.UpdatePassword(ctx, accountID, newPassword); err != nil {
		log.Error("Ошибка обновления пароля (service)", zap.Error(err), zap.String("account_id", accountID))
		return serverError("Server error", err)
	}

	log.Info("Пароль изменён (service)", zap.String("account_id", accountID))
	return nil
}

// stateTTL: только для уборки ключа, корректность держится на timestamp.
func (s *PasswordService) stateTTL() time.Duration {
	if s.policy.OTPTTL > s.policy.Window {
		return s.policy.OTPTTL
	}
	return s.policy.Window
}

func validateNewPassword(p string) error {
	if len(p) < minPasswordLen {
		return ErrPasswordTooShort
	}
	if len(p) > maxPasswordLen {
		return ErrPasswordTooLong
	}
	return nil
}
