package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"churchdir/internal/utils"
)

type passwordFixture struct {
	svc      *PasswordService
	accounts *mockAccountRepo
	resets   *mockResetStore
	notifier *mockNotifier
	clock    *fakeClock
	signer   *utils.TokenSigner
	code     string
}

func newPasswordFixture(t *testing.T, opts ...PasswordOption) *passwordFixture {
	t.Helper()
	f := &passwordFixture{
		accounts: newMockAccountRepo(),
		resets:   newMockResetStore(),
		notifier: &mockNotifier{},
		clock:    newFakeClock(),
		code:     "482913",
	}
	f.signer = utils.NewTokenSigner("test-secret").WithClock(f.clock.Now)
	opts = append([]PasswordOption{
		WithClock(f.clock.Now),
		WithCodeGenerator(func() (string, error) { return f.code, nil }),
	}, opts...)
	f.svc = NewPasswordService(f.accounts, f.resets, f.notifier, f.signer, "pepper", DefaultResetPolicy(), opts...)
	return f
}

func appErr(t *testing.T, err error) *AppError {
	t.Helper()
	var e *AppError
	if !errors.As(err, &e) {
		t.Fatalf("ожидали AppError, получили %v", err)
	}
	return e
}

func TestRequestReset_UnknownEmail(t *testing.T) {
	f := newPasswordFixture(t)
	known := f.accounts.add("Anna", "anna@example.com", "OldPass1!")

	unknown, err := f.svc.RequestReset(context.Background(), "ghost@example.com")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if f.resets.saves != 0 || f.accounts.writes != 0 {
		t.Fatal("для неизвестной почты не должно быть записей")
	}
	if len(f.notifier.otps) != 0 {
		t.Fatal("письмо не должно отправляться")
	}

	delivered, err := f.svc.RequestReset(context.Background(), known.Email)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if *unknown != *delivered {
		t.Fatalf("ответы различаются: %+v vs %+v", unknown, delivered)
	}
	if unknown.ExpiresIn != 600 || unknown.OTP != "" {
		t.Fatalf("неверный ответ: %+v", unknown)
	}
}

func TestRequestReset_IssuesHashedOTP(t *testing.T) {
	f := newPasswordFixture(t)
	acc := f.accounts.add("Anna", "anna@example.com", "OldPass1!")

	if _, err := f.svc.RequestReset(context.Background(), "  anna@example.com "); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if f.resets.saves != 1 {
		t.Fatalf("ожидали ровно одну запись, получили %d", f.resets.saves)
	}
	st := f.resets.states[acc.ID]
	if st.OTPHash == "" || st.OTPHash == f.code {
		t.Fatal("OTP должен храниться только в виде дайджеста")
	}
	if !st.OTPExpiry.Equal(f.clock.Now().Add(10 * time.Minute)) {
		t.Fatalf("неверный срок OTP: %v", st.OTPExpiry)
	}
	if st.Attempts != 1 || !st.LastAttempt.Equal(f.clock.Now()) {
		t.Fatalf("неверный счётчик: %+v", st)
	}
	if f.resets.lastTTL != 15*time.Minute {
		t.Fatalf("TTL ключа должен покрывать окно, получили %v", f.resets.lastTTL)
	}
	if len(f.notifier.otps) != 1 || f.notifier.otps[0] != f.code {
		t.Fatalf("код не доставлен: %v", f.notifier.otps)
	}
}

func TestRequestReset_Throttle(t *testing.T) {
	f := newPasswordFixture(t)
	acc := f.accounts.add("Anna", "anna@example.com", "OldPass1!")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := f.svc.RequestReset(ctx, acc.Email); err != nil {
			t.Fatalf("запрос %d: %v", i+1, err)
		}
		f.clock.Advance(time.Minute)
	}

	_, err := f.svc.RequestReset(ctx, acc.Email)
	e := appErr(t, err)
	if e.Kind != KindRateLimited {
		t.Fatalf("ожидали RateLimited, получили %v", e.Kind)
	}
	// последний запрос был 1 минуту назад
	if e.RetryAfter != 14*60 {
		t.Fatalf("ожидали retryAfter 840, получили %d", e.RetryAfter)
	}
	if f.resets.saves != 3 {
		t.Fatal("отклонённый запрос не должен ничего писать")
	}

	f.clock.Advance(14*time.Minute + time.Second)
	if _, err := f.svc.RequestReset(ctx, acc.Email); err != nil {
		t.Fatalf("после окна запрос должен пройти: %v", err)
	}
	if got := f.resets.states[acc.ID].Attempts; got != 1 {
		t.Fatalf("счётчик должен начаться заново, получили %d", got)
	}
}

func TestRequestReset_RetryAfterRoundsUp(t *testing.T) {
	f := newPasswordFixture(t)
	acc := f.accounts.add("Anna", "anna@example.com", "OldPass1!")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _ = f.svc.RequestReset(ctx, acc.Email)
	}
	f.clock.Advance(15*time.Minute - 500*time.Millisecond)

	_, err := f.svc.RequestReset(ctx, acc.Email)
	if e := appErr(t, err); e.RetryAfter != 1 {
		t.Fatalf("ожидали retryAfter 1, получили %d", e.RetryAfter)
	}
}

func TestRequestReset_DeliveryFailure(t *testing.T) {
	f := newPasswordFixture(t)
	f.notifier.failOTP = true
	acc := f.accounts.add("Anna", "anna@example.com", "OldPass1!")

	res, err := f.svc.RequestReset(context.Background(), acc.Email)
	if err != nil {
		t.Fatalf("сбой почты не должен быть ошибкой: %v", err)
	}
	if res.OTP != "" || res.Message != msgResetGeneric {
		t.Fatalf("в prod код не должен возвращаться: %+v", res)
	}
	if f.resets.saves != 1 {
		t.Fatal("состояние должно сохраниться несмотря на сбой почты")
	}

	dev := newPasswordFixture(t, WithOTPExposure(true))
	dev.notifier.failOTP = true
	dev.accounts.add("Anna", "anna@example.com", "OldPass1!")
	res, err = dev.svc.RequestReset(context.Background(), "anna@example.com")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if res.OTP != dev.code || res.Message != msgResetUnavailable || res.ExpiresIn != 600 {
		t.Fatalf("в dev ожидали код в ответе: %+v", res)
	}
}

func TestRequestReset_EmptyEmail(t *testing.T) {
	f := newPasswordFixture(t)
	_, err := f.svc.RequestReset(context.Background(), "   ")
	if KindOf(err) != KindValidation {
		t.Fatalf("ожидали Validation, получили %v", err)
	}
}

func TestVerifyOTP(t *testing.T) {
	f := newPasswordFixture(t)
	acc := f.accounts.add("Anna", "anna@example.com", "OldPass1!")
	ctx := context.Background()
	_, _ = f.svc.RequestReset(ctx, acc.Email)

	if _, err := f.svc.VerifyOTP(ctx, acc.Email, "000000"); !errors.Is(err, ErrInvalidOrExpiredOTP) {
		t.Fatalf("неверный код: ожидали ErrInvalidOrExpiredOTP, получили %v", err)
	}
	if _, err := f.svc.VerifyOTP(ctx, "ghost@example.com", f.code); !errors.Is(err, ErrInvalidOrExpiredOTP) {
		t.Fatalf("неизвестная почта: ожидали ErrInvalidOrExpiredOTP, получили %v", err)
	}
	if _, err := f.svc.VerifyOTP(ctx, acc.Email, ""); KindOf(err) != KindValidation {
		t.Fatalf("пустой код: ожидали Validation, получили %v", err)
	}

	grant, err := f.svc.VerifyOTP(ctx, acc.Email, f.code)
	if err != nil {
		t.Fatalf("верный код не принят: %v", err)
	}
	claims, err := f.signer.Parse(grant, utils.TokenTypePasswordReset)
	if err != nil || claims.AccountID != acc.ID {
		t.Fatalf("грант невалиден: %v %+v", err, claims)
	}

	// проверка не расходует код
	if _, err := f.svc.VerifyOTP(ctx, acc.Email, f.code); err != nil {
		t.Fatalf("повторная проверка должна пройти: %v", err)
	}
	if f.resets.deletes != 0 {
		t.Fatal("VerifyOTP не должен очищать состояние")
	}
}

func TestVerifyOTP_Expiry(t *testing.T) {
	f := newPasswordFixture(t)
	acc := f.accounts.add("Anna", "anna@example.com", "OldPass1!")
	ctx := context.Background()
	_, _ = f.svc.RequestReset(ctx, acc.Email)

	f.clock.Advance(10*time.Minute - time.Second)
	if _, err := f.svc.VerifyOTP(ctx, acc.Email, f.code); err != nil {
		t.Fatalf("до истечения код действителен: %v", err)
	}

	f.clock.Advance(time.Second)
	if _, err := f.svc.VerifyOTP(ctx, acc.Email, f.code); !errors.Is(err, ErrInvalidOrExpiredOTP) {
		t.Fatalf("в момент истечения код недействителен, получили %v", err)
	}
}

func TestResetPassword(t *testing.T) {
	f := newPasswordFixture(t)
	acc := f.accounts.add("Anna", "anna@example.com", "OldPass1!")
	ctx := context.Background()
	_, _ = f.svc.RequestReset(ctx, acc.Email)
	grant, _ := f.svc.VerifyOTP(ctx, acc.Email, f.code)

	if err := f.svc.ResetPassword(ctx, grant, "NewPass1!"); err != nil {
		t.Fatalf("сброс не удался: %v", err)
	}
	if !utils.CheckPasswordHash("NewPass1!", f.accounts.hashOf(acc.ID)) {
		t.Fatal("новый пароль не установлен")
	}
	if _, ok := f.resets.states[acc.ID]; ok {
		t.Fatal("состояние сброса должно быть очищено")
	}
	if len(f.notifier.changed) != 1 {
		t.Fatal("подтверждение не поставлено в очередь")
	}
	if _, err := f.svc.VerifyOTP(ctx, acc.Email, f.code); !errors.Is(err, ErrInvalidOrExpiredOTP) {
		t.Fatalf("после сброса код недействителен, получили %v", err)
	}
}

func TestResetPassword_BadGrantDoesNotMutate(t *testing.T) {
	f := newPasswordFixture(t)
	acc := f.accounts.add("Anna", "anna@example.com", "OldPass1!")
	before := f.accounts.hashOf(acc.ID)
	ctx := context.Background()

	session, _ := f.signer.Sign(acc.ID, "user", utils.TokenTypeAccess, time.Hour)
	foreign, _ := utils.NewTokenSigner("other").Sign(acc.ID, "", utils.TokenTypePasswordReset, time.Hour)
	expired, _ := f.signer.Sign(acc.ID, "", utils.TokenTypePasswordReset, 15*time.Minute)
	f.clock.Advance(15*time.Minute + time.Second)

	for name, grant := range map[string]string{
		"garbage": "not-a-jwt",
		"session": session,
		"foreign": foreign,
		"expired": expired,
	} {
		if err := f.svc.ResetPassword(ctx, grant, "NewPass1!"); !errors.Is(err, ErrInvalidGrant) {
			t.Fatalf("%s: ожидали ErrInvalidGrant, получили %v", name, err)
		}
	}
	if f.accounts.hashOf(acc.ID) != before || f.accounts.writes != 0 {
		t.Fatal("невалидный грант не должен менять аккаунт")
	}
}

func TestResetPassword_Errors(t *testing.T) {
	f := newPasswordFixture(t)
	acc := f.accounts.add("Anna", "anna@example.com", "OldPass1!")
	ctx := context.Background()
	grant, _ := f.signer.Sign(acc.ID, "", utils.TokenTypePasswordReset, 15*time.Minute)

	if err := f.svc.ResetPassword(ctx, "", "NewPass1!"); KindOf(err) != KindValidation {
		t.Fatalf("пустой грант: ожидали Validation, получили %v", err)
	}
	if err := f.svc.ResetPassword(ctx, grant, "short"); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("короткий пароль: ожидали ErrPasswordTooShort, получили %v", err)
	}

	ghost, _ := f.signer.Sign("acc-404", "", utils.TokenTypePasswordReset, 15*time.Minute)
	if err := f.svc.ResetPassword(ctx, ghost, "NewPass1!"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("удалённый аккаунт: ожидали ErrAccountNotFound, получили %v", err)
	}
}

func TestResetPassword_StateDeleteFailureIsNotFatal(t *testing.T) {
	f := newPasswordFixture(t)
	f.resets.failDel = true
	acc := f.accounts.add("Anna", "anna@example.com", "OldPass1!")
	grant, _ := f.signer.Sign(acc.ID, "", utils.TokenTypePasswordReset, 15*time.Minute)

	if err := f.svc.ResetPassword(context.Background(), grant, "NewPass1!"); err != nil {
		t.Fatalf("сбой очистки не должен откатывать сброс: %v", err)
	}
	if !utils.CheckPasswordHash("NewPass1!", f.accounts.hashOf(acc.ID)) {
		t.Fatal("пароль должен быть изменён")
	}
}

func TestChangePassword(t *testing.T) {
	f := newPasswordFixture(t)
	acc := f.accounts.add("Anna", "anna@example.com", "OldPass1!")
	ctx := context.Background()
	_, _ = f.svc.RequestReset(ctx, acc.Email)
	before := f.accounts.hashOf(acc.ID)

	if err := f.svc.ChangePassword(ctx, acc.ID, "wrong-pass", "NewPass1!"); !errors.Is(err, ErrCurrentPasswordIncorrect) {
		t.Fatalf("ожидали ErrCurrentPasswordIncorrect, получили %v", err)
	}
	if f.accounts.hashOf(acc.ID) != before {
		t.Fatal("неверный текущий пароль не должен менять хеш")
	}

	if err := f.svc.ChangePassword(ctx, acc.ID, "OldPass1!", "NewPass1!"); err != nil {
		t.Fatalf("смена не удалась: %v", err)
	}
	if !utils.CheckPasswordHash("NewPass1!", f.accounts.hashOf(acc.ID)) {
		t.Fatal("новый пароль не установлен")
	}
	if _, ok := f.resets.states[acc.ID]; !ok {
		t.Fatal("смена пароля не должна трогать состояние сброса")
	}

	if err := f.svc.ChangePassword(ctx, "acc-404", "OldPass1!", "NewPass1!"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("ожидали ErrAccountNotFound, получили %v", err)
	}
}

func TestNewPasswordIsTrimmedLikeLogin(t *testing.T) {
	f := newPasswordFixture(t)
	acc := f.accounts.add("Anna", "anna@example.com", "OldPass1!")
	ctx := context.Background()
	auth := NewAuthService(f.accounts, f.signer, f.notifier, time.Hour)

	_, _ = f.svc.RequestReset(ctx, acc.Email)
	grant, err := f.svc.VerifyOTP(ctx, acc.Email, f.code)
	if err != nil {
		t.Fatalf("проверка не удалась: %v", err)
	}
	if err := f.svc.ResetPassword(ctx, grant, "  NewPass1!  "); err != nil {
		t.Fatalf("сброс не удался: %v", err)
	}
	if _, err := auth.Login(ctx, acc.Email, "NewPass1!"); err != nil {
		t.Fatalf("вход после сброса с пробелами не удался: %v", err)
	}
	if _, err := auth.Login(ctx, acc.Email, "  NewPass1!  "); err != nil {
		t.Fatalf("вход тем же вводом не удался: %v", err)
	}

	if err := f.svc.ChangePassword(ctx, acc.ID, " NewPass1! ", " Changed99 "); err != nil {
		t.Fatalf("смена не удалась: %v", err)
	}
	if _, err := auth.Login(ctx, acc.Email, "Changed99"); err != nil {
		t.Fatalf("вход после смены с пробелами не удался: %v", err)
	}

	if err := f.svc.ChangePassword(ctx, acc.ID, "Changed99", "        "); err == nil || KindOf(err) != KindValidation {
		t.Fatalf("пароль из одних пробелов должен отклоняться, получили %v", err)
	}
}

// Полный сценарий: запрос, проверка, сброс, вход новым паролем.
func TestPasswordResetScenario(t *testing.T) {
	f := newPasswordFixture(t)
	acc := f.accounts.add("Anna", "anna@example.com", "OldPass1!")
	ctx := context.Background()
	auth := NewAuthService(f.accounts, f.signer, f.notifier, time.Hour)

	res, err := f.svc.RequestReset(ctx, acc.Email)
	if err != nil || res.ExpiresIn != 600 {
		t.Fatalf("запрос: %v %+v", err, res)
	}
	f.clock.Advance(2 * time.Minute)

	grant, err := f.svc.VerifyOTP(ctx, acc.Email, "482913")
	if err != nil {
		t.Fatalf("проверка: %v", err)
	}
	if err := f.svc.ResetPassword(ctx, grant, "NewPass1!"); err != nil {
		t.Fatalf("сброс: %v", err)
	}

	if _, err := auth.Login(ctx, acc.Email, "OldPass1!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("старый пароль должен перестать работать, получили %v", err)
	}
	if _, err := auth.Login(ctx, acc.Email, "NewPass1!"); err != nil {
		t.Fatalf("вход новым паролем: %v", err)
	}
}
