package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"churchdir/internal/logger"
	"churchdir/internal/models"
	"churchdir/internal/repository"
	"churchdir/internal/utils"

	"go.uber.org/zap"
)

const generatedPasswordLen = 10

var ErrEmailInUse = &AppError{Kind: KindConflict, Message: "Email is already in use"}

// AccountRepo: общий контракт postgres- и mongo-хранилищ.
type AccountRepo interface {
	Create(ctx context.Context, a *models.Account, plainPassword string) error
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	List(ctx context.Context) ([]*models.Account, error)
	UpdateFields(ctx context.Context, id string, input *models.UpdateAccountRequest) error
	UpdatePassword(ctx context.Context, id, plainPassword string) error
	Delete(ctx context.Context, id string) error
}

type AuthService struct {
	repo       AccountRepo
	tokens     TokenIssuer
	notifier   Notifier
	sessionTTL time.Duration
}

func NewAuthService(repo AccountRepo, tokens TokenIssuer, notifier Notifier, sessionTTL time.Duration) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, notifier: notifier, sessionTTL: sessionTTL}
}

type AuthResult struct {
	Token string
	User  models.AccountSummary
}

// Register создаёт контакт со сгенерированным паролем и отправляет его письмом.
func (s *AuthService) Register(ctx context.Context, input *models.CreateAccountRequest) (*AuthResult, error) {
	log := logger.WithCtx(ctx)
	log.Info("Регистрация контакта (service)", zap.String("email", input.Email))

	input.Email = strings.TrimSpace(input.Email)
	if _, err := s.repo.GetByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		log.Error("Ошибка проверки email (service)", zap.Error(err))
		return nil, serverError("Server error", err)
	}

	password, err := utils.GeneratePassword(generatedPasswordLen)
	if err != nil {
		log.Error("Ошибка генерации пароля (service)", zap.Error(err))
		return nil, serverError("Server error", err)
	}

	acc := input.ToAccount()
	if err := s.repo.Create(ctx, acc, password); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		log.Error("Ошибка создания контакта (service)", zap.Error(err))
		return nil, serverError("Server error", err)
	}

	token, err := s.tokens.Sign(acc.ID, acc.Role, utils.TokenTypeAccess, s.sessionTTL)
	if err != nil {
		log.Error("Ошибка генерации токена (service)", zap.Error(err))
		return nil, serverError("Server error", err)
	}

	s.notifier.SendWelcome(ctx, acc.Email, acc.Name, password)
	log.Info("Контакт создан (service)", zap.String("account_id", acc.ID))
	return &AuthResult{Token: token, User: acc.Summary()}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.WithCtx(ctx)
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return nil, invalidRequest("Email and password are required")
	}

	acc, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		log.Info("Вход: аккаунт не найден (service)")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		log.Error("Ошибка поиска аккаунта при входе (service)", zap.Error(err))
		return nil, serverError("Server error", err)
	}

	if !utils.CheckPasswordHash(password, acc.PasswordHash) {
		log.Info("Вход: неверный пароль (service)", zap.String("account_id", acc.ID))
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Sign(acc.ID, acc.Role, utils.TokenTypeAccess, s.sessionTTL)
	if err != nil {
		log.Error("Ошибка генерации токена (service)", zap.Error(err))
		return nil, serverError("Server error", err)
	}

	log.Info("Вход выполнен (service)", zap.String("account_id", acc.ID))
	return &AuthResult{Token: token, User: acc.Summary()}, nil
}

func (s *AuthService) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	acc, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка получения аккаунта (service)", zap.Error(err), zap.String("account_id", id))
		return nil, serverError("Server error", err)
	}
	return acc, nil
}

func (s *AuthService) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка получения контактов (service)", zap.Error(err))
		return nil, serverError("Server error", err)
	}
	if accounts == nil {
		accounts = []*models.Account{}
	}
	return accounts, nil
}

// UpdateProfile: владелец меняет свою карточку; роль через профиль не меняется.
func (s *AuthService) UpdateProfile(ctx context.Context, id string, input *models.UpdateAccountRequest) (*models.Account, error) {
	input.Role = nil
	return s.UpdateAccount(ctx, id, input)
}

func (s *AuthService) UpdateAccount(ctx context.Context, id string, input *models.UpdateAccountRequest) (*models.Account, error) {
	log := logger.WithCtx(ctx)
	if input.IsEmpty() {
		return nil, ErrNothingToUpdate
	}

	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		input.Email = &email
		other, err := s.repo.GetByEmail(ctx, email)
		switch {
		case err == nil && other.ID != id:
			return nil, ErrEmailInUse
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			log.Error("Ошибка проверки email (service)", zap.Error(err))
			return nil, serverError("Server error", err)
		}
	}

	if err := s.repo.UpdateFields(ctx, id, input); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrAccountNotFound
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, ErrEmailInUse
		}
		log.Error("Ошибка обновления аккаунта (service)", zap.Error(err), zap.String("account_id", id))
		return nil, serverError("Server error", err)
	}

	log.Info("Аккаунт обновлён (service)", zap.String("account_id", id))
	return s.GetAccount(ctx, id)
}

func (s *AuthService) DeleteAccount(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		logger.WithCtx(ctx).Error("Ошибка удаления аккаунта (service)", zap.Error(err), zap.String("account_id", id))
		return serverError("Server error", err)
	}
	logger.WithCtx(ctx).Info("Аккаунт удалён (service)", zap.String("account_id", id))
	return nil
}
