package handlers

import (
	"net/http"

	"churchdir/internal/logger"
	"churchdir/internal/models"
	"churchdir/internal/reqctx"
	"churchdir/internal/services"
	helpers "churchdir/internal/utils/helpers"

	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token   string                `json:"token"`
	User    models.AccountSummary `json:"user"`
	Message string                `json:"message,omitempty"`
}

// Login godoc
// @Summary Вход по email и паролю
// @Tags auth
// @Accept json
// @Produce json
// @Param input body loginRequest true "Данные для входа"
// @Success 200 {object} authResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	logger.WithCtx(r.Context()).Info("Попытка входа", zap.String("email_masked", maskEmail(req.Email)))

	res, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	helpers.JSON(w, http.StatusOK, authResponse{Token: res.Token, User: res.User})
}

// Register godoc
// @Summary Создание контакта (только админ)
// @Description Пароль генерируется сервером и отправляется на почту.
// @Tags contacts
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.CreateAccountRequest true "Данные контакта"
// @Success 201 {object} authResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Router /api/contacts [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAccountRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	helpers.JSON(w, http.StatusCreated, authResponse{
		Token:   res.Token,
		User:    res.User,
		Message: "User created. Password sent to email.",
	})
}

// Profile godoc
// @Summary Профиль текущего пользователя
// @Tags auth
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} models.Account
// @Failure 401 {object} helpers.ErrorResponse
// @Router /api/auth/profile [get]
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	accountID, ok := reqctx.GetAccountID(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	acc, err := h.authService.GetAccount(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, acc)
}

// UpdateProfile godoc
// @Summary Обновление своего профиля
// @Description Частичное обновление; роль через профиль не меняется.
// @Tags auth
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.UpdateAccountRequest true "Изменяемые поля"
// @Success 200 {object} models.Account
// @Failure 400 {object} helpers.ErrorResponse
// @Router /api/auth/profile [put]
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	accountID, ok := reqctx.GetAccountID(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.UpdateAccountRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	acc, err := h.authService.UpdateProfile(r.Context(), accountID, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, acc)
}
