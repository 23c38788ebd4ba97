package handlers

import (
	"net/http"

	"churchdir/internal/logger"
	"churchdir/internal/reqctx"
	"churchdir/internal/services"
	helpers "churchdir/internal/utils/helpers"

	"go.uber.org/zap"
)

type PasswordHandler struct {
	svc *services.PasswordService
}

func NewPasswordHandler(svc *services.PasswordService) *PasswordHandler {
	return &PasswordHandler{svc: svc}
}

type forgotReq struct {
	Email string `json:"email" validate:"required,max=254"`
}

type forgotResp struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ExpiresIn int    `json:"expiresIn,omitempty"`
	OTP       string `json:"otp,omitempty"`
}

// Forgot godoc
// @Summary Запрос кода для сброса пароля
// @Description Отправляет шестизначный код на почту. Ответ одинаковый, даже если e-mail не найден.
// @Tags password
// @Accept json
// @Produce json
// @Param input body forgotReq true "Email пользователя"
// @Success 200 {object} forgotResp
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 429 {object} helpers.ErrorResponse
// @Router /api/auth/forgot-password [post]
func (h *PasswordHandler) Forgot(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req forgotReq
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.svc.RequestReset(r.Context(), req.Email)
	if err != nil {
		log.Warn("Запрос сброса отклонён", zap.String("email_masked", maskEmail(req.Email)), zap.Error(err))
		writeServiceError(w, r, err)
		return
	}

	log.Info("Запрошен сброс пароля", zap.String("email_masked", maskEmail(req.Email)))
	helpers.JSON(w, http.StatusOK, forgotResp{
		Success:   true,
		Message:   res.Message,
		ExpiresIn: res.ExpiresIn,
		OTP:       res.OTP,
	})
}

type verifyReq struct {
	Email string `json:"email" validate:"required,max=254"`
	OTP   string `json:"otp" validate:"required,max=16"`
}

type verifyResp struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	ResetToken string `json:"resetToken"`
}

// VerifyOTP godoc
// @Summary Проверка кода сброса
// @Description Возвращает одноразовый по назначению токен сброса (15 минут).
// @Tags password
// @Accept json
// @Produce json
// @Param input body verifyReq true "Email и код"
// @Success 200 {object} verifyResp
// @Failure 400 {object} helpers.ErrorResponse
// @Router /api/auth/verify-otp [post]
func (h *PasswordHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyReq
	if !decodeAndValidate(w, r, &req) {
		return
	}

	grant, err := h.svc.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		logger.WithCtx(r.Context()).Info("Код не принят", zap.String("email_masked", maskEmail(req.Email)))
		writeServiceError(w, r, err)
		return
	}

	helpers.JSON(w, http.StatusOK, verifyResp{Success: true, Message: "OTP verified successfully", ResetToken: grant})
}

type resetReq struct {
	ResetToken string `json:"resetToken" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// Reset godoc
// @Summary Сброс пароля по токену
// @Tags password
// @Accept json
// @Produce json
// @Param input body resetReq true "Токен сброса и новый пароль"
// @Success 200 {object} messageResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/auth/reset-password [post]
func (h *PasswordHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req resetReq
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.svc.ResetPassword(r.Context(), req.ResetToken, req.Password); err != nil {
		writeServiceError(w, r, err)
		return
	}

	helpers.JSON(w, http.StatusOK, messageResponse{Success: true, Message: "Password reset successful"})
}

type changeReq struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// Change godoc
// @Summary Смена пароля (авторизованный пользователь)
// @Tags password
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body changeReq true "Старый и новый пароль"
// @Success 200 {object} messageResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Router /api/auth/change-password [put]
func (h *PasswordHandler) Change(w http.ResponseWriter, r *http.Request) {
	accountID, ok := reqctx.GetAccountID(r.Context())
	if !ok {
		logger.WithCtx(r.Context()).Warn("Смена пароля без авторизации")
		helpers.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req changeReq
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.svc.ChangePassword(r.Context(), accountID, req.OldPassword, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}

	helpers.JSON(w, http.StatusOK, messageResponse{Success: true, Message: "Password changed successfully"})
}
