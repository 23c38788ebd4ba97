package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"churchdir/internal/logger"
	"churchdir/internal/services"
	"churchdir/internal/utils"
	helpers "churchdir/internal/utils/helpers"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// decodeAndValidate читает JSON-тело в dst и прогоняет теги validate.
// Ответ с ошибкой уже записан, если вернулось false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.WithCtx(r.Context()).Warn("Невалидный JSON", zap.String("path", r.URL.Path), zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := utils.ValidateStruct(dst); err != nil {
		helpers.Error(w, http.StatusBadRequest, utils.TranslateValidationError(err))
		return false
	}
	return true
}

// writeServiceError: единственное место, где вид ошибки превращается в HTTP-статус.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *services.AppError
	if !errors.As(err, &appErr) {
		logger.WithCtx(r.Context()).Error("Необработанная ошибка", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Server error")
		return
	}

	switch appErr.Kind {
	case services.KindValidation, services.KindAuth, services.KindConflict:
		helpers.Error(w, http.StatusBadRequest, appErr.Message)
	case services.KindRateLimited:
		helpers.RateLimited(w, appErr.RetryAfter, appErr.Message)
	case services.KindUnauthorized:
		helpers.Error(w, http.StatusUnauthorized, appErr.Message)
	case services.KindNotFound:
		helpers.Error(w, http.StatusNotFound, appErr.Message)
	default:
		logger.WithCtx(r.Context()).Error("Серверная ошибка", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, appErr.Message)
	}
}

func maskEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
