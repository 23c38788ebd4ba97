package middleware

import (
	"net/http"
	"strings"

	"churchdir/internal/logger"
	"churchdir/internal/reqctx"
	"churchdir/internal/utils"
	helpers "churchdir/internal/utils/helpers"

	"go.uber.org/zap"
)

type TokenParser interface {
	Parse(token, tokenType string) (*utils.Claims, error)
}

// JWTAuth пропускает только сессионные токены; грант сброса сюда не подходит.
func JWTAuth(tokens TokenParser, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			logger.WithCtx(r.Context()).Warn("JWTAuth: отсутствует токен")
			helpers.Error(w, http.StatusUnauthorized, "No token, authorization denied")
			return
		}

		claims, err := tokens.Parse(strings.TrimPrefix(authHeader, "Bearer "), utils.TokenTypeAccess)
		if err != nil {
			logger.WithCtx(r.Context()).Warn("JWTAuth: неверный или просроченный токен", zap.Error(err))
			helpers.Error(w, http.StatusUnauthorized, "Token is not valid")
			return
		}

		ctx := reqctx.WithAccountID(r.Context(), claims.AccountID)
		ctx = reqctx.WithRole(ctx, claims.Role)

		logger.WithCtx(ctx).Debug("JWTAuth: токен валиден", zap.String("role", claims.Role))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
