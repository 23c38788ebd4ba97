package routes

import (
	"net/http"

	"churchdir/internal/handlers"
	"churchdir/internal/middleware"
	"churchdir/internal/models"

	"github.com/gorilla/mux"
)

// InitRoutes регистрирует маршруты. authLimiter может быть nil, тогда лимита нет.
func InitRoutes(
	router *mux.Router,
	tokens middleware.TokenParser,
	authLimiter *middleware.RateLimiter,
	authHandler *handlers.AuthHandler,
	passwordHandler *handlers.PasswordHandler,
	contactHandler *handlers.ContactHandler,
	healthHandler *handlers.HealthHandler,
) {
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Logging)

	if healthHandler != nil {
		router.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)
	}

	api := router.PathPrefix("/api").Subrouter()

	// --- Публичные маршруты ---
	public := api.PathPrefix("/auth").Subrouter()
	if authLimiter != nil {
		public.Use(authLimiter.Middleware)
	}
	public.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	public.HandleFunc("/forgot-password", passwordHandler.Forgot).Methods(http.MethodPost)
	public.HandleFunc("/verify-otp", passwordHandler.VerifyOTP).Methods(http.MethodPost)
	public.HandleFunc("/reset-password", passwordHandler.Reset).Methods(http.MethodPost)

	// --- Защищённые JWT ---
	jwtAuth := func(next http.Handler) http.Handler { return middleware.JWTAuth(tokens, next) }

	protected := api.PathPrefix("").Subrouter()
	protected.Use(jwtAuth)

	protected.HandleFunc("/auth/profile", authHandler.Profile).Methods(http.MethodGet)
	protected.HandleFunc("/auth/profile", authHandler.UpdateProfile).Methods(http.MethodPut)
	protected.HandleFunc("/auth/change-password", passwordHandler.Change).Methods(http.MethodPut)

	protected.HandleFunc("/contacts", contactHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/contacts/{id}", contactHandler.Get).Methods(http.MethodGet)

	admin := protected.PathPrefix("/contacts").Subrouter()
	admin.Use(middleware.OnlyRole(models.RoleAdmin))
	admin.HandleFunc("", authHandler.Register).Methods(http.MethodPost)
	admin.HandleFunc("/{id}", contactHandler.Update).Methods(http.MethodPut)
	admin.HandleFunc("/{id}", contactHandler.Delete).Methods(http.MethodDelete)
}
