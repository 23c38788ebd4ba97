package helpers

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// Мобильный клиент ждёт плоские тела: {success, message, ...}

type ErrorResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func Error(w http.ResponseWriter, status int, errMsg string) {
	JSON(w, status, ErrorResponse{Success: false, Message: errMsg})
}

func RateLimited(w http.ResponseWriter, retryAfter int, errMsg string) {
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	JSON(w, http.StatusTooManyRequests, ErrorResponse{Success: false, Message: errMsg, RetryAfter: retryAfter})
}
