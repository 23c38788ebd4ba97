package utils

import (
	"strings"
	"testing"
)

type loginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestValidateStruct(t *testing.T) {
	if err := ValidateStruct(loginDTO{Email: "user@x.com", Password: "NewPass1!"}); err != nil {
		t.Fatalf("валидный DTO не прошёл: %v", err)
	}

	err := ValidateStruct(loginDTO{Email: "nope", Password: "short"})
	if err == nil {
		t.Fatal("ожидалась ошибка валидации")
	}
	msg := TranslateValidationError(err)
	if !strings.Contains(msg, "invalid email format") || !strings.Contains(msg, "password must be at least 8 characters") {
		t.Fatalf("неожиданное сообщение: %q", msg)
	}
}
