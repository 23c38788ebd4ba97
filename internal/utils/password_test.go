package utils

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("NewPass1!")
	if err != nil {
		t.Fatalf("ошибка хеширования: %v", err)
	}
	if hash == "NewPass1!" {
		t.Fatal("пароль сохранён открытым текстом")
	}
	if !CheckPasswordHash("NewPass1!", hash) {
		t.Fatal("верный пароль не прошёл проверку")
	}
	if CheckPasswordHash("OldPass1!", hash) {
		t.Fatal("неверный пароль прошёл проверку")
	}
}

func TestGeneratePassword(t *testing.T) {
	pw, err := GeneratePassword(10)
	if err != nil {
		t.Fatalf("ошибка генерации: %v", err)
	}
	if len(pw) != 10 {
		t.Fatalf("ожидали 10 символов, получили %d", len(pw))
	}
	for _, r := range pw {
		if !strings.ContainsRune(passwordAlphabet, r) {
			t.Fatalf("символ %q вне алфавита", r)
		}
	}
}
