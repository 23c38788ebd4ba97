package services

import (
	"regexp"
	"testing"
)

func TestGenerateOTP_Format(t *testing.T) {
	re := regexp.MustCompile(`^[0-9]{6}$`)
	for i := 0; i < 200; i++ {
		code, err := GenerateOTP()
		if err != nil {
			t.Fatalf("ошибка генерации: %v", err)
		}
		if !re.MatchString(code) {
			t.Fatalf("неверный формат кода: %q", code)
		}
	}
}

func TestOTPHasher(t *testing.T) {
	h := NewOTPHasher("pepper")

	d := h.Digest("acc-1", "482913")
	if d == "482913" || len(d) != 64 {
		t.Fatalf("дайджест не похож на hex sha256: %q", d)
	}
	if !h.Match("acc-1", "482913", d) {
		t.Fatal("правильный код должен совпасть")
	}
	if h.Match("acc-1", "482914", d) {
		t.Fatal("неверный код совпал")
	}
	// id аккаунта входит в дайджест, тот же код у другого аккаунта не подходит
	if h.Match("acc-2", "482913", d) {
		t.Fatal("код совпал для чужого аккаунта")
	}
	if NewOTPHasher("other").Match("acc-1", "482913", d) {
		t.Fatal("код совпал при другом pepper")
	}
	if h.Match("acc-1", "482913", "not-hex") || h.Match("acc-1", "482913", "") {
		t.Fatal("мусорный дайджест не должен совпадать")
	}
}
