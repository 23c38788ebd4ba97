package services

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
)

var otpSpace = big.NewInt(1_000_000)

// GenerateOTP: равномерно случайный шестизначный код с ведущими нулями.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// OTPHasher считает HMAC-SHA256(pepper, accountID || 0x00 || code).
// Открытый код нигде не хранится.
type OTPHasher struct {
	pepper []byte
}

func NewOTPHasher(pepper string) *OTPHasher {
	return &OTPHasher{pepper: []byte(pepper)}
}

func (h *OTPHasher) Digest(accountID, code string) string {
	return hex.EncodeToString(h.sum(accountID, code))
}

// Match сравнивает за постоянное время.
func (h *OTPHasher) Match(accountID, code, digest string) bool {
	want, err := hex.DecodeString(digest)
	if err != nil || len(want) == 0 {
		return false
	}
	return hmac.Equal(h.sum(accountID, code), want)
}

func (h *OTPHasher) sum(accountID, code string) []byte {
	mac := hmac.New(sha256.New, h.pepper)
	mac.Write([]byte(accountID))
	mac.Write([]byte{0})
	mac.Write([]byte(code))
	return mac.Sum(nil)
}
