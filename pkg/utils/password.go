package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost bcrypt 轮数（2^10）
const PasswordCost = 10

var ErrEmptyPassword = errors.New("empty password")

// HashPassword 每次调用生成新盐
func HashPassword(pw string) (string, error) {
	if pw == "" {
		return "", ErrEmptyPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(pw, hashed string) bool {
	if pw == "" || hashed == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
