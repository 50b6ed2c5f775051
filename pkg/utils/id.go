package utils

import "github.com/google/uuid"

func NewID() string { return uuid.NewString() }

// IsUUID 只接受标准 36 位带连字符格式
func IsUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
