package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrDuplicateKey wraps every unique-constraint violation coming out of this
// package, whatever the driver.
var ErrDuplicateKey = errors.New("duplicate key")

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 驱动未翻译时的兜底：sqlite / mysql 1062 / postgres 23505
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "23505")
}

func wrapUnique(err error, what string) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w: %v", what, ErrDuplicateKey, err)
	}
	return err
}
