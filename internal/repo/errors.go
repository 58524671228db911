package repo

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"market-thrifty/internal/domain"
)

func isDupKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 驱动没开 TranslateError 时按报错文本兜底
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}

func notFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }

// persistence 把底层错误包成 domain.ErrPersistence，保留原始信息
func persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrPersistence, op, err)
}
