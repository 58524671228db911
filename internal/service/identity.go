package service

import (
	"fmt"

	"market-thrifty/internal/domain"
)

// CheckIdentity 按身份查询时，令牌里的邮箱必须与查询参数一致
func CheckIdentity(claimEmail, queryEmail string) error {
	if claimEmail == "" || claimEmail != queryEmail {
		return fmt.Errorf("%w: identity mismatch", domain.ErrForbidden)
	}
	return nil
}
