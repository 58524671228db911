package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Role 用户角色，封闭枚举；库里存字符串
type Role uint8

const (
	RoleBuyer Role = iota + 1
	RoleSellerPending
	RoleSellerVerified
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleBuyer:
		return "buyer"
	case RoleSellerPending:
		return "seller-pending"
	case RoleSellerVerified:
		return "seller-verified"
	case RoleAdmin:
		return "admin"
	}
	return ""
}

func (r Role) Valid() bool { return r.String() != "" }

// GormDataType 让 gorm 按字符串列建表
func (Role) GormDataType() string { return "string" }

// IsSeller 待审核与已认证都算卖家
func (r Role) IsSeller() bool { return r == RoleSellerPending || r == RoleSellerVerified }

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buyer":
		return RoleBuyer, nil
	case "seller-pending":
		return RoleSellerPending, nil
	case "seller-verified":
		return RoleSellerVerified, nil
	case "admin":
		return RoleAdmin, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// RoleFromOption 注册表单里的 "Buyer" / "Seller"
func RoleFromOption(option string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(option)) {
	case "", "buyer":
		return RoleBuyer, nil
	case "seller":
		return RoleSellerPending, nil
	}
	return 0, fmt.Errorf("%w: option %q", ErrInvalidRole, option)
}

func (r Role) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRole, r)
	}
	return r.String(), nil
}

func (r *Role) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidRole, src)
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r Role) MarshalJSON() ([]byte, error) { return json.Marshal(r.String()) }

func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
