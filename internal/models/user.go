package models

import "time"

// Role 用户角色
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid 检查角色是否为合法值
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// User represents application user.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         Role      `gorm:"size:16;not null;default:member" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`

	FailedLoginAttempts int        `gorm:"default:0" json:"-"` // 连续登录失败次数
	LockedUntil         *time.Time `gorm:"index" json:"-"`     // 账户锁定到期时间
	LastLoginAt         *time.Time `json:"-"`                  // 最近登录时间
	LastLoginIP         string     `gorm:"size:64" json:"-"`   // 最近登录 IP
}

// IsAdmin 是否为管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
