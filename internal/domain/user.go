package domain

import (
	"time"
)

type Role string

const (
	RoleMember Role = "成员"
	RoleAdmin  Role = "管理员"
)

type User struct {
	ID           int64     `json:"id"`
	OrgID        int64     `json:"orgId"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	Timezone     string    `json:"timezone"` // IANA 时区，作为展示偏好，不参与班次窗口解析
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
