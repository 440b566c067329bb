package domain

import (
	"time"
)

// StaffMember 来自外部的员工目录，对本服务只读（仅 seed 会写入）
type StaffMember struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	DefaultRole string    `json:"defaultRole"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}
