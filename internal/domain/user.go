package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrNoEditInProgress = errors.New("no edit in progress")
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Toggle 在 active / inactive 之间切换；未知状态视为非 active
func (s Status) Toggle() Status {
	if s == StatusActive {
		return StatusInactive
	}
	return StatusActive
}

type User struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Role             Role      `json:"role"`
	Status           Status    `json:"status"`
	RegistrationDate time.Time `json:"registrationDate"`
	LastActivity     time.Time `json:"lastActivity"`
	Avatar           *string   `json:"avatar"`
	LoginCount       int       `json:"loginCount"`
	PostsCount       int       `json:"postsCount"`
	CommentsCount    int       `json:"commentsCount"`
	SendWelcomeEmail bool      `json:"sendWelcomeEmail,omitempty"`
}

// EditDraft 正在编辑的可编辑字段；UserID 为 nil 表示没有进行中的编辑
type EditDraft struct {
	UserID *int   `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// DraftOf 用记录当前的可编辑字段生成草稿
func DraftOf(u User) EditDraft {
	id := u.ID
	return EditDraft{UserID: &id, Name: u.Name, Email: u.Email, Role: u.Role}
}

// Apply 把草稿字段合并进记录，其余字段保持不变
func (d EditDraft) Apply(u User) User {
	u.Name = d.Name
	u.Email = d.Email
	u.Role = d.Role
	return u
}

// UserSource 上游数据源：一次性提供初始用户列表
type UserSource interface {
	LoadUsers(ctx context.Context) ([]User, error)
}
