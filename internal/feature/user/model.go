package user

import (
	"time"

	"gorm.io/gorm"

	"go-user-table/internal/domain"
)

type UserModel struct {
	ID               int     `gorm:"primaryKey;autoIncrement"`
	Email            string  `gorm:"uniqueIndex;size:255;not null"`
	Name             string  `gorm:"size:64;not null"`
	Role             string  `gorm:"size:16;not null;default:user"`
	Status           string  `gorm:"size:16;not null;default:active;index"`
	Avatar           *string `gorm:"size:255"`
	LoginCount       int     `gorm:"not null;default:0"`
	PostsCount       int     `gorm:"not null;default:0"`
	CommentsCount    int     `gorm:"not null;default:0"`
	SendWelcomeEmail bool    `gorm:"not null;default:false"`

	RegisteredAt   time.Time `gorm:"not null;index"`
	LastActivityAt time.Time `gorm:"not null"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (UserModel) TableName() string { return "users" }

func (m UserModel) ToDomain() domain.User {
	return domain.User{
		ID:               m.ID,
		Name:             m.Name,
		Email:            m.Email,
		Role:             domain.Role(m.Role),
		Status:           domain.Status(m.Status),
		RegistrationDate: m.RegisteredAt,
		LastActivity:     m.LastActivityAt,
		Avatar:           m.Avatar,
		LoginCount:       m.LoginCount,
		PostsCount:       m.PostsCount,
		CommentsCount:    m.CommentsCount,
		SendWelcomeEmail: m.SendWelcomeEmail,
	}
}

func FromDomain(u domain.User) UserModel {
	return UserModel{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.Name,
		Role:             string(u.Role),
		Status:           string(u.Status),
		Avatar:           u.Avatar,
		LoginCount:       u.LoginCount,
		PostsCount:       u.PostsCount,
		CommentsCount:    u.CommentsCount,
		SendWelcomeEmail: u.SendWelcomeEmail,
		RegisteredAt:     u.RegistrationDate,
		LastActivityAt:   u.LastActivity,
	}
}
