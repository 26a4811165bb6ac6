package models

import (
	"gorm.io/gorm"
)

// User represents a user in the application
type User struct {
	gorm.Model
	Username     string  `gorm:"unique;not null" json:"username"`
	DisplayName  *string `json:"display_name"`
	AvatarUrl    *string `json:"avatar_url"`
	Email        string  `gorm:"unique;not null" json:"email"`
	PasswordHash string  `gorm:"not null" json:"-"`
	Password     string  `gorm:"-" json:"password"`
}

func (user *User) ToUserResponse() *UserResponse {
	return &UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		AvatarUrl:   user.AvatarUrl,
	}
}

func (user *User) ToProfileResponse() *ProfileResponse {
	return &ProfileResponse{
		ID:          user.ID,
		Email:       user.Email,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		AvatarUrl:   user.AvatarUrl,
	}
}
