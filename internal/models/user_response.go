package models

type UserResponse struct {
	ID          uint    `json:"id"`
	Username    string  `json:"username"`
	DisplayName *string `json:"display_name"`
	AvatarUrl   *string `json:"avatar_url"`
}
