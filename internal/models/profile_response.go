package models

type ProfileResponse struct {
	ID          uint    `json:"id"`
	Email       string  `json:"email"`
	Username    string  `json:"username"`
	DisplayName *string `json:"display_name"`
	AvatarUrl   *string `json:"avatar_url"`
}
