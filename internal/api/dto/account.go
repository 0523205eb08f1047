package dto

import "time"

// LoginReq 使用已有的访问令牌登录某个实例
type LoginReq struct {
	Domain      string `json:"domain" binding:"required" validate:"required,hostname_port|fqdn"`
	AccessToken string `json:"access_token" binding:"required" validate:"required,min=8"`
}

// AccountPreferencesReq 账号级展示偏好
type AccountPreferencesReq struct {
	AlwaysShowSensitiveMedia *bool `json:"always_show_sensitive_media" validate:"required"`
	AlwaysOpenSpoiler        *bool `json:"always_open_spoiler" validate:"required"`
}

// AccountDTO 账号信息，不含令牌
type AccountDTO struct {
	ID                       uint64    `json:"id"`
	Domain                   string    `json:"domain"`
	AccountID                string    `json:"account_id"`
	Username                 string    `json:"username"`
	DisplayName              string    `json:"display_name"`
	AvatarURL                string    `json:"avatar_url"`
	AlwaysShowSensitiveMedia bool      `json:"always_show_sensitive_media"`
	AlwaysOpenSpoiler        bool      `json:"always_open_spoiler"`
	IsActive                 bool      `json:"is_active"`
	CreatedAt                time.Time `json:"created_at"`
}
