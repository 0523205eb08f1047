package model

import "time"

// Account 已登录的 Mastodon 账号，同一时刻只有一个 IsActive
type Account struct {
	ID                       uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Domain                   string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_domain_account" json:"domain"`
	AccountID                string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_domain_account" json:"accountId"` // 远端账号 ID
	AccessToken              string    `gorm:"type:varchar(255);not null" json:"-"`
	Username                 string    `gorm:"type:varchar(255)" json:"username"`
	DisplayName              string    `gorm:"type:varchar(255)" json:"displayName"`
	AvatarURL                string    `gorm:"type:varchar(512)" json:"avatarUrl"`
	AlwaysShowSensitiveMedia bool      `gorm:"not null;default:false" json:"alwaysShowSensitiveMedia"`
	AlwaysOpenSpoiler        bool      `gorm:"not null;default:false" json:"alwaysOpenSpoiler"`
	IsActive                 bool      `gorm:"not null;default:false;index" json:"isActive"`
	CreatedAt                time.Time `json:"createdAt"`
	UpdatedAt                time.Time `json:"updatedAt"`
}

func (Account) TableName() string { return "accounts" }

// FullName 形如 user@domain
func (a *Account) FullName() string {
	return a.Username + "@" + a.Domain
}
