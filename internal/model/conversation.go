package model

import (
	"time"

	"gorm.io/datatypes"
)

// ConversationEntity 本地持久化的私信会话，按账号隔离
type ConversationEntity struct {
	AccountID uint64 `gorm:"primaryKey;autoIncrement:false" json:"accountId"`
	ID        string `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Order     int    `gorm:"column:sort_order;not null;index" json:"order"` // 单次刷新周期内的服务端顺序
	Unread    bool   `gorm:"not null;default:false" json:"unread"`

	Participants datatypes.JSONSlice[ConversationParticipant] `json:"participants"`
	LastStatus   ConversationStatus                           `gorm:"embedded;embeddedPrefix:last_status_" json:"lastStatus"`

	Expanded         bool `gorm:"not null;default:false" json:"expanded"`
	ContentShowing   bool `gorm:"not null;default:false" json:"contentShowing"`
	ContentCollapsed bool `gorm:"not null" json:"contentCollapsed"`
}

func (ConversationEntity) TableName() string { return "conversations" }

// ConversationParticipant 会话参与者快照
type ConversationParticipant struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Acct        string `json:"acct"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
	Bot         bool   `json:"bot"`
}

// ConversationStatus 会话最后一条嘟文的快照
type ConversationStatus struct {
	ID                 string                                      `gorm:"type:varchar(64)" json:"id"`
	URL                string                                      `gorm:"type:varchar(512)" json:"url"`
	InReplyToID        string                                      `gorm:"type:varchar(64)" json:"inReplyToId"`
	InReplyToAccountID string                                      `gorm:"type:varchar(64)" json:"inReplyToAccountId"`
	Author             ConversationParticipant                     `gorm:"serializer:json" json:"author"`
	Content            string                                      `gorm:"type:text" json:"content"`
	SpoilerText        string                                      `gorm:"type:text" json:"spoilerText"`
	Sensitive          bool                                        `json:"sensitive"`
	Language           string                                      `gorm:"type:varchar(16)" json:"language"`
	CreatedAt          time.Time                                   `json:"createdAt"`
	EditedAt           *time.Time                                  `json:"editedAt"`
	RepliesCount       int                                         `json:"repliesCount"`
	FavouritesCount    int                                         `json:"favouritesCount"`
	Favourited         bool                                        `json:"favourited"`
	Bookmarked         bool                                        `json:"bookmarked"`
	Muted              bool                                        `json:"muted"`
	Attachments        datatypes.JSONSlice[ConversationAttachment] `json:"attachments"`
	Mentions           []string                                    `gorm:"serializer:json" json:"mentions"`
	Tags               []string                                    `gorm:"serializer:json" json:"tags"`
}

// ConversationAttachment 媒体附件快照
type ConversationAttachment struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	URL         string `json:"url"`
	PreviewURL  string `json:"previewUrl"`
	Description string `json:"description"`
}
