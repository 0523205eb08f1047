package dto

import "time"

// ConversationDTO 本地会话列表项
type ConversationDTO struct {
	ID               string                `json:"id"`
	Order            int                   `json:"order"`
	Unread           bool                  `json:"unread"`
	Participants     []ParticipantDTO      `json:"participants"`
	LastStatus       ConversationStatusDTO `json:"last_status"`
	Preview          string                `json:"preview"` // 去除 HTML 后的纯文本
	Expanded         bool                  `json:"expanded"`
	ContentShowing   bool                  `json:"content_showing"`
	ContentCollapsed bool                  `json:"content_collapsed"`
}

type ParticipantDTO struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Acct        string `json:"acct"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Bot         bool   `json:"bot"`
}

type ConversationStatusDTO struct {
	ID              string          `json:"id"`
	URL             string          `json:"url"`
	Author          ParticipantDTO  `json:"author"`
	Content         string          `json:"content"`
	SpoilerText     string          `json:"spoiler_text"`
	Sensitive       bool            `json:"sensitive"`
	CreatedAt       time.Time       `json:"created_at"`
	RepliesCount    int             `json:"replies_count"`
	FavouritesCount int             `json:"favourites_count"`
	Favourited      bool            `json:"favourited"`
	Bookmarked      bool            `json:"bookmarked"`
	Attachments     []AttachmentDTO `json:"attachments"`
}

// ConversationListDTO 分页结果
type ConversationListDTO struct {
	Total int64              `json:"total"`
	List  []*ConversationDTO `json:"list"`
}

// ConversationFlagsReq 客户端展开/折叠等操作，未传的字段不修改
type ConversationFlagsReq struct {
	Expanded         *bool `json:"expanded"`
	ContentShowing   *bool `json:"content_showing"`
	ContentCollapsed *bool `json:"content_collapsed"`
}

// SyncResultDTO 一次分页同步的结果
type SyncResultDTO struct {
	Inserted               int    `json:"inserted"`
	NextCursor             string `json:"next_cursor"`
	NextOrder              int    `json:"next_order"`
	EndOfPaginationReached bool   `json:"end_of_pagination_reached"`
}
