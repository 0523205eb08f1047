package mastodon

import "time"

// Account GET /api/v1/accounts/verify_credentials 的返回
type Account struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Acct        string `json:"acct"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
	Bot         bool   `json:"bot"`
	Locked      bool   `json:"locked"`
}

// TimelineAccount 嵌在嘟文与会话中的精简账号
type TimelineAccount struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Acct        string `json:"acct"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
	Bot         bool   `json:"bot"`
}

type Attachment struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	URL         string  `json:"url"`
	PreviewURL  string  `json:"preview_url"`
	Description *string `json:"description"`
}

type Mention struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Acct     string `json:"acct"`
	URL      string `json:"url"`
}

type HashTag struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Status struct {
	ID                 string          `json:"id"`
	URL                *string         `json:"url"`
	InReplyToID        *string         `json:"in_reply_to_id"`
	InReplyToAccountID *string         `json:"in_reply_to_account_id"`
	Account            TimelineAccount `json:"account"`
	Content            string          `json:"content"`
	SpoilerText        string          `json:"spoiler_text"`
	Sensitive          bool            `json:"sensitive"`
	Visibility         string          `json:"visibility"`
	Language           *string         `json:"language"`
	CreatedAt          time.Time       `json:"created_at"`
	EditedAt           *time.Time      `json:"edited_at"`
	RepliesCount       int             `json:"replies_count"`
	FavouritesCount    int             `json:"favourites_count"`
	Favourited         bool            `json:"favourited"`
	Bookmarked         bool            `json:"bookmarked"`
	Muted              bool            `json:"muted"`
	MediaAttachments   []Attachment    `json:"media_attachments"`
	Mentions           []Mention       `json:"mentions"`
	Tags               []HashTag       `json:"tags"`
}

// Conversation 私信会话，LastStatus 可能为空
type Conversation struct {
	ID         string            `json:"id"`
	Accounts   []TimelineAccount `json:"accounts"`
	LastStatus *Status           `json:"last_status"`
	Unread     bool              `json:"unread"`
}

// ConversationsPage 一页会话以及用于翻页的 Link 头
type ConversationsPage struct {
	Conversations []Conversation
	Link          string
}

// StreamEvent 流式接口推送的事件
type StreamEvent struct {
	Stream  []string `json:"stream"`
	Event   string   `json:"event"`
	Payload string   `json:"payload"`
}

type apiError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}
