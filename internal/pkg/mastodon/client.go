// Package mastodon 是 Mastodon REST 接口的类型化客户端
package mastodon

import (
	"context"
	"io"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Client 绑定到某个实例的 REST 客户端，由 network.ConnectionManager 构造
type Client struct {
	http *resty.Client
}

func NewClient(http *resty.Client) *Client {
	return &Client{http: http}
}

// BaseURL 当前绑定的实例地址
func (c *Client) BaseURL() string {
	return c.http.BaseURL
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx).SetError(&apiError{})
}

// GetConversations GET /api/v1/conversations
// maxID 为空时从最新一页开始；非 2xx 或空响应体返回 *HTTPError
func (c *Client) GetConversations(ctx context.Context, maxID string, limit int) (*ConversationsPage, error) {
	var conversations []Conversation
	req := c.request(ctx).SetResult(&conversations)
	if maxID != "" {
		req.SetQueryParam("max_id", maxID)
	}
	if limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(limit))
	}

	resp, err := req.Get("/api/v1/conversations")
	if err != nil {
		// 声明为 JSON 但响应体为空时 resty 解析失败
		if emptyResponse(resp) {
			return nil, newHTTPError(resp, "empty body")
		}
		return nil, errors.Wrap(err, "get conversations")
	}
	if !resp.IsSuccess() {
		return nil, newHTTPError(resp, "")
	}
	if len(resp.Body()) == 0 || conversations == nil {
		return nil, newHTTPError(resp, "empty body")
	}

	return &ConversationsPage{
		Conversations: conversations,
		Link:          resp.Header().Get("Link"),
	}, nil
}

// DeleteConversation DELETE /api/v1/conversations/:id
func (c *Client) DeleteConversation(ctx context.Context, id string) error {
	resp, err := c.request(ctx).
		SetPathParam("id", id).
		Delete("/api/v1/conversations/{id}")
	if err != nil {
		return errors.Wrapf(err, "delete conversation %s", id)
	}
	if !resp.IsSuccess() {
		return newHTTPError(resp, "")
	}
	return nil
}

// MarkConversationRead POST /api/v1/conversations/:id/read
func (c *Client) MarkConversationRead(ctx context.Context, id string) (*Conversation, error) {
	var conversation Conversation
	resp, err := c.request(ctx).
		SetPathParam("id", id).
		SetResult(&conversation).
		Post("/api/v1/conversations/{id}/read")
	if err != nil {
		return nil, errors.Wrapf(err, "mark conversation %s read", id)
	}
	if !resp.IsSuccess() {
		return nil, newHTTPError(resp, "")
	}
	return &conversation, nil
}

// VerifyCredentials GET /api/v1/accounts/verify_credentials
func (c *Client) VerifyCredentials(ctx context.Context) (*Account, error) {
	var account Account
	resp, err := c.request(ctx).
		SetResult(&account).
		Get("/api/v1/accounts/verify_credentials")
	if emptyResponse(resp) {
		return nil, newHTTPError(resp, "empty body")
	}
	if err != nil {
		return nil, errors.Wrap(err, "verify credentials")
	}
	if !resp.IsSuccess() {
		return nil, newHTTPError(resp, "")
	}
	if account.ID == "" {
		return nil, newHTTPError(resp, "empty body")
	}
	return &account, nil
}

// UploadMedia POST /api/v2/media，应使用长超时客户端调用
func (c *Client) UploadMedia(ctx context.Context, filename string, file io.Reader, description string) (*Attachment, error) {
	var attachment Attachment
	req := c.request(ctx).
		SetHeader("Idempotency-Key", uuid.NewString()).
		SetFileReader("file", filename, file).
		SetResult(&attachment)
	if description != "" {
		req.SetFormData(map[string]string{"description": description})
	}

	resp, err := req.Post("/api/v2/media")
	if err != nil {
		return nil, errors.Wrapf(err, "upload media %s", filename)
	}
	if !resp.IsSuccess() {
		return nil, newHTTPError(resp, "")
	}
	return &attachment, nil
}

func emptyResponse(resp *resty.Response) bool {
	return resp != nil && resp.RawResponse != nil && len(resp.Body()) == 0
}
