package api

import (
	"Mastosync/internal/api/dto"
	"Mastosync/internal/api/handler"
	"Mastosync/internal/pkg/mastodon"
	"Mastosync/internal/service"
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccountService struct {
	loginDomain, loginToken string
}

func (f *fakeAccountService) Login(_ context.Context, domain, token string) (*dto.AccountDTO, error) {
	f.loginDomain, f.loginToken = domain, token
	return &dto.AccountDTO{ID: 1, Domain: domain, Username: "alice", IsActive: true}, nil
}

func (f *fakeAccountService) ActiveAccount(context.Context) (*dto.AccountDTO, error) {
	return nil, service.ErrNoActiveAccount
}

func (f *fakeAccountService) UpdatePreferences(_ context.Context, showSensitive, openSpoiler bool) (*dto.AccountDTO, error) {
	return &dto.AccountDTO{AlwaysShowSensitiveMedia: showSensitive, AlwaysOpenSpoiler: openSpoiler}, nil
}

type fakeSettingsService struct{}

func (fakeSettingsService) Domain(context.Context) (*dto.DomainDTO, error) {
	return &dto.DomainDTO{Domain: "dummy.placeholder"}, nil
}

func (fakeSettingsService) SetDomain(_ context.Context, domain string) (*dto.DomainDTO, error) {
	return &dto.DomainDTO{Domain: domain}, nil
}

func (fakeSettingsService) Proxy(context.Context) (*dto.ProxySettingsDTO, error) {
	return &dto.ProxySettingsDTO{Port: -1}, nil
}

func (fakeSettingsService) SetProxy(_ context.Context, req *dto.ProxySettingsDTO) (*dto.ProxySettingsDTO, error) {
	if req.Enabled && (req.Port < 1 || req.Port > 65535) {
		return nil, service.ErrProxyInvalid
	}
	return req, nil
}

type fakeConversationService struct {
	offset, limit int
}

func (f *fakeConversationService) List(_ context.Context, offset, limit int) (*dto.ConversationListDTO, error) {
	f.offset, f.limit = offset, limit
	return &dto.ConversationListDTO{Total: 1, List: []*dto.ConversationDTO{{ID: "c1", Preview: "hi"}}}, nil
}

func (f *fakeConversationService) Delete(_ context.Context, id string) error {
	if id != "c1" {
		return service.ErrConversationNotFound
	}
	return nil
}

func (f *fakeConversationService) MarkRead(_ context.Context, id string) (*dto.ConversationDTO, error) {
	return nil, &mastodon.HTTPError{StatusCode: http.StatusNotFound}
}

func (f *fakeConversationService) UpdateFlags(_ context.Context, id string, req *dto.ConversationFlagsReq) (*dto.ConversationDTO, error) {
	return &dto.ConversationDTO{ID: id, Expanded: req.Expanded != nil && *req.Expanded}, nil
}

type fakePager struct {
	refreshErr error
}

func (p *fakePager) Refresh(context.Context) (*dto.SyncResultDTO, error) {
	if p.refreshErr != nil {
		return nil, p.refreshErr
	}
	return &dto.SyncResultDTO{Inserted: 2, NextCursor: "100", NextOrder: 2}, nil
}

func (p *fakePager) LoadMore(context.Context) (*dto.SyncResultDTO, error) {
	return nil, service.ErrLoadInProgress
}

type fakeMediaService struct{}

func (fakeMediaService) Upload(_ context.Context, filename string, file io.Reader, description string) (*dto.AttachmentDTO, error) {
	data, _ := io.ReadAll(file)
	return &dto.AttachmentDTO{ID: filename + ":" + string(data), Description: description}, nil
}

type testEnv struct {
	router   *gin.Engine
	accounts *fakeAccountService
	convs    *fakeConversationService
	pager    *fakePager
}

func newTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)
	env := &testEnv{
		accounts: &fakeAccountService{},
		convs:    &fakeConversationService{},
		pager:    &fakePager{},
	}
	env.router = SetupRouter(&HandlersGroup{
		AccountHandler:      handler.NewAccountHandler(env.accounts),
		SettingsHandler:     handler.NewSettingsHandler(fakeSettingsService{}),
		ConversationHandler: handler.NewConversationHandler(env.convs, env.pager),
		MediaHandler:        handler.NewMediaHandler(fakeMediaService{}),
	})
	return env
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e *testEnv) do(t *testing.T, method, path string, body io.Reader, contentType string) envelope {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))

	var res envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func (e *testEnv) doJSON(t *testing.T, method, path, body string) envelope {
	return e.do(t, method, path, bytes.NewBufferString(body), "application/json")
}

func TestPing(t *testing.T) {
	res := newTestEnv().do(t, http.MethodGet, "/api/ping", nil, "")
	assert.Equal(t, 200, res.Code)
	assert.Equal(t, "pong", res.Message)
}

func TestAccountRoutes(t *testing.T) {
	env := newTestEnv()

	res := env.doJSON(t, http.MethodPost, "/api/account/login", `{"domain":"mastodon.social","access_token":"0123456789"}`)
	require.Equal(t, 200, res.Code)
	assert.Equal(t, "mastodon.social", env.accounts.loginDomain)
	assert.Equal(t, "0123456789", env.accounts.loginToken)
	assert.NotContains(t, string(res.Data), "0123456789")

	res = env.doJSON(t, http.MethodPost, "/api/account/login", `{"domain":"not a domain","access_token":"0123456789"}`)
	assert.Equal(t, 400, res.Code)

	res = env.doJSON(t, http.MethodPost, "/api/account/login", `{"domain":`)
	assert.Equal(t, 400, res.Code)

	res = env.do(t, http.MethodGet, "/api/account", nil, "")
	assert.Equal(t, 401, res.Code)

	res = env.doJSON(t, http.MethodPut, "/api/account/preferences", `{"always_show_sensitive_media":true,"always_open_spoiler":false}`)
	require.Equal(t, 200, res.Code)
	var acc dto.AccountDTO
	require.NoError(t, json.Unmarshal(res.Data, &acc))
	assert.True(t, acc.AlwaysShowSensitiveMedia)

	res = env.doJSON(t, http.MethodPut, "/api/account/preferences", `{"always_show_sensitive_media":true}`)
	assert.Equal(t, 400, res.Code)
}

func TestSettingsRoutes(t *testing.T) {
	env := newTestEnv()

	res := env.do(t, http.MethodGet, "/api/settings/domain", nil, "")
	assert.Contains(t, string(res.Data), "dummy.placeholder")

	res = env.doJSON(t, http.MethodPut, "/api/settings/domain", `{"domain":"fosstodon.org"}`)
	assert.Equal(t, 200, res.Code)

	res = env.doJSON(t, http.MethodPut, "/api/settings/proxy", `{"enabled":true,"server":"proxy.example","port":70000}`)
	assert.Equal(t, 400, res.Code)

	res = env.doJSON(t, http.MethodPut, "/api/settings/proxy", `{"enabled":true,"server":"proxy.example","port":"8080"}`)
	assert.Equal(t, 400, res.Code)
}

func TestConversationRoutes(t *testing.T) {
	env := newTestEnv()

	res := env.do(t, http.MethodGet, "/api/conversations?offset=5&limit=10", nil, "")
	require.Equal(t, 200, res.Code)
	assert.Equal(t, 5, env.convs.offset)
	assert.Equal(t, 10, env.convs.limit)

	res = env.do(t, http.MethodGet, "/api/conversations?limit=abc", nil, "")
	assert.Equal(t, 400, res.Code)

	res = env.do(t, http.MethodPost, "/api/conversations/refresh", nil, "")
	require.Equal(t, 200, res.Code)
	var sync dto.SyncResultDTO
	require.NoError(t, json.Unmarshal(res.Data, &sync))
	assert.Equal(t, "100", sync.NextCursor)

	res = env.do(t, http.MethodPost, "/api/conversations/load-more", nil, "")
	assert.Equal(t, 409, res.Code)

	res = env.do(t, http.MethodDelete, "/api/conversations/c1", nil, "")
	assert.Equal(t, 200, res.Code)
	res = env.do(t, http.MethodDelete, "/api/conversations/zz", nil, "")
	assert.Equal(t, 404, res.Code)

	res = env.do(t, http.MethodPost, "/api/conversations/c1/read", nil, "")
	assert.Equal(t, 502, res.Code)
	assert.Contains(t, res.Message, "404")

	res = env.doJSON(t, http.MethodPut, "/api/conversations/c1/flags", `{"expanded":true}`)
	require.Equal(t, 200, res.Code)
	assert.Contains(t, string(res.Data), `"expanded":true`)
}

func TestRefreshLoadErrorMapsToBadGateway(t *testing.T) {
	env := newTestEnv()
	env.pager.refreshErr = &service.LoadError{StatusCode: http.StatusInternalServerError, Err: errors.New("boom")}

	res := env.do(t, http.MethodPost, "/api/conversations/refresh", nil, "")
	assert.Equal(t, 502, res.Code)
	assert.Contains(t, res.Message, "500")

	env.pager.refreshErr = errors.New("unexpected")
	res = env.do(t, http.MethodPost, "/api/conversations/refresh", nil, "")
	assert.Equal(t, 500, res.Code)
}

func TestMediaRoute(t *testing.T) {
	env := newTestEnv()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("file", "cat.png")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("png"))
	require.NoError(t, mw.WriteField("description", "a cat"))
	require.NoError(t, mw.Close())

	res := env.do(t, http.MethodPost, "/api/media", body, mw.FormDataContentType())
	require.Equal(t, 200, res.Code)
	var att dto.AttachmentDTO
	require.NoError(t, json.Unmarshal(res.Data, &att))
	assert.Equal(t, "cat.png:png", att.ID)
	assert.Equal(t, "a cat", att.Description)

	res = env.do(t, http.MethodPost, "/api/media", nil, "")
	assert.Equal(t, 404, res.Code)
}
