package service

import (
	"Mastosync/internal/api/config"
	"Mastosync/internal/model"
	"Mastosync/internal/pkg/database"
	"Mastosync/internal/pkg/mastodon"
	"Mastosync/internal/pkg/network"
	"Mastosync/internal/repository"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewGormDB(&config.DBConfig{
		Driver:  "sqlite",
		DSN:     "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		MaxIdle: 1,
		MaxOpen: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// fakeServer 记录收到的请求，响应由 handler 决定
type fakeServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []*http.Request
}

func (s *fakeServer) record(r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, r.Clone(context.Background()))
}

func (s *fakeServer) hits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *fakeServer) last() *http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return nil
	}
	return s.requests[len(s.requests)-1]
}

func newFakeServer(t *testing.T, h http.HandlerFunc) *fakeServer {
	t.Helper()
	fs := &fakeServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.record(r)
		h(w, r)
	}))
	t.Cleanup(fs.Close)
	return fs
}

func newFakeTLSServer(t *testing.T, h http.HandlerFunc) *fakeServer {
	t.Helper()
	fs := &fakeServer{}
	fs.Server = httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.record(r)
		h(w, r)
	}))
	t.Cleanup(fs.Close)
	return fs
}

func (s *fakeServer) host(t *testing.T) string {
	u, err := url.Parse(s.URL)
	require.NoError(t, err)
	return u.Host
}

// staticAPI 直接指向测试服务器
type staticAPI struct {
	baseURL string
}

func (a staticAPI) API(context.Context) (*mastodon.Client, error) {
	return mastodon.NewClient(network.BuildHTTPClient(network.TransportConfig{}).SetBaseURL(a.baseURL)), nil
}

// newConnectionManager 以 TLS 测试服务器为实例
func newConnectionManager(t *testing.T, db *gorm.DB, srv *fakeServer) *network.ConnectionManager {
	t.Helper()
	accountRepo := repository.NewAccountRepo(db)
	opts := network.Options{DefaultProxy: network.ProxySettings{Port: -1}}
	if srv != nil {
		opts.DefaultDomain = srv.host(t)
		opts.TLS = srv.Client().Transport.(*http.Transport).TLSClientConfig
	}
	return network.NewConnectionManager(repository.NewPreferenceRepo(db), NewTokenSource(accountRepo), opts)
}

func createActiveAccount(t *testing.T, db *gorm.DB, acc *model.Account) *model.Account {
	t.Helper()
	ctx := context.Background()
	repo := repository.NewAccountRepo(db)
	if acc.Domain == "" {
		acc.Domain = "example.social"
	}
	if acc.AccountID == "" {
		acc.AccountID = uuid.NewString()
	}
	if acc.AccessToken == "" {
		acc.AccessToken = "token-" + acc.AccountID
	}
	require.NoError(t, repo.Upsert(ctx, acc))
	require.NoError(t, repo.SetActive(ctx, acc.ID))
	acc.IsActive = true
	return acc
}
