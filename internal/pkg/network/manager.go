package network

import (
	"Mastosync/internal/pkg/consts"
	"Mastosync/internal/pkg/mastodon"
	"context"
	"crypto/tls"
	log "log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// Options 连接管理器的静态配置
type Options struct {
	DefaultDomain      string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	UploadReadTimeout  time.Duration
	UploadWriteTimeout time.Duration
	CacheDir           string // 为空时不启用响应缓存
	CacheSize          uint64
	DefaultProxy       ProxySettings
	Debug              bool
	TLS                *tls.Config
}

// ConnectionManager 持有当前实例域名，按需构造 HTTP 客户端与 REST 客户端
//
// 每次调用都会重新读取设置并构造新客户端，修改域名或代理不影响已构造的客户端。
type ConnectionManager struct {
	settings SettingsStore
	tokens   TokenSource
	opts     Options

	cacheOnce sync.Once
	cache     *ResponseCache
}

func NewConnectionManager(settings SettingsStore, tokens TokenSource, opts Options) *ConnectionManager {
	if opts.CacheSize == 0 {
		opts.CacheSize = DefaultCacheSize
	}
	return &ConnectionManager{
		settings: settings,
		tokens:   tokens,
		opts:     opts,
	}
}

// NormalizeDomain 去掉协议头、路径与大小写差异
func NormalizeDomain(domain string) string {
	domain = strings.TrimSpace(strings.ToLower(domain))
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	if i := strings.IndexByte(domain, '/'); i >= 0 {
		domain = domain[:i]
	}
	return domain
}

// APIDomain 返回最后一次设置的域名，从未设置时返回占位域名
func (m *ConnectionManager) APIDomain(ctx context.Context) (string, error) {
	def := consts.PlaceholderDomain
	if m.opts.DefaultDomain != "" {
		def = NormalizeDomain(m.opts.DefaultDomain)
	}
	domain, err := getString(ctx, m.settings, consts.PrefDomain, def)
	if err != nil {
		return def, err
	}
	if domain == "" {
		return def, nil
	}
	return domain, nil
}

// SetAPIDomain 持久化新域名，之后构造的客户端生效
func (m *ConnectionManager) SetAPIDomain(ctx context.Context, domain string) error {
	domain = NormalizeDomain(domain)
	if err := m.settings.Set(ctx, consts.PrefDomain, domain); err != nil {
		return errors.Wrap(err, "persist api domain")
	}
	log.InfoContext(ctx, "api domain changed", "domain", domain)
	return nil
}

// Proxy 当前生效的代理设置
func (m *ConnectionManager) Proxy(ctx context.Context) (ProxySettings, error) {
	return LoadProxySettings(ctx, m.settings, m.opts.DefaultProxy)
}

// SetProxy 持久化代理设置
func (m *ConnectionManager) SetProxy(ctx context.Context, p ProxySettings) error {
	return SaveProxySettings(ctx, m.settings, p)
}

func (m *ConnectionManager) responseCache() *ResponseCache {
	if m.opts.CacheDir == "" {
		return nil
	}
	m.cacheOnce.Do(func() {
		c, err := NewResponseCache(m.opts.CacheDir, m.opts.CacheSize)
		if err != nil {
			log.Warn("response cache disabled", "dir", m.opts.CacheDir, "err", err)
			return
		}
		m.cache = c
	})
	return m.cache
}

// TransportConfig 汇总当前设置，供 BuildHTTPClient 使用
func (m *ConnectionManager) TransportConfig(ctx context.Context) (TransportConfig, error) {
	domain, err := m.APIDomain(ctx)
	if err != nil {
		return TransportConfig{}, err
	}
	proxy, err := m.Proxy(ctx)
	if err != nil {
		return TransportConfig{}, err
	}

	cfg := TransportConfig{
		Domain:       domain,
		UserAgent:    UserAgent(),
		ReadTimeout:  m.opts.ReadTimeout,
		WriteTimeout: m.opts.WriteTimeout,
		Proxy:        proxy,
		Debug:        m.opts.Debug,
		Token:        m.tokens,
		TLS:          m.opts.TLS,
	}
	if c := m.responseCache(); c != nil {
		cfg.Cache = c
	}
	return cfg, nil
}

// HTTPClient 使用默认超时构造客户端
func (m *ConnectionManager) HTTPClient(ctx context.Context) (*resty.Client, error) {
	cfg, err := m.TransportConfig(ctx)
	if err != nil {
		return nil, err
	}
	return BuildHTTPClient(cfg), nil
}

// API 绑定到 https://{domain} 的 REST 客户端
func (m *ConnectionManager) API(ctx context.Context) (*mastodon.Client, error) {
	cfg, err := m.TransportConfig(ctx)
	if err != nil {
		return nil, err
	}
	return newAPI(cfg), nil
}

// APIForDomain 使用指定域名与令牌构造客户端，不修改已保存的设置
//
// 登录时账号尚未落库，需要先用输入的令牌校验身份。
func (m *ConnectionManager) APIForDomain(ctx context.Context, domain, token string) (*mastodon.Client, error) {
	cfg, err := m.TransportConfig(ctx)
	if err != nil {
		return nil, err
	}
	cfg.Domain = NormalizeDomain(domain)
	cfg.Token = func(context.Context, string) string { return token }
	return newAPI(cfg), nil
}

// MediaTransportConfig 与 TransportConfig 相同，但使用上传用的长超时
func (m *ConnectionManager) MediaTransportConfig(ctx context.Context) (TransportConfig, error) {
	cfg, err := m.TransportConfig(ctx)
	if err != nil {
		return TransportConfig{}, err
	}
	cfg.ReadTimeout = m.opts.UploadReadTimeout
	cfg.WriteTimeout = m.opts.UploadWriteTimeout
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultUploadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultUploadTimeout
	}
	return cfg, nil
}

// MediaAPI 与 API 相同，但使用上传用的长超时，默认客户端不受影响
func (m *ConnectionManager) MediaAPI(ctx context.Context) (*mastodon.Client, error) {
	cfg, err := m.MediaTransportConfig(ctx)
	if err != nil {
		return nil, err
	}
	return newAPI(cfg), nil
}

func newAPI(cfg TransportConfig) *mastodon.Client {
	return mastodon.NewClient(BuildHTTPClient(cfg).SetBaseURL("https://" + cfg.Domain))
}
