package network

import (
	"Mastosync/internal/pkg/consts"
	"Mastosync/internal/pkg/logger"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"runtime"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/gregjones/httpcache"
)

const (
	DefaultReadTimeout   = 30 * time.Second
	DefaultWriteTimeout  = 30 * time.Second
	DefaultUploadTimeout = 100 * time.Second
	DefaultCacheSize     = 25 * 1024 * 1024 // 25 MiB
)

// TokenSource 返回活跃账号在 domain 上的访问令牌，账号不属于该实例或没有账号时返回空串
type TokenSource func(ctx context.Context, domain string) string

// TransportConfig 构造 HTTP 客户端所需的全部输入
type TransportConfig struct {
	Domain       string
	UserAgent    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Cache        httpcache.Cache // 为空时不缓存
	Proxy        ProxySettings
	Debug        bool
	Token        TokenSource
	TLS          *tls.Config // 自建实例的私有 CA 等
}

// UserAgent 例如 Mastosync/1.0.0 linux/amd64 Go/go1.24.6 resty/2.17.1
func UserAgent() string {
	return fmt.Sprintf("%s/%s %s/%s Go/%s resty/%s",
		consts.AppName, consts.AppVersion, runtime.GOOS, runtime.GOARCH, runtime.Version(), resty.Version)
}

// NewTransport 返回底层连接层，代理设置无效时直连（不读取环境变量中的代理）
func NewTransport(cfg TransportConfig) *http.Transport {
	tr := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: cfg.ReadTimeout,
		TLSClientConfig:       cfg.TLS,
	}
	if cfg.Proxy.Valid() {
		tr.Proxy = http.ProxyURL(&url.URL{Scheme: "http", Host: cfg.Proxy.Address()})
	}
	return tr
}

// authTransport 仅对目标主机等于当前实例的请求附加 Bearer 令牌
type authTransport struct {
	domain string
	token  TokenSource
	next   http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.token == nil || (req.URL.Host != t.domain && req.URL.Hostname() != t.domain) {
		return t.next.RoundTrip(req)
	}
	token := t.token(req.Context(), t.domain)
	if token == "" {
		return t.next.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+token)
	return t.next.RoundTrip(req)
}

// BuildHTTPClient 根据 cfg 组装客户端，不修改任何外部状态
//
// 请求链: 鉴权 -> 调试日志(仅 Debug) -> 响应缓存 -> 连接层
func BuildHTTPClient(cfg TransportConfig) *resty.Client {
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = UserAgent()
	}

	var rt http.RoundTripper = NewTransport(cfg)
	if cfg.Cache != nil {
		cached := httpcache.NewTransport(cfg.Cache)
		cached.Transport = rt
		rt = cached
	}
	if cfg.Debug {
		rt = &logger.HTTPTransport{Transport: rt}
	}
	rt = &authTransport{domain: cfg.Domain, token: cfg.Token, next: rt}

	client := resty.NewWithClient(&http.Client{
		Transport: rt,
		// net/http 没有独立的读写超时，整体上限取两者中较大者
		Timeout: max(cfg.ReadTimeout, cfg.WriteTimeout),
	})
	client.SetHeader("User-Agent", cfg.UserAgent)
	client.SetHeader("Accept", "application/json")
	client.SetJSONMarshaler(json.Marshal)
	client.SetJSONUnmarshaler(json.Unmarshal)
	return client
}
