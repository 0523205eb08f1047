// Package stream 订阅 Mastodon 的私信流，收到会话事件时触发同步
package stream

import (
	"Mastosync/internal/pkg/mastodon"
	"Mastosync/internal/pkg/network"
	"context"
	"crypto/tls"
	log "log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

const (
	EventConversation    = "conversation"
	DefaultReconnectWait = 10 * time.Second
)

// Source 提供实例域名与代理设置，通常是 *network.ConnectionManager
type Source interface {
	APIDomain(ctx context.Context) (string, error)
	Proxy(ctx context.Context) (network.ProxySettings, error)
}

type Options struct {
	ReconnectWait time.Duration
	TLS           *tls.Config
	Scheme        string // 默认 wss
}

// Watcher 保持一个 stream=direct 的 WebSocket 连接，断开后固定间隔重连
type Watcher struct {
	source  Source
	tokens  network.TokenSource
	onEvent func(ctx context.Context, event *mastodon.StreamEvent)
	opts    Options
}

func NewWatcher(source Source, tokens network.TokenSource, onEvent func(ctx context.Context, event *mastodon.StreamEvent), opts Options) *Watcher {
	if opts.ReconnectWait <= 0 {
		opts.ReconnectWait = DefaultReconnectWait
	}
	if opts.Scheme == "" {
		opts.Scheme = "wss"
	}
	return &Watcher{
		source:  source,
		tokens:  tokens,
		onEvent: onEvent,
		opts:    opts,
	}
}

// Run 阻塞直到 ctx 结束
func (w *Watcher) Run(ctx context.Context) error {
	for {
		if err := w.watchOnce(ctx); err != nil && ctx.Err() == nil {
			log.WarnContext(ctx, "streaming disconnected", "err", err, "retry_in", w.opts.ReconnectWait)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(w.opts.ReconnectWait):
		}
	}
}

func (w *Watcher) watchOnce(ctx context.Context) error {
	domain, err := w.source.APIDomain(ctx)
	if err != nil {
		return err
	}
	token := w.tokens(ctx, domain)
	if token == "" {
		return nil
	}
	proxy, err := w.source.Proxy(ctx)
	if err != nil {
		return err
	}

	dialer := &websocket.Dialer{
		HandshakeTimeout: 15 * time.Second,
		TLSClientConfig:  w.opts.TLS,
	}
	if proxy.Valid() {
		dialer.Proxy = http.ProxyURL(&url.URL{Scheme: "http", Host: proxy.Address()})
	}

	u := url.URL{Scheme: w.opts.Scheme, Host: domain, Path: "/api/v1/streaming", RawQuery: "stream=direct"}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	header.Set("User-Agent", network.UserAgent())

	conn, _, err := dialer.DialContext(ctx, u.String(), header)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.InfoContext(ctx, "streaming connected", "domain", domain)

	// ctx 结束时关闭连接以打断阻塞的 ReadMessage
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var event mastodon.StreamEvent
		if err = json.Unmarshal(data, &event); err != nil {
			log.DebugContext(ctx, "skip malformed stream message", "err", err)
			continue
		}
		if event.Event == EventConversation && w.onEvent != nil {
			w.onEvent(ctx, &event)
		}
	}
}
