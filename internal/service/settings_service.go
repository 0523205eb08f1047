package service

import (
	"Mastosync/internal/api/dto"
	"Mastosync/internal/pkg/consts"
	"Mastosync/internal/pkg/network"
	"context"
	log "log/slog"
	"strings"
)

type SettingsService interface {
	Domain(ctx context.Context) (*dto.DomainDTO, error)
	SetDomain(ctx context.Context, domain string) (*dto.DomainDTO, error)
	Proxy(ctx context.Context) (*dto.ProxySettingsDTO, error)
	SetProxy(ctx context.Context, req *dto.ProxySettingsDTO) (*dto.ProxySettingsDTO, error)
}

type settingsServiceImpl struct {
	conn *network.ConnectionManager
}

func NewSettingsService(conn *network.ConnectionManager) SettingsService {
	return &settingsServiceImpl{conn: conn}
}

func (s *settingsServiceImpl) Domain(ctx context.Context) (*dto.DomainDTO, error) {
	domain, err := s.conn.APIDomain(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.DomainDTO{Domain: domain}, nil
}

// SetDomain 只影响之后构造的客户端
func (s *settingsServiceImpl) SetDomain(ctx context.Context, domain string) (*dto.DomainDTO, error) {
	domain = network.NormalizeDomain(domain)
	if domain == "" || strings.ContainsAny(domain, " \t") {
		return nil, ErrDomainInvalid
	}
	if err := s.conn.SetAPIDomain(ctx, domain); err != nil {
		return nil, err
	}
	return &dto.DomainDTO{Domain: domain}, nil
}

func (s *settingsServiceImpl) Proxy(ctx context.Context) (*dto.ProxySettingsDTO, error) {
	p, err := s.conn.Proxy(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ProxySettingsDTO{Enabled: p.Enabled, Server: p.Server, Port: p.Port}, nil
}

// SetProxy 启用代理时要求主机非空且端口在 1..65535；关闭时无效端口保存为 -1
func (s *settingsServiceImpl) SetProxy(ctx context.Context, req *dto.ProxySettingsDTO) (*dto.ProxySettingsDTO, error) {
	p := network.ProxySettings{
		Enabled: req.Enabled,
		Server:  strings.TrimSpace(req.Server),
		Port:    req.Port,
	}
	if p.Enabled && !p.Valid() {
		return nil, ErrProxyInvalid
	}
	if p.Port < consts.MinTCPPort || p.Port > consts.MaxTCPPort {
		p.Port = -1
	}
	if err := s.conn.SetProxy(ctx, p); err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "proxy settings changed", "enabled", p.Enabled, "server", p.Server, "port", p.Port)
	return &dto.ProxySettingsDTO{Enabled: p.Enabled, Server: p.Server, Port: p.Port}, nil
}
