package network

import (
	"Mastosync/internal/pkg/consts"
	"context"
	"net"
	"strconv"

	"github.com/pkg/errors"
)

// SettingsStore 持久化的键值设置，ok 为 false 表示未设置
type SettingsStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// ProxySettings HTTP 代理偏好
type ProxySettings struct {
	Enabled bool   `json:"enabled"`
	Server  string `json:"server"`
	Port    int    `json:"port"`
}

// Valid 仅当启用、主机非空且端口在 1..65535 内时才使用代理
func (p ProxySettings) Valid() bool {
	return p.Enabled && p.Server != "" && p.Port >= consts.MinTCPPort && p.Port <= consts.MaxTCPPort
}

// Address 形如 host:port
func (p ProxySettings) Address() string {
	return net.JoinHostPort(p.Server, strconv.Itoa(p.Port))
}

func getString(ctx context.Context, store SettingsStore, key, def string) (string, error) {
	v, ok, err := store.Get(ctx, key)
	if err != nil {
		return def, errors.Wrapf(err, "read setting %s", key)
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

// LoadProxySettings 读取代理设置，未设置的字段取 def 中的值；端口无法解析时视为 -1
func LoadProxySettings(ctx context.Context, store SettingsStore, def ProxySettings) (ProxySettings, error) {
	enabled, err := getString(ctx, store, consts.PrefHTTPProxyEnabled, strconv.FormatBool(def.Enabled))
	if err != nil {
		return def, err
	}
	server, err := getString(ctx, store, consts.PrefHTTPProxyServer, def.Server)
	if err != nil {
		return def, err
	}
	port, err := getString(ctx, store, consts.PrefHTTPProxyPort, strconv.Itoa(def.Port))
	if err != nil {
		return def, err
	}

	p := ProxySettings{Server: server}
	p.Enabled, _ = strconv.ParseBool(enabled)
	if p.Port, err = strconv.Atoi(port); err != nil {
		p.Port = -1
	}
	return p, nil
}

// SaveProxySettings 写入代理设置
func SaveProxySettings(ctx context.Context, store SettingsStore, p ProxySettings) error {
	kv := [][2]string{
		{consts.PrefHTTPProxyEnabled, strconv.FormatBool(p.Enabled)},
		{consts.PrefHTTPProxyServer, p.Server},
		{consts.PrefHTTPProxyPort, strconv.Itoa(p.Port)},
	}
	for _, e := range kv {
		if err := store.Set(ctx, e[0], e[1]); err != nil {
			return errors.Wrapf(err, "write setting %s", e[0])
		}
	}
	return nil
}
