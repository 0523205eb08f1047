package consts

// 设置存储中的键
const (
	PrefDomain           = "domain"
	PrefHTTPProxyEnabled = "http_proxy_enabled"
	PrefHTTPProxyServer  = "http_proxy_server"
	PrefHTTPProxyPort    = "http_proxy_port"
)

const (
	AppName    = "Mastosync"
	AppVersion = "1.0.0"
)

// PlaceholderDomain 尚未登录任何实例时使用的域名
const PlaceholderDomain = "dummy.placeholder"

const (
	MinTCPPort = 1
	MaxTCPPort = 65535
)
