package dto

// DomainReq 修改实例域名
type DomainReq struct {
	Domain string `json:"domain" validate:"required,hostname_port|fqdn"`
}

type DomainDTO struct {
	Domain string `json:"domain"`
}

// ProxySettingsDTO 代理设置，启用时主机必填且端口必须在 1..65535
type ProxySettingsDTO struct {
	Enabled bool   `json:"enabled"`
	Server  string `json:"server"`
	Port    int    `json:"port"`
}
