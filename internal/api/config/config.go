package config

import "time"

// Config 配置主体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	DB       DBConfig       `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Mastodon MastodonConfig `mapstructure:"mastodon"`
	Proxy    ProxyConfig    `mapstructure:"proxy"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig 本地 API 配置
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
	// AllowOrigins 额外放行的跨域来源，本机来源总是放行
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DBConfig 数据库配置，driver 取 sqlite 或 mysql
type DBConfig struct {
	Driver      string `mapstructure:"driver"`
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

// RedisConfig Addr 为空时不启用 Redis
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// MastodonConfig 远端实例与 HTTP 客户端配置
type MastodonConfig struct {
	Domain             string        `mapstructure:"domain"`
	PageSize           int           `mapstructure:"page_size"`
	CacheDir           string        `mapstructure:"cache_dir"`
	CacheSize          uint64        `mapstructure:"cache_size"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout"`
	UploadReadTimeout  time.Duration `mapstructure:"upload_read_timeout"`
	UploadWriteTimeout time.Duration `mapstructure:"upload_write_timeout"`
	Debug              bool          `mapstructure:"debug"`
}

// ProxyConfig 代理偏好的初始值，运行期以设置存储中的值为准
type ProxyConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Server  string `mapstructure:"server"`
	Port    int    `mapstructure:"port"`
}

// SyncConfig 后台同步配置
type SyncConfig struct {
	Cron          string        `mapstructure:"cron"`
	Streaming     bool          `mapstructure:"streaming"`
	LockTTL       time.Duration `mapstructure:"lock_ttl"`
	ReconnectWait time.Duration `mapstructure:"reconnect_wait"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}
