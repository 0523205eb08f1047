package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "mastosync.db")
	v.SetDefault("database.max_idle", 5)
	v.SetDefault("database.max_open", 10)
	v.SetDefault("database.max_lifetime", 10)

	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("mastodon.page_size", 20)
	v.SetDefault("mastodon.cache_dir", "./cache/http")
	v.SetDefault("mastodon.cache_size", 25*1024*1024) // 25 MiB
	v.SetDefault("mastodon.read_timeout", "30s")
	v.SetDefault("mastodon.write_timeout", "30s")
	v.SetDefault("mastodon.upload_read_timeout", "100s")
	v.SetDefault("mastodon.upload_write_timeout", "100s")

	v.SetDefault("proxy.port", -1)

	v.SetDefault("sync.cron", "@every 5m")
	v.SetDefault("sync.lock_ttl", "2m")
	v.SetDefault("sync.reconnect_wait", "10s")

	v.SetDefault("log.level", "info")
}

// LoadConfig 从文件加载配置并填充到 Cfg
func LoadConfig() error {
	cfg, err := Load(viper.GetViper(), "./configs")
	if err != nil {
		return err
	}
	Cfg = cfg
	return nil
}

// Load 读取 path 下的 config.yaml，找不到文件时仅使用默认值与环境变量
func Load(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)

	v.SetEnvPrefix("MASTOSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
