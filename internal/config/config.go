package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig              `yaml:"server"`
	Redis     RedisConfig               `yaml:"redis"`
	HTTP      HTTPConfig                `yaml:"http"`
	Cache     CacheConfig               `yaml:"cache"`
	Platforms map[string]PlatformConfig `yaml:"platforms"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int `yaml:"port"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// HTTPConfig 出站HTTP客户端配置
type HTTPConfig struct {
	Timeout       int `yaml:"timeout"`        // 单次请求超时(秒)
	MaxRetries    int `yaml:"max_retries"`    // 最大重试次数
	RetryBackoff  int `yaml:"retry_backoff"`  // 退避基数(毫秒), 实际延迟为 次数*基数
	MaxConcurrent int `yaml:"max_concurrent"` // 最大并发解析数
}

// CacheConfig 缓存配置
type CacheConfig struct {
	TTL int `yaml:"ttl"` // 缓存TTL(秒)
}

// PlatformConfig 平台特定配置
type PlatformConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LoadConfig 加载配置文件
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// 从环境变量覆盖配置
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		cfg.Redis.Addr = redisAddr
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		cfg.Redis.Password = redisPassword
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}

	// 设置默认值
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.HTTP.Timeout == 0 {
		cfg.HTTP.Timeout = 30
	}
	if cfg.HTTP.MaxRetries == 0 {
		cfg.HTTP.MaxRetries = 3
	}
	if cfg.HTTP.RetryBackoff == 0 {
		cfg.HTTP.RetryBackoff = 500
	}
	if cfg.HTTP.MaxConcurrent == 0 {
		cfg.HTTP.MaxConcurrent = 10
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 3600
	}

	return &cfg, nil
}

// GetCacheTTL 获取缓存TTL时间
func (c *CacheConfig) GetCacheTTL() time.Duration {
	return time.Duration(c.TTL) * time.Second
}

// GetTimeout 获取单次请求超时时间
func (c *HTTPConfig) GetTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// GetRetryBackoff 获取重试退避基数
func (c *HTTPConfig) GetRetryBackoff() time.Duration {
	return time.Duration(c.RetryBackoff) * time.Millisecond
}
