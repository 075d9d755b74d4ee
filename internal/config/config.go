package config

import (
	"fmt"
	"strings"

	"github.com/shopfront-next/internal/logger"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Store    StoreConfig    `mapstructure:"store"`
	Session  SessionConfig  `mapstructure:"session"`
	Security SecurityConfig `mapstructure:"security"`
	Checkout CheckoutConfig `mapstructure:"checkout"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// StoreConfig 本地键值存储配置
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // 仅支持 sqlite（纯 Go 嵌入式驱动）
	DSN    string `mapstructure:"dsn"`    // 存储文件路径
	Prefix string `mapstructure:"prefix"` // 键命名空间前缀
}

// SessionConfig 会话配置
type SessionConfig struct {
	TokenSecret      string          `mapstructure:"token_secret"`
	TokenExpireHours int             `mapstructure:"token_expire_hours"`
	Demo             DemoLoginConfig `mapstructure:"demo"`
	RegisterDelayMS  int             `mapstructure:"register_delay_ms"` // 模拟注册耗时
}

// DemoLoginConfig 演示账号配置（文档化的演示登录通道，非后门）
type DemoLoginConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	PasswordPolicy PasswordPolicyConfig `mapstructure:"password_policy"`
}

// PasswordPolicyConfig 密码策略配置
type PasswordPolicyConfig struct {
	MinLength      int  `mapstructure:"min_length"`
	RequireUpper   bool `mapstructure:"require_upper"`
	RequireLower   bool `mapstructure:"require_lower"`
	RequireNumber  bool `mapstructure:"require_number"`
	RequireSpecial bool `mapstructure:"require_special"`
}

// CheckoutConfig 结算策略配置（阈值与费率是策略，不是硬编码常量）
type CheckoutConfig struct {
	FreeShippingThreshold string `mapstructure:"free_shipping_threshold"`
	ShippingFlatFee       string `mapstructure:"shipping_flat_fee"`
	TaxRate               string `mapstructure:"tax_rate"`
	ProcessingDelayMS     int    `mapstructure:"processing_delay_ms"` // 模拟下单处理耗时
}

// CatalogConfig 商品目录来源配置
type CatalogConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	TimeoutMS int    `mapstructure:"timeout_ms"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// Load 从 config.yml 加载配置
func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")     // 从当前目录查找
	viper.AddConfigPath("../")   // 如果从 cmd/server 运行
	viper.AddConfigPath("./etc") // etc 文件夹

	viper.SetDefault("server.host", "127.0.0.1")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("log.dir", "")
	viper.SetDefault("log.filename", "shopfront.log")
	viper.SetDefault("log.max_size_mb", 100)
	viper.SetDefault("log.max_backups", 7)
	viper.SetDefault("log.max_age_days", 30)
	viper.SetDefault("log.compress", true)
	viper.SetDefault("store.driver", "sqlite")
	viper.SetDefault("store.dsn", "./db/shopfront.db")
	viper.SetDefault("store.prefix", "sf")
	viper.SetDefault("session.token_secret", "change-me-in-production")
	viper.SetDefault("session.token_expire_hours", 24)
	viper.SetDefault("session.demo.enabled", true)
	viper.SetDefault("session.demo.email", "demo@example.com")
	viper.SetDefault("session.demo.password", "demo123")
	viper.SetDefault("session.demo.name", "Demo User")
	viper.SetDefault("session.register_delay_ms", 1000)
	viper.SetDefault("security.password_policy.min_length", 6)
	viper.SetDefault("security.password_policy.require_upper", true)
	viper.SetDefault("security.password_policy.require_lower", true)
	viper.SetDefault("security.password_policy.require_number", true)
	viper.SetDefault("security.password_policy.require_special", false)
	viper.SetDefault("checkout.free_shipping_threshold", "50")
	viper.SetDefault("checkout.shipping_flat_fee", "5.99")
	viper.SetDefault("checkout.tax_rate", "0.05")
	viper.SetDefault("checkout.processing_delay_ms", 2000)
	viper.SetDefault("catalog.base_url", "https://fakestoreapi.com")
	viper.SetDefault("catalog.timeout_ms", 5000)
	viper.SetDefault("cors.allowed_origins", []string{"*"})
	viper.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	viper.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Authorization",
		"Cache-Control",
		"X-Requested-With",
	})
	viper.SetDefault("cors.allow_credentials", true)
	viper.SetDefault("cors.max_age", 600)

	// 环境变量支持
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // server.port -> SERVER_PORT

	if err := viper.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", viper.ConfigFileUsed())
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}

	return &cfg
}
