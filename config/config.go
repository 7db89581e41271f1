package config

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 对应 config.yaml 的各个段
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Email    EmailConfig    `mapstructure:"email"`
}

// ServerConfig BaseURL 非空时作为唯一允许的跨域来源
type ServerConfig struct {
	Port    string `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
	BaseURL string `mapstructure:"base_url"`
}

// DatabaseConfig 数据库配置
// Driver 为 sqlite 时只使用 Path；为 mysql 时使用其余连接参数
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Charset  string `mapstructure:"charset"`
}

// JWTConfig ExpireTime 由 ExpireHours 换算
type JWTConfig struct {
	Secret      string        `mapstructure:"secret"`
	ExpireHours int           `mapstructure:"expire_hours"`
	ExpireTime  time.Duration `mapstructure:"-"`
}

// EmailConfig SMTP 账户，Enabled 为 false 时不发送任何通知
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// GlobalConfig 由 LoadConfig 设置
var GlobalConfig *Config

// 外部配置文件的默认查找目录
var searchPaths = []string{".", "./config", "/etc/purchases", "$HOME/.purchases"}

// LoadConfig 读取配置并设置 GlobalConfig
// 内置 config.yaml 提供全部默认值，外部文件和 PURCHASES_* 环境变量依次覆盖
// configPath 为空时在 searchPaths 中查找 config.yaml，找不到也不报错
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("读取内置配置失败: %w", err)
	}

	mergeExternal(v, configPath)

	v.SetEnvPrefix("PURCHASES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	normalize(&cfg)

	GlobalConfig = &cfg
	return &cfg, nil
}

// mergeExternal 合并外部配置文件，读取失败只记录日志
func mergeExternal(v *viper.Viper, configPath string) {
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			log.Printf("忽略配置文件 %s: %v", configPath, err)
			return
		}
		log.Printf("使用配置文件: %s", configPath)
		return
	}

	ext := viper.New()
	ext.SetConfigName("config")
	ext.SetConfigType("yaml")
	for _, p := range searchPaths {
		ext.AddConfigPath(p)
	}
	if err := ext.ReadInConfig(); err != nil {
		return
	}
	if err := v.MergeConfigMap(ext.AllSettings()); err != nil {
		log.Printf("忽略配置文件 %s: %v", ext.ConfigFileUsed(), err)
		return
	}
	log.Printf("使用配置文件: %s", ext.ConfigFileUsed())
}

// normalize 补齐派生字段；token 有效期不大于 0 时按 24 小时
func normalize(cfg *Config) {
	if cfg.JWT.ExpireHours <= 0 {
		cfg.JWT.ExpireHours = 24
	}
	cfg.JWT.ExpireTime = time.Duration(cfg.JWT.ExpireHours) * time.Hour
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
}

// MustLoadConfig 同 LoadConfig，出错时 panic
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("加载配置失败: %v", err))
	}
	return cfg
}

// GetConfig 返回 GlobalConfig，未加载时 panic
func GetConfig() *Config {
	if GlobalConfig == nil {
		panic("config: LoadConfig 尚未调用")
	}
	return GlobalConfig
}

// PrintConfig 启动时输出配置摘要，不含密码和密钥
func PrintConfig() {
	cfg := GlobalConfig
	if cfg == nil {
		return
	}
	db := "sqlite " + cfg.Database.Path
	if cfg.Database.Driver == "mysql" {
		db = fmt.Sprintf("mysql %s@%s:%s/%s", cfg.Database.Username, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	}
	log.Printf("监听 %s，模式 %s，数据库 %s，邮件通知 %v", cfg.Server.Port, cfg.Server.Mode, db, cfg.Email.Enabled)
}
