// Package config 系统配置
// YAML 配置文件的加载、默认值填充、校验与热更新监控。
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"stockquant/backtest"
)

// Config 系统配置
type Config struct {
	Server struct {
		Host         string `yaml:"host"`
		Port         int    `yaml:"port"`
		ReadTimeout  int    `yaml:"read_timeout"`  // 秒
		WriteTimeout int    `yaml:"write_timeout"` // 秒
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"` // SQLite 数据库文件路径
	} `yaml:"database"`

	System struct {
		LogLevel  string `yaml:"log_level"`
		Timezone  string `yaml:"timezone"`   // 如 "Asia/Shanghai"
		ReportDir string `yaml:"report_dir"` // 回测报告输出目录
	} `yaml:"system"`

	// 回测默认参数，API 请求未指定时使用
	Backtest backtest.BacktestConfig `yaml:"backtest"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults 填充未设置的字段
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/stockquant.db"
	}
	if c.System.LogLevel == "" {
		c.System.LogLevel = "INFO"
	}
	if c.System.Timezone == "" {
		c.System.Timezone = "Asia/Shanghai"
	}
	if c.System.ReportDir == "" {
		c.System.ReportDir = "./reports"
	}

	var zero backtest.BacktestConfig
	if c.Backtest == zero {
		c.Backtest = backtest.DefaultConfig()
	}
}

// LoadConfig 加载配置文件
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	return LoadConfigFromBytes(data)
}

// LoadConfigFromBytes 从字节数组加载配置
func LoadConfigFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}
	return &cfg, nil
}

// SaveConfig 保存配置到文件
func SaveConfig(cfg *Config, configPath string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("配置验证失败: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}
	return nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("服务端口非法: %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("数据库路径不能为空")
	}
	if c.System.Timezone != "" {
		if _, err := time.LoadLocation(c.System.Timezone); err != nil {
			return fmt.Errorf("时区无效: %s", c.System.Timezone)
		}
	}
	if err := c.Backtest.Validate(); err != nil {
		return fmt.Errorf("回测默认参数无效: %w", err)
	}
	return nil
}
