package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("默认配置验证失败: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("默认端口应为 8080, 得到 %d", cfg.Server.Port)
	}
	if cfg.System.LogLevel != "INFO" {
		t.Errorf("默认日志级别应为 INFO, 得到 %s", cfg.System.LogLevel)
	}
	if cfg.Backtest.RSIPeriod == 0 {
		t.Error("回测默认参数未填充")
	}
}

func TestLoadConfigFromBytes(t *testing.T) {
	yamlData := []byte(`
server:
  port: 9000
system:
  log_level: DEBUG
  timezone: Asia/Shanghai
backtest:
  rsi_period: 7
  rsi_overbought: 75
  rsi_oversold: 25
  macd_fast: 12
  macd_slow: 26
  macd_signal: 9
  use_trend_filter: false
  position_size: 0.5
  max_positions: 2
  use_atr_stop: false
  stop_loss: -0.08
  take_profit: 0.15
  commission_rate: 0.0003
  stamp_tax_rate: 0.001
`)

	cfg, err := LoadConfigFromBytes(yamlData)
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("端口应为 9000, 得到 %d", cfg.Server.Port)
	}
	if cfg.Backtest.RSIPeriod != 7 {
		t.Errorf("RSI周期应为 7, 得到 %d", cfg.Backtest.RSIPeriod)
	}
	// 未设置的字段应有默认值
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("主机应有默认值, 得到 %s", cfg.Server.Host)
	}
	if cfg.Database.Path == "" {
		t.Error("数据库路径应有默认值")
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	// 非法 YAML
	if _, err := LoadConfigFromBytes([]byte("server: [")); err == nil {
		t.Error("非法 YAML 应返回错误")
	}

	// 校验不通过的回测参数
	bad := []byte(`
backtest:
  rsi_period: 14
  rsi_overbought: 20
  rsi_oversold: 30
  macd_fast: 12
  macd_slow: 26
  macd_signal: 9
  position_size: 0.5
  max_positions: 1
  stop_loss: -0.05
  take_profit: 0.1
`)
	if _, err := LoadConfigFromBytes(bad); err == nil {
		t.Error("超卖高于超买应校验失败")
	}

	// 非法时区
	if _, err := LoadConfigFromBytes([]byte("system:\n  timezone: Mars/Olympus\n")); err == nil {
		t.Error("非法时区应校验失败")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Server.Port = 9090
	cfg.Backtest.TakeProfit = 0.2
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("保存配置失败: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("重新加载失败: %v", err)
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("端口应为 9090, 得到 %d", loaded.Server.Port)
	}
	if loaded.Backtest.TakeProfit != 0.2 {
		t.Errorf("止盈应为 0.2, 得到 %v", loaded.Backtest.TakeProfit)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("文件不存在应返回错误")
	}
}
