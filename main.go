package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"stockquant/config"
	"stockquant/logger"
	"stockquant/storage"
	"stockquant/web"
)

// Version 版本号
var Version = "1.2.0"

func main() {
	var (
		configPath  = flag.String("config", "config.yaml", "配置文件路径")
		debugMode   = flag.Bool("debug", false, "启用调试日志")
		showVersion = flag.Bool("version", false, "显示版本号并退出")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("StockQuant 量化信号与回测引擎\n")
		fmt.Printf("Version: %s\n", Version)
		os.Exit(0)
	}

	// 加载配置，不存在时使用默认配置
	var cfg *config.Config
	if _, err := os.Stat(*configPath); os.IsNotExist(err) {
		logger.Info("ℹ️ 配置文件不存在，使用默认配置")
		cfg = config.DefaultConfig()
	} else {
		var err error
		cfg, err = config.LoadConfig(*configPath)
		if err != nil {
			logger.Fatal("❌ 加载配置失败: %v", err)
		}
	}

	// 初始化日志
	if *debugMode {
		cfg.System.LogLevel = "DEBUG"
	}
	logger.SetLevel(logger.ParseLogLevel(cfg.System.LogLevel))
	if loc, err := time.LoadLocation(cfg.System.Timezone); err == nil {
		logger.SetLocation(loc)
	} else {
		logger.Warn("⚠️ 加载时区失败: %v，使用本地时区", err)
	}
	if err := logger.InitWebLogger(); err != nil {
		logger.Warn("⚠️ 初始化Web日志失败: %v", err)
	}
	defer logger.Close()

	logger.Info("🚀 StockQuant 量化信号与回测引擎启动...")
	logger.Info("📦 版本号: %s", Version)

	// 初始化存储
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755); err != nil {
		logger.Fatal("❌ 创建数据目录失败: %v", err)
	}
	store, err := storage.NewSQLiteStorage(cfg.Database.Path)
	if err != nil {
		logger.Fatal("❌ 初始化存储失败: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 配置热更新监控（仅在配置文件存在时启用）
	if _, err := os.Stat(*configPath); err == nil {
		watcher, err := config.NewConfigWatcher(*configPath)
		if err != nil {
			logger.Warn("⚠️ 启动配置监控失败: %v", err)
		} else {
			if err := watcher.Start(ctx); err != nil {
				logger.Warn("⚠️ 启动配置监控失败: %v", err)
			} else {
				defer watcher.Stop()
				go func() {
					for {
						select {
						case <-ctx.Done():
							return
						case newCfg := <-watcher.GetUpdateChan():
							// 运行时只接受日志级别和回测默认参数更新
							cfg.System.LogLevel = newCfg.System.LogLevel
							cfg.Backtest = newCfg.Backtest
							logger.SetLevel(logger.ParseLogLevel(cfg.System.LogLevel))
							logger.Info("🔄 配置已热更新")
						case err := <-watcher.GetErrorChan():
							logger.Warn("⚠️ 配置监控错误: %v", err)
						}
					}
				}()
			}
		}
	}

	// 启动Web服务器
	server := web.NewWebServer(cfg, store)
	if err := server.Start(ctx); err != nil {
		logger.Fatal("❌ 启动Web服务器失败: %v", err)
	}

	// 等待退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("⏳ 收到信号 %v，开始优雅关闭...", sig)

	cancel()
	server.Stop()
	logger.Info("✅ 系统已退出")
}
