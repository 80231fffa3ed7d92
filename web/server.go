// Package web HTTP API 服务
// 基于 Gin 提供行情分析、回测与策略评估接口。
package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stockquant/config"
	"stockquant/logger"
	"stockquant/storage"
)

// WebServer Web服务器
type WebServer struct {
	server *http.Server
	cfg    *config.Config
	store  *storage.SQLiteStorage
}

// NewWebServer 创建Web服务器
func NewWebServer(cfg *config.Config, store *storage.SQLiteStorage) *WebServer {
	// 设置Gin模式
	if cfg.System.LogLevel == "DEBUG" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ws := &WebServer{cfg: cfg, store: store}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(GinLoggerMiddleware(cfg.System.LogLevel == "DEBUG"))
	r.Use(MetricsMiddleware())

	ws.setupRoutes(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	ws.server = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return ws
}

// setupRoutes 设置路由
func (ws *WebServer) setupRoutes(r *gin.Engine) {
	// Prometheus metrics 端点（供 Prometheus 抓取）
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", ws.getHealth)

		// 行情分析
		api.POST("/analyze", ws.analyze)
		api.POST("/resonance", ws.analyzeResonance)
		api.POST("/suitability", ws.evaluateSuitability)
		api.GET("/signals/history", ws.listSignalHistory)

		// 回测
		api.POST("/backtest", ws.runBacktest)
		api.GET("/backtest/history", ws.listBacktestHistory)
		api.GET("/backtest/:id", ws.getBacktestResult)
	}
}

// Start 启动Web服务器
func (ws *WebServer) Start(ctx context.Context) error {
	go func() {
		logger.Info("🌐 Web服务器启动在 http://%s", ws.server.Addr)
		if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("❌ Web服务器启动失败: %v", err)
		}
	}()

	// 等待context取消
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ws.server.Shutdown(shutdownCtx); err != nil {
			logger.Error("❌ Web服务器关闭失败: %v", err)
		} else {
			logger.Info("✅ Web服务器已关闭")
		}
	}()

	return nil
}

// Stop 停止Web服务器
func (ws *WebServer) Stop() {
	if ws == nil || ws.server == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := ws.server.Shutdown(ctx); err != nil {
		logger.Error("❌ Web服务器关闭失败: %v", err)
	}
}

// getHealth 健康检查
func (ws *WebServer) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Format("2006-01-02 15:04:05"),
	})
}
