package web

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"stockquant/backtest"
	"stockquant/indicators"
	"stockquant/logger"
	"stockquant/metrics"
)

// BacktestRequest 回测请求
type BacktestRequest struct {
	Symbol         string                   `json:"symbol" binding:"required"`
	Bars           []indicators.PriceBar    `json:"bars" binding:"required"`
	InitialCapital float64                  `json:"initial_capital"` // 默认 100000
	Config         *backtest.BacktestConfig `json:"config"`          // 未指定时使用系统默认参数
	GenerateReport bool                     `json:"generate_report"` // 是否生成 Markdown 报告
}

// BacktestResponse 回测响应
type BacktestResponse struct {
	Success    bool                     `json:"success"`
	Message    string                   `json:"message,omitempty"`
	RunID      int64                    `json:"run_id,omitempty"`
	Result     *backtest.BacktestResult `json:"result,omitempty"`
	ReportPath string                   `json:"report_path,omitempty"`
}

// runBacktest 运行回测
func (ws *WebServer) runBacktest(c *gin.Context) {
	var req BacktestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, BacktestResponse{
			Success: false,
			Message: fmt.Sprintf("请求参数错误: %v", err),
		})
		return
	}

	if req.InitialCapital <= 0 {
		req.InitialCapital = 100000
	}
	cfg := ws.cfg.Backtest
	if req.Config != nil {
		cfg = *req.Config
	}
	if err := cfg.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, BacktestResponse{
			Success: false,
			Message: fmt.Sprintf("回测参数错误: %v", err),
		})
		return
	}

	logger.Info("📊 开始回测: 标的=%s, K线=%d 根, 初始资金=%.2f",
		req.Symbol, len(req.Bars), req.InitialCapital)

	start := time.Now()
	bt := backtest.NewBacktester(req.Symbol, req.Bars, cfg, req.InitialCapital)
	result, err := bt.Run()
	if err != nil {
		metrics.RecordBacktestRun(req.Symbol, "failed", time.Since(start))
		logger.Error("❌ 回测失败: %v", err)
		c.JSON(http.StatusInternalServerError, BacktestResponse{
			Success: false,
			Message: fmt.Sprintf("回测失败: %v", err),
		})
		return
	}
	metrics.RecordBacktestRun(req.Symbol, "success", time.Since(start))
	metrics.RecordBacktestTrades(req.Symbol, result.TotalTrades)

	runID, err := ws.store.SaveBacktestRun(cfg, result)
	if err != nil {
		logger.Error("❌ 保存回测结果失败: %v", err)
	}

	var reportPath string
	if req.GenerateReport {
		reportPath, err = backtest.GenerateReport(result, ws.cfg.System.ReportDir)
		if err != nil {
			logger.Error("❌ 生成回测报告失败: %v", err)
		}
		if _, err := backtest.SaveEquityCurveCSV(result, ws.cfg.System.ReportDir); err != nil {
			logger.Error("❌ 保存资金曲线失败: %v", err)
		}
	}

	logger.Info("✅ 回测完成: 标的=%s, 交易=%d 笔, 收益率=%.2f%%",
		req.Symbol, result.TotalTrades, result.TotalReturn*100)

	c.JSON(http.StatusOK, BacktestResponse{
		Success:    true,
		RunID:      runID,
		Result:     result,
		ReportPath: reportPath,
	})
}

// listBacktestHistory 查询回测历史
func (ws *WebServer) listBacktestHistory(c *gin.Context) {
	symbol := c.Query("symbol")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	runs, err := ws.store.ListBacktestRuns(symbol, limit)
	if err != nil {
		logger.Error("❌ 查询回测历史失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": fmt.Sprintf("查询回测历史失败: %v", err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"runs":    runs,
	})
}

// getBacktestResult 按ID查询完整回测结果
func (ws *WebServer) getBacktestResult(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "无效的记录ID",
		})
		return
	}

	result, err := ws.store.GetBacktestRun(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}
