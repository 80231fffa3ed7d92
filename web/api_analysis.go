package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stockquant/indicators"
	"stockquant/logger"
	"stockquant/metrics"
	"stockquant/signal"
	"stockquant/strategy"
)

// AnalyzeRequest 行情分析请求
type AnalyzeRequest struct {
	Symbol    string                `json:"symbol" binding:"required"`
	Timeframe string                `json:"timeframe"` // 如 "1d"、"5m"，默认 "1d"
	Bars      []indicators.PriceBar `json:"bars" binding:"required"`
}

// AnalyzeResponse 行情分析响应
type AnalyzeResponse struct {
	Success     bool                       `json:"success"`
	Message     string                     `json:"message,omitempty"`
	Symbol      string                     `json:"symbol,omitempty"`
	Timeframe   string                     `json:"timeframe,omitempty"`
	LatestFrame *indicators.IndicatorFrame `json:"latest_frame,omitempty"`
	Signals     []signal.EnrichedSignal    `json:"signals,omitempty"`
}

// analyze 指标计算 + 信号生成 + 买卖配对
func (ws *WebServer) analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, AnalyzeResponse{
			Success: false,
			Message: fmt.Sprintf("请求参数错误: %v", err),
		})
		return
	}
	if req.Timeframe == "" {
		req.Timeframe = "1d"
	}
	if len(req.Bars) == 0 {
		c.JSON(http.StatusBadRequest, AnalyzeResponse{
			Success: false,
			Message: "K线数据不能为空",
		})
		return
	}

	logger.Info("📊 开始分析: 标的=%s, 周期=%s, K线=%d 根",
		req.Symbol, req.Timeframe, len(req.Bars))

	frames := indicators.ComputeFrames(req.Bars)
	signals := signal.PairTrades(signal.Generate(req.Bars, frames))

	for _, sig := range signals {
		metrics.RecordSignal(req.Symbol, string(sig.Type))
	}

	if err := ws.store.SaveSignals(req.Symbol, req.Timeframe, signals); err != nil {
		logger.Error("❌ 保存信号失败: %v", err)
	}

	var latest *indicators.IndicatorFrame
	if len(frames) > 0 {
		latest = &frames[len(frames)-1]
	}

	c.JSON(http.StatusOK, AnalyzeResponse{
		Success:     true,
		Symbol:      req.Symbol,
		Timeframe:   req.Timeframe,
		LatestFrame: latest,
		Signals:     signals,
	})
}

// ResonanceRequest 多周期共振分析请求
type ResonanceRequest struct {
	Symbol  string                           `json:"symbol" binding:"required"`
	Signals map[string]signal.EnrichedSignal `json:"signals" binding:"required"` // 周期 -> 最新信号
}

// ResonanceResponse 多周期共振分析响应
type ResonanceResponse struct {
	Success  bool                      `json:"success"`
	Message  string                    `json:"message,omitempty"`
	Analysis *signal.ResonanceAnalysis `json:"analysis,omitempty"`
}

// analyzeResonance 多周期共振分析
func (ws *WebServer) analyzeResonance(c *gin.Context) {
	var req ResonanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResonanceResponse{
			Success: false,
			Message: fmt.Sprintf("请求参数错误: %v", err),
		})
		return
	}
	if len(req.Signals) == 0 {
		c.JSON(http.StatusBadRequest, ResonanceResponse{
			Success: false,
			Message: "信号列表不能为空",
		})
		return
	}

	analysis := signal.AnalyzeResonance(req.Signals)
	metrics.SetResonanceLevel(req.Symbol, string(analysis.SignalType), analysis.Level)

	logger.Info("🔄 共振分析: 标的=%s, 级别=%d, 方向=%s",
		req.Symbol, analysis.Level, analysis.SignalType)

	c.JSON(http.StatusOK, ResonanceResponse{
		Success:  true,
		Analysis: &analysis,
	})
}

// SuitabilityRequest 策略适配度评估请求
type SuitabilityRequest struct {
	Symbol string                `json:"symbol" binding:"required"`
	Bars   []indicators.PriceBar `json:"bars" binding:"required"`
}

// SuitabilityResponse 策略适配度评估响应
type SuitabilityResponse struct {
	Success bool                        `json:"success"`
	Message string                      `json:"message,omitempty"`
	Symbol  string                      `json:"symbol,omitempty"`
	Report  *strategy.SuitabilityReport `json:"report,omitempty"`
}

// evaluateSuitability 短线/波段策略适配度评估
func (ws *WebServer) evaluateSuitability(c *gin.Context) {
	var req SuitabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, SuitabilityResponse{
			Success: false,
			Message: fmt.Sprintf("请求参数错误: %v", err),
		})
		return
	}

	frames := indicators.ComputeFrames(req.Bars)
	report := strategy.Evaluate(req.Bars, frames)

	c.JSON(http.StatusOK, SuitabilityResponse{
		Success: true,
		Symbol:  req.Symbol,
		Report:  &report,
	})
}

// listSignalHistory 查询历史信号
func (ws *WebServer) listSignalHistory(c *gin.Context) {
	symbol := c.Query("symbol")
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "缺少 symbol 参数",
		})
		return
	}
	timeframe := c.Query("timeframe")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	signals, err := ws.store.ListSignals(symbol, timeframe, limit)
	if err != nil {
		logger.Error("❌ 查询信号历史失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": fmt.Sprintf("查询信号历史失败: %v", err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"symbol":  symbol,
		"signals": signals,
	})
}
