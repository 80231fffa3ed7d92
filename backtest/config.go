package backtest

import (
	"fmt"

	"stockquant/indicators"
	"stockquant/logger"
)

// BacktestConfig 回测参数
// 由调用方提供，回测器只读不改。
type BacktestConfig struct {
	// 指标参数
	RSIPeriod     int `yaml:"rsi_period" json:"rsi_period"`
	RSIOverbought int `yaml:"rsi_overbought" json:"rsi_overbought"`
	RSIOversold   int `yaml:"rsi_oversold" json:"rsi_oversold"`
	MACDFast      int `yaml:"macd_fast" json:"macd_fast"`
	MACDSlow      int `yaml:"macd_slow" json:"macd_slow"`
	MACDSignal    int `yaml:"macd_signal" json:"macd_signal"`

	// 趋势过滤
	UseTrendFilter bool              `yaml:"use_trend_filter" json:"use_trend_filter"`
	MAPeriod       int               `yaml:"ma_period" json:"ma_period"`
	MAType         indicators.MAType `yaml:"ma_type" json:"ma_type"` // SMA 或 EMA

	// 仓位管理
	PositionSize float64 `yaml:"position_size" json:"position_size"` // 单仓占现金比例 (0,1)
	MaxPositions int     `yaml:"max_positions" json:"max_positions"`

	// 风险控制
	UseATRStop    bool    `yaml:"use_atr_stop" json:"use_atr_stop"`
	ATRPeriod     int     `yaml:"atr_period" json:"atr_period"`
	ATRMultiplier float64 `yaml:"atr_multiplier" json:"atr_multiplier"`
	StopLoss      float64 `yaml:"stop_loss" json:"stop_loss"`     // 负分数，如 -0.05
	TakeProfit    float64 `yaml:"take_profit" json:"take_profit"` // 正分数，如 0.10

	// 交易成本
	CommissionRate float64 `yaml:"commission_rate" json:"commission_rate"`
	StampTaxRate   float64 `yaml:"stamp_tax_rate" json:"stamp_tax_rate"` // 仅卖出收取
}

// DefaultConfig A股日线回测的默认参数
func DefaultConfig() BacktestConfig {
	return BacktestConfig{
		RSIPeriod:     14,
		RSIOverbought: 70,
		RSIOversold:   30,
		MACDFast:      12,
		MACDSlow:      26,
		MACDSignal:    9,

		UseTrendFilter: true,
		MAPeriod:       20,
		MAType:         indicators.MATypeSMA,

		PositionSize: 0.3,
		MaxPositions: 3,

		UseATRStop:    true,
		ATRPeriod:     14,
		ATRMultiplier: 2.0,
		StopLoss:      -0.05,
		TakeProfit:    0.10,

		CommissionRate: 0.0003, // 万3佣金
		StampTaxRate:   0.001,  // 千1印花税，卖出收取
	}
}

// Validate 校验配置
// 矛盾但无害的组合（如趋势过滤关闭时的 ma_type）只告警不拒绝。
func (c *BacktestConfig) Validate() error {
	if c.RSIPeriod <= 0 {
		return fmt.Errorf("rsi_period 必须大于 0, 当前值: %d", c.RSIPeriod)
	}
	if c.RSIOversold >= c.RSIOverbought {
		return fmt.Errorf("rsi_oversold (%d) 必须小于 rsi_overbought (%d)", c.RSIOversold, c.RSIOverbought)
	}
	if c.MACDFast <= 0 || c.MACDSlow <= 0 || c.MACDSignal <= 0 {
		return fmt.Errorf("MACD 周期必须大于 0: fast=%d slow=%d signal=%d", c.MACDFast, c.MACDSlow, c.MACDSignal)
	}
	if c.MACDFast >= c.MACDSlow {
		return fmt.Errorf("macd_fast (%d) 必须小于 macd_slow (%d)", c.MACDFast, c.MACDSlow)
	}
	if c.PositionSize <= 0 || c.PositionSize > 1 {
		return fmt.Errorf("position_size 必须在 (0,1] 区间, 当前值: %v", c.PositionSize)
	}
	if c.MaxPositions <= 0 {
		return fmt.Errorf("max_positions 必须大于 0, 当前值: %d", c.MaxPositions)
	}
	if c.UseTrendFilter {
		if c.MAPeriod <= 0 {
			return fmt.Errorf("启用趋势过滤时 ma_period 必须大于 0, 当前值: %d", c.MAPeriod)
		}
		if c.MAType != indicators.MATypeSMA && c.MAType != indicators.MATypeEMA {
			return fmt.Errorf("ma_type 必须为 SMA 或 EMA, 当前值: %s", c.MAType)
		}
	}
	if c.UseATRStop {
		if c.ATRPeriod <= 0 {
			return fmt.Errorf("启用ATR止损时 atr_period 必须大于 0, 当前值: %d", c.ATRPeriod)
		}
		if c.ATRMultiplier <= 0 {
			return fmt.Errorf("atr_multiplier 必须大于 0, 当前值: %v", c.ATRMultiplier)
		}
	}
	if c.StopLoss >= 0 {
		return fmt.Errorf("stop_loss 必须为负分数, 当前值: %v", c.StopLoss)
	}
	if c.TakeProfit <= 0 {
		return fmt.Errorf("take_profit 必须为正分数, 当前值: %v", c.TakeProfit)
	}
	if c.CommissionRate < 0 || c.StampTaxRate < 0 {
		return fmt.Errorf("费率不能为负: commission=%v stamp_tax=%v", c.CommissionRate, c.StampTaxRate)
	}

	// 闲置字段：不影响回测结果，提醒即可
	if !c.UseTrendFilter && c.MAType != "" {
		logger.Warn("⚠️ 趋势过滤已关闭，ma_type=%s 不会生效", c.MAType)
	}
	if !c.UseATRStop && c.ATRMultiplier != 0 {
		logger.Warn("⚠️ ATR止损已关闭，atr_multiplier=%v 不会生效，将使用固定止损 %v", c.ATRMultiplier, c.StopLoss)
	}

	return nil
}
