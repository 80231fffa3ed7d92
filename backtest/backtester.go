package backtest

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"stockquant/indicators"
	"stockquant/logger"
)

// 平仓原因
const (
	ExitATRStop    = "atr_stop"    // ATR 动态止损
	ExitStopLoss   = "stop_loss"   // 固定比例止损
	ExitTakeProfit = "take_profit" // 止盈
	ExitSignal     = "signal"      // RSI 超买信号离场
	ExitOpen       = "open"        // 回测结束强制平仓
)

// position 持仓（仅回测过程中存在，平仓即销毁）
type position struct {
	entryIndex    int
	entryPrice    float64
	shares        float64
	stopLossPrice float64
	tradeIndex    int // 对应 trades 中开仓时创建的记录
}

// TradeRecord 交易记录
// 开仓时创建，平仓时补全出场字段。金额字段在写入时保留两位小数。
type TradeRecord struct {
	TradeID       string  `json:"trade_id"`
	EntryDate     string  `json:"entry_date"`
	EntryTime     string  `json:"entry_time"`
	EntryPrice    float64 `json:"entry_price"`
	ExitDate      string  `json:"exit_date"`
	ExitTime      string  `json:"exit_time"`
	ExitPrice     float64 `json:"exit_price"`
	Shares        float64 `json:"shares"`
	Profit        float64 `json:"profit"`
	ProfitPercent float64 `json:"profit_percent"`
	ExitReason    string  `json:"exit_reason"`
	StopLossPrice float64 `json:"stop_loss_price"`
}

// Closed 是否已平仓
func (t *TradeRecord) Closed() bool {
	return t.ExitReason != ""
}

// EquityPoint 权益点，每根K线一个
// 不变式: equity == cash + position_value（浮点容差内）
type EquityPoint struct {
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	Equity        float64 `json:"equity"`
	Cash          float64 `json:"cash"`
	PositionValue float64 `json:"position_value"`
}

// BacktestResult 回测结果，在一次运行结束时整体产出
type BacktestResult struct {
	Symbol         string  `json:"symbol"`
	InitialCapital float64 `json:"initial_capital"`
	FinalCapital   float64 `json:"final_capital"`

	// 收益与风险（均为小数比例，非百分比）
	TotalReturn      float64 `json:"total_return"`
	AnnualizedReturn float64 `json:"annualized_return"`
	MaxDrawdown      float64 `json:"max_drawdown"` // 负数
	SharpeRatio      float64 `json:"sharpe_ratio"`
	Volatility       float64 `json:"volatility"`

	// 交易统计
	TotalTrades   int     `json:"total_trades"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	WinRate       float64 `json:"win_rate"`
	AvgProfit     float64 `json:"avg_profit"`
	AvgLoss       float64 `json:"avg_loss"` // 正数表示平均亏损幅度
	ProfitFactor  float64 `json:"profit_factor"`

	RiskMetrics RiskMetrics `json:"risk_metrics"`

	EquityCurve []EquityPoint `json:"equity_curve"`
	Trades      []TradeRecord `json:"trades"`
}

// Backtester 回测器
// 严格按时间逐根K线推进的状态机，每次运行独占自己的资金与持仓状态，
// 不同标的/配置的多次回测可并行执行。
type Backtester struct {
	symbol         string
	bars           []indicators.PriceBar
	cfg            BacktestConfig
	initialCapital float64

	// 账户状态
	cash      float64
	positions []*position
	equity    []EquityPoint
	trades    []TradeRecord

	// 预计算指标序列
	rsi []indicators.Value
	ma  []indicators.Value
	atr []indicators.Value
}

// NewBacktester 创建回测器
func NewBacktester(symbol string, bars []indicators.PriceBar, cfg BacktestConfig, initialCapital float64) *Backtester {
	return &Backtester{
		symbol:         symbol,
		bars:           bars,
		cfg:            cfg,
		initialCapital: initialCapital,
	}
}

// Run 运行回测
func (bt *Backtester) Run() (*BacktestResult, error) {
	if len(bt.bars) == 0 {
		logger.Error("❌ 回测失败: K线数据为空")
		return nil, fmt.Errorf("K线数据为空")
	}
	if err := bt.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("回测配置无效: %w", err)
	}
	if bt.initialCapital <= 0 {
		return nil, fmt.Errorf("初始资金必须大于 0, 当前值: %v", bt.initialCapital)
	}

	closes := indicators.ClosePrices(bt.bars)
	bt.rsi = indicators.RSI(closes, bt.cfg.RSIPeriod)
	if bt.cfg.UseTrendFilter {
		bt.ma = indicators.MovingAverage(closes, bt.cfg.MAPeriod, bt.cfg.MAType)
	}
	if bt.cfg.UseATRStop {
		bt.atr = indicators.ATR(bt.bars, bt.cfg.ATRPeriod)
	}

	bt.cash = bt.initialCapital
	bt.positions = nil
	bt.equity = make([]EquityPoint, 0, len(bt.bars))
	bt.trades = nil

	logger.Info("🚀 开始回测: %s, %d 根K线, 初始资金 %.2f", bt.symbol, len(bt.bars), bt.initialCapital)

	for i := range bt.bars {
		bt.checkExits(i)
		bt.checkEntry(i)
		bt.snapshotEquity(i)

		if i > 0 && i%10000 == 0 {
			logger.Info("⏳ 回测进度: %.1f%%", float64(i)/float64(len(bt.bars))*100)
		}
	}

	// 剩余持仓按末根收盘价强制平仓，重记末根权益点使卖出费用计入期末资金
	last := len(bt.bars) - 1
	if len(bt.positions) > 0 {
		for j := len(bt.positions) - 1; j >= 0; j-- {
			bt.closePosition(j, last, bt.bars[last].Close, ExitOpen)
		}
		bt.equity = bt.equity[:len(bt.equity)-1]
		bt.snapshotEquity(last)
	}
	if bt.trades != nil {
		logger.Info("✅ 回测完成: %d 笔交易", len(bt.trades))
	} else {
		logger.Info("✅ 回测完成: 无交易触发")
	}

	result := bt.buildResult()
	return result, nil
}

// checkExits 离场检查
// 逆序遍历持仓，平仓删除不影响后续下标。
// 优先级: ATR止损 > 固定止损 > 止盈 > RSI超买离场；固定止损仅在未启用ATR止损时评估。
func (bt *Backtester) checkExits(i int) {
	close := bt.bars[i].Close
	for j := len(bt.positions) - 1; j >= 0; j-- {
		pos := bt.positions[j]
		profitPct := (close - pos.entryPrice) / pos.entryPrice

		var reason string
		switch {
		case bt.cfg.UseATRStop && close <= pos.stopLossPrice:
			reason = ExitATRStop
		case !bt.cfg.UseATRStop && profitPct <= bt.cfg.StopLoss:
			reason = ExitStopLoss
		case profitPct >= bt.cfg.TakeProfit:
			reason = ExitTakeProfit
		case bt.rsi[i].Valid && bt.rsi[i].V >= float64(bt.cfg.RSIOverbought):
			reason = ExitSignal
		default:
			continue
		}
		bt.closePosition(j, i, close, reason)
	}
}

// checkEntry 入场检查
// 条件: 持仓数未满、RSI超卖、（可选）收盘价在均线上方。
func (bt *Backtester) checkEntry(i int) {
	if len(bt.positions) >= bt.cfg.MaxPositions {
		return
	}
	if !bt.rsi[i].Valid || bt.rsi[i].V >= float64(bt.cfg.RSIOversold) {
		return
	}
	close := bt.bars[i].Close
	if bt.cfg.UseTrendFilter {
		if !bt.ma[i].Valid || close <= bt.ma[i].V {
			return
		}
	}

	shares := math.Floor(bt.cash * bt.cfg.PositionSize / close)
	if shares <= 0 {
		return
	}
	cost := close * shares * (1 + bt.cfg.CommissionRate)
	if cost > bt.cash {
		return
	}

	stopPrice := close * (1 + bt.cfg.StopLoss)
	if bt.cfg.UseATRStop {
		if !bt.atr[i].Valid {
			return // ATR 预热期内无法定止损价，不开仓
		}
		stopPrice = close - bt.atr[i].V*bt.cfg.ATRMultiplier
	}

	bt.cash -= cost
	bt.trades = append(bt.trades, TradeRecord{
		TradeID:       uuid.NewString(),
		EntryDate:     bt.bars[i].Date,
		EntryTime:     bt.bars[i].Time,
		EntryPrice:    round2(close),
		Shares:        shares,
		StopLossPrice: round2(stopPrice),
	})
	bt.positions = append(bt.positions, &position{
		entryIndex:    i,
		entryPrice:    close,
		shares:        shares,
		stopLossPrice: stopPrice,
		tradeIndex:    len(bt.trades) - 1,
	})

	logger.Debug("📈 开仓: %s %s 价格=%.2f 股数=%.0f 止损=%.2f", bt.bars[i].Date, bt.bars[i].Time, close, shares, stopPrice)
}

// closePosition 平第 j 个持仓
// 毛利扣除买卖双边佣金及卖出印花税后入账。
func (bt *Backtester) closePosition(j, barIndex int, exitPrice float64, reason string) {
	pos := bt.positions[j]

	gross := (exitPrice - pos.entryPrice) * pos.shares
	buyCommission := pos.entryPrice * pos.shares * bt.cfg.CommissionRate
	sellCommission := exitPrice * pos.shares * bt.cfg.CommissionRate
	stampTax := exitPrice * pos.shares * bt.cfg.StampTaxRate
	profit := gross - buyCommission - sellCommission - stampTax

	bt.cash += exitPrice * pos.shares * (1 - bt.cfg.CommissionRate - bt.cfg.StampTaxRate)

	trade := &bt.trades[pos.tradeIndex]
	trade.ExitDate = bt.bars[barIndex].Date
	trade.ExitTime = bt.bars[barIndex].Time
	trade.ExitPrice = round2(exitPrice)
	trade.Profit = round2(profit)
	trade.ProfitPercent = (exitPrice - pos.entryPrice) / pos.entryPrice
	trade.ExitReason = reason

	bt.positions = append(bt.positions[:j], bt.positions[j+1:]...)

	logger.Debug("📉 平仓[%s]: %s %s 价格=%.2f 盈亏=%.2f", reason, bt.bars[barIndex].Date, bt.bars[barIndex].Time, exitPrice, profit)
}

// snapshotEquity 记录当根K线的权益点
func (bt *Backtester) snapshotEquity(i int) {
	close := bt.bars[i].Close
	positionValue := 0.0
	for _, pos := range bt.positions {
		positionValue += pos.shares * close
	}

	// 先各自取整再求和，保证 equity == cash + position_value 严格成立
	cash := round2(bt.cash)
	pv := round2(positionValue)
	bt.equity = append(bt.equity, EquityPoint{
		Date:          bt.bars[i].Date,
		Time:          bt.bars[i].Time,
		Equity:        round2(cash + pv),
		Cash:          cash,
		PositionValue: pv,
	})
}

// buildResult 汇总回测结果
func (bt *Backtester) buildResult() *BacktestResult {
	finalCapital := bt.initialCapital
	if len(bt.equity) > 0 {
		finalCapital = bt.equity[len(bt.equity)-1].Equity
	}

	result := &BacktestResult{
		Symbol:         bt.symbol,
		InitialCapital: bt.initialCapital,
		FinalCapital:   finalCapital,
		RiskMetrics:    CalculateRiskMetrics(bt.equity),
		EquityCurve:    bt.equity,
		Trades:         bt.trades,
	}
	fillStatistics(result, bt.equity, bt.trades, bt.initialCapital)
	return result
}

// round2 保留两位小数（仅用于展示边界，中间计算不取整）
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
