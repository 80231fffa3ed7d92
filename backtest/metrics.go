package backtest

import "math"

const (
	tradingDaysPerYear = 252
	riskFreeRate       = 0.02 // 年化无风险利率

	// 零亏损时利润因子的哨兵值，保证 JSON 可序列化（不可用 +Inf）
	profitFactorCap = 9999
)

// fillStatistics 计算回测统计指标并写入结果
// 收益率、回撤、波动率均为小数比例，由展示层决定是否转百分比。
func fillStatistics(result *BacktestResult, equity []EquityPoint, trades []TradeRecord, initialCapital float64) {
	returns := calculateReturns(equity)

	result.TotalReturn = calculateTotalReturn(equity, initialCapital)
	result.AnnualizedReturn = calculateAnnualizedReturn(result.TotalReturn, len(equity))
	result.MaxDrawdown = calculateMaxDrawdown(equity)
	result.SharpeRatio = calculateSharpeRatio(returns)
	result.Volatility = calculateVolatility(returns)

	for _, trade := range trades {
		if !trade.Closed() {
			continue
		}
		result.TotalTrades++
		if trade.Profit > 0 {
			result.WinningTrades++
		} else {
			result.LosingTrades++
		}
	}
	if result.TotalTrades > 0 {
		result.WinRate = float64(result.WinningTrades) / float64(result.TotalTrades)
	}
	result.AvgProfit = calculateAvgProfit(trades)
	result.AvgLoss = calculateAvgLoss(trades)
	result.ProfitFactor = calculateProfitFactor(trades)
}

// calculateReturns 逐K线收益率序列
func calculateReturns(equity []EquityPoint) []float64 {
	if len(equity) < 2 {
		return nil
	}
	returns := make([]float64, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		if equity[i-1].Equity > 0 {
			returns[i-1] = (equity[i].Equity - equity[i-1].Equity) / equity[i-1].Equity
		}
	}
	return returns
}

// calculateTotalReturn 总收益率
func calculateTotalReturn(equity []EquityPoint, initialCapital float64) float64 {
	if len(equity) == 0 || initialCapital == 0 {
		return 0
	}
	final := equity[len(equity)-1].Equity
	return (final - initialCapital) / initialCapital
}

// calculateAnnualizedReturn 年化收益率，按 252 个交易日线性折算
func calculateAnnualizedReturn(totalReturn float64, tradingDays int) float64 {
	if tradingDays == 0 {
		return 0
	}
	return totalReturn * (tradingDaysPerYear / float64(tradingDays))
}

// calculateMaxDrawdown 最大回撤（峰到谷的最大相对跌幅，负数）
func calculateMaxDrawdown(equity []EquityPoint) float64 {
	if len(equity) == 0 {
		return 0
	}

	maxDrawdown := 0.0
	peak := equity[0].Equity
	for _, point := range equity {
		if point.Equity > peak {
			peak = point.Equity
		}
		if peak > 0 {
			drawdown := (point.Equity - peak) / peak
			if drawdown < maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}
	return maxDrawdown
}

// calculateSharpeRatio 夏普比率（标准差为 0 时返回 0）
func calculateSharpeRatio(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		diff := r - mean
		variance += diff * diff
	}
	variance /= float64(len(returns))
	stdDev := math.Sqrt(variance)

	if stdDev == 0 {
		return 0
	}
	daily := riskFreeRate / tradingDaysPerYear
	return (mean - daily) / stdDev * math.Sqrt(tradingDaysPerYear)
}

// calculateVolatility 年化波动率
func calculateVolatility(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		diff := r - mean
		variance += diff * diff
	}
	variance /= float64(len(returns))

	return math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear)
}

// calculateAvgProfit 盈利交易的平均利润
func calculateAvgProfit(trades []TradeRecord) float64 {
	total, count := 0.0, 0
	for _, trade := range trades {
		if trade.Closed() && trade.Profit > 0 {
			total += trade.Profit
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// calculateAvgLoss 亏损交易的平均亏损幅度（正数）
func calculateAvgLoss(trades []TradeRecord) float64 {
	total, count := 0.0, 0
	for _, trade := range trades {
		if trade.Closed() && trade.Profit <= 0 {
			total += math.Abs(trade.Profit)
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// calculateProfitFactor 利润因子（总盈利 / 总亏损）
// 有盈利但零亏损时返回哨兵值 9999，无已平仓交易时返回 0。
func calculateProfitFactor(trades []TradeRecord) float64 {
	totalProfit, totalLoss := 0.0, 0.0
	closed := 0
	for _, trade := range trades {
		if !trade.Closed() {
			continue
		}
		closed++
		if trade.Profit > 0 {
			totalProfit += trade.Profit
		} else {
			totalLoss += math.Abs(trade.Profit)
		}
	}

	if closed == 0 {
		return 0
	}
	if totalLoss == 0 {
		if totalProfit == 0 {
			return 0
		}
		return profitFactorCap
	}
	return totalProfit / totalLoss
}
