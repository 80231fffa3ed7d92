package indicators

// ========== 波动率指标 ==========

// BollingerResult 布林带三轨
type BollingerResult struct {
	Upper  []Value
	Middle []Value
	Lower  []Value
}

// Bollinger 布林带
// 中轨为 SMA(period)，上下轨为中轨 ± k 倍滚动总体标准差。
func Bollinger(closes []float64, period int, k float64) BollingerResult {
	n := len(closes)
	result := BollingerResult{
		Upper:  invalidSeries(n),
		Middle: SMA(closes, period),
		Lower:  invalidSeries(n),
	}

	stdDev := StdDev(closes, period)
	for i := 0; i < n; i++ {
		if result.Middle[i].Valid && stdDev[i].Valid {
			band := k * stdDev[i].V
			result.Upper[i] = Some(result.Middle[i].V + band)
			result.Lower[i] = Some(result.Middle[i].V - band)
		}
	}

	return result
}

// ATR 平均真实波幅（Wilder 平滑）
// 种子为前 period 个 TR 的简单平均，之后按
// atr = (atr_prev*(period-1) + TR) / period 递推。
// TR 从第二根K线起才有定义，因此 ATR 从位置 period 起有效。
func ATR(bars []PriceBar, period int) []Value {
	result := invalidSeries(len(bars))
	if period <= 0 || len(bars) < period+1 {
		return result
	}

	tr := TrueRangeSeries(bars)

	sum := 0.0
	for i := 1; i <= period; i++ {
		sum += tr[i].V
	}
	prev := sum / float64(period)
	result[period] = Some(prev)

	for i := period + 1; i < len(bars); i++ {
		prev = (prev*float64(period-1) + tr[i].V) / float64(period)
		result[i] = Some(prev)
	}

	return result
}
