package indicators

// ========== 趋势指标 ==========

// MACDResult MACD 三组件
type MACDResult struct {
	MACD      []Value // DIF：快慢 EMA 之差
	Signal    []Value // DEA：MACD 的 EMA
	Histogram []Value // 柱状图：MACD - Signal
}

// MACD 指数平滑异同移动平均线
// macd = EMA(fast) - EMA(slow)；signal = EMA(macd, signalPeriod)，
// 信号线只在 MACD 已定义的区段上计算，再对齐回原始长度。
func MACD(closes []float64, fast, slow, signalPeriod int) MACDResult {
	n := len(closes)
	result := MACDResult{
		MACD:      invalidSeries(n),
		Signal:    invalidSeries(n),
		Histogram: invalidSeries(n),
	}

	fastEMA := EMA(closes, fast)
	slowEMA := EMA(closes, slow)

	for i := 0; i < n; i++ {
		if fastEMA[i].Valid && slowEMA[i].Valid {
			result.MACD[i] = Some(fastEMA[i].V - slowEMA[i].V)
		}
	}

	result.Signal = emaSeries(result.MACD, signalPeriod)

	for i := 0; i < n; i++ {
		if result.MACD[i].Valid && result.Signal[i].Valid {
			result.Histogram[i] = Some(result.MACD[i].V - result.Signal[i].V)
		}
	}

	return result
}

// MAType 均线类型
type MAType string

const (
	MATypeSMA MAType = "SMA"
	MATypeEMA MAType = "EMA"
)

// MovingAverage 按类型计算均线，未知类型按 SMA 处理
func MovingAverage(values []float64, period int, maType MAType) []Value {
	if maType == MATypeEMA {
		return EMA(values, period)
	}
	return SMA(values, period)
}
