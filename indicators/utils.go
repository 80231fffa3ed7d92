package indicators

import "math"

// ========== 基础计算工具 ==========

// SMA 简单移动平均
// 返回与输入等长的序列，前 period-1 个位置为无效值。
func SMA(values []float64, period int) []Value {
	result := invalidSeries(len(values))
	if period <= 0 || len(values) < period {
		return result
	}

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += values[i]
	}
	result[period-1] = Some(sum / float64(period))

	// 滑动窗口计算后续均值
	for i := period; i < len(values); i++ {
		sum = sum - values[i-period] + values[i]
		result[i] = Some(sum / float64(period))
	}

	return result
}

// EMA 指数移动平均
// 首值用前 period 个值的 SMA 作种子，之后按
// ema[i] = (x[i] - ema[i-1]) * k + ema[i-1]，k = 2/(period+1) 递推。
func EMA(values []float64, period int) []Value {
	result := invalidSeries(len(values))
	if period <= 0 || len(values) < period {
		return result
	}

	k := 2.0 / (float64(period) + 1.0)

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += values[i]
	}
	prev := sum / float64(period)
	result[period-1] = Some(prev)

	for i := period; i < len(values); i++ {
		prev = (values[i]-prev)*k + prev
		result[i] = Some(prev)
	}

	return result
}

// emaSeries 对带预热期的序列再做 EMA（用于 MACD 信号线）
// 只在已定义的区段上计算，再对齐回原始长度。
func emaSeries(values []Value, period int) []Value {
	result := invalidSeries(len(values))

	start := -1
	for i, v := range values {
		if v.Valid {
			start = i
			break
		}
	}
	if start < 0 || len(values)-start < period {
		return result
	}

	defined := make([]float64, 0, len(values)-start)
	for _, v := range values[start:] {
		defined = append(defined, v.V)
	}

	ema := EMA(defined, period)
	for i, v := range ema {
		result[start+i] = v
	}

	return result
}

// StdDev 滚动总体标准差
func StdDev(values []float64, period int) []Value {
	result := invalidSeries(len(values))
	if period <= 0 || len(values) < period {
		return result
	}

	for i := period - 1; i < len(values); i++ {
		window := values[i-period+1 : i+1]
		mean := Mean(window)
		variance := 0.0
		for _, v := range window {
			diff := v - mean
			variance += diff * diff
		}
		result[i] = Some(math.Sqrt(variance / float64(period)))
	}

	return result
}

// Mean 算术平均值
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// TrueRange 真实波幅
func TrueRange(high, low, prevClose float64) float64 {
	tr1 := high - low
	tr2 := math.Abs(high - prevClose)
	tr3 := math.Abs(low - prevClose)
	return math.Max(tr1, math.Max(tr2, tr3))
}

// TrueRangeSeries 真实波幅序列
// 首根K线没有前收盘价，位置 0 为无效值。
func TrueRangeSeries(bars []PriceBar) []Value {
	result := invalidSeries(len(bars))
	for i := 1; i < len(bars); i++ {
		result[i] = Some(TrueRange(bars[i].High, bars[i].Low, bars[i-1].Close))
	}
	return result
}

// HighestHigh 窗口内最高价
func HighestHigh(bars []PriceBar, from, to int) float64 {
	high := bars[from].High
	for i := from + 1; i <= to; i++ {
		if bars[i].High > high {
			high = bars[i].High
		}
	}
	return high
}

// LowestLow 窗口内最低价
func LowestLow(bars []PriceBar, from, to int) float64 {
	low := bars[from].Low
	for i := from + 1; i <= to; i++ {
		if bars[i].Low < low {
			low = bars[i].Low
		}
	}
	return low
}
