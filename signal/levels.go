package signal

import "stockquant/indicators"

// 摆动高低点扫描参数
const (
	pivotLookback = 3  // 左右各比较的K线数
	levelWindow   = 60 // 只在最近 N 根K线内找支撑/压力
)

// SupportResistance 支撑位与压力位
// Valid=false 表示窗口内未找到对应的摆动点。
type SupportResistance struct {
	Support    indicators.Value `json:"support"`
	Resistance indicators.Value `json:"resistance"`
}

// swingHighIdx 返回窗口内的摆动高点下标：最高价高于左右各 lookback 根K线
func swingHighIdx(bars []indicators.PriceBar, lookback int) []int {
	var idx []int
	for i := lookback; i < len(bars)-lookback; i++ {
		high := bars[i].High
		isHigh := true
		for j := i - lookback; j <= i+lookback; j++ {
			if bars[j].High > high {
				isHigh = false
				break
			}
		}
		if isHigh {
			idx = append(idx, i)
		}
	}
	return idx
}

// swingLowIdx 与 swingHighIdx 对称，找摆动低点
func swingLowIdx(bars []indicators.PriceBar, lookback int) []int {
	var idx []int
	for i := lookback; i < len(bars)-lookback; i++ {
		low := bars[i].Low
		isLow := true
		for j := i - lookback; j <= i+lookback; j++ {
			if bars[j].Low < low {
				isLow = false
				break
			}
		}
		if isLow {
			idx = append(idx, i)
		}
	}
	return idx
}

// FindSupportResistance 在截至 upto（含）的序列上找最近的支撑位与压力位
// 支撑取现价下方最近的摆动低点，压力取现价上方最近的摆动高点。
func FindSupportResistance(bars []indicators.PriceBar, upto int) SupportResistance {
	if upto < 0 || upto >= len(bars) {
		return SupportResistance{}
	}

	start := upto - levelWindow + 1
	if start < 0 {
		start = 0
	}
	window := bars[start : upto+1]
	price := bars[upto].Close

	var sr SupportResistance
	for _, i := range swingLowIdx(window, pivotLookback) {
		low := window[i].Low
		if low < price && (!sr.Support.Valid || low > sr.Support.V) {
			sr.Support = indicators.Some(low)
		}
	}
	for _, i := range swingHighIdx(window, pivotLookback) {
		high := window[i].High
		if high > price && (!sr.Resistance.Valid || high < sr.Resistance.V) {
			sr.Resistance = indicators.Some(high)
		}
	}
	return sr
}
