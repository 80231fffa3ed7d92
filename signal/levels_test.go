package signal

import (
	"testing"

	"stockquant/indicators"
)

// TestFindSupportResistance V形+倒V形走势应识别出支撑与压力
func TestFindSupportResistance(t *testing.T) {
	// 100 → 跌到 90（摆动低点）→ 涨到 110（摆动高点）→ 回落到 100
	closes := []float64{100, 97, 94, 92, 90, 92, 95, 99, 103, 107, 110, 108, 105, 103, 101, 100, 100, 100}
	bars := make([]indicators.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = indicators.PriceBar{High: c + 0.5, Low: c - 0.5, Close: c}
	}

	sr := FindSupportResistance(bars, len(bars)-1)
	if !sr.Support.Valid {
		t.Fatal("应识别出下方支撑位")
	}
	if !sr.Resistance.Valid {
		t.Fatal("应识别出上方压力位")
	}
	if sr.Support.V != 89.5 { // 摆动低点的最低价
		t.Errorf("支撑位应为 89.5, 得到 %v", sr.Support.V)
	}
	if sr.Resistance.V != 110.5 { // 摆动高点的最高价
		t.Errorf("压力位应为 110.5, 得到 %v", sr.Resistance.V)
	}
}

// TestFindSupportResistanceEdge 越界与过短序列
func TestFindSupportResistanceEdge(t *testing.T) {
	bars := []indicators.PriceBar{{High: 101, Low: 99, Close: 100}}

	if sr := FindSupportResistance(bars, 5); sr.Support.Valid || sr.Resistance.Valid {
		t.Error("越界下标应返回无效结果")
	}
	if sr := FindSupportResistance(bars, 0); sr.Support.Valid || sr.Resistance.Valid {
		t.Error("过短序列不应识别出任何位")
	}
	if sr := FindSupportResistance(nil, 0); sr.Support.Valid || sr.Resistance.Valid {
		t.Error("空序列应返回无效结果")
	}
}

// TestSwingIdx 摆动点识别
func TestSwingIdx(t *testing.T) {
	closes := []float64{5, 4, 3, 2, 1, 2, 3, 4, 5, 6, 7, 6, 5, 4, 3}
	bars := make([]indicators.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = indicators.PriceBar{High: c, Low: c, Close: c}
	}

	lows := swingLowIdx(bars, 3)
	if len(lows) != 1 || lows[0] != 4 {
		t.Errorf("应识别出下标 4 的摆动低点, 得到 %v", lows)
	}
	highs := swingHighIdx(bars, 3)
	if len(highs) != 1 || highs[0] != 10 {
		t.Errorf("应识别出下标 10 的摆动高点, 得到 %v", highs)
	}
}
