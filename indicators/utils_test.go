package indicators

import (
	"math"
	"testing"
)

// constSeries 生成恒定价格序列
func constSeries(n int, v float64) []float64 {
	result := make([]float64, n)
	for i := range result {
		result[i] = v
	}
	return result
}

// risingSeries 生成单调递增序列（步长 step）
func risingSeries(n int, start, step float64) []float64 {
	result := make([]float64, n)
	for i := range result {
		result[i] = start + float64(i)*step
	}
	return result
}

// constBars 生成恒定价格K线
func constBars(n int, v float64) []PriceBar {
	bars := make([]PriceBar, n)
	for i := range bars {
		bars[i] = PriceBar{
			Date:   "2024-01-01",
			Open:   v,
			High:   v,
			Low:    v,
			Close:  v,
			Volume: 10000,
		}
	}
	return bars
}

// TestSMAWarmup 测试 SMA 预热期与计算结果
func TestSMAWarmup(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	sma := SMA(values, 3)

	if len(sma) != len(values) {
		t.Fatalf("期望输出长度 %d, 得到 %d", len(values), len(sma))
	}

	// 前 period-1 个位置无效
	for i := 0; i < 2; i++ {
		if sma[i].Valid {
			t.Errorf("位置 %d 应在预热期内", i)
		}
	}

	expected := []float64{2, 3, 4}
	for i, want := range expected {
		got := sma[i+2]
		if !got.Valid {
			t.Fatalf("位置 %d 应有效", i+2)
		}
		if math.Abs(got.V-want) > 1e-9 {
			t.Errorf("位置 %d 期望 %.4f, 得到 %.4f", i+2, want, got.V)
		}
	}
}

// TestSMAInsufficientData 数据不足时返回全无效序列而非报错
func TestSMAInsufficientData(t *testing.T) {
	sma := SMA([]float64{1, 2}, 5)
	if len(sma) != 2 {
		t.Fatalf("期望输出长度 2, 得到 %d", len(sma))
	}
	for i, v := range sma {
		if v.Valid {
			t.Errorf("位置 %d 不应有效", i)
		}
	}
}

// TestEMAWarmupProperty EMA 预热期恒为无效值，预热期后恒为有限值
func TestEMAWarmupProperty(t *testing.T) {
	values := risingSeries(50, 100, 0.7)
	period := 12
	ema := EMA(values, period)

	for i := 0; i < period-1; i++ {
		if ema[i].Valid {
			t.Errorf("位置 %d 应在预热期内", i)
		}
	}
	for i := period - 1; i < len(values); i++ {
		if !ema[i].Valid {
			t.Errorf("位置 %d 应有效", i)
			continue
		}
		if math.IsNaN(ema[i].V) || math.IsInf(ema[i].V, 0) {
			t.Errorf("位置 %d EMA 非有限值: %v", i, ema[i].V)
		}
	}

	// 首个 EMA 等于前 period 个值的 SMA
	want := Mean(values[:period])
	if math.Abs(ema[period-1].V-want) > 1e-9 {
		t.Errorf("EMA 种子期望 %.4f, 得到 %.4f", want, ema[period-1].V)
	}
}

// TestStdDevConstantSeries 恒定序列的标准差为 0
func TestStdDevConstantSeries(t *testing.T) {
	sd := StdDev(constSeries(30, 50), 20)
	for i := 19; i < 30; i++ {
		if !sd[i].Valid {
			t.Fatalf("位置 %d 应有效", i)
		}
		if sd[i].V != 0 {
			t.Errorf("恒定序列标准差应为 0, 位置 %d 得到 %v", i, sd[i].V)
		}
	}
}

// TestTrueRangeSeries 首根K线无前收盘价，TR 无效
func TestTrueRangeSeries(t *testing.T) {
	bars := []PriceBar{
		{High: 12, Low: 10, Close: 11},
		{High: 13, Low: 11, Close: 12},
		{High: 16, Low: 12, Close: 15},
	}
	tr := TrueRangeSeries(bars)

	if tr[0].Valid {
		t.Error("位置 0 的 TR 不应有效")
	}
	if math.Abs(tr[1].V-2) > 1e-9 {
		t.Errorf("TR[1] 期望 2, 得到 %v", tr[1].V)
	}
	// max(16-12, |16-12|, |12-12|) = 4
	if math.Abs(tr[2].V-4) > 1e-9 {
		t.Errorf("TR[2] 期望 4, 得到 %v", tr[2].V)
	}
}

// TestIndicatorIdempotence 同一输入两次计算结果完全一致（无隐藏状态）
func TestIndicatorIdempotence(t *testing.T) {
	values := risingSeries(80, 10, 0.3)

	first := EMA(values, 12)
	second := EMA(values, 12)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("位置 %d 两次计算结果不一致: %v != %v", i, first[i], second[i])
		}
	}

	rsi1 := RSI(values, 14)
	rsi2 := RSI(values, 14)
	for i := range rsi1 {
		if rsi1[i] != rsi2[i] {
			t.Fatalf("RSI 位置 %d 两次计算结果不一致", i)
		}
	}
}
