package signal

import (
	"math"
	"testing"

	"stockquant/indicators"
)

func barsFromCloses(closes []float64, volume float64) []indicators.PriceBar {
	bars := make([]indicators.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = indicators.PriceBar{
			Date:   "2024-03-01",
			Open:   c,
			High:   c + 0.5,
			Low:    c - 0.5,
			Close:  c,
			Volume: volume,
		}
	}
	return bars
}

// TestGenerateInsufficientData 少于2根K线返回单个中性 hold 信号
func TestGenerateInsufficientData(t *testing.T) {
	for _, n := range []int{0, 1} {
		bars := barsFromCloses(make([]float64, n), 10000)
		for i := range bars {
			bars[i].Close = 100
		}
		frames := indicators.ComputeFrames(bars)

		signals := Generate(bars, frames)
		if len(signals) != 1 {
			t.Fatalf("%d 根K线应返回 1 个信号, 得到 %d", n, len(signals))
		}
		sig := signals[0]
		if sig.Type != SignalHold {
			t.Errorf("应为 hold, 得到 %s", sig.Type)
		}
		if len(sig.Reasons) == 0 {
			t.Error("应包含数据不足的原因说明")
		}
	}
}

// TestGenerateConstantSeries 恒定价格序列不触发任何规则
func TestGenerateConstantSeries(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100
	}
	bars := barsFromCloses(closes, 10000)
	frames := indicators.ComputeFrames(bars)

	signals := Generate(bars, frames)
	if len(signals) != 0 {
		t.Errorf("恒定序列不应产生信号, 得到 %d 个", len(signals))
	}
}

// TestGenerateSellOnOverboughtSpike 持续上涨后放量突破上轨应产生 sell
func TestGenerateSellOnOverboughtSpike(t *testing.T) {
	closes := make([]float64, 50)
	for i := 0; i < 49; i++ {
		closes[i] = 100 + float64(i)
	}
	closes[49] = closes[48] + 10 // 末根跳空突破布林上轨
	bars := barsFromCloses(closes, 10000)
	frames := indicators.ComputeFrames(bars)

	signals := Generate(bars, frames)
	if len(signals) == 0 {
		t.Fatal("超买突破应产生信号")
	}

	last := signals[len(signals)-1]
	if last.Type != SignalSell {
		t.Fatalf("应为 sell 信号, 得到 %s", last.Type)
	}
	if last.Price != closes[49] {
		t.Errorf("信号价格应为末根收盘价 %v, 得到 %v", closes[49], last.Price)
	}
	if last.Strength < minStrength || last.Strength > 100 {
		t.Errorf("强度应在 [%d,100], 得到 %v", minStrength, last.Strength)
	}
	if len(last.Reasons) < minRulesFired {
		t.Errorf("至少应有 %d 条触发原因, 得到 %d", minRulesFired, len(last.Reasons))
	}

	// sell 信号默认止损在上方 2%，止盈在下方 3%
	if math.Abs(last.StopLoss-last.Price*1.02) > 1e-9 {
		t.Errorf("止损应为 %.2f, 得到 %.2f", last.Price*1.02, last.StopLoss)
	}
	if math.Abs(last.TakeProfit-last.Price*0.97) > 1e-9 {
		t.Errorf("止盈应为 %.2f, 得到 %.2f", last.Price*0.97, last.TakeProfit)
	}
	t.Logf("sell 信号: 强度=%.1f 置信度=%.1f 原因=%v", last.Strength, last.Confidence, last.Reasons)
}

// TestGenerateSparseOutput 信号是稀疏的，不会每根K线都产生
func TestGenerateSparseOutput(t *testing.T) {
	closes := make([]float64, 80)
	price := 100.0
	for i := range closes {
		price += float64(i%7) - 3 // 小幅震荡
		closes[i] = price
	}
	bars := barsFromCloses(closes, 10000)
	frames := indicators.ComputeFrames(bars)

	signals := Generate(bars, frames)
	if len(signals) >= len(bars) {
		t.Errorf("信号应稀疏输出: %d 个信号 / %d 根K线", len(signals), len(bars))
	}
	for _, s := range signals {
		if s.Strength < minStrength {
			t.Errorf("产出信号强度不得低于 %d, 得到 %v", minStrength, s.Strength)
		}
		if s.Confidence < 0 || s.Confidence > 100 {
			t.Errorf("置信度越界: %v", s.Confidence)
		}
	}
}
