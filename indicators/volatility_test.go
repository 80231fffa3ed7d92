package indicators

import (
	"math"
	"testing"
)

// TestBollingerOrdering 有效位置上恒有 upper >= middle >= lower
func TestBollingerOrdering(t *testing.T) {
	values := make([]float64, 60)
	price := 100.0
	for i := range values {
		price += float64(i%5) - 2
		values[i] = price
	}

	boll := Bollinger(values, 20, 2)
	for i := range values {
		if !boll.Middle[i].Valid {
			continue
		}
		if !boll.Upper[i].Valid || !boll.Lower[i].Valid {
			t.Fatalf("位置 %d 上下轨应与中轨同时有效", i)
		}
		if boll.Upper[i].V < boll.Middle[i].V || boll.Middle[i].V < boll.Lower[i].V {
			t.Errorf("位置 %d 轨道顺序错误: upper=%v middle=%v lower=%v",
				i, boll.Upper[i].V, boll.Middle[i].V, boll.Lower[i].V)
		}
	}
}

// TestBollingerConstantSeries 恒定序列上下轨与中轨重合（场景 A）
func TestBollingerConstantSeries(t *testing.T) {
	boll := Bollinger(constSeries(30, 66), 20, 2)
	for i := 19; i < 30; i++ {
		if !boll.Middle[i].Valid {
			t.Fatalf("位置 %d 应有效", i)
		}
		if boll.Upper[i].V != boll.Middle[i].V || boll.Lower[i].V != boll.Middle[i].V {
			t.Errorf("恒定序列上下轨应与中轨重合, 位置 %d: upper=%v middle=%v lower=%v",
				i, boll.Upper[i].V, boll.Middle[i].V, boll.Lower[i].V)
		}
	}
}

// TestATRWilderSmoothing ATR 种子与 Wilder 递推
func TestATRWilderSmoothing(t *testing.T) {
	// 构造 TR 恒为 2 的序列
	bars := make([]PriceBar, 20)
	for i := range bars {
		base := 100.0
		bars[i] = PriceBar{High: base + 1, Low: base - 1, Close: base, Volume: 1000}
	}

	atr := ATR(bars, 14)

	for i := 0; i < 14; i++ {
		if atr[i].Valid {
			t.Errorf("位置 %d 应在预热期内", i)
		}
	}
	// TR 恒为 2，种子与递推结果都应为 2
	for i := 14; i < 20; i++ {
		if !atr[i].Valid {
			t.Fatalf("位置 %d 应有效", i)
		}
		if math.Abs(atr[i].V-2) > 1e-9 {
			t.Errorf("位置 %d ATR 期望 2, 得到 %v", i, atr[i].V)
		}
	}
}

// TestATRInsufficientData 数据不足时返回全无效序列
func TestATRInsufficientData(t *testing.T) {
	atr := ATR(constBars(10, 100), 14)
	for i, v := range atr {
		if v.Valid {
			t.Errorf("位置 %d 不应有效", i)
		}
	}
}
