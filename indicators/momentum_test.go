package indicators

import (
	"math"
	"testing"
)

// TestRSIBounds 任意输入下 0 <= RSI <= 100
func TestRSIBounds(t *testing.T) {
	// 混合涨跌的锯齿行情
	values := make([]float64, 100)
	price := 100.0
	for i := range values {
		if i%3 == 0 {
			price += 2.5
		} else {
			price -= 1.2
		}
		values[i] = price
	}

	rsi := RSI(values, 14)
	for i, v := range rsi {
		if !v.Valid {
			continue
		}
		if v.V < 0 || v.V > 100 {
			t.Errorf("位置 %d RSI 超出 [0,100]: %v", i, v.V)
		}
	}
}

// TestRSIConstantSeries 恒定序列 RSI 为中性 50（场景：30 根相同收盘价）
func TestRSIConstantSeries(t *testing.T) {
	rsi := RSI(constSeries(30, 88.8), 14)
	for i := 14; i < 30; i++ {
		if !rsi[i].Valid {
			t.Fatalf("位置 %d 应有效", i)
		}
		if rsi[i].V != 50 {
			t.Errorf("恒定序列 RSI 应为 50, 位置 %d 得到 %v", i, rsi[i].V)
		}
	}
}

// TestRSIRisingSeries 单调上涨序列 RSI 趋向 100（场景：50 根步长 +1）
func TestRSIRisingSeries(t *testing.T) {
	rsi := RSI(risingSeries(50, 100, 1), 14)

	last := rsi[49]
	if !last.Valid {
		t.Fatal("末位 RSI 应有效")
	}
	if last.V != 100 {
		t.Errorf("只涨不跌的序列 RSI 应为 100, 得到 %v", last.V)
	}
}

// TestKDJSeedAndRange KDJ 以 50 起步，K/D 处于 [0,100]
func TestKDJSeedAndRange(t *testing.T) {
	bars := make([]PriceBar, 40)
	price := 100.0
	for i := range bars {
		delta := float64(i%7) - 3
		price += delta
		bars[i] = PriceBar{
			Open:   price - 0.5,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: 10000,
		}
	}

	kdj := KDJ(bars, 9)

	for i := 0; i < 8; i++ {
		if kdj.K[i].Valid {
			t.Errorf("位置 %d 应在预热期内", i)
		}
	}
	for i := 8; i < 40; i++ {
		if !kdj.K[i].Valid || !kdj.D[i].Valid || !kdj.J[i].Valid {
			t.Fatalf("位置 %d KDJ 应有效", i)
		}
		if kdj.K[i].V < 0 || kdj.K[i].V > 100 {
			t.Errorf("位置 %d K 超出 [0,100]: %v", i, kdj.K[i].V)
		}
		if kdj.D[i].V < 0 || kdj.D[i].V > 100 {
			t.Errorf("位置 %d D 超出 [0,100]: %v", i, kdj.D[i].V)
		}
		// J = 3K - 2D 恒成立
		j := 3*kdj.K[i].V - 2*kdj.D[i].V
		if math.Abs(kdj.J[i].V-j) > 1e-9 {
			t.Errorf("位置 %d J 不满足 3K-2D", i)
		}
	}
}

// TestKDJZeroRange 最高价等于最低价时 RSV 取 50，不除零
func TestKDJZeroRange(t *testing.T) {
	kdj := KDJ(constBars(20, 30), 9)
	// RSV 恒为 50，K、D 从 50 起步保持不变
	for i := 8; i < 20; i++ {
		if !kdj.K[i].Valid {
			t.Fatalf("位置 %d 应有效", i)
		}
		if math.Abs(kdj.K[i].V-50) > 1e-9 {
			t.Errorf("恒定K线下 K 应保持 50, 位置 %d 得到 %v", i, kdj.K[i].V)
		}
	}
}
