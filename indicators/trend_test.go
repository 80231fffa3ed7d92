package indicators

import (
	"math"
	"testing"
)

func TestMACDMatchesEMADifference(t *testing.T) {
	closes := risingSeries(60, 100, 1)
	res := MACD(closes, 12, 26, 9)
	fast := EMA(closes, 12)
	slow := EMA(closes, 26)

	if res.MACD[24].Valid {
		t.Error("慢线预热期内 DIF 应无效")
	}
	for i := 25; i < 60; i++ {
		if !res.MACD[i].Valid {
			t.Fatalf("第 %d 根 DIF 应有效", i)
		}
		want := fast[i].V - slow[i].V
		if math.Abs(res.MACD[i].V-want) > 1e-9 {
			t.Errorf("第 %d 根 DIF=%.9f，应等于快慢 EMA 之差 %.9f", i, res.MACD[i].V, want)
		}
	}

	// 等步长上行时两条 EMA 的滞后量恒定，DIF 恒为 (26-1)/2 - (12-1)/2 = 7
	for _, i := range []int{30, 40, 59} {
		if math.Abs(res.MACD[i].V-7.0) > 1e-6 {
			t.Errorf("第 %d 根 DIF=%.9f，等步长序列上应为 7", i, res.MACD[i].V)
		}
	}

	t.Log("✅ DIF 与快慢 EMA 之差一致")
}

func TestMACDSignalAlignment(t *testing.T) {
	closes := risingSeries(60, 100, 1)
	res := MACD(closes, 12, 26, 9)

	// DIF 自第 25 根（下标）起有效，DEA 在 DIF 有效区段上再预热 9 根，
	// 对齐回原始下标后首个有效位置为 25+8=33
	for i := 0; i < 33; i++ {
		if res.Signal[i].Valid {
			t.Fatalf("第 %d 根 DEA 应仍处预热期", i)
		}
		if res.Histogram[i].Valid {
			t.Fatalf("第 %d 根柱状图应仍处预热期", i)
		}
	}
	for i := 33; i < 60; i++ {
		if !res.Signal[i].Valid {
			t.Fatalf("第 %d 根 DEA 应有效", i)
		}
		if !res.Histogram[i].Valid {
			t.Fatalf("第 %d 根柱状图应有效", i)
		}
		// 单边上行时 DIF 不低于 DEA（等步长时两者重合，柱状图为 0）
		if res.Histogram[i].V < -1e-9 {
			t.Errorf("第 %d 根柱状图=%.12f，单边上行不应为负", i, res.Histogram[i].V)
		}
		if math.Abs(res.Histogram[i].V) > 1e-6 {
			t.Errorf("第 %d 根柱状图=%.9f，DIF 恒定时 DEA 应与其重合", i, res.Histogram[i].V)
		}
	}

	t.Log("✅ DEA 对齐位置与柱状图符合预期")
}

func TestMACDInsufficientData(t *testing.T) {
	// 不足慢线周期：三条序列全无效
	res := MACD(risingSeries(25, 100, 1), 12, 26, 9)
	for i := range res.MACD {
		if res.MACD[i].Valid || res.Signal[i].Valid || res.Histogram[i].Valid {
			t.Fatalf("25 根数据不足以计算 MACD，第 %d 根不应有效", i)
		}
	}

	// DIF 有效区段短于信号周期：DIF 有值但 DEA/柱状图全无效
	res = MACD(risingSeries(30, 100, 1), 12, 26, 9)
	if !res.MACD[29].Valid {
		t.Error("第 29 根 DIF 应有效")
	}
	for i := range res.Signal {
		if res.Signal[i].Valid || res.Histogram[i].Valid {
			t.Fatalf("DIF 有效区段不足 9 根，第 %d 根 DEA 不应有效", i)
		}
	}
}

func TestMACDGoldenCross(t *testing.T) {
	// 先涨后跌再涨：下跌段柱状图转负，二次上涨后由负转正（金叉）
	closes := make([]float64, 0, 110)
	v := 100.0
	for i := 0; i < 40; i++ {
		closes = append(closes, v)
		v += 1
	}
	for i := 0; i < 30; i++ {
		v -= 1.5
		closes = append(closes, v)
	}
	for i := 0; i < 40; i++ {
		v += 2
		closes = append(closes, v)
	}

	res := MACD(closes, 12, 26, 9)

	negSeen := false
	for i := 45; i < 70; i++ {
		if res.Histogram[i].Valid && res.Histogram[i].V < -0.1 {
			negSeen = true
			break
		}
	}
	if !negSeen {
		t.Fatal("下跌段柱状图应明显为负")
	}

	crossed := -1
	for i := 70; i < len(closes); i++ {
		if res.Histogram[i-1].Valid && res.Histogram[i].Valid &&
			res.Histogram[i-1].V < 0 && res.Histogram[i].V > 0 {
			crossed = i
			break
		}
	}
	if crossed < 0 {
		t.Fatal("二次上涨后柱状图应由负转正")
	}

	t.Logf("✅ 金叉出现在第 %d 根", crossed)
}
