package indicators

// ========== 动量指标 ==========

// RSI 相对强弱指数（Wilder 平滑）
// 种子为前 period 个涨跌幅的简单平均，之后按
// avg = (avg_prev*(period-1) + x) / period 递推。
// 平均跌幅为 0 时 RSI = 100（均涨行情），避免除零。
func RSI(closes []float64, period int) []Value {
	result := invalidSeries(len(closes))
	if period <= 0 || len(closes) < period+1 {
		return result
	}

	avgGain := 0.0
	avgLoss := 0.0
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	result[period] = Some(rsiValue(avgGain, avgLoss))

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		result[i] = Some(rsiValue(avgGain, avgLoss))
	}

	return result
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		// 无涨无跌取中性值，只涨不跌取 100，均不除零
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// KDJResult KDJ 指标三线
type KDJResult struct {
	K []Value
	D []Value
	J []Value
}

// KDJ 随机指标
// RSV = (C - LLV(L,n)) / (HHV(H,n) - LLV(L,n)) * 100，最高最低相等时取 50；
// K = (2*K_prev + RSV)/3，D = (2*D_prev + K)/3，J = 3K - 2D，K、D 以 50 起步。
func KDJ(bars []PriceBar, n int) KDJResult {
	result := KDJResult{
		K: invalidSeries(len(bars)),
		D: invalidSeries(len(bars)),
		J: invalidSeries(len(bars)),
	}
	if n <= 0 || len(bars) < n {
		return result
	}

	k, d := 50.0, 50.0
	for i := n - 1; i < len(bars); i++ {
		high := HighestHigh(bars, i-n+1, i)
		low := LowestLow(bars, i-n+1, i)

		rsv := 50.0
		if high != low {
			rsv = (bars[i].Close - low) / (high - low) * 100
		}

		k = (2*k + rsv) / 3
		d = (2*d + k) / 3
		j := 3*k - 2*d

		result.K[i] = Some(k)
		result.D[i] = Some(d)
		result.J[i] = Some(j)
	}

	return result
}
