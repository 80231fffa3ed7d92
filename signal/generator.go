package signal

import (
	"fmt"

	"stockquant/indicators"
)

// 信号生成参数
const (
	minBarsForSignals = 30  // 完整多因子评估所需的最少K线数
	minStrength       = 40  // 低于此强度不产生信号
	minRulesFired     = 2   // 至少两条独立规则命中才产生信号
	rsiOversold       = 30  // RSI 超卖阈值
	rsiOverbought     = 70  // RSI 超买阈值
	volumeRatioLimit  = 2.0 // 量比放大阈值（相对前5根均量）
	levelProximity    = 0.005

	defaultStopLossPct   = 0.02 // 默认止损 ±2%
	defaultTakeProfitPct = 0.03 // 默认止盈 ±3%
)

// 各规则的证据权重
const (
	weightRSI       = 25.0
	weightMACDCross = 30.0
	weightBollinger = 20.0
	weightLevel     = 15.0
	weightVolume    = 10.0
)

// barEvidence 单根K线上累积的多因子证据
type barEvidence struct {
	bullish float64
	bearish float64
	rules   int
	reasons []string
}

func (e *barEvidence) addBullish(weight float64, reason string) {
	e.bullish += weight
	e.rules++
	e.reasons = append(e.reasons, reason)
}

func (e *barEvidence) addBearish(weight float64, reason string) {
	e.bearish += weight
	e.rules++
	e.reasons = append(e.reasons, reason)
}

// Generate 对指标序列逐根评估多因子规则，产生稀疏的交易信号列表
// 少于 2 根K线时返回单个中性 hold 信号并注明数据不足，绝不报错。
func Generate(bars []indicators.PriceBar, frames []indicators.IndicatorFrame) []EnrichedSignal {
	if len(frames) < 2 {
		sig := EnrichedSignal{TradingSignal: TradingSignal{
			Type:       SignalHold,
			Strength:   0,
			Confidence: 0,
			Reasons:    []string{"数据不足，无法评估信号"},
		}}
		if len(frames) == 1 {
			sig.Date = frames[0].Date
			sig.Time = frames[0].Time
			sig.Price = frames[0].Close
		}
		return []EnrichedSignal{sig}
	}

	var signals []EnrichedSignal
	for i := 1; i < len(frames); i++ {
		if i < minBarsForSignals-1 {
			continue
		}

		ev := evaluateBar(bars, frames, i)
		if ev.rules < minRulesFired {
			continue
		}

		var sigType SignalType
		var strength float64
		switch {
		case ev.bullish > ev.bearish:
			sigType = SignalBuy
			strength = ev.bullish
		case ev.bearish > ev.bullish:
			sigType = SignalSell
			strength = ev.bearish
		default:
			continue // 多空证据持平，不产生信号
		}
		if strength < minStrength {
			continue
		}
		strength = clamp100(strength)

		price := frames[i].Close
		sig := TradingSignal{
			Date:       frames[i].Date,
			Time:       frames[i].Time,
			Type:       sigType,
			Price:      price,
			Strength:   strength,
			Confidence: clamp100(strength*0.6 + float64(ev.rules)*15),
			Reasons:    ev.reasons,
		}
		if sigType == SignalBuy {
			sig.StopLoss = price * (1 - defaultStopLossPct)
			sig.TakeProfit = price * (1 + defaultTakeProfitPct)
		} else {
			sig.StopLoss = price * (1 + defaultStopLossPct)
			sig.TakeProfit = price * (1 - defaultTakeProfitPct)
		}

		signals = append(signals, EnrichedSignal{TradingSignal: sig})
	}
	return signals
}

// evaluateBar 评估第 i 根K线上的全部独立规则
func evaluateBar(bars []indicators.PriceBar, frames []indicators.IndicatorFrame, i int) barEvidence {
	var ev barEvidence
	cur, prev := frames[i], frames[i-1]

	// 规则1: RSI 超买超卖
	if cur.RSI.Valid {
		if cur.RSI.V < rsiOversold {
			ev.addBullish(weightRSI, fmt.Sprintf("RSI超卖 (%.1f < %d)", cur.RSI.V, rsiOversold))
		} else if cur.RSI.V > rsiOverbought {
			ev.addBearish(weightRSI, fmt.Sprintf("RSI超买 (%.1f > %d)", cur.RSI.V, rsiOverbought))
		}
	}

	// 规则2: MACD 柱状图穿越零轴
	if cur.MACDHistogram.Valid && prev.MACDHistogram.Valid {
		if prev.MACDHistogram.V <= 0 && cur.MACDHistogram.V > 0 {
			ev.addBullish(weightMACDCross, "MACD金叉，柱状图由负转正")
		} else if prev.MACDHistogram.V >= 0 && cur.MACDHistogram.V < 0 {
			ev.addBearish(weightMACDCross, "MACD死叉，柱状图由正转负")
		}
	}

	// 规则3: 价格穿越布林边界（均值回归方向）
	if cur.BollingerLower.Valid && prev.BollingerLower.Valid {
		if prev.Close >= prev.BollingerLower.V && cur.Close < cur.BollingerLower.V {
			ev.addBullish(weightBollinger, fmt.Sprintf("跌破布林下轨 %.2f，超卖回归", cur.BollingerLower.V))
		} else if prev.Close <= prev.BollingerUpper.V && cur.Close > cur.BollingerUpper.V {
			ev.addBearish(weightBollinger, fmt.Sprintf("突破布林上轨 %.2f，超买回归", cur.BollingerUpper.V))
		}
	}

	// 规则4: 靠近支撑/压力位且价格同向运动
	sr := FindSupportResistance(bars, i)
	priceUp := cur.Close > prev.Close
	priceDown := cur.Close < prev.Close
	if sr.Support.Valid && priceUp {
		if diff := (cur.Close - sr.Support.V) / sr.Support.V; diff >= 0 && diff < levelProximity {
			ev.addBullish(weightLevel, fmt.Sprintf("支撑位 %.2f 附近获支撑", sr.Support.V))
		}
	}
	if sr.Resistance.Valid && priceDown {
		if diff := (sr.Resistance.V - cur.Close) / sr.Resistance.V; diff >= 0 && diff < levelProximity {
			ev.addBearish(weightLevel, fmt.Sprintf("压力位 %.2f 附近受阻", sr.Resistance.V))
		}
	}

	// 规则5: 放量放大价格方向
	if i >= 5 {
		var sum float64
		for j := i - 5; j < i; j++ {
			sum += bars[j].Volume
		}
		avgVol := sum / 5
		if avgVol > 0 && bars[i].Volume/avgVol > volumeRatioLimit {
			ratio := bars[i].Volume / avgVol
			if priceUp {
				ev.addBullish(weightVolume, fmt.Sprintf("放量上涨，量比 %.1f", ratio))
			} else if priceDown {
				ev.addBearish(weightVolume, fmt.Sprintf("放量下跌，量比 %.1f", ratio))
			}
		}
	}

	return ev
}
