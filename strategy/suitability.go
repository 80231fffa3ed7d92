// Package strategy 交易风格适配度评估
// 基于价格历史与最新指标快照，对"超短线"与"波段"两种交易风格
// 给出 0-100 的适配度评分、分档建议以及具体的进出场价位参考。
package strategy

import (
	"fmt"

	"stockquant/indicators"
	"stockquant/signal"
)

// Recommendation 适配度分档
type Recommendation string

const (
	HighlySuitable Recommendation = "highly_suitable"
	Suitable       Recommendation = "suitable"
	Moderate       Recommendation = "moderate"
	NotSuitable    Recommendation = "not_suitable"
)

// 分档阈值
const (
	thresholdHighly   = 75
	thresholdSuitable = 60
	thresholdModerate = 45
)

// 子评分参数
const (
	lookbackWindow    = 20        // 流动性/波动率的回看窗口
	liquidityCeiling  = 5_000_000 // 20日均量达到此值流动性满分
	narrowBandPercent = 5.0       // 布林带宽低于中轨 5% 视为窄幅
)

// StyleScore 单一风格的评估结果
type StyleScore struct {
	Score          float64        `json:"score"`
	Recommendation Recommendation `json:"recommendation"`
	Factors        []string       `json:"factors"` // 子评分说明

	EntryPrice indicators.Value `json:"entry_price"`
	ExitPrice  indicators.Value `json:"exit_price"`
	StopPrice  indicators.Value `json:"stop_price"`
}

// SuitabilityReport 两种风格的完整评估
type SuitabilityReport struct {
	Scalping StyleScore `json:"scalping"`
	Swing    StyleScore `json:"swing"`
}

// Evaluate 评估价格序列对两种交易风格的适配度
// 数据不足时返回零分的 not_suitable 结果，不报错。
func Evaluate(bars []indicators.PriceBar, frames []indicators.IndicatorFrame) SuitabilityReport {
	if len(bars) < lookbackWindow || len(frames) != len(bars) {
		empty := StyleScore{Recommendation: NotSuitable, Factors: []string{"数据不足，无法评估"}}
		return SuitabilityReport{Scalping: empty, Swing: empty}
	}

	last := frames[len(frames)-1]
	sr := signal.FindSupportResistance(bars, len(bars)-1)

	return SuitabilityReport{
		Scalping: scoreScalping(bars, last),
		Swing:    scoreSwing(bars, last, sr),
	}
}

// scoreScalping 超短线适配度
// score = 流动性*0.4 + 震荡性*0.35 + (100 - 日内波动*10)*0.25
func scoreScalping(bars []indicators.PriceBar, last indicators.IndicatorFrame) StyleScore {
	liquidity := liquidityScore(bars)
	oscillation := oscillationScore(last)
	intradayVol := intradayVolatility(bars)
	calmness := clampScore(100 - intradayVol*10)

	score := liquidity*0.4 + oscillation*0.35 + calmness*0.25

	result := StyleScore{
		Score:          score,
		Recommendation: tier(score),
		Factors: []string{
			fmt.Sprintf("流动性评分 %.0f", liquidity),
			fmt.Sprintf("震荡性评分 %.0f", oscillation),
			fmt.Sprintf("日内波动 %.2f%%", intradayVol),
		},
	}

	// 超短线在布林下轨附近进、上轨附近出，短均线下方止损
	result.EntryPrice = last.BollingerLower
	result.ExitPrice = last.BollingerUpper
	if last.MA5.Valid {
		result.StopPrice = indicators.Some(last.MA5.V * 0.99)
	}
	return result
}

// scoreSwing 波段适配度
// score = 趋势强度*0.4 + 波动率评分*0.35 + 支撑压力清晰度*0.25
func scoreSwing(bars []indicators.PriceBar, last indicators.IndicatorFrame, sr signal.SupportResistance) StyleScore {
	trend := trendStrength(last)
	volatility := volatilityScore(bars)
	clarity := srClarity(sr, last.Close)

	score := trend*0.4 + volatility*0.35 + clarity*0.25

	result := StyleScore{
		Score:          score,
		Recommendation: tier(score),
		Factors: []string{
			fmt.Sprintf("趋势强度 %.0f", trend),
			fmt.Sprintf("波动率评分 %.0f", volatility),
			fmt.Sprintf("支撑压力清晰度 %.0f", clarity),
		},
	}

	// 波段在支撑位（或20日线）附近进，压力位附近出，支撑下方止损
	switch {
	case sr.Support.Valid:
		result.EntryPrice = sr.Support
		result.StopPrice = indicators.Some(sr.Support.V * 0.97)
	case last.MA20.Valid:
		result.EntryPrice = last.MA20
		result.StopPrice = indicators.Some(last.MA20.V * 0.97)
	}
	if sr.Resistance.Valid {
		result.ExitPrice = sr.Resistance
	} else if last.BollingerUpper.Valid {
		result.ExitPrice = last.BollingerUpper
	}
	return result
}

// liquidityScore 流动性评分：20日均量，500万封顶
func liquidityScore(bars []indicators.PriceBar) float64 {
	sum := 0.0
	for _, b := range bars[len(bars)-lookbackWindow:] {
		sum += b.Volume
	}
	avg := sum / lookbackWindow
	return clampScore(avg / liquidityCeiling * 100)
}

// oscillationScore 震荡性评分：RSI 居中 + 布林带窄幅
func oscillationScore(last indicators.IndicatorFrame) float64 {
	rsiComp := 0.0
	if last.RSI.Valid {
		switch {
		case last.RSI.V >= 30 && last.RSI.V <= 70:
			rsiComp = 100
		case last.RSI.V < 30:
			rsiComp = clampScore(100 - (30-last.RSI.V)*5)
		default:
			rsiComp = clampScore(100 - (last.RSI.V-70)*5)
		}
	}

	bandComp := 0.0
	if last.BollingerUpper.Valid && last.BollingerMiddle.Valid && last.BollingerMiddle.V > 0 {
		bandwidth := (last.BollingerUpper.V - last.BollingerLower.V) / last.BollingerMiddle.V * 100
		if bandwidth <= narrowBandPercent {
			bandComp = 100
		} else {
			bandComp = clampScore(100 - (bandwidth-narrowBandPercent)*10)
		}
	}

	return rsiComp*0.5 + bandComp*0.5
}

// intradayVolatility 近20根K线的平均日内振幅（百分比）
func intradayVolatility(bars []indicators.PriceBar) float64 {
	sum := 0.0
	for _, b := range bars[len(bars)-lookbackWindow:] {
		if b.Close > 0 {
			sum += (b.High - b.Low) / b.Close * 100
		}
	}
	return sum / lookbackWindow
}

// trendStrength 趋势强度：均线多头/空头排列 + MACD 同向确认
func trendStrength(last indicators.IndicatorFrame) float64 {
	if !last.MA5.Valid || !last.MA10.Valid || !last.MA20.Valid {
		return 0
	}

	score := 0.0
	bullAligned := last.MA5.V > last.MA10.V && last.MA10.V > last.MA20.V
	bearAligned := last.MA5.V < last.MA10.V && last.MA10.V < last.MA20.V
	switch {
	case bullAligned || bearAligned:
		score += 60
	case last.MA5.V > last.MA10.V || last.MA10.V > last.MA20.V:
		score += 30
	}

	if last.MACD.Valid {
		macdBull := last.MACD.V > 0
		if (bullAligned && macdBull) || (bearAligned && !macdBull) {
			score += 40
		} else if last.MACD.V != 0 {
			score += 15
		}
	}
	return clampScore(score)
}

// volatilityScore 波动率评分：平均日内振幅 3%-8% 为波段最佳区间
func volatilityScore(bars []indicators.PriceBar) float64 {
	r := intradayVolatility(bars)
	switch {
	case r >= 3 && r <= 8:
		return 100
	case r < 3:
		return clampScore(r / 3 * 100)
	default:
		return clampScore(100 - (r-8)*15)
	}
}

// srClarity 支撑压力清晰度：两者间距占现价 5%-15% 最清晰
func srClarity(sr signal.SupportResistance, price float64) float64 {
	if !sr.Support.Valid || !sr.Resistance.Valid || price <= 0 {
		return 0
	}
	gap := (sr.Resistance.V - sr.Support.V) / price * 100
	switch {
	case gap >= 5 && gap <= 15:
		return 100
	case gap < 5:
		return clampScore(gap / 5 * 100)
	default:
		return clampScore(100 - (gap-15)*10)
	}
}

// tier 分数转分档
func tier(score float64) Recommendation {
	switch {
	case score >= thresholdHighly:
		return HighlySuitable
	case score >= thresholdSuitable:
		return Suitable
	case score >= thresholdModerate:
		return Moderate
	default:
		return NotSuitable
	}
}

// clampScore 限制在 [0,100]
func clampScore(v float64) float64 {
	if v > 100 {
		return 100
	}
	if v < 0 {
		return 0
	}
	return v
}
