package signal

import (
	"fmt"
	"sort"
)

// maxResonanceLevel 共振级别上限，超过四个周期同向不再加码
const maxResonanceLevel = 4

// AnalyzeResonance 多周期共振分析
// 输入为各周期的最新信号（无信号的周期不传），统计 buy/sell 同向周期数，
// 同向周期 ≥ 2 视为共振，级别取值 0~4。每次调用即时计算，不依赖任何共享状态。
func AnalyzeResonance(latest map[string]EnrichedSignal) ResonanceAnalysis {
	var buyFrames, sellFrames []string
	var buyStrength, buyConf, sellStrength, sellConf float64

	for tf, sig := range latest {
		switch sig.Type {
		case SignalBuy:
			buyFrames = append(buyFrames, tf)
			buyStrength += sig.Strength
			buyConf += sig.Confidence
		case SignalSell:
			sellFrames = append(sellFrames, tf)
			sellStrength += sig.Strength
			sellConf += sig.Confidence
		}
	}

	var sigType SignalType
	var frames []string
	var sumStrength, sumConf float64
	if len(buyFrames) >= len(sellFrames) && len(buyFrames) > 0 {
		sigType, frames = SignalBuy, buyFrames
		sumStrength, sumConf = buyStrength, buyConf
	} else if len(sellFrames) > 0 {
		sigType, frames = SignalSell, sellFrames
		sumStrength, sumConf = sellStrength, sellConf
	} else {
		return ResonanceAnalysis{SignalType: SignalHold, Description: "各周期无明确方向信号"}
	}

	sort.Strings(frames) // map 遍历无序，固定输出顺序
	count := len(frames)
	level := count
	if level > maxResonanceLevel {
		level = maxResonanceLevel
	}
	meanStrength := sumStrength / float64(count)
	meanConf := sumConf / float64(count)

	analysis := ResonanceAnalysis{
		HasResonance: level >= 2,
		Level:        level,
		Timeframes:   frames,
		SignalType:   sigType,
		Strength:     clamp100(float64(level)*20 + meanStrength*0.4 + meanConf*0.4),
	}
	if analysis.HasResonance {
		direction := "买入"
		if sigType == SignalSell {
			direction = "卖出"
		}
		analysis.Description = fmt.Sprintf("%d 个周期共振%s，强度 %.0f", level, direction, analysis.Strength)
	} else {
		analysis.Description = "周期间未形成共振"
	}
	return analysis
}

// ApplyResonance 将共振信息附加到同向信号上
// 同向信号强度 +level*5、置信度 +level*10（上限 100），返回增强副本。
func ApplyResonance(sig EnrichedSignal, analysis ResonanceAnalysis) EnrichedSignal {
	if !analysis.HasResonance || sig.Type != analysis.SignalType {
		return sig
	}

	enriched := sig
	enriched.Strength = clamp100(sig.Strength + float64(analysis.Level)*5)
	enriched.Confidence = clamp100(sig.Confidence + float64(analysis.Level)*10)
	enriched.Resonance = &Resonance{
		Level:      analysis.Level,
		Timeframes: append([]string(nil), analysis.Timeframes...),
	}
	return enriched
}
