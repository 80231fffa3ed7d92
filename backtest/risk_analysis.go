package backtest

import (
	"math"
	"sort"
)

// RiskMetrics 尾部风险指标（历史模拟法，基于逐K线收益率）
type RiskMetrics struct {
	VaR95  float64 `json:"var_95"`  // 95% 置信度风险价值
	VaR99  float64 `json:"var_99"`  // 99% 置信度风险价值
	CVaR95 float64 `json:"cvar_95"` // 95% 置信度条件风险价值
	CVaR99 float64 `json:"cvar_99"` // 99% 置信度条件风险价值
}

// CalculateRiskMetrics 计算尾部风险指标
// 与收益指标一致，输出为小数比例。
func CalculateRiskMetrics(equity []EquityPoint) RiskMetrics {
	returns := calculateReturns(equity)
	if len(returns) == 0 {
		return RiskMetrics{}
	}

	return RiskMetrics{
		VaR95:  calculateHistoricalVaR(returns, 0.95),
		VaR99:  calculateHistoricalVaR(returns, 0.99),
		CVaR95: calculateCVaR(returns, 0.95),
		CVaR99: calculateCVaR(returns, 0.99),
	}
}

// calculateHistoricalVaR 历史模拟法 VaR，返回正数表示损失幅度
func calculateHistoricalVaR(returns []float64, confidence float64) float64 {
	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	index := int(float64(len(sorted)) * (1 - confidence))
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return math.Abs(sorted[index])
}

// calculateCVaR 条件风险价值：超出 VaR 分位的平均损失
func calculateCVaR(returns []float64, confidence float64) float64 {
	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	index := int(float64(len(sorted)) * (1 - confidence))
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	sum := 0.0
	for i := 0; i <= index; i++ {
		sum += sorted[i]
	}
	return math.Abs(sum / float64(index+1))
}
