package backtest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"
)

// GenerateReport 生成 Markdown 回测报告，返回报告文件路径
func GenerateReport(result *BacktestResult, reportDir string) (string, error) {
	if err := os.MkdirAll(reportDir, 0755); err != nil {
		return "", fmt.Errorf("创建报告目录失败: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	reportPath := filepath.Join(reportDir, fmt.Sprintf("%s_%s.md", result.Symbol, timestamp))

	content, err := renderReportTemplate(prepareReportData(result))
	if err != nil {
		return "", fmt.Errorf("渲染报告模板失败: %w", err)
	}
	if err := os.WriteFile(reportPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("写入报告文件失败: %w", err)
	}

	return reportPath, nil
}

// ReportData 报告模板数据（全部已格式化为展示字符串）
type ReportData struct {
	Symbol         string
	GeneratedAt    string
	StartDate      string
	EndDate        string
	TradingDays    string
	InitialCapital string
	FinalCapital   string

	TotalReturn      string
	AnnualizedReturn string
	MaxDrawdown      string
	Volatility       string
	SharpeRatio      string

	TotalTrades  string
	WinRate      string
	ProfitFactor string
	AvgProfit    string
	AvgLoss      string

	TopTrades []TradeRow

	VaR95  string
	VaR99  string
	CVaR95 string
	CVaR99 string

	Conclusion string
}

// TradeRow 交易明细行
type TradeRow struct {
	EntryDate  string
	ExitDate   string
	EntryPrice string
	ExitPrice  string
	Shares     string
	Profit     string
	Reason     string
}

// prepareReportData 将回测结果转为报告数据，比例在此转为百分比
func prepareReportData(result *BacktestResult) ReportData {
	startDate, endDate := "-", "-"
	if len(result.EquityCurve) > 0 {
		startDate = result.EquityCurve[0].Date
		endDate = result.EquityCurve[len(result.EquityCurve)-1].Date
	}

	topTrades := make([]TradeRow, 0, 20)
	for _, trade := range result.Trades {
		if len(topTrades) >= 20 {
			break
		}
		topTrades = append(topTrades, TradeRow{
			EntryDate:  trade.EntryDate,
			ExitDate:   trade.ExitDate,
			EntryPrice: fmt.Sprintf("%.2f", trade.EntryPrice),
			ExitPrice:  fmt.Sprintf("%.2f", trade.ExitPrice),
			Shares:     fmt.Sprintf("%.0f", trade.Shares),
			Profit:     fmt.Sprintf("%.2f", trade.Profit),
			Reason:     trade.ExitReason,
		})
	}

	return ReportData{
		Symbol:         result.Symbol,
		GeneratedAt:    time.Now().Format("2006-01-02 15:04:05"),
		StartDate:      startDate,
		EndDate:        endDate,
		TradingDays:    fmt.Sprintf("%d", len(result.EquityCurve)),
		InitialCapital: fmt.Sprintf("%.2f", result.InitialCapital),
		FinalCapital:   fmt.Sprintf("%.2f", result.FinalCapital),

		TotalReturn:      fmt.Sprintf("%.2f%%", result.TotalReturn*100),
		AnnualizedReturn: fmt.Sprintf("%.2f%%", result.AnnualizedReturn*100),
		MaxDrawdown:      fmt.Sprintf("%.2f%%", result.MaxDrawdown*100),
		Volatility:       fmt.Sprintf("%.2f%%", result.Volatility*100),
		SharpeRatio:      fmt.Sprintf("%.2f", result.SharpeRatio),

		TotalTrades:  fmt.Sprintf("%d", result.TotalTrades),
		WinRate:      fmt.Sprintf("%.2f%%", result.WinRate*100),
		ProfitFactor: fmt.Sprintf("%.2f", result.ProfitFactor),
		AvgProfit:    fmt.Sprintf("%.2f", result.AvgProfit),
		AvgLoss:      fmt.Sprintf("%.2f", result.AvgLoss),

		TopTrades: topTrades,

		VaR95:  fmt.Sprintf("%.2f%%", result.RiskMetrics.VaR95*100),
		VaR99:  fmt.Sprintf("%.2f%%", result.RiskMetrics.VaR99*100),
		CVaR95: fmt.Sprintf("%.2f%%", result.RiskMetrics.CVaR95*100),
		CVaR99: fmt.Sprintf("%.2f%%", result.RiskMetrics.CVaR99*100),

		Conclusion: generateConclusion(result),
	}
}

// generateConclusion 按阈值生成结论段落
func generateConclusion(result *BacktestResult) string {
	var conclusions []string

	switch {
	case result.TotalReturn > 0.5:
		conclusions = append(conclusions, "✅ 策略表现优秀，总收益率超过 50%")
	case result.TotalReturn > 0.2:
		conclusions = append(conclusions, "✅ 策略表现良好，总收益率超过 20%")
	case result.TotalReturn > 0:
		conclusions = append(conclusions, "⚠️ 策略盈利，但收益率较低")
	default:
		conclusions = append(conclusions, "❌ 策略亏损，需要优化参数或更换策略")
	}

	switch {
	case result.MaxDrawdown > -0.1:
		conclusions = append(conclusions, "✅ 风险控制良好，最大回撤小于 10%")
	case result.MaxDrawdown > -0.2:
		conclusions = append(conclusions, "⚠️ 风险适中，最大回撤在 10-20% 之间")
	default:
		conclusions = append(conclusions, "❌ 风险较高，最大回撤超过 20%")
	}

	switch {
	case result.SharpeRatio > 2:
		conclusions = append(conclusions, "✅ 风险调整收益优秀，夏普比率 > 2")
	case result.SharpeRatio > 1:
		conclusions = append(conclusions, "✅ 风险调整收益良好，夏普比率 > 1")
	case result.SharpeRatio > 0:
		conclusions = append(conclusions, "⚠️ 风险调整收益一般，夏普比率 < 1")
	default:
		conclusions = append(conclusions, "❌ 风险调整收益差，夏普比率为负")
	}

	switch {
	case result.WinRate > 0.6:
		conclusions = append(conclusions, "✅ 胜率高，超过 60%")
	case result.WinRate > 0.5:
		conclusions = append(conclusions, "✅ 胜率良好，超过 50%")
	default:
		conclusions = append(conclusions, "⚠️ 胜率较低，需要优化策略")
	}

	return strings.Join(conclusions, "\n\n")
}

// renderReportTemplate 渲染报告模板
func renderReportTemplate(data ReportData) (string, error) {
	tmpl := `# {{.Symbol}} 回测报告

生成时间: {{.GeneratedAt}}

## 执行摘要

- **标的**: {{.Symbol}}
- **回测期间**: {{.StartDate}} 至 {{.EndDate}} ({{.TradingDays}} 个交易日)
- **初始资金**: {{.InitialCapital}}
- **最终资金**: {{.FinalCapital}}
- **总收益率**: {{.TotalReturn}}
- **年化收益率**: {{.AnnualizedReturn}}
- **最大回撤**: {{.MaxDrawdown}}
- **夏普比率**: {{.SharpeRatio}}

## 收益与风险

| 指标 | 数值 |
|------|------|
| 总收益率 | {{.TotalReturn}} |
| 年化收益率 | {{.AnnualizedReturn}} |
| 最大回撤 | {{.MaxDrawdown}} |
| 波动率（年化） | {{.Volatility}} |
| 夏普比率 | {{.SharpeRatio}} |

## 交易统计

| 指标 | 数值 |
|------|------|
| 总交易次数 | {{.TotalTrades}} |
| 胜率 | {{.WinRate}} |
| 利润因子 | {{.ProfitFactor}} |
| 平均盈利 | {{.AvgProfit}} |
| 平均亏损 | {{.AvgLoss}} |

## 交易明细（前20笔）

| 开仓日期 | 平仓日期 | 开仓价 | 平仓价 | 股数 | 盈亏 | 原因 |
|----------|----------|--------|--------|------|------|------|
{{range .TopTrades}}| {{.EntryDate}} | {{.ExitDate}} | {{.EntryPrice}} | {{.ExitPrice}} | {{.Shares}} | {{.Profit}} | {{.Reason}} |
{{end}}

## 尾部风险

| 指标 | 数值 | 说明 |
|------|------|------|
| VaR (95%) | {{.VaR95}} | 95% 置信度下的最大损失 |
| VaR (99%) | {{.VaR99}} | 99% 置信度下的最大损失 |
| CVaR (95%) | {{.CVaR95}} | 超过 VaR 的平均损失 |
| CVaR (99%) | {{.CVaR99}} | 超过 VaR 的平均损失 |

## 结论

{{.Conclusion}}
`

	t, err := template.New("report").Parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SaveEquityCurveCSV 保存权益曲线到 CSV
func SaveEquityCurveCSV(result *BacktestResult, reportDir string) (string, error) {
	if err := os.MkdirAll(reportDir, 0755); err != nil {
		return "", fmt.Errorf("创建报告目录失败: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	csvPath := filepath.Join(reportDir, fmt.Sprintf("%s_%s_equity.csv", result.Symbol, timestamp))

	file, err := os.Create(csvPath)
	if err != nil {
		return "", fmt.Errorf("创建 CSV 文件失败: %w", err)
	}
	defer file.Close()

	file.WriteString("date,time,equity,cash,position_value\n")
	for _, point := range result.EquityCurve {
		file.WriteString(fmt.Sprintf("%s,%s,%.2f,%.2f,%.2f\n",
			point.Date, point.Time, point.Equity, point.Cash, point.PositionValue))
	}

	return csvPath, nil
}
