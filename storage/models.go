package storage

import "time"

// BacktestRun 一次回测运行的持久化摘要
// 完整结果（含权益曲线与交易明细）以 JSON 存于 result_json 列，
// 按 ID 读取时经 GetBacktestRun 还原为 BacktestResult，摘要列用于列表查询。
type BacktestRun struct {
	ID             int64     `json:"id"`
	Symbol         string    `json:"symbol"`
	InitialCapital float64   `json:"initial_capital"`
	FinalCapital   float64   `json:"final_capital"`
	TotalReturn    float64   `json:"total_return"`
	MaxDrawdown    float64   `json:"max_drawdown"`
	SharpeRatio    float64   `json:"sharpe_ratio"`
	TotalTrades    int       `json:"total_trades"`
	WinRate        float64   `json:"win_rate"`
	CreatedAt      time.Time `json:"created_at"`
}
