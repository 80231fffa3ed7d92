// Package signal 交易信号引擎
// 包含三个处理阶段：多因子信号生成、FIFO 买卖配对、多周期共振分析。
// 所有函数均为无状态纯计算，输入切片不会被原地修改，
// 配对与共振的增强信息以分层结构追加，基础信号一经生成不可变。
package signal

// SignalType 信号方向
type SignalType string

const (
	SignalBuy  SignalType = "buy"  // 买入
	SignalSell SignalType = "sell" // 卖出
	SignalHold SignalType = "hold" // 观望
)

// TradingSignal 基础交易信号（信号生成器产出，生成后不可变）
type TradingSignal struct {
	Date       string     `json:"date"`
	Time       string     `json:"time"`
	Type       SignalType `json:"type"`
	Price      float64    `json:"price"`
	Strength   float64    `json:"strength"`   // 0-100
	Confidence float64    `json:"confidence"` // 0-100
	Reasons    []string   `json:"reasons"`    // 触发规则的可读描述，按评估顺序排列
	StopLoss   float64    `json:"stop_loss"`
	TakeProfit float64    `json:"take_profit"`
}

// Pairing 配对增强信息（交易配对器追加）
type Pairing struct {
	TradeID           string  `json:"trade_id"`
	PairedDate        string  `json:"paired_date"`
	PairedTime        string  `json:"paired_time"`
	PairedPrice       float64 `json:"paired_price"`
	ProfitLoss        float64 `json:"profit_loss"`
	ProfitLossPercent float64 `json:"profit_loss_percent"`
}

// Resonance 共振增强信息（共振分析器追加）
type Resonance struct {
	Level      int      `json:"level"`
	Timeframes []string `json:"timeframes"`
}

// EnrichedSignal 增强后的信号
// 基础信号加上可选的配对/共振字段，两个增强阶段相互独立、无副作用。
type EnrichedSignal struct {
	TradingSignal

	Pairing   *Pairing   `json:"pairing,omitempty"`
	Resonance *Resonance `json:"resonance,omitempty"`
}

// ResonanceAnalysis 多周期共振分析结果（每次查询即时计算，不持久化）
type ResonanceAnalysis struct {
	HasResonance bool       `json:"has_resonance"`
	Level        int        `json:"level"` // 0-4，同向周期数
	Timeframes   []string   `json:"timeframes"`
	SignalType   SignalType `json:"signal_type"`
	Strength     float64    `json:"strength"` // 0-100
	Description  string     `json:"description"`
}

// clamp100 将评分限制在 [0,100]
func clamp100(v float64) float64 {
	if v > 100 {
		return 100
	}
	if v < 0 {
		return 0
	}
	return v
}
