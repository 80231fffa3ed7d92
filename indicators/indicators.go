// Package indicators 技术指标库
// 对已获取的 OHLCV 价格序列做纯计算，无状态、无副作用。
// 所有指标函数返回与输入等长的序列，预热期内的位置为无效值（Valid=false），
// 绝不使用 NaN 哨兵，调用方必须显式检查 Valid。
package indicators

import "encoding/json"

// PriceBar 一根K线（由外部数据采集方提供，按时间升序排列）
type PriceBar struct {
	Date   string  `json:"date"`   // 日期，如 "2024-01-15"
	Time   string  `json:"time"`   // 时间，如 "09:30"（日线可为空）
	Open   float64 `json:"open"`   // 开盘价
	High   float64 `json:"high"`   // 最高价
	Low    float64 `json:"low"`    // 最低价
	Close  float64 `json:"close"`  // 收盘价
	Volume float64 `json:"volume"` // 成交量
}

// Value 指标值
// 预热期内 Valid 为 false，此时 V 无意义，不得参与运算。
type Value struct {
	V     float64
	Valid bool
}

// Some 构造有效指标值
func Some(v float64) Value {
	return Value{V: v, Valid: true}
}

// None 无效指标值（预热期）
var None = Value{}

// MarshalJSON 无效值序列化为 null，前端据此显示"数据不足"
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.V)
}

// UnmarshalJSON 反序列化，null 还原为无效值
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = None
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Some(f)
	return nil
}

// invalidSeries 构造全无效序列（输入过短时返回）
func invalidSeries(n int) []Value {
	return make([]Value, n)
}

// ClosePrices 提取收盘价序列
func ClosePrices(bars []PriceBar) []float64 {
	result := make([]float64, len(bars))
	for i, b := range bars {
		result[i] = b.Close
	}
	return result
}

// HighPrices 提取最高价序列
func HighPrices(bars []PriceBar) []float64 {
	result := make([]float64, len(bars))
	for i, b := range bars {
		result[i] = b.High
	}
	return result
}

// LowPrices 提取最低价序列
func LowPrices(bars []PriceBar) []float64 {
	result := make([]float64, len(bars))
	for i, b := range bars {
		result[i] = b.Low
	}
	return result
}

// Volumes 提取成交量序列
func Volumes(bars []PriceBar) []float64 {
	result := make([]float64, len(bars))
	for i, b := range bars {
		result[i] = b.Volume
	}
	return result
}
