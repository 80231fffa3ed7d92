package indicators

// 默认参数（与行情前端展示一致）
const (
	DefaultRSIPeriod       = 14
	DefaultMACDFast        = 12
	DefaultMACDSlow        = 26
	DefaultMACDSignal      = 9
	DefaultBollingerPeriod = 20
	DefaultBollingerK      = 2.0
	DefaultKDJPeriod       = 9
	DefaultATRPeriod       = 14
)

// IndicatorFrame 带指标的K线
// 每次整段重算得出，任何位置不会被跨周期原地修改。
type IndicatorFrame struct {
	PriceBar

	MA5  Value `json:"ma5"`
	MA10 Value `json:"ma10"`
	MA20 Value `json:"ma20"`
	MA60 Value `json:"ma60"`

	RSI Value `json:"rsi"`

	MACD          Value `json:"macd"`
	MACDSignal    Value `json:"macd_signal"`
	MACDHistogram Value `json:"macd_histogram"`

	BollingerUpper  Value `json:"bollinger_upper"`
	BollingerMiddle Value `json:"bollinger_middle"`
	BollingerLower  Value `json:"bollinger_lower"`

	KDJK Value `json:"kdj_k"`
	KDJD Value `json:"kdj_d"`
	KDJJ Value `json:"kdj_j"`

	ATR Value `json:"atr"`
}

// ComputeFrames 对整段价格序列计算全部指标
// 纯函数：同一输入两次调用产生完全相同的输出。
func ComputeFrames(bars []PriceBar) []IndicatorFrame {
	closes := ClosePrices(bars)

	ma5 := SMA(closes, 5)
	ma10 := SMA(closes, 10)
	ma20 := SMA(closes, 20)
	ma60 := SMA(closes, 60)
	rsi := RSI(closes, DefaultRSIPeriod)
	macd := MACD(closes, DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal)
	boll := Bollinger(closes, DefaultBollingerPeriod, DefaultBollingerK)
	kdj := KDJ(bars, DefaultKDJPeriod)
	atr := ATR(bars, DefaultATRPeriod)

	frames := make([]IndicatorFrame, len(bars))
	for i, bar := range bars {
		frames[i] = IndicatorFrame{
			PriceBar: bar,

			MA5:  ma5[i],
			MA10: ma10[i],
			MA20: ma20[i],
			MA60: ma60[i],

			RSI: rsi[i],

			MACD:          macd.MACD[i],
			MACDSignal:    macd.Signal[i],
			MACDHistogram: macd.Histogram[i],

			BollingerUpper:  boll.Upper[i],
			BollingerMiddle: boll.Middle[i],
			BollingerLower:  boll.Lower[i],

			KDJK: kdj.K[i],
			KDJD: kdj.D[i],
			KDJJ: kdj.J[i],

			ATR: atr[i],
		}
	}

	return frames
}
