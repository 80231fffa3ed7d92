package signal

import "github.com/google/uuid"

// PairTrades FIFO 买卖配对
// 单次遍历：每个 sell 与最早的未配对 buy 成对，共享一个交易ID；
// 无买单可配的 sell 原样通过。返回增强后的副本，输入切片不被修改。
func PairTrades(signals []EnrichedSignal) []EnrichedSignal {
	result := make([]EnrichedSignal, len(signals))
	copy(result, signals)

	var openBuys []int // 未配对 buy 在 result 中的下标队列
	for i := range result {
		switch result[i].Type {
		case SignalBuy:
			openBuys = append(openBuys, i)
		case SignalSell:
			if len(openBuys) == 0 {
				continue
			}
			buyIdx := openBuys[0]
			openBuys = openBuys[1:]

			buy := &result[buyIdx]
			sell := &result[i]
			tradeID := uuid.NewString()
			profit := sell.Price - buy.Price
			profitPct := 0.0
			if buy.Price != 0 {
				profitPct = profit / buy.Price * 100
			}

			buy.Pairing = &Pairing{
				TradeID:           tradeID,
				PairedDate:        sell.Date,
				PairedTime:        sell.Time,
				PairedPrice:       sell.Price,
				ProfitLoss:        profit,
				ProfitLossPercent: profitPct,
			}
			sell.Pairing = &Pairing{
				TradeID:           tradeID,
				PairedDate:        buy.Date,
				PairedTime:        buy.Time,
				PairedPrice:       buy.Price,
				ProfitLoss:        profit,
				ProfitLossPercent: profitPct,
			}
		}
	}
	return result
}
