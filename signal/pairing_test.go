package signal

import (
	"math"
	"testing"
)

func mkSignal(t SignalType, price float64, time string) EnrichedSignal {
	return EnrichedSignal{TradingSignal: TradingSignal{
		Date:     "2024-03-01",
		Time:     time,
		Type:     t,
		Price:    price,
		Strength: 60,
	}}
}

// TestPairTradesFIFO 买卖 FIFO 配对：buy@100, sell@110, buy@105
func TestPairTradesFIFO(t *testing.T) {
	input := []EnrichedSignal{
		mkSignal(SignalBuy, 100, "09:31"),
		mkSignal(SignalSell, 110, "09:32"),
		mkSignal(SignalBuy, 105, "09:33"),
	}

	paired := PairTrades(input)
	if len(paired) != 3 {
		t.Fatalf("期望 3 个信号, 得到 %d", len(paired))
	}

	buy, sell, open := paired[0], paired[1], paired[2]
	if buy.Pairing == nil || sell.Pairing == nil {
		t.Fatal("首个 buy 与 sell 应完成配对")
	}
	if open.Pairing != nil {
		t.Error("第二个 buy 应保持未配对")
	}

	if buy.Pairing.TradeID != sell.Pairing.TradeID {
		t.Error("配对双方应共享交易ID")
	}
	if buy.Pairing.ProfitLoss != 10 {
		t.Errorf("盈亏应为 10, 得到 %v", buy.Pairing.ProfitLoss)
	}
	if math.Abs(buy.Pairing.ProfitLossPercent-10) > 1e-9 {
		t.Errorf("盈亏比例应为 10%%, 得到 %v", buy.Pairing.ProfitLossPercent)
	}
	if sell.Pairing.ProfitLoss != 10 {
		t.Errorf("sell 侧盈亏应为 10, 得到 %v", sell.Pairing.ProfitLoss)
	}
	if sell.Pairing.PairedPrice != 100 {
		t.Errorf("sell 侧应回指买入价 100, 得到 %v", sell.Pairing.PairedPrice)
	}

	// 输入切片不被修改
	if input[0].Pairing != nil {
		t.Error("配对应返回副本，不得修改输入")
	}
}

// TestPairTradesConservation 配对守恒：已平仓对 + 未配对 buy == buy 总数
func TestPairTradesConservation(t *testing.T) {
	input := []EnrichedSignal{
		mkSignal(SignalSell, 95, "09:30"), // 无买单可配，原样通过
		mkSignal(SignalBuy, 100, "09:31"),
		mkSignal(SignalBuy, 102, "09:32"),
		mkSignal(SignalSell, 108, "09:33"),
		mkSignal(SignalBuy, 101, "09:34"),
		mkSignal(SignalSell, 99, "09:35"),
	}

	paired := PairTrades(input)

	totalBuys, closedBuys, openBuys := 0, 0, 0
	for _, s := range paired {
		if s.Type != SignalBuy {
			continue
		}
		totalBuys++
		if s.Pairing != nil {
			closedBuys++
		} else {
			openBuys++
		}
	}
	if closedBuys+openBuys != totalBuys {
		t.Errorf("配对守恒被破坏: closed=%d open=%d total=%d", closedBuys, openBuys, totalBuys)
	}
	if closedBuys != 2 || openBuys != 1 {
		t.Errorf("期望 2 对已平仓 + 1 个未配对 buy, 得到 %d/%d", closedBuys, openBuys)
	}

	if paired[0].Pairing != nil {
		t.Error("开头的孤立 sell 不应被配对")
	}
	// FIFO: 第一个 sell@108 配最早的 buy@100
	if paired[3].Pairing == nil || paired[3].Pairing.PairedPrice != 100 {
		t.Error("sell@108 应按 FIFO 配最早的 buy@100")
	}
	if paired[5].Pairing == nil || paired[5].Pairing.PairedPrice != 102 {
		t.Error("sell@99 应配第二个 buy@102")
	}
	if paired[5].Pairing.ProfitLoss != -3 {
		t.Errorf("亏损配对盈亏应为 -3, 得到 %v", paired[5].Pairing.ProfitLoss)
	}
}
