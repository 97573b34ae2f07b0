package strategy

import (
	"BlockJack/internal/game/table"
	"BlockJack/internal/protocol"
)

// Counter 按点数记录牌靴中剩余张数（每个点数 4 张）。
// 值类型，随 View 传入 Decide，由客户端 session 自己持有。
type Counter struct {
	counts [14]int // 下标 1..13
}

func NewCounter() Counter {
	var c Counter
	for r := 1; r <= 13; r++ {
		c.counts[r] = 4
	}
	return c
}

// Seen 记下一张已亮出的牌；服务端换靴后计数可能早于真实值归零，归零后不再减
func (c *Counter) Seen(rank int) {
	if rank >= 1 && rank <= 13 && c.counts[rank] > 0 {
		c.counts[rank]--
	}
}

func (c Counter) Count(rank int) int {
	if rank < 1 || rank > 13 {
		return 0
	}
	return c.counts[rank]
}

func (c Counter) Remaining() int {
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// BustProbability 当前手牌再要一张爆牌的概率
func (c Counter) BustProbability(hand table.Hand) float64 {
	total := c.Remaining()
	if total == 0 {
		return 0
	}
	bust := 0
	next := append(hand[:len(hand):len(hand)], table.Card{})
	for r := 1; r <= 13; r++ {
		if c.counts[r] == 0 {
			continue
		}
		next[len(next)-1] = table.Card{Rank: r}
		if next.Bust() {
			bust += c.counts[r]
		}
	}
	return float64(bust) / float64(total)
}

// View 做决定时客户端能看到的全部信息
type View struct {
	Hand     table.Hand
	DealerUp *table.Card
	Counter  Counter
}

// Func 可插拔的决策函数，只能返回 Hittt 或 Stand
type Func func(View) protocol.Decision

// 阈值：庄家明牌 7..A 为强牌，更激进
const (
	strongDealerThreshold = 0.55
	weakDealerThreshold   = 0.40
	unknownThreshold      = 0.45
)

// Decide 默认策略：<= 11 必要；硬 17+ / 软 18+ 必停；中间按爆牌概率与阈值比较
func Decide(v View) protocol.Decision {
	total, soft := v.Hand.Value()
	switch {
	case total <= 11:
		return protocol.Hit
	case total >= 17 && !soft:
		return protocol.Stand
	case total >= 18 && soft:
		return protocol.Stand
	}

	threshold := unknownThreshold
	if v.DealerUp != nil {
		if r := v.DealerUp.Rank; r == 1 || r >= 7 {
			threshold = strongDealerThreshold
		} else {
			threshold = weakDealerThreshold
		}
	}
	if v.Counter.BustProbability(v.Hand) <= threshold {
		return protocol.Hit
	}
	return protocol.Stand
}

// StandOn 固定阈值策略：点数 >= n 停牌
func StandOn(n int) Func {
	return func(v View) protocol.Decision {
		if v.Hand.Total() >= n {
			return protocol.Stand
		}
		return protocol.Hit
	}
}
