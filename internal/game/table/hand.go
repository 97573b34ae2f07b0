package table

import "strings"

// Hand 一方（玩家或庄家）在本局的手牌，点数每次现算不缓存
type Hand []Card

// Value 返回最优点数以及是否为软牌（仍有 A 按 11 计）。
// A 先全部按 11 计，超过 21 时逐张降为 1。
func (h Hand) Value() (total int, soft bool) {
	aces := 0
	for _, c := range h {
		total += c.Points()
		if c.Rank == 1 {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total, aces > 0
}

func (h Hand) Total() int {
	total, _ := h.Value()
	return total
}

func (h Hand) Bust() bool {
	return h.Total() > 21
}

func (h Hand) String() string {
	parts := make([]string, len(h))
	for i, c := range h {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
