package table

import (
	"fmt"
	"time"
)

// Table 一局（round）的运行时状态，一个 session 每局新建一个
type Table struct {
	ID        string
	Team      string
	Round     int // 从 1 开始
	CreatedAt time.Time

	Player Hand
	Dealer Hand
	Result Result
}

// Result 回合结果，取值与线上 result 字节一致
type Result int

const (
	Active Result = iota
	Tie
	Loss
	Win
)

func (r Result) String() string {
	switch r {
	case Active:
		return "active"
	case Tie:
		return "tie"
	case Loss:
		return "loss"
	case Win:
		return "win"
	}
	return fmt.Sprintf("result(%d)", int(r))
}

// Card 定义 (suit 0-3: ♥♦♣♠, rank 1-13: A..K)
type Card struct {
	Suit int `json:"suit"`
	Rank int `json:"rank"`
}

func (c Card) String() string {
	return fmtCard(c)
}

// Points 单张点数，A 先按 11 计，降级在 Hand.Value 里处理
func (c Card) Points() int {
	switch {
	case c.Rank == 1:
		return 11
	case c.Rank >= 10:
		return 10
	default:
		return c.Rank
	}
}

func fmtCard(c Card) string {
	suits := []string{"♥", "♦", "♣", "♠"}
	ranks := map[int]string{
		1:  "A",
		11: "J",
		12: "Q",
		13: "K",
	}
	rankStr, ok := ranks[c.Rank]
	if !ok {
		rankStr = fmt.Sprintf("%d", c.Rank)
	}
	suitStr := "?"
	if c.Suit >= 0 && c.Suit < len(suits) {
		suitStr = suits[c.Suit]
	}
	return rankStr + suitStr
}
