package dealer

import (
	"math/rand"
	"time"

	"BlockJack/internal/game/table"
)

// Dealer 只负责洗牌与发牌（无规则判断）。
// 一个 session 持有一个 Dealer，牌靴跨局保留，抽空后自动换新靴。
type Dealer struct {
	deck       []table.Card
	rnd        *rand.Rand
	reshuffles int
}

// NewDealer seed 为 0 时使用当前时间
func NewDealer(seed int64) *Dealer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	d := &Dealer{
		deck: make([]table.Card, 0, 52),
		rnd:  rand.New(rand.NewSource(seed)),
	}
	d.NewDeck()
	return d
}

// NewStacked 按给定顺序发牌（第一张最先发出），发完后按 seed 洗新靴。测试用
func NewStacked(seed int64, cards ...table.Card) *Dealer {
	d := NewDealer(seed)
	d.deck = append(d.deck[:0], cards...)
	return d
}

// NewDeck 初始化一副 52 张牌并洗牌
func (d *Dealer) NewDeck() {
	d.deck = d.makeDeck()
	d.shuffle()
}

func (d *Dealer) makeDeck() []table.Card {
	deck := make([]table.Card, 0, 52)
	for s := 0; s < 4; s++ {
		for r := 1; r <= 13; r++ {
			deck = append(deck, table.Card{Suit: s, Rank: r})
		}
	}
	return deck
}

func (d *Dealer) shuffle() {
	d.rnd.Shuffle(len(d.deck), func(i, j int) {
		d.deck[i], d.deck[j] = d.deck[j], d.deck[i]
	})
}

// Draw 发顶牌；牌靴空了先换一副新牌再发
func (d *Dealer) Draw() table.Card {
	if len(d.deck) == 0 {
		d.NewDeck()
		d.reshuffles++
	}
	c := d.deck[0]
	d.deck = d.deck[1:]
	return c
}

// Remaining 当前牌靴剩余张数
func (d *Dealer) Remaining() int {
	return len(d.deck)
}

// Reshuffles 因抽空而换靴的次数
func (d *Dealer) Reshuffles() int {
	return d.reshuffles
}
