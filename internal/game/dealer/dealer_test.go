package dealer

import (
	"testing"
	"time"

	"BlockJack/internal/game/table"
)

// 工具：检查是否有重复牌
func hasDuplicates(cards []table.Card) bool {
	seen := make(map[table.Card]bool)
	for _, c := range cards {
		if seen[c] {
			return true
		}
		seen[c] = true
	}
	return false
}

// ✅ 测试牌组初始化
func TestNewDeck(t *testing.T) {
	d := NewDealer(time.Now().UnixNano())

	if len(d.deck) != 52 {
		t.Fatalf("expected 52 cards, got %d", len(d.deck))
	}
	if hasDuplicates(d.deck) {
		t.Fatalf("deck should not contain duplicates")
	}

	// 检查花色和点数完整性
	suits := make(map[int]bool)
	ranks := make(map[int]bool)
	for _, c := range d.deck {
		suits[c.Suit] = true
		ranks[c.Rank] = true
		if c.Rank < 1 || c.Rank > 13 {
			t.Fatalf("rank out of range: %d", c.Rank)
		}
	}
	if len(suits) != 4 {
		t.Fatalf("expected 4 suits, got %d", len(suits))
	}
	if len(ranks) != 13 {
		t.Fatalf("expected 13 ranks, got %d", len(ranks))
	}
}

// ✅ 测试洗牌效果（概率性验证）
func TestShuffleChangesOrder(t *testing.T) {
	d1 := NewDealer(42)
	d2 := NewDealer(42)

	// 因为种子相同，所以序列应相同
	for i := range d1.deck {
		if d1.deck[i] != d2.deck[i] {
			t.Fatalf("expected identical decks for same seed")
		}
	}

	// 新种子应生成不同序列
	d3 := NewDealer(99)
	diff := false
	for i := range d1.deck {
		if d1.deck[i] != d3.deck[i] {
			diff = true
			break
		}
	}
	if !diff {
		t.Fatalf("expected deck with different seed to differ")
	}
}

// ✅ 一副牌内发出的牌不重复
func TestDrawWholeShoeUnique(t *testing.T) {
	d := NewDealer(1)
	drawn := make([]table.Card, 0, 52)
	for i := 0; i < 52; i++ {
		drawn = append(drawn, d.Draw())
	}
	if hasDuplicates(drawn) {
		t.Fatalf("drawn cards contain duplicates within one shoe")
	}
	if d.Remaining() != 0 {
		t.Fatalf("expected empty shoe, got %d", d.Remaining())
	}
}

// ✅ 测试自动补牌机制
func TestDrawResetsDeck(t *testing.T) {
	d := NewDealer(3)
	for i := 0; i < 52; i++ {
		d.Draw()
	}
	// 再抽一张应触发自动 NewDeck()
	card := d.Draw()
	if card.Rank < 1 || card.Rank > 13 || card.Suit < 0 || card.Suit > 3 {
		t.Fatalf("invalid card returned after deck reset")
	}
	if d.Reshuffles() != 1 {
		t.Fatalf("expected 1 reshuffle, got %d", d.Reshuffles())
	}
	if d.Remaining() != 51 {
		t.Fatalf("expected 51 remaining after reshuffle, got %d", d.Remaining())
	}
}

func TestStackedOrder(t *testing.T) {
	a := table.Card{Suit: 0, Rank: 5}
	b := table.Card{Suit: 1, Rank: 6}
	d := NewStacked(7, a, b)

	if got := d.Draw(); got != a {
		t.Fatalf("expected %v first, got %v", a, got)
	}
	if got := d.Draw(); got != b {
		t.Fatalf("expected %v second, got %v", b, got)
	}
	// 堆叠牌发完后进入随机新靴
	d.Draw()
	if d.Reshuffles() != 1 || d.Remaining() != 51 {
		t.Fatalf("expected fresh shoe after stacked cards, remaining=%d", d.Remaining())
	}
}
