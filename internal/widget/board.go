package widget

// Board holds every card on the page keyed by product id. It is not safe
// for concurrent use; the host event loop is single threaded.
type Board struct {
	cards map[int]*Card
	order []int
}

// NewBoard builds an empty board.
func NewBoard() *Board {
	return &Board{cards: map[int]*Card{}}
}

// Add registers a card. Re-adding a product id replaces the card in place.
func (b *Board) Add(card *Card) {
	if card == nil {
		return
	}
	if _, ok := b.cards[card.ProductID]; !ok {
		b.order = append(b.order, card.ProductID)
	}
	b.cards[card.ProductID] = card
}

// Card returns the card for a product, or nil.
func (b *Board) Card(productID int) *Card {
	return b.cards[productID]
}

// ProductIDs returns the card ids in insertion order.
func (b *Board) ProductIDs() []int {
	return append([]int(nil), b.order...)
}

// Reconcile overwrites every card from a server quantity snapshot. Cards
// missing from the snapshot reset to zero, so a cart emptied in another tab
// clears here too.
func (b *Board) Reconcile(quantities map[int]int) {
	for id, card := range b.cards {
		card.Reconcile(quantities[id])
	}
}

// TotalCents sums the displayed line totals across the board.
func (b *Board) TotalCents() int {
	total := 0
	for _, card := range b.cards {
		total += LineTotalCents(card.Quantity(), card.PriceCents, 1)
	}
	return total
}
