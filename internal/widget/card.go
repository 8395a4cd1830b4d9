package widget

import "time"

// Command is an optimistic quantity mutation waiting on the server. Quantity
// is absolute, never a delta, so replays and retries cannot compound. Seq
// orders commands per product; responses carrying an older seq are stale.
type Command struct {
	ProductID int
	Prev      int
	Quantity  int
	Seq       uint64
}

// Card is the quantity state for one product tile. The displayed quantity is
// optimistic; lastGood tracks the last server-acknowledged value and is what
// a failure reverts to.
type Card struct {
	ProductID  int
	PriceCents int

	quantity int
	lastGood int
	seq      uint64

	pendingStart string
	pendingEnd   string
}

// NewCard builds a card at quantity zero.
func NewCard(productID, priceCents int) *Card {
	return &Card{ProductID: productID, PriceCents: priceCents}
}

// Quantity returns the displayed quantity.
func (c *Card) Quantity() int {
	return c.quantity
}

// LastAcknowledged returns the last server-confirmed quantity.
func (c *Card) LastAcknowledged() int {
	return c.lastGood
}

// Increment bumps the displayed quantity and emits the command to sync it.
func (c *Card) Increment() *Command {
	return c.setQuantity(c.quantity + 1)
}

// Decrement lowers the displayed quantity. At zero it is a no-op and emits
// nothing.
func (c *Card) Decrement() *Command {
	if c.quantity == 0 {
		return nil
	}
	return c.setQuantity(c.quantity - 1)
}

// Toggle flips the card between quantity 1 and 0 for checkbox layouts.
func (c *Card) Toggle() *Command {
	if c.quantity > 0 {
		return c.setQuantity(0)
	}
	return c.setQuantity(1)
}

func (c *Card) setQuantity(next int) *Command {
	prev := c.lastGood
	c.quantity = next
	if next == 0 {
		c.pendingStart, c.pendingEnd = "", ""
	}
	c.seq++
	return &Command{ProductID: c.ProductID, Prev: prev, Quantity: next, Seq: c.seq}
}

// ApplySuccess records the server-acknowledged quantity for a command. A
// response for anything but the newest command is discarded and reports
// false.
func (c *Card) ApplySuccess(seq uint64, quantity int) bool {
	if seq != c.seq {
		return false
	}
	c.quantity = quantity
	c.lastGood = quantity
	if quantity == 0 {
		c.pendingStart, c.pendingEnd = "", ""
	}
	return true
}

// ApplyFailure reverts the displayed quantity to the last acknowledged value
// and emits the notice to show. Stale failures are discarded.
func (c *Card) ApplyFailure(seq uint64, message string, now time.Time) (*Notice, bool) {
	if seq != c.seq {
		return nil, false
	}
	c.quantity = c.lastGood
	if c.quantity == 0 {
		c.pendingStart, c.pendingEnd = "", ""
	}
	notice := NewNotice(message, now)
	return &notice, true
}

// Reconcile overwrites both displayed and acknowledged quantity from a
// server snapshot, invalidating any in-flight commands.
func (c *Card) Reconcile(quantity int) {
	c.quantity = quantity
	c.lastGood = quantity
	if quantity == 0 {
		c.pendingStart, c.pendingEnd = "", ""
	}
	c.seq++
}

// SetDates stages a rental window locally. Ignored while the quantity is
// zero because the date inputs are disabled then.
func (c *Card) SetDates(start, end string) {
	if c.quantity == 0 {
		return
	}
	c.pendingStart, c.pendingEnd = start, end
}

// Dates returns the staged rental window.
func (c *Card) Dates() (string, string) {
	return c.pendingStart, c.pendingEnd
}

// DateInputEnabled gates the date pickers on a non-zero quantity.
func (c *Card) DateInputEnabled() bool {
	return c.quantity > 0
}

// DecrementEnabled gates the minus control.
func (c *Card) DecrementEnabled() bool {
	return c.quantity > 0
}
