package widget

import "time"

// ConfirmState is the rental card's position in the three-step flow.
type ConfirmState int

const (
	// Unconfirmed means quantity and dates are local edits only.
	Unconfirmed ConfirmState = iota
	// Pending means a confirm or un-confirm request is in flight.
	Pending
	// Confirmed means the server holds the rental line.
	Confirmed
)

// String implements fmt.Stringer.
func (s ConfirmState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Confirmed:
		return "confirmed"
	default:
		return "unconfirmed"
	}
}

// ConfirmRequest is the server mutation a rental card emits. Remove requests
// tear the rental line down.
type ConfirmRequest struct {
	ProductID int
	Quantity  int
	StartDate string
	EndDate   string
	Remove    bool
	Seq       uint64
}

// RentalCard drives the three-step rental flow: edit locally, confirm to
// sync, un-confirm to reset. Unlike a plain card, quantity and date edits
// stay offline until the guest confirms.
type RentalCard struct {
	Card

	state  ConfirmState
	target ConfirmState

	goodStart string
	goodEnd   string
}

// NewRentalCard builds a rental card in the unconfirmed state.
func NewRentalCard(productID, priceCents int) *RentalCard {
	return &RentalCard{Card: *NewCard(productID, priceCents)}
}

// State returns the confirm-flow state.
func (r *RentalCard) State() ConfirmState {
	return r.state
}

// ConfirmEnabled gates the confirm control while a request is in flight.
func (r *RentalCard) ConfirmEnabled() bool {
	return r.state != Pending
}

// IncrementLocal bumps the quantity without talking to the server.
func (r *RentalCard) IncrementLocal() {
	r.quantity++
}

// DecrementLocal lowers the quantity, clamped at zero. Hitting zero clears
// the staged dates since the pickers disable.
func (r *RentalCard) DecrementLocal() {
	if r.quantity == 0 {
		return
	}
	r.quantity--
	if r.quantity == 0 {
		r.pendingStart, r.pendingEnd = "", ""
	}
}

// Confirm validates the local state and emits the sync request. Validation
// failures stay local: a notice comes back and nothing is sent.
func (r *RentalCard) Confirm(now time.Time) (*ConfirmRequest, *Notice) {
	if r.state == Pending {
		return nil, nil
	}
	if r.quantity == 0 {
		notice := NewNotice("Please add some equipment first", now)
		return nil, &notice
	}
	if r.pendingStart == "" || r.pendingEnd == "" {
		notice := NewNotice("Please select rental dates", now)
		return nil, &notice
	}

	r.state = Pending
	r.target = Confirmed
	r.seq++
	return &ConfirmRequest{
		ProductID: r.ProductID,
		Quantity:  r.quantity,
		StartDate: r.pendingStart,
		EndDate:   r.pendingEnd,
		Seq:       r.seq,
	}, nil
}

// Unconfirm emits the removal request for a confirmed rental.
func (r *RentalCard) Unconfirm(now time.Time) *ConfirmRequest {
	if r.state != Confirmed {
		return nil
	}
	r.state = Pending
	r.target = Unconfirmed
	r.seq++
	return &ConfirmRequest{ProductID: r.ProductID, Remove: true, Seq: r.seq}
}

// EditDates moves the window of a confirmed rental. Per the immediate-sync
// policy this emits a request right away; unconfirmed cards just stage the
// dates locally and emit nothing.
func (r *RentalCard) EditDates(start, end string) *ConfirmRequest {
	if r.state != Confirmed {
		r.SetDates(start, end)
		return nil
	}
	r.pendingStart, r.pendingEnd = start, end
	r.seq++
	return &ConfirmRequest{
		ProductID: r.ProductID,
		Quantity:  r.quantity,
		StartDate: start,
		EndDate:   end,
		Seq:       r.seq,
	}
}

// ResolveSuccess lands the in-flight request. An un-confirm success resets
// quantity and dates. Stale responses are discarded.
func (r *RentalCard) ResolveSuccess(seq uint64) bool {
	if seq != r.seq {
		return false
	}
	switch r.target {
	case Unconfirmed:
		r.quantity = 0
		r.lastGood = 0
		r.pendingStart, r.pendingEnd = "", ""
		r.goodStart, r.goodEnd = "", ""
		r.state = Unconfirmed
	default:
		r.lastGood = r.quantity
		r.goodStart, r.goodEnd = r.pendingStart, r.pendingEnd
		r.state = Confirmed
	}
	return true
}

// ResolveFailure rolls the card back to its last acknowledged shape and
// emits the notice to show. Stale responses are discarded.
func (r *RentalCard) ResolveFailure(seq uint64, message string, now time.Time) (*Notice, bool) {
	if seq != r.seq {
		return nil, false
	}
	r.quantity = r.lastGood
	r.pendingStart, r.pendingEnd = r.goodStart, r.goodEnd
	if r.lastGood > 0 {
		r.state = Confirmed
	} else {
		r.state = Unconfirmed
	}
	r.target = r.state
	notice := NewNotice(message, now)
	return &notice, true
}
