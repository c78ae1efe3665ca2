package domain

import "fmt"

// Bid is an immutable monetary offer against an auction item. It's
// identified by the item id and its position in the item's bid sequence.
type Bid struct {
	ItemID    uint64
	Index     int
	Bidder    string
	Amount    uint64
	Timestamp int64
}

// NewBid returns the bid that would take the next position in the sequence
// of the given item.
func NewBid(item Item, bidder string, amount uint64, now int64) (*Bid, error) {
	if len(bidder) <= 0 {
		return nil, ErrInvalidIdentity
	}
	if amount == 0 {
		return nil, ErrInvalidPrice
	}
	return &Bid{
		ItemID:    item.ID,
		Index:     item.BidCount,
		Bidder:    bidder,
		Amount:    amount,
		Timestamp: now,
	}, nil
}

// Key returns the storage key of the bid.
func (b Bid) Key() string {
	return BidKey(b.ItemID, b.Index)
}

// BidKey returns the storage key of the bid at the given position.
func BidKey(itemID uint64, index int) string {
	return fmt.Sprintf("%020d/%010d", itemID, index)
}
