package domain

// PayoutStatus represents the different statuses that a payout can assume.
type PayoutStatus int

const (
	PayoutStatusPending PayoutStatus = iota
	PayoutStatusPaid
)

func (s PayoutStatus) String() string {
	switch s {
	case PayoutStatusPending:
		return "pending"
	case PayoutStatusPaid:
		return "paid"
	default:
		return "unknown"
	}
}

// Payout is an amount owed out of the marketplace escrow that the payment
// ledger refused when the operation generating it was settled. The funds
// stay in escrow until the payout is retried successfully.
type Payout struct {
	ID     uint64
	ItemID uint64
	Wallet string
	Amount uint64
	// Reason tells which share of the operation the payout is, like
	// "royalty", "fee", "seller", "refund" or "publication fee".
	Reason    string
	Status    PayoutStatus
	Attempts  int
	LastError string
	CreatedAt int64
	PaidAt    int64
}

// NewPendingPayout returns a pending payout for the given item, recording
// the error of the first failed attempt. The id is assigned by the
// repository.
func NewPendingPayout(
	itemID uint64, wallet string, amount uint64, reason, lastError string,
	now int64,
) (*Payout, error) {
	if len(wallet) <= 0 {
		return nil, ErrInvalidIdentity
	}
	if amount == 0 {
		return nil, ErrInvalidPayoutAmount
	}

	return &Payout{
		ItemID:    itemID,
		Wallet:    wallet,
		Amount:    amount,
		Reason:    reason,
		Status:    PayoutStatusPending,
		Attempts:  1,
		LastError: lastError,
		CreatedAt: now,
	}, nil
}

// IsPending returns whether the payout is still owed.
func (p *Payout) IsPending() bool {
	return p.Status == PayoutStatusPending
}

// Fail records a further failed attempt.
func (p *Payout) Fail(reason string) error {
	if !p.IsPending() {
		return ErrPayoutNotPending
	}
	p.Attempts++
	p.LastError = reason
	return nil
}

// Pay brings a pending payout to the Paid status. It returns false without
// error if the payout was already paid.
func (p *Payout) Pay(now int64) (bool, error) {
	if !p.IsPending() {
		return false, nil
	}
	p.Attempts++
	p.LastError = ""
	p.Status = PayoutStatusPaid
	p.PaidAt = now
	return true, nil
}
