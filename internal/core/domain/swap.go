package domain

// SwapStatus represents the different statuses that a swap offer can assume.
type SwapStatus int

const (
	SwapStatusPending SwapStatus = iota
	SwapStatusApproved
	SwapStatusCancelled
)

func (s SwapStatus) String() string {
	switch s {
	case SwapStatusPending:
		return "pending"
	case SwapStatusApproved:
		return "approved"
	case SwapStatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// SwapAsset is one side of a swap: an asset and the holder declared when the
// offer was created.
type SwapAsset struct {
	Collection string
	AssetID    uint64
	Holder     string
}

// SameAsset returns whether both sides reference the same asset.
func (a SwapAsset) SameAsset(other SwapAsset) bool {
	return a.Collection == other.Collection && a.AssetID == other.AssetID
}

// Swap is a proposed two-party exchange of assets. Offered belongs to the
// initiator, Requested to the counterparty.
type Swap struct {
	ID        uint64
	Offered   SwapAsset
	Requested SwapAsset
	Status    SwapStatus
	CreatedAt int64
	ClosedAt  int64
}

// NewSwap returns a pending swap offer.
func NewSwap(offered, requested SwapAsset, now int64) (*Swap, error) {
	if len(offered.Holder) <= 0 || len(requested.Holder) <= 0 {
		return nil, ErrInvalidIdentity
	}
	if len(offered.Collection) <= 0 || len(requested.Collection) <= 0 {
		return nil, ErrInvalidCollection
	}
	if offered.Holder == requested.Holder || offered.SameAsset(requested) {
		return nil, ErrInvalidSwap
	}

	return &Swap{
		Offered:   offered,
		Requested: requested,
		Status:    SwapStatusPending,
		CreatedAt: now,
	}, nil
}

// IsPending returns whether the swap is awaiting approval.
func (s *Swap) IsPending() bool {
	return s.Status == SwapStatusPending
}

// Initiator returns the identity that created the offer.
func (s *Swap) Initiator() string {
	return s.Offered.Holder
}

// Counterparty returns the identity expected to approve the offer.
func (s *Swap) Counterparty() string {
	return s.Requested.Holder
}

// Approve brings a pending swap to the Approved status. Only the holder of
// the requested asset can approve.
func (s *Swap) Approve(approver string, now int64) error {
	if !s.IsPending() {
		return ErrSwapNotPending
	}
	if approver != s.Counterparty() {
		return ErrNotCounterparty
	}

	s.Status = SwapStatusApproved
	s.ClosedAt = now
	return nil
}

// Cancel withdraws (initiator) or rejects (counterparty) a pending swap.
func (s *Swap) Cancel(caller string, now int64) error {
	if !s.IsPending() {
		return ErrSwapNotPending
	}
	if caller != s.Initiator() && caller != s.Counterparty() {
		return ErrNotSwapParty
	}

	s.Status = SwapStatusCancelled
	s.ClosedAt = now
	return nil
}
