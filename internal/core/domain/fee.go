package domain

import (
	"github.com/chro-network/chro-marketplace/pkg/mathutil"
)

// DefaultFeeScale expresses collector percentages in tenths of a percent.
var DefaultFeeScale = mathutil.PerMille

// FeeCollector is a wallet entitled to a share of every settled sale.
type FeeCollector struct {
	Wallet string
	// Percentage is expressed in parts of the fee policy scale.
	Percentage uint32
}

// FeePolicy holds the ordered set of fee collectors and the publication fee
// schedule.
type FeePolicy struct {
	Scale                uint32
	Collectors           []FeeCollector
	PublicationFees      map[ListingKind]uint64
	PublicationFeeWallet string
}

// NewFeePolicy returns an empty fee policy with the given scale.
func NewFeePolicy(scale uint32) (*FeePolicy, error) {
	if scale == 0 {
		return nil, ErrInvalidFeeScale
	}
	return &FeePolicy{
		Scale:           scale,
		Collectors:      make([]FeeCollector, 0),
		PublicationFees: make(map[ListingKind]uint64),
	}, nil
}

// TotalPercentage returns the sum of all collectors' percentages.
func (p *FeePolicy) TotalPercentage() uint64 {
	var total uint64
	for _, c := range p.Collectors {
		total += uint64(c.Percentage)
	}
	return total
}

// AddFeeCollector appends a collector at the end of the iteration order.
func (p *FeePolicy) AddFeeCollector(wallet string, percentage uint32) error {
	if len(wallet) <= 0 {
		return ErrInvalidIdentity
	}
	if percentage == 0 {
		return ErrInvalidPercentage
	}
	if p.indexOf(wallet) >= 0 {
		return ErrFeeCollectorExists
	}
	if p.TotalPercentage()+uint64(percentage) > uint64(p.Scale) {
		return ErrFeeCapExceeded
	}

	p.Collectors = append(p.Collectors, FeeCollector{wallet, percentage})
	return nil
}

// RemoveFeeCollector removes the collector, preserving the order of the
// others.
func (p *FeePolicy) RemoveFeeCollector(wallet string) error {
	i := p.indexOf(wallet)
	if i < 0 {
		return ErrFeeCollectorNotFound
	}

	collectors := make([]FeeCollector, 0, len(p.Collectors)-1)
	collectors = append(collectors, p.Collectors[:i]...)
	p.Collectors = append(collectors, p.Collectors[i+1:]...)
	return nil
}

// SetPublicationFeeWallet sets the wallet receiving publication fees.
func (p *FeePolicy) SetPublicationFeeWallet(wallet string) error {
	if len(wallet) <= 0 {
		return ErrInvalidIdentity
	}
	p.PublicationFeeWallet = wallet
	return nil
}

// SetPublicationFee sets the flat fee charged when listing an item of the
// given kind.
func (p *FeePolicy) SetPublicationFee(kind ListingKind, amount uint64) error {
	if !kind.IsValid() {
		return ErrInvalidListingKind
	}
	if amount > 0 && len(p.PublicationFeeWallet) <= 0 {
		return ErrPublicationWalletNotSet
	}
	if p.PublicationFees == nil {
		p.PublicationFees = make(map[ListingKind]uint64)
	}
	p.PublicationFees[kind] = amount
	return nil
}

// PublicationFee returns the flat fee for the given listing kind.
func (p *FeePolicy) PublicationFee(kind ListingKind) uint64 {
	return p.PublicationFees[kind]
}

// Split computes the deterministic distribution of a gross amount. Every
// share is truncated toward zero and the seller gets the remainder, so that
// the parts always sum up to the gross amount. The royalty, if any, comes
// out of the seller's part and is capped by it.
func (p *FeePolicy) Split(gross uint64, royalty *Royalty) Distribution {
	shares := make([]CollectorShare, 0, len(p.Collectors))
	remainder := gross
	for _, c := range p.Collectors {
		amount := mathutil.ShareOf(gross, c.Percentage, p.Scale)
		if amount > remainder {
			amount = remainder
		}
		remainder -= amount
		shares = append(shares, CollectorShare{c.Wallet, amount})
	}

	var royaltyShare Royalty
	if royalty != nil && len(royalty.Receiver) > 0 {
		royaltyShare = *royalty
		if royaltyShare.Amount > remainder {
			royaltyShare.Amount = remainder
		}
		remainder -= royaltyShare.Amount
	}

	return Distribution{
		Gross:     gross,
		SellerNet: remainder,
		Royalty:   royaltyShare,
		Shares:    shares,
	}
}

func (p *FeePolicy) indexOf(wallet string) int {
	for i, c := range p.Collectors {
		if c.Wallet == wallet {
			return i
		}
	}
	return -1
}

// Royalty is the amount owed to the creator of an asset on a sale.
type Royalty struct {
	Receiver string
	Amount   uint64
}

// CollectorShare is the amount a fee collector receives from a settlement.
type CollectorShare struct {
	Wallet string
	Amount uint64
}

// Distribution is the split of a gross amount between seller net, royalty
// and collector shares.
type Distribution struct {
	Gross     uint64
	SellerNet uint64
	Royalty   Royalty
	Shares    []CollectorShare
}

// TotalFees returns the sum of all collector shares.
func (d Distribution) TotalFees() uint64 {
	var total uint64
	for _, s := range d.Shares {
		total += s.Amount
	}
	return total
}
