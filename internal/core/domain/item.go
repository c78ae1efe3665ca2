package domain

// ListingKind tells how an item is offered.
type ListingKind int

const (
	ListingKindDirectSale ListingKind = iota
	ListingKindAuction
)

func (k ListingKind) IsValid() bool {
	return k == ListingKindDirectSale || k == ListingKindAuction
}

func (k ListingKind) String() string {
	switch k {
	case ListingKindDirectSale:
		return "direct-sale"
	case ListingKindAuction:
		return "auction"
	default:
		return "unknown"
	}
}

// ListingKindFromString parses the value returned by ListingKind.String.
func ListingKindFromString(s string) (ListingKind, error) {
	switch s {
	case "direct-sale", "sale":
		return ListingKindDirectSale, nil
	case "auction":
		return ListingKindAuction, nil
	default:
		return 0, ErrInvalidListingKind
	}
}

// ItemStatus represents the different statuses that an item can assume.
// Every status but Active is terminal.
type ItemStatus int

const (
	ItemStatusActive ItemStatus = iota
	ItemStatusSold
	ItemStatusCancelled
	ItemStatusExpiredSettled
)

func (s ItemStatus) String() string {
	switch s {
	case ItemStatusActive:
		return "active"
	case ItemStatusSold:
		return "sold"
	case ItemStatusCancelled:
		return "cancelled"
	case ItemStatusExpiredSettled:
		return "expired-settled"
	default:
		return "unknown"
	}
}

// HighestBid references the current winning bid of an auction.
type HighestBid struct {
	Index  int
	Bidder string
	Amount uint64
}

// Item is the data structure representing a listing of one asset.
type Item struct {
	ID         uint64
	Seller     string
	Collection string
	AssetID    uint64
	Kind       ListingKind
	// Price is the fixed price of a direct sale or the starting price of an
	// auction.
	Price uint64
	// Expiry is the unix time after which an auction stops accepting bids.
	// It's zero for direct sales.
	Expiry         int64
	Status         ItemStatus
	PublicationFee uint64
	HighestBid     HighestBid
	BidCount       int
	Buyer          string
	SalePrice      uint64
	CreatedAt      int64
	ClosedAt       int64
}

// NewSaleItem returns an active direct-sale item. The id is assigned by the
// repository.
func NewSaleItem(
	seller, collection string, assetID, price uint64, now int64,
) (*Item, error) {
	if err := validateListing(seller, collection, price); err != nil {
		return nil, err
	}

	return &Item{
		Seller:     seller,
		Collection: collection,
		AssetID:    assetID,
		Kind:       ListingKindDirectSale,
		Price:      price,
		Status:     ItemStatusActive,
		CreatedAt:  now,
	}, nil
}

// NewAuctionItem returns an active auction item whose expiry must be
// strictly in the future.
func NewAuctionItem(
	seller, collection string, assetID, startingPrice uint64,
	expiry, now int64,
) (*Item, error) {
	if err := validateListing(seller, collection, startingPrice); err != nil {
		return nil, err
	}
	if expiry <= now {
		return nil, ErrInvalidExpiry
	}

	return &Item{
		Seller:     seller,
		Collection: collection,
		AssetID:    assetID,
		Kind:       ListingKindAuction,
		Price:      startingPrice,
		Expiry:     expiry,
		Status:     ItemStatusActive,
		CreatedAt:  now,
	}, nil
}

// IsActive returns whether the item is still open.
func (i *Item) IsActive() bool {
	return i.Status == ItemStatusActive
}

// IsAuction returns whether the item is listed for auction.
func (i *Item) IsAuction() bool {
	return i.Kind == ListingKindAuction
}

// IsDirectSale returns whether the item is listed for a fixed price.
func (i *Item) IsDirectSale() bool {
	return i.Kind == ListingKindDirectSale
}

// HasBids returns whether at least one bid was accepted for the item.
func (i *Item) HasBids() bool {
	return i.BidCount > 0
}

// IsExpired returns whether the auction reached its expiry at the given time.
func (i *Item) IsExpired(now int64) bool {
	return i.IsAuction() && now >= i.Expiry
}

// MinimumBid returns the amount a new bid must strictly exceed.
func (i *Item) MinimumBid() uint64 {
	if i.HasBids() {
		return i.HighestBid.Amount
	}
	return i.Price
}

// Buy brings an active direct-sale item to the Sold status.
func (i *Item) Buy(buyer string, now int64) error {
	if err := i.validateBuyer(buyer); err != nil {
		return err
	}
	if !i.IsDirectSale() {
		return ErrItemNotDirectSale
	}

	i.close(ItemStatusSold, now)
	i.Buyer = buyer
	i.SalePrice = i.Price
	return nil
}

// AcceptBid validates the given bid against the auction state and makes it
// the highest one. The previous highest bid, if any, is returned so that the
// caller can refund it.
func (i *Item) AcceptBid(bid Bid) (*HighestBid, error) {
	if err := i.validateBuyer(bid.Bidder); err != nil {
		return nil, err
	}
	if !i.IsAuction() {
		return nil, ErrItemNotAuction
	}
	if i.IsExpired(bid.Timestamp) {
		return nil, ErrAuctionExpired
	}
	if bid.Index != i.BidCount {
		return nil, ErrInvalidInput
	}
	if bid.Amount <= i.MinimumBid() {
		return nil, ErrBidTooLow
	}

	var previous *HighestBid
	if i.HasBids() {
		prev := i.HighestBid
		previous = &prev
	}

	i.HighestBid = HighestBid{
		Index:  bid.Index,
		Bidder: bid.Bidder,
		Amount: bid.Amount,
	}
	i.BidCount++
	return previous, nil
}

// Cancel lets the seller withdraw an active listing. Auctions can be
// cancelled only as long as nobody bid on them.
func (i *Item) Cancel(caller string, now int64) error {
	if !i.IsActive() {
		return ErrItemNotActive
	}
	if caller != i.Seller {
		return ErrNotSeller
	}
	if i.HasBids() {
		return ErrAuctionHasBids
	}

	i.close(ItemStatusCancelled, now)
	return nil
}

// SettleAuction closes an expired auction. Auctions without bids are
// cancelled, otherwise they're sold to the highest bidder. It returns false
// without error if the item is already closed, so that settlement can be
// safely retried.
func (i *Item) SettleAuction(now int64) (bool, error) {
	if !i.IsActive() {
		return false, nil
	}
	if !i.IsAuction() {
		return false, ErrItemNotAuction
	}
	if !i.IsExpired(now) {
		return false, ErrAuctionNotExpired
	}

	if !i.HasBids() {
		i.close(ItemStatusCancelled, now)
		return true, nil
	}

	i.close(ItemStatusSold, now)
	i.Buyer = i.HighestBid.Bidder
	i.SalePrice = i.HighestBid.Amount
	return true, nil
}

// ExpireUnsettleable closes an expired auction whose asset can no longer be
// delivered by the seller. The highest bid is expected to be refunded.
func (i *Item) ExpireUnsettleable(now int64) (bool, error) {
	if !i.IsActive() {
		return false, nil
	}
	if !i.IsAuction() {
		return false, ErrItemNotAuction
	}
	if !i.IsExpired(now) {
		return false, ErrAuctionNotExpired
	}

	i.close(ItemStatusExpiredSettled, now)
	return true, nil
}

func (i *Item) validateBuyer(buyer string) error {
	if len(buyer) <= 0 {
		return ErrInvalidIdentity
	}
	if !i.IsActive() {
		return ErrItemNotActive
	}
	if buyer == i.Seller {
		return ErrSelfPurchase
	}
	return nil
}

func (i *Item) close(status ItemStatus, now int64) {
	i.Status = status
	i.ClosedAt = now
}

func validateListing(seller, collection string, price uint64) error {
	if len(seller) <= 0 {
		return ErrInvalidIdentity
	}
	if len(collection) <= 0 {
		return ErrInvalidCollection
	}
	if price == 0 {
		return ErrInvalidPrice
	}
	return nil
}
