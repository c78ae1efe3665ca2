package domain

import "context"

// ItemRepository is the abstraction for any kind of database intended to
// persist Items. Items are never deleted.
type ItemRepository interface {
	// AddItem assigns the next sequential id to the item and stores it.
	AddItem(ctx context.Context, item *Item) (uint64, error)
	// GetItem returns the item with the given id.
	GetItem(ctx context.Context, id uint64) (*Item, error)
	// GetActiveItemByAsset returns the active item for the given asset, or
	// nil if the asset is not listed.
	GetActiveItemByAsset(
		ctx context.Context, collection string, assetID uint64,
	) (*Item, error)
	// GetItems returns the given page of items in id order.
	GetItems(ctx context.Context, page Page) ([]Item, error)
	// GetExpiredAuctions returns all active auctions whose expiry is at or
	// before the given time, in id order.
	GetExpiredAuctions(ctx context.Context, now int64) ([]Item, error)
	// UpdateItem allows to commit multiple changes to the same item in a
	// transactional way.
	UpdateItem(
		ctx context.Context, id uint64,
		updateFn func(i *Item) (*Item, error),
	) error
}

// BidRepository is the abstraction for any kind of database intended to
// persist Bids. Bids are immutable.
type BidRepository interface {
	// AddBid stores a new bid, failing if one exists with the same position.
	AddBid(ctx context.Context, bid Bid) error
	// GetBid returns the bid of the given item at the given position.
	GetBid(ctx context.Context, itemID uint64, index int) (*Bid, error)
	// GetBidsForItem returns all bids of an item in submission order.
	GetBidsForItem(ctx context.Context, itemID uint64) ([]Bid, error)
}

// SwapRepository is the abstraction for any kind of database intended to
// persist Swaps.
type SwapRepository interface {
	// AddSwap assigns the next sequential id to the swap and stores it.
	AddSwap(ctx context.Context, swap *Swap) (uint64, error)
	// GetSwap returns the swap with the given id.
	GetSwap(ctx context.Context, id uint64) (*Swap, error)
	// GetSwaps returns the given page of swaps in id order.
	GetSwaps(ctx context.Context, page Page) ([]Swap, error)
	// UpdateSwap allows to commit multiple changes to the same swap in a
	// transactional way.
	UpdateSwap(
		ctx context.Context, id uint64,
		updateFn func(s *Swap) (*Swap, error),
	) error
}

// CollectionRepository is the abstraction for any kind of database intended
// to persist Collections.
type CollectionRepository interface {
	// AddCollection stores a new collection, failing if already existing.
	AddCollection(ctx context.Context, collection *Collection) error
	// GetCollection returns the collection with the given address.
	GetCollection(ctx context.Context, address string) (*Collection, error)
	// GetAllCollections returns all collections sorted by creation.
	GetAllCollections(ctx context.Context) ([]Collection, error)
	// UpdateCollection allows to commit multiple changes to the same
	// collection in a transactional way.
	UpdateCollection(
		ctx context.Context, address string,
		updateFn func(c *Collection) (*Collection, error),
	) error
}

// FeePolicyRepository persists the marketplace fee policy, a singleton.
type FeePolicyRepository interface {
	// GetFeePolicy returns the current policy, or the default empty one with
	// the given scale if none was stored yet.
	GetFeePolicy(ctx context.Context, defaultScale uint32) (*FeePolicy, error)
	// UpdateFeePolicy allows to commit multiple changes to the policy in a
	// transactional way.
	UpdateFeePolicy(
		ctx context.Context, defaultScale uint32,
		updateFn func(p *FeePolicy) (*FeePolicy, error),
	) error
}

// PayoutRepository is the abstraction for any kind of database intended to
// persist the payouts that could not be paid at settlement time.
type PayoutRepository interface {
	// AddPayout assigns the next sequential id to the payout and stores it.
	AddPayout(ctx context.Context, payout *Payout) (uint64, error)
	// GetPayout returns the payout with the given id.
	GetPayout(ctx context.Context, id uint64) (*Payout, error)
	// GetPendingPayouts returns all payouts still owed, in id order.
	GetPendingPayouts(ctx context.Context) ([]Payout, error)
	// GetPayoutsForItem returns all payouts generated by the item, in id
	// order.
	GetPayoutsForItem(ctx context.Context, itemID uint64) ([]Payout, error)
	// UpdatePayout allows to commit multiple changes to the same payout in a
	// transactional way.
	UpdatePayout(
		ctx context.Context, id uint64,
		updateFn func(p *Payout) (*Payout, error),
	) error
}
