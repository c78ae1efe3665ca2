package inmemory

import (
	"context"
	"fmt"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
)

type bidRepositoryImpl struct {
	store *store
}

// NewBidRepositoryImpl returns a new inmemory BidRepository implementation.
func NewBidRepositoryImpl(store *store) domain.BidRepository {
	return &bidRepositoryImpl{store}
}

func (r *bidRepositoryImpl) AddBid(ctx context.Context, bid domain.Bid) error {
	return r.store.write(ctx, func(d *storeData) error {
		bids := d.bids[bid.ItemID]
		if bid.Index != len(bids) {
			return fmt.Errorf(
				"bid index %d out of sequence for item %d", bid.Index, bid.ItemID,
			)
		}
		d.bids[bid.ItemID] = append(bids, bid)
		return nil
	})
}

func (r *bidRepositoryImpl) GetBid(
	ctx context.Context, itemID uint64, index int,
) (*domain.Bid, error) {
	var bid *domain.Bid
	err := r.store.read(ctx, func(d *storeData) error {
		bids := d.bids[itemID]
		if index < 0 || index >= len(bids) {
			return domain.ErrBidNotFound
		}
		b := bids[index]
		bid = &b
		return nil
	})
	return bid, err
}

func (r *bidRepositoryImpl) GetBidsForItem(
	ctx context.Context, itemID uint64,
) ([]domain.Bid, error) {
	bids := make([]domain.Bid, 0)
	err := r.store.read(ctx, func(d *storeData) error {
		bids = append(bids, d.bids[itemID]...)
		return nil
	})
	return bids, err
}
