package dbbadger

import (
	"context"
	"fmt"
	"sort"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
)

type bidRepositoryImpl struct {
	db *DbManager
}

// NewBidRepositoryImpl returns a new badger BidRepository implementation.
func NewBidRepositoryImpl(db *DbManager) domain.BidRepository {
	return &bidRepositoryImpl{db}
}

func (r *bidRepositoryImpl) AddBid(ctx context.Context, bid domain.Bid) error {
	return r.db.update(ctx, func(tx *badger.Txn) error {
		if err := r.db.store.TxInsert(tx, bid.Key(), &bid); err != nil {
			if err == badgerhold.ErrKeyExists {
				return fmt.Errorf(
					"bid index %d already taken for item %d", bid.Index, bid.ItemID,
				)
			}
			return err
		}
		return nil
	})
}

func (r *bidRepositoryImpl) GetBid(
	ctx context.Context, itemID uint64, index int,
) (*domain.Bid, error) {
	var bid domain.Bid
	err := r.db.view(ctx, func(tx *badger.Txn) error {
		return r.db.store.TxGet(tx, domain.BidKey(itemID, index), &bid)
	})
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrBidNotFound
		}
		return nil, err
	}
	return &bid, nil
}

func (r *bidRepositoryImpl) GetBidsForItem(
	ctx context.Context, itemID uint64,
) ([]domain.Bid, error) {
	query := badgerhold.Where("ItemID").Eq(itemID)

	var bids []domain.Bid
	err := r.db.view(ctx, func(tx *badger.Txn) error {
		return r.db.store.TxFind(tx, &bids, query)
	})
	if err != nil {
		return nil, err
	}
	if bids == nil {
		bids = make([]domain.Bid, 0)
	}
	sort.SliceStable(bids, func(i, j int) bool {
		return bids[i].Index < bids[j].Index
	})
	return bids, nil
}
