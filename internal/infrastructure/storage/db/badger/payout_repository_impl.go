package dbbadger

import (
	"context"
	"sort"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
)

const payoutSequence = "payout"

type payoutRepositoryImpl struct {
	db *DbManager
}

// NewPayoutRepositoryImpl returns a new badger PayoutRepository
// implementation.
func NewPayoutRepositoryImpl(db *DbManager) domain.PayoutRepository {
	return &payoutRepositoryImpl{db}
}

func (r *payoutRepositoryImpl) AddPayout(
	ctx context.Context, payout *domain.Payout,
) (uint64, error) {
	var id uint64
	err := r.db.update(ctx, func(tx *badger.Txn) error {
		nextID, err := r.db.nextID(tx, payoutSequence)
		if err != nil {
			return err
		}
		p := *payout
		p.ID = nextID
		if err := r.db.store.TxInsert(tx, nextID, &p); err != nil {
			return err
		}
		id = nextID
		return nil
	})
	if err != nil {
		return 0, err
	}
	payout.ID = id
	return id, nil
}

func (r *payoutRepositoryImpl) GetPayout(
	ctx context.Context, id uint64,
) (*domain.Payout, error) {
	var payout *domain.Payout
	err := r.db.view(ctx, func(tx *badger.Txn) error {
		p, err := r.getPayout(tx, id)
		payout = p
		return err
	})
	return payout, err
}

func (r *payoutRepositoryImpl) GetPendingPayouts(
	ctx context.Context,
) ([]domain.Payout, error) {
	return r.find(ctx, badgerhold.Where("Status").Eq(domain.PayoutStatusPending))
}

func (r *payoutRepositoryImpl) GetPayoutsForItem(
	ctx context.Context, itemID uint64,
) ([]domain.Payout, error) {
	return r.find(ctx, badgerhold.Where("ItemID").Eq(itemID))
}

func (r *payoutRepositoryImpl) UpdatePayout(
	ctx context.Context, id uint64,
	updateFn func(p *domain.Payout) (*domain.Payout, error),
) error {
	return r.db.update(ctx, func(tx *badger.Txn) error {
		current, err := r.getPayout(tx, id)
		if err != nil {
			return err
		}

		updated, err := updateFn(current)
		if err != nil {
			return err
		}
		updated.ID = id
		return r.db.store.TxUpdate(tx, id, updated)
	})
}

func (r *payoutRepositoryImpl) find(
	ctx context.Context, query *badgerhold.Query,
) ([]domain.Payout, error) {
	var payouts []domain.Payout
	err := r.db.view(ctx, func(tx *badger.Txn) error {
		return r.db.store.TxFind(tx, &payouts, query)
	})
	if err != nil {
		return nil, err
	}
	if payouts == nil {
		payouts = make([]domain.Payout, 0)
	}
	sort.SliceStable(payouts, func(i, j int) bool {
		return payouts[i].ID < payouts[j].ID
	})
	return payouts, nil
}

func (r *payoutRepositoryImpl) getPayout(
	tx *badger.Txn, id uint64,
) (*domain.Payout, error) {
	var payout domain.Payout
	if err := r.db.store.TxGet(tx, id, &payout); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrPayoutNotFound
		}
		return nil, err
	}
	return &payout, nil
}
