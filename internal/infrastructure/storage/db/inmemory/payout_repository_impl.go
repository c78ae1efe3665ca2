package inmemory

import (
	"context"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
)

type payoutRepositoryImpl struct {
	store *store
}

// NewPayoutRepositoryImpl returns a new inmemory PayoutRepository
// implementation.
func NewPayoutRepositoryImpl(store *store) domain.PayoutRepository {
	return &payoutRepositoryImpl{store}
}

func (r *payoutRepositoryImpl) AddPayout(
	ctx context.Context, payout *domain.Payout,
) (uint64, error) {
	var id uint64
	err := r.store.write(ctx, func(d *storeData) error {
		d.payoutSeq++
		id = d.payoutSeq
		p := *payout
		p.ID = id
		d.payouts[id] = p
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
	err := r.store.read(ctx, func(d *storeData) error {
		p, ok := d.payouts[id]
		if !ok {
			return domain.ErrPayoutNotFound
		}
		payout = &p
		return nil
	})
	return payout, err
}

func (r *payoutRepositoryImpl) GetPendingPayouts(
	ctx context.Context,
) ([]domain.Payout, error) {
	return r.find(ctx, func(p domain.Payout) bool {
		return p.IsPending()
	})
}

func (r *payoutRepositoryImpl) GetPayoutsForItem(
	ctx context.Context, itemID uint64,
) ([]domain.Payout, error) {
	return r.find(ctx, func(p domain.Payout) bool {
		return p.ItemID == itemID
	})
}

func (r *payoutRepositoryImpl) UpdatePayout(
	ctx context.Context, id uint64,
	updateFn func(p *domain.Payout) (*domain.Payout, error),
) error {
	return r.store.write(ctx, func(d *storeData) error {
		current, ok := d.payouts[id]
		if !ok {
			return domain.ErrPayoutNotFound
		}

		updated, err := updateFn(&current)
		if err != nil {
			return err
		}
		updated.ID = id
		d.payouts[id] = *updated
		return nil
	})
}

func (r *payoutRepositoryImpl) find(
	ctx context.Context, match func(p domain.Payout) bool,
) ([]domain.Payout, error) {
	payouts := make([]domain.Payout, 0)
	err := r.store.read(ctx, func(d *storeData) error {
		for id := uint64(1); id <= d.payoutSeq; id++ {
			if p, ok := d.payouts[id]; ok && match(p) {
				payouts = append(payouts, p)
			}
		}
		return nil
	})
	return payouts, err
}
