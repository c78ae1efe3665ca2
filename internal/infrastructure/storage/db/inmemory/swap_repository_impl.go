package inmemory

import (
	"context"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
)

type swapRepositoryImpl struct {
	store *store
}

// NewSwapRepositoryImpl returns a new inmemory SwapRepository implementation.
func NewSwapRepositoryImpl(store *store) domain.SwapRepository {
	return &swapRepositoryImpl{store}
}

func (r *swapRepositoryImpl) AddSwap(
	ctx context.Context, swap *domain.Swap,
) (uint64, error) {
	var id uint64
	err := r.store.write(ctx, func(d *storeData) error {
		d.swapSeq++
		id = d.swapSeq
		s := *swap
		s.ID = id
		d.swaps[id] = s
		return nil
	})
	if err != nil {
		return 0, err
	}
	swap.ID = id
	return id, nil
}

func (r *swapRepositoryImpl) GetSwap(
	ctx context.Context, id uint64,
) (*domain.Swap, error) {
	var swap *domain.Swap
	err := r.store.read(ctx, func(d *storeData) error {
		s, ok := d.swaps[id]
		if !ok {
			return domain.ErrSwapNotFound
		}
		swap = &s
		return nil
	})
	return swap, err
}

func (r *swapRepositoryImpl) GetSwaps(
	ctx context.Context, page domain.Page,
) ([]domain.Swap, error) {
	swaps := make([]domain.Swap, 0)
	err := r.store.read(ctx, func(d *storeData) error {
		from := uint64(page.Offset) + 1
		to := from + uint64(page.Limit)
		for id := from; id < to && id <= d.swapSeq; id++ {
			if s, ok := d.swaps[id]; ok {
				swaps = append(swaps, s)
			}
		}
		return nil
	})
	return swaps, err
}

func (r *swapRepositoryImpl) UpdateSwap(
	ctx context.Context, id uint64,
	updateFn func(s *domain.Swap) (*domain.Swap, error),
) error {
	return r.store.write(ctx, func(d *storeData) error {
		current, ok := d.swaps[id]
		if !ok {
			return domain.ErrSwapNotFound
		}

		updated, err := updateFn(&current)
		if err != nil {
			return err
		}
		updated.ID = id
		d.swaps[id] = *updated
		return nil
	})
}
