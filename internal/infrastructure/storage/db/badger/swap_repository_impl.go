package dbbadger

import (
	"context"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
)

const swapSequence = "swap"

type swapRepositoryImpl struct {
	db *DbManager
}

// NewSwapRepositoryImpl returns a new badger SwapRepository implementation.
func NewSwapRepositoryImpl(db *DbManager) domain.SwapRepository {
	return &swapRepositoryImpl{db}
}

func (r *swapRepositoryImpl) AddSwap(
	ctx context.Context, swap *domain.Swap,
) (uint64, error) {
	var id uint64
	err := r.db.update(ctx, func(tx *badger.Txn) error {
		nextID, err := r.db.nextID(tx, swapSequence)
		if err != nil {
			return err
		}
		s := *swap
		s.ID = nextID
		if err := r.db.store.TxInsert(tx, nextID, &s); err != nil {
			return err
		}
		id = nextID
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
	err := r.db.view(ctx, func(tx *badger.Txn) error {
		s, err := r.getSwap(tx, id)
		swap = s
		return err
	})
	return swap, err
}

func (r *swapRepositoryImpl) GetSwaps(
	ctx context.Context, page domain.Page,
) ([]domain.Swap, error) {
	swaps := make([]domain.Swap, 0, page.Limit)
	err := r.db.view(ctx, func(tx *badger.Txn) error {
		last, err := r.db.lastID(tx, swapSequence)
		if err != nil {
			return err
		}
		from := uint64(page.Offset) + 1
		to := from + uint64(page.Limit)
		for id := from; id < to && id <= last; id++ {
			swap, err := r.getSwap(tx, id)
			if err != nil {
				return err
			}
			swaps = append(swaps, *swap)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return swaps, nil
}

func (r *swapRepositoryImpl) UpdateSwap(
	ctx context.Context, id uint64,
	updateFn func(s *domain.Swap) (*domain.Swap, error),
) error {
	return r.db.update(ctx, func(tx *badger.Txn) error {
		current, err := r.getSwap(tx, id)
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

func (r *swapRepositoryImpl) getSwap(
	tx *badger.Txn, id uint64,
) (*domain.Swap, error) {
	var swap domain.Swap
	if err := r.db.store.TxGet(tx, id, &swap); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrSwapNotFound
		}
		return nil, err
	}
	return &swap, nil
}
