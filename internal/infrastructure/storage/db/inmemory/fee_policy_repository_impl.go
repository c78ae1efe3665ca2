package inmemory

import (
	"context"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
)

type feePolicyRepositoryImpl struct {
	store *store
}

// NewFeePolicyRepositoryImpl returns a new inmemory FeePolicyRepository
// implementation.
func NewFeePolicyRepositoryImpl(store *store) domain.FeePolicyRepository {
	return &feePolicyRepositoryImpl{store}
}

func (r *feePolicyRepositoryImpl) GetFeePolicy(
	ctx context.Context, defaultScale uint32,
) (*domain.FeePolicy, error) {
	var policy *domain.FeePolicy
	err := r.store.read(ctx, func(d *storeData) error {
		if d.feePolicy == nil {
			p, err := domain.NewFeePolicy(defaultScale)
			if err != nil {
				return err
			}
			policy = p
			return nil
		}
		policy = copyFeePolicy(d.feePolicy)
		return nil
	})
	return policy, err
}

func (r *feePolicyRepositoryImpl) UpdateFeePolicy(
	ctx context.Context, defaultScale uint32,
	updateFn func(p *domain.FeePolicy) (*domain.FeePolicy, error),
) error {
	return r.store.write(ctx, func(d *storeData) error {
		current := copyFeePolicy(d.feePolicy)
		if current == nil {
			p, err := domain.NewFeePolicy(defaultScale)
			if err != nil {
				return err
			}
			current = p
		}

		updated, err := updateFn(current)
		if err != nil {
			return err
		}
		d.feePolicy = copyFeePolicy(updated)
		return nil
	})
}
