package dbbadger

import (
	"context"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
)

const feePolicyKey = "fee_policy"

type feePolicyRepositoryImpl struct {
	db *DbManager
}

// NewFeePolicyRepositoryImpl returns a new badger FeePolicyRepository
// implementation.
func NewFeePolicyRepositoryImpl(db *DbManager) domain.FeePolicyRepository {
	return &feePolicyRepositoryImpl{db}
}

func (r *feePolicyRepositoryImpl) GetFeePolicy(
	ctx context.Context, defaultScale uint32,
) (*domain.FeePolicy, error) {
	var policy *domain.FeePolicy
	err := r.db.view(ctx, func(tx *badger.Txn) error {
		p, err := r.getFeePolicy(tx, defaultScale)
		policy = p
		return err
	})
	return policy, err
}

func (r *feePolicyRepositoryImpl) UpdateFeePolicy(
	ctx context.Context, defaultScale uint32,
	updateFn func(p *domain.FeePolicy) (*domain.FeePolicy, error),
) error {
	return r.db.update(ctx, func(tx *badger.Txn) error {
		current, err := r.getFeePolicy(tx, defaultScale)
		if err != nil {
			return err
		}

		updated, err := updateFn(current)
		if err != nil {
			return err
		}
		return r.db.store.TxUpsert(tx, feePolicyKey, updated)
	})
}

func (r *feePolicyRepositoryImpl) getFeePolicy(
	tx *badger.Txn, defaultScale uint32,
) (*domain.FeePolicy, error) {
	var policy domain.FeePolicy
	if err := r.db.store.TxGet(tx, feePolicyKey, &policy); err != nil {
		if err == badgerhold.ErrNotFound {
			return domain.NewFeePolicy(defaultScale)
		}
		return nil, err
	}
	if policy.Collectors == nil {
		policy.Collectors = make([]domain.FeeCollector, 0)
	}
	if policy.PublicationFees == nil {
		policy.PublicationFees = make(map[domain.ListingKind]uint64)
	}
	return &policy, nil
}
