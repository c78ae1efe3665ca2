package operator

import (
	"context"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/chro-network/chro-marketplace/pkg/stats"
	log "github.com/sirupsen/logrus"
)

func (s *service) GetFeePolicy(ctx context.Context) (*domain.FeePolicy, error) {
	return s.repoManager.FeePolicyRepository().GetFeePolicy(ctx, s.feeScale)
}

func (s *service) GetFeeCollectors(ctx context.Context) ([]domain.FeeCollector, error) {
	policy, err := s.GetFeePolicy(ctx)
	if err != nil {
		return nil, err
	}
	return policy.Collectors, nil
}

func (s *service) AddFeeCollector(
	ctx context.Context, wallet string, percentage uint32,
) (*domain.FeePolicy, error) {
	return s.updateFeePolicy(
		ctx, "add_fee_collector", func(p *domain.FeePolicy) error {
			return p.AddFeeCollector(wallet, percentage)
		},
	)
}

func (s *service) RemoveFeeCollector(
	ctx context.Context, wallet string,
) (*domain.FeePolicy, error) {
	return s.updateFeePolicy(
		ctx, "remove_fee_collector", func(p *domain.FeePolicy) error {
			return p.RemoveFeeCollector(wallet)
		},
	)
}

func (s *service) SetPublicationFeeWallet(
	ctx context.Context, wallet string,
) (*domain.FeePolicy, error) {
	return s.updateFeePolicy(
		ctx, "set_publication_fee_wallet", func(p *domain.FeePolicy) error {
			return p.SetPublicationFeeWallet(wallet)
		},
	)
}

func (s *service) SetPublicationFee(
	ctx context.Context, kind domain.ListingKind, amount uint64,
) (*domain.FeePolicy, error) {
	return s.updateFeePolicy(
		ctx, "set_publication_fee", func(p *domain.FeePolicy) error {
			return p.SetPublicationFee(kind, amount)
		},
	)
}

func (s *service) updateFeePolicy(
	ctx context.Context, operation string, updateFn func(*domain.FeePolicy) error,
) (*domain.FeePolicy, error) {
	var updated *domain.FeePolicy
	err := s.repoManager.FeePolicyRepository().UpdateFeePolicy(
		ctx, s.feeScale, func(p *domain.FeePolicy) (*domain.FeePolicy, error) {
			if err := updateFn(p); err != nil {
				return nil, err
			}
			updated = p
			return p, nil
		},
	)
	stats.RecordOperation(operation, err)
	if err != nil {
		return nil, err
	}

	log.Debugf(
		"fee policy: %s (%d collectors, total %d/%d)", operation,
		len(updated.Collectors), updated.TotalPercentage(), updated.Scale,
	)

	if err := s.pubsub.PublishFeePolicyUpdatedTopic(*updated); err != nil {
		log.WithError(err).Warn("pubsub: failed to publish topic for fee policy")
	}

	return updated, nil
}
