package marketplace

import (
	"context"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/chro-network/chro-marketplace/pkg/stats"
	log "github.com/sirupsen/logrus"
)

// RequestSwap records an offer of the initiator's asset in exchange for the
// requested one. The counterparty is the current holder of the requested
// asset.
func (s *service) RequestSwap(
	ctx context.Context, initiator string,
	offeredCollection string, offeredAssetID uint64,
	requestedCollection string, requestedAssetID uint64,
) (*domain.Swap, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, !readOnly, func(ctx context.Context) (interface{}, error) {
			if len(initiator) <= 0 {
				return nil, domain.ErrInvalidIdentity
			}
			for _, c := range []string{offeredCollection, requestedCollection} {
				if err := s.checkCollectionIsActive(ctx, c); err != nil {
					return nil, err
				}
			}
			if err := s.checkCustody(
				ctx, offeredCollection, offeredAssetID, initiator,
			); err != nil {
				return nil, err
			}
			counterparty, err := s.assets.OwnerOf(
				ctx, requestedCollection, requestedAssetID,
			)
			if err != nil {
				return nil, err
			}

			swap, err := domain.NewSwap(
				domain.SwapAsset{
					Collection: offeredCollection,
					AssetID:    offeredAssetID,
					Holder:     initiator,
				},
				domain.SwapAsset{
					Collection: requestedCollection,
					AssetID:    requestedAssetID,
					Holder:     counterparty,
				},
				s.now(),
			)
			if err != nil {
				return nil, err
			}
			if _, err := s.repoManager.SwapRepository().AddSwap(ctx, swap); err != nil {
				return nil, err
			}
			return swap, nil
		},
	)
	stats.RecordOperation("request_swap", err)
	if err != nil {
		return nil, err
	}

	swap := res.(*domain.Swap)
	log.Debugf(
		"swap %d: %s offers %s/%d to %s for %s/%d",
		swap.ID, swap.Initiator(), swap.Offered.Collection, swap.Offered.AssetID,
		swap.Counterparty(), swap.Requested.Collection, swap.Requested.AssetID,
	)

	if err := s.pubsub.PublishSwapCreatedTopic(*swap); err != nil {
		log.WithError(err).Warnf(
			"pubsub: failed to publish topic for created swap %d", swap.ID,
		)
	}

	return swap, nil
}

// ApproveSwap exchanges both assets of a pending swap. Both holders must
// still hold the assets declared when the offer was created.
func (s *service) ApproveSwap(
	ctx context.Context, swapID uint64, approver string,
) (*domain.Swap, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, !readOnly, func(ctx context.Context) (interface{}, error) {
			swap, err := s.repoManager.SwapRepository().GetSwap(ctx, swapID)
			if err != nil {
				return nil, err
			}
			if err := swap.Approve(approver, s.now()); err != nil {
				return nil, err
			}
			for _, side := range []domain.SwapAsset{swap.Offered, swap.Requested} {
				if err := s.checkSwapCustody(ctx, side); err != nil {
					return nil, err
				}
			}

			if err := s.repoManager.SwapRepository().UpdateSwap(
				ctx, swap.ID, saveSwap(swap),
			); err != nil {
				return nil, err
			}

			first, second, err := s.swapOrder(ctx, *swap)
			if err != nil {
				return nil, err
			}
			plan := s.newPlan()
			plan.moveAsset(first.Collection, first.AssetID, first.Holder, second.Holder)
			plan.moveAsset(second.Collection, second.AssetID, second.Holder, first.Holder)
			if _, err := plan.execute(ctx); err != nil {
				return nil, err
			}
			return swap, nil
		},
	)
	stats.RecordOperation("approve_swap", err)
	if err != nil {
		return nil, err
	}

	swap := res.(*domain.Swap)
	log.Debugf("swap %d: approved by %s", swap.ID, approver)

	if err := s.pubsub.PublishSwapApprovedTopic(*swap); err != nil {
		log.WithError(err).Warnf(
			"pubsub: failed to publish topic for approved swap %d", swap.ID,
		)
	}

	return swap, nil
}

// CancelSwap lets the initiator withdraw, or the counterparty reject, a
// pending swap.
func (s *service) CancelSwap(
	ctx context.Context, swapID uint64, caller string,
) (*domain.Swap, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, !readOnly, func(ctx context.Context) (interface{}, error) {
			swap, err := s.repoManager.SwapRepository().GetSwap(ctx, swapID)
			if err != nil {
				return nil, err
			}
			if err := swap.Cancel(caller, s.now()); err != nil {
				return nil, err
			}
			if err := s.repoManager.SwapRepository().UpdateSwap(
				ctx, swap.ID, saveSwap(swap),
			); err != nil {
				return nil, err
			}
			return swap, nil
		},
	)
	stats.RecordOperation("cancel_swap", err)
	if err != nil {
		return nil, err
	}

	swap := res.(*domain.Swap)
	log.Debugf("swap %d: cancelled by %s", swap.ID, caller)

	if err := s.pubsub.PublishSwapCancelledTopic(*swap, caller); err != nil {
		log.WithError(err).Warnf(
			"pubsub: failed to publish topic for cancelled swap %d", swap.ID,
		)
	}

	return swap, nil
}

// checkSwapCustody verifies that the declared holder still holds the asset
// and lets the marketplace move it.
func (s *service) checkSwapCustody(ctx context.Context, side domain.SwapAsset) error {
	owner, err := s.assets.OwnerOf(ctx, side.Collection, side.AssetID)
	if err != nil {
		if isNotFound(err) {
			return domain.ErrAssetMoved
		}
		return err
	}
	if owner != side.Holder {
		return domain.ErrAssetMoved
	}
	approved, err := s.assets.IsApproved(ctx, side.Collection, side.Holder)
	if err != nil {
		return err
	}
	if !approved {
		return domain.ErrAssetNotApproved
	}
	return nil
}

// swapOrder returns the sides of the swap in the order their assets move.
// If the second move fails, the first one is undone on behalf of the holder
// that received it, so the side whose receiver approved the marketplace
// for its collection goes first.
func (s *service) swapOrder(
	ctx context.Context, swap domain.Swap,
) (domain.SwapAsset, domain.SwapAsset, error) {
	approved, err := s.assets.IsApproved(
		ctx, swap.Offered.Collection, swap.Counterparty(),
	)
	if err != nil {
		return domain.SwapAsset{}, domain.SwapAsset{}, err
	}
	if approved {
		return swap.Offered, swap.Requested, nil
	}

	approved, err = s.assets.IsApproved(
		ctx, swap.Requested.Collection, swap.Initiator(),
	)
	if err != nil {
		return domain.SwapAsset{}, domain.SwapAsset{}, err
	}
	if approved {
		return swap.Requested, swap.Offered, nil
	}
	return swap.Offered, swap.Requested, nil
}
