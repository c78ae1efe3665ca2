package marketplace

import (
	"context"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/chro-network/chro-marketplace/pkg/stats"
	log "github.com/sirupsen/logrus"
)

func (s *service) ListForSale(
	ctx context.Context, seller, collection string, assetID, price uint64,
) (*domain.Item, error) {
	item, err := domain.NewSaleItem(seller, collection, assetID, price, s.now())
	if err != nil {
		stats.RecordOperation("list_for_sale", err)
		return nil, err
	}
	return s.list(ctx, "list_for_sale", item)
}

func (s *service) ListForAuction(
	ctx context.Context, seller, collection string,
	assetID, startingPrice uint64, expiry int64,
) (*domain.Item, error) {
	item, err := domain.NewAuctionItem(
		seller, collection, assetID, startingPrice, expiry, s.now(),
	)
	if err != nil {
		stats.RecordOperation("list_for_auction", err)
		return nil, err
	}
	return s.list(ctx, "list_for_auction", item)
}

// list records the new item after charging the publication fee of its
// listing kind to the seller.
func (s *service) list(
	ctx context.Context, operation string, item *domain.Item,
) (*domain.Item, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, !readOnly, func(ctx context.Context) (interface{}, error) {
			if err := s.checkCollectionIsActive(ctx, item.Collection); err != nil {
				return nil, err
			}
			if err := s.checkCustody(
				ctx, item.Collection, item.AssetID, item.Seller,
			); err != nil {
				return nil, err
			}
			listed, err := s.repoManager.ItemRepository().GetActiveItemByAsset(
				ctx, item.Collection, item.AssetID,
			)
			if err != nil {
				return nil, err
			}
			if listed != nil {
				return nil, domain.ErrAlreadyListed
			}

			policy, err := s.repoManager.FeePolicyRepository().GetFeePolicy(
				ctx, s.feeScale,
			)
			if err != nil {
				return nil, err
			}
			fee := policy.PublicationFee(item.Kind)
			if err := s.checkFunds(ctx, item.Seller, fee); err != nil {
				return nil, err
			}
			item.PublicationFee = fee

			if _, err := s.repoManager.ItemRepository().AddItem(ctx, item); err != nil {
				return nil, err
			}

			plan := s.newPlan()
			plan.collect(item.Seller, fee)
			plan.payout("publication fee", policy.PublicationFeeWallet, fee)
			if _, err := s.settle(ctx, plan, item.ID); err != nil {
				return nil, err
			}
			return item, nil
		},
	)
	stats.RecordOperation(operation, err)
	if err != nil {
		return nil, err
	}

	listed := res.(*domain.Item)
	stats.RecordPublicationFee(listed.PublicationFee)
	log.Debugf(
		"item %d: asset %s/%d listed for %s by %s",
		listed.ID, listed.Collection, listed.AssetID, listed.Kind, listed.Seller,
	)

	if err := s.pubsub.PublishItemCreatedTopic(*listed); err != nil {
		log.WithError(err).Warnf(
			"pubsub: failed to publish topic for created item %d", listed.ID,
		)
	}

	return listed, nil
}

// CancelItem withdraws an active listing. The publication fee is not
// refunded.
func (s *service) CancelItem(
	ctx context.Context, itemID uint64, caller string,
) (*domain.Item, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, !readOnly, func(ctx context.Context) (interface{}, error) {
			item, err := s.repoManager.ItemRepository().GetItem(ctx, itemID)
			if err != nil {
				return nil, err
			}
			if err := item.Cancel(caller, s.now()); err != nil {
				return nil, err
			}
			if err := s.repoManager.ItemRepository().UpdateItem(
				ctx, item.ID, saveItem(item),
			); err != nil {
				return nil, err
			}
			return item, nil
		},
	)
	stats.RecordOperation("cancel_item", err)
	if err != nil {
		return nil, err
	}

	item := res.(*domain.Item)
	log.Debugf("item %d: cancelled by seller", item.ID)

	if err := s.pubsub.PublishItemCancelledTopic(*item); err != nil {
		log.WithError(err).Warnf(
			"pubsub: failed to publish topic for cancelled item %d", item.ID,
		)
	}

	return item, nil
}
