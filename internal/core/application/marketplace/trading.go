package marketplace

import (
	"context"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/chro-network/chro-marketplace/pkg/stats"
	log "github.com/sirupsen/logrus"
)

type sale struct {
	item         *domain.Item
	distribution domain.Distribution
	owed         []domain.Payout
}

// Buy settles a direct sale: the price is collected from the buyer, the
// asset moves to the buyer and the proceeds are distributed.
func (s *service) Buy(
	ctx context.Context, itemID uint64, buyer string,
) (*domain.Item, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, !readOnly, func(ctx context.Context) (interface{}, error) {
			item, err := s.repoManager.ItemRepository().GetItem(ctx, itemID)
			if err != nil {
				return nil, err
			}
			if err := item.Buy(buyer, s.now()); err != nil {
				return nil, err
			}
			if err := s.checkCustody(
				ctx, item.Collection, item.AssetID, item.Seller,
			); err != nil {
				return nil, err
			}
			if err := s.checkFunds(ctx, buyer, item.SalePrice); err != nil {
				return nil, err
			}
			distribution, err := s.distributionFor(ctx, *item, item.SalePrice)
			if err != nil {
				return nil, err
			}

			if err := s.repoManager.ItemRepository().UpdateItem(
				ctx, item.ID, saveItem(item),
			); err != nil {
				return nil, err
			}

			plan := s.newPlan()
			plan.collect(buyer, item.SalePrice)
			plan.moveAsset(item.Collection, item.AssetID, item.Seller, buyer)
			plan.distribute(*distribution, item.Seller)
			owed, err := s.settle(ctx, plan, item.ID)
			if err != nil {
				return nil, err
			}
			return &sale{item, *distribution, owed}, nil
		},
	)
	stats.RecordOperation("buy", err)
	if err != nil {
		return nil, err
	}

	sold := res.(*sale)
	s.onSale(*sold)
	return sold.item, nil
}

// PlaceBid escrows the amount of a new highest bid and refunds the previous
// one, if any.
func (s *service) PlaceBid(
	ctx context.Context, itemID uint64, bidder string, amount uint64,
) (*domain.Bid, error) {
	type placedBid struct {
		item     *domain.Item
		bid      *domain.Bid
		refunded *domain.HighestBid
		owed     []domain.Payout
	}

	res, err := s.repoManager.RunTransaction(
		ctx, !readOnly, func(ctx context.Context) (interface{}, error) {
			item, err := s.repoManager.ItemRepository().GetItem(ctx, itemID)
			if err != nil {
				return nil, err
			}
			bid, err := domain.NewBid(*item, bidder, amount, s.now())
			if err != nil {
				return nil, err
			}
			previous, err := item.AcceptBid(*bid)
			if err != nil {
				return nil, err
			}
			if err := s.checkFunds(ctx, bidder, amount); err != nil {
				return nil, err
			}

			if err := s.repoManager.BidRepository().AddBid(ctx, *bid); err != nil {
				return nil, err
			}
			if err := s.repoManager.ItemRepository().UpdateItem(
				ctx, item.ID, saveItem(item),
			); err != nil {
				return nil, err
			}

			plan := s.newPlan()
			plan.collect(bidder, amount)
			if previous != nil {
				plan.payout("refund", previous.Bidder, previous.Amount)
			}
			owed, err := s.settle(ctx, plan, item.ID)
			if err != nil {
				return nil, err
			}
			return &placedBid{item, bid, previous, owed}, nil
		},
	)
	stats.RecordOperation("place_bid", err)
	if err != nil {
		return nil, err
	}

	placed := res.(*placedBid)
	log.Debugf(
		"item %d: bid #%d of %d placed by %s",
		placed.item.ID, placed.bid.Index, placed.bid.Amount, placed.bid.Bidder,
	)
	if placed.refunded != nil {
		if len(placed.owed) > 0 {
			log.Warnf(
				"item %d: refund of %d to outbid %s is owed, payout %d",
				placed.item.ID, placed.refunded.Amount, placed.refunded.Bidder,
				placed.owed[0].ID,
			)
		} else {
			log.Debugf(
				"item %d: refunded %d to outbid %s",
				placed.item.ID, placed.refunded.Amount, placed.refunded.Bidder,
			)
		}
	}

	if err := s.pubsub.PublishBidPlacedTopic(
		*placed.item, *placed.bid, placed.refunded,
	); err != nil {
		log.WithError(err).Warnf(
			"pubsub: failed to publish topic for bid on item %d", placed.item.ID,
		)
	}

	return placed.bid, nil
}

func (s *service) onSale(sold sale) {
	item := *sold.item
	stats.RecordSale(item.Kind.String(), sold.distribution.Gross, sold.distribution.TotalFees())
	log.Debugf(
		"item %d: sold to %s for %d, seller %s nets %d",
		item.ID, item.Buyer, item.SalePrice, item.Seller, sold.distribution.SellerNet,
	)
	for _, p := range sold.owed {
		log.Warnf(
			"item %d: %s payout of %d to %s is owed, payout %d",
			item.ID, p.Reason, p.Amount, p.Wallet, p.ID,
		)
	}

	if err := s.pubsub.PublishItemSoldTopic(item, sold.distribution); err != nil {
		log.WithError(err).Warnf(
			"pubsub: failed to publish topic for sold item %d", item.ID,
		)
	}
}
