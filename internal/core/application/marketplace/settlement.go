package marketplace

import (
	"context"
	"time"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/chro-network/chro-marketplace/pkg/stats"
	log "github.com/sirupsen/logrus"
)

type settlementOutcome int

const (
	// outcomeNone means the item was already closed.
	outcomeNone settlementOutcome = iota
	outcomeSold
	outcomeCancelled
	outcomeExpired
)

type settlement struct {
	item         *domain.Item
	outcome      settlementOutcome
	distribution domain.Distribution
	owed         []domain.Payout
}

// SkippedItem is an expired auction the settlement job could not settle.
type SkippedItem struct {
	ItemID uint64
	Reason string
}

// JobReport summarizes a run of the settlement job.
type JobReport struct {
	// Settled are the auctions sold to their highest bidder.
	Settled []uint64
	// Cancelled are the auctions closed without bids.
	Cancelled []uint64
	// Expired are the auctions whose asset could not be delivered anymore,
	// the highest bid has been refunded.
	Expired []uint64
	Skipped []SkippedItem
	// PaidPayouts are the owed payouts paid by this run, UnpaidPayouts the
	// ones the token ledger refused again.
	PaidPayouts   []uint64
	UnpaidPayouts []uint64
}

// SettleAuction closes an expired auction. Settling an already closed item
// is a no-op that returns the item as is.
func (s *service) SettleAuction(
	ctx context.Context, itemID uint64,
) (*domain.Item, error) {
	res, err := s.settleAuction(ctx, itemID, s.now())
	if err != nil {
		return nil, err
	}
	return res.item, nil
}

// ExecuteJob retries the owed payouts and then settles every active auction
// expired at the time of the call, both in id order. Each settlement is
// atomic on its own: an item that cannot be settled is skipped and
// reported, the others are not affected.
func (s *service) ExecuteJob(ctx context.Context) (*JobReport, error) {
	started := time.Now()
	now := s.now()

	report := &JobReport{
		Settled:       make([]uint64, 0),
		Cancelled:     make([]uint64, 0),
		Expired:       make([]uint64, 0),
		Skipped:       make([]SkippedItem, 0),
		PaidPayouts:   make([]uint64, 0),
		UnpaidPayouts: make([]uint64, 0),
	}
	if err := s.retryPayouts(ctx, report); err != nil {
		return nil, err
	}

	expired, err := s.repoManager.ItemRepository().GetExpiredAuctions(ctx, now)
	if err != nil {
		return nil, err
	}

	for _, item := range expired {
		res, err := s.settleAuction(ctx, item.ID, now)
		if err != nil {
			log.WithError(err).Warnf("job: skipping settlement of item %d", item.ID)
			report.Skipped = append(report.Skipped, SkippedItem{item.ID, err.Error()})
			continue
		}

		switch res.outcome {
		case outcomeSold:
			report.Settled = append(report.Settled, item.ID)
		case outcomeCancelled:
			report.Cancelled = append(report.Cancelled, item.ID)
		case outcomeExpired:
			report.Expired = append(report.Expired, item.ID)
		}
	}

	stats.RecordJob(
		started, len(report.Settled), len(report.Cancelled), len(report.Expired),
		len(report.Skipped),
	)
	log.Infof(
		"job: %d expired auctions processed, %d sold, %d cancelled, %d refunded, "+
			"%d skipped, %d owed payouts paid, %d still owed",
		len(expired), len(report.Settled), len(report.Cancelled),
		len(report.Expired), len(report.Skipped), len(report.PaidPayouts),
		len(report.UnpaidPayouts),
	)
	return report, nil
}

func (s *service) retryPayouts(ctx context.Context, report *JobReport) error {
	pending, err := s.repoManager.PayoutRepository().GetPendingPayouts(ctx)
	if err != nil {
		return err
	}

	for _, p := range pending {
		paid, err := s.retryPayout(ctx, p.ID)
		if err != nil {
			log.WithError(err).Warnf("job: payout %d is still owed", p.ID)
			report.UnpaidPayouts = append(report.UnpaidPayouts, p.ID)
			continue
		}
		if paid {
			log.Debugf("job: paid owed payout %d of %d to %s", p.ID, p.Amount, p.Wallet)
			report.PaidPayouts = append(report.PaidPayouts, p.ID)
		}
	}
	return nil
}

// retryPayout pays an owed payout out of escrow. A refused transfer is
// recorded on the payout and returned.
func (s *service) retryPayout(ctx context.Context, payoutID uint64) (bool, error) {
	var transferErr error
	res, err := s.repoManager.RunTransaction(
		ctx, !readOnly, func(ctx context.Context) (interface{}, error) {
			payout, err := s.repoManager.PayoutRepository().GetPayout(ctx, payoutID)
			if err != nil {
				return nil, err
			}
			if !payout.IsPending() {
				return false, nil
			}

			view := newLedgerView(s.assets, s.tokens)
			transferErr = view.move(
				ctx, s.tokens.EscrowAccount(), payout.Wallet, payout.Amount,
			)
			if transferErr == nil {
				transferErr = s.tokens.Transfer(ctx, payout.Wallet, payout.Amount)
			}
			if transferErr != nil {
				if err := payout.Fail(transferErr.Error()); err != nil {
					return nil, err
				}
			} else if _, err := payout.Pay(s.now()); err != nil {
				return nil, err
			}

			if err := s.repoManager.PayoutRepository().UpdatePayout(
				ctx, payout.ID, savePayout(payout),
			); err != nil {
				return nil, err
			}
			return transferErr == nil, nil
		},
	)
	if err != nil {
		return false, err
	}
	if transferErr != nil {
		return false, transferErr
	}
	return res.(bool), nil
}

func (s *service) settleAuction(
	ctx context.Context, itemID uint64, now int64,
) (*settlement, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, !readOnly, func(ctx context.Context) (interface{}, error) {
			item, err := s.repoManager.ItemRepository().GetItem(ctx, itemID)
			if err != nil {
				return nil, err
			}
			if !item.IsActive() {
				return &settlement{item: item, outcome: outcomeNone}, nil
			}
			if !item.IsAuction() {
				return nil, domain.ErrItemNotAuction
			}
			if !item.IsExpired(now) {
				return nil, domain.ErrAuctionNotExpired
			}

			if !item.HasBids() {
				return s.closeAuction(ctx, item, now)
			}

			deliverable, err := s.isDeliverable(ctx, *item)
			if err != nil {
				return nil, err
			}
			if !deliverable {
				return s.refundAuction(ctx, item, now)
			}
			return s.sellAuction(ctx, item, now)
		},
	)
	stats.RecordOperation("settle_auction", err)
	if err != nil {
		return nil, err
	}

	settled := res.(*settlement)
	s.onSettlement(*settled)
	return settled, nil
}

// closeAuction cancels an expired auction without bids. Nothing moves.
func (s *service) closeAuction(
	ctx context.Context, item *domain.Item, now int64,
) (*settlement, error) {
	if _, err := item.SettleAuction(now); err != nil {
		return nil, err
	}
	if err := s.repoManager.ItemRepository().UpdateItem(
		ctx, item.ID, saveItem(item),
	); err != nil {
		return nil, err
	}
	return &settlement{item: item, outcome: outcomeCancelled}, nil
}

// refundAuction closes an expired auction whose seller can't deliver the
// asset anymore and gives the escrowed highest bid back to the bidder.
func (s *service) refundAuction(
	ctx context.Context, item *domain.Item, now int64,
) (*settlement, error) {
	if _, err := item.ExpireUnsettleable(now); err != nil {
		return nil, err
	}
	if err := s.repoManager.ItemRepository().UpdateItem(
		ctx, item.ID, saveItem(item),
	); err != nil {
		return nil, err
	}

	plan := s.newPlan()
	plan.payout("refund", item.HighestBid.Bidder, item.HighestBid.Amount)
	owed, err := s.settle(ctx, plan, item.ID)
	if err != nil {
		return nil, err
	}
	return &settlement{item: item, outcome: outcomeExpired, owed: owed}, nil
}

// sellAuction delivers the asset to the highest bidder and distributes the
// escrowed bid.
func (s *service) sellAuction(
	ctx context.Context, item *domain.Item, now int64,
) (*settlement, error) {
	if _, err := item.SettleAuction(now); err != nil {
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
	plan.moveAsset(item.Collection, item.AssetID, item.Seller, item.Buyer)
	plan.distribute(*distribution, item.Seller)
	owed, err := s.settle(ctx, plan, item.ID)
	if err != nil {
		return nil, err
	}
	return &settlement{item, outcomeSold, *distribution, owed}, nil
}

// isDeliverable returns whether the seller still holds the asset and lets
// the marketplace move it.
func (s *service) isDeliverable(ctx context.Context, item domain.Item) (bool, error) {
	owner, err := s.assets.OwnerOf(ctx, item.Collection, item.AssetID)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	if owner != item.Seller {
		return false, nil
	}
	return s.assets.IsApproved(ctx, item.Collection, item.Seller)
}

func (s *service) onSettlement(settled settlement) {
	item := *settled.item

	switch settled.outcome {
	case outcomeSold:
		s.onSale(sale{settled.item, settled.distribution, settled.owed})
	case outcomeCancelled:
		log.Debugf("item %d: auction expired without bids", item.ID)
		if err := s.pubsub.PublishItemCancelledTopic(item); err != nil {
			log.WithError(err).Warnf(
				"pubsub: failed to publish topic for cancelled item %d", item.ID,
			)
		}
	case outcomeExpired:
		if len(settled.owed) > 0 {
			log.Warnf(
				"item %d: asset no longer deliverable, refund of %d to %s is owed",
				item.ID, item.HighestBid.Amount, item.HighestBid.Bidder,
			)
		} else {
			log.Debugf(
				"item %d: asset no longer deliverable, refunded %d to %s",
				item.ID, item.HighestBid.Amount, item.HighestBid.Bidder,
			)
		}
		if err := s.pubsub.PublishItemExpiredTopic(item); err != nil {
			log.WithError(err).Warnf(
				"pubsub: failed to publish topic for expired item %d", item.ID,
			)
		}
	default:
		log.Debugf("item %d: already settled, nothing to do", item.ID)
	}
}
