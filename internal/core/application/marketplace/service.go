package marketplace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chro-network/chro-marketplace/internal/core/application/pubsub"
	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/chro-network/chro-marketplace/internal/core/ports"
)

const readOnly = true

type service struct {
	repoManager ports.RepoManager
	assets      ports.AssetLedger
	tokens      ports.TokenLedger
	royalties   ports.RoyaltyProvider
	pubsub      *pubsub.Service
	feeScale    uint32
	now         func() int64
}

// NewService returns the settlement engine of the marketplace. If the asset
// ledger also implements ports.RoyaltyProvider, royalties are paid on every
// sale. A nil clock defaults to the system one.
func NewService(
	repoManager ports.RepoManager,
	assetLedger ports.AssetLedger, tokenLedger ports.TokenLedger,
	pubsubSvc *pubsub.Service, feeScale uint32, clock func() int64,
) (*service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if assetLedger == nil {
		return nil, fmt.Errorf("missing asset ledger")
	}
	if tokenLedger == nil {
		return nil, fmt.Errorf("missing token ledger")
	}
	if pubsubSvc == nil {
		return nil, fmt.Errorf("missing pubsub service")
	}
	if feeScale == 0 {
		return nil, domain.ErrInvalidFeeScale
	}
	if clock == nil {
		clock = func() int64 { return time.Now().Unix() }
	}

	royalties, _ := assetLedger.(ports.RoyaltyProvider)
	return &service{
		repoManager, assetLedger, tokenLedger, royalties, pubsubSvc,
		feeScale, clock,
	}, nil
}

func (s *service) GetItem(ctx context.Context, itemID uint64) (*domain.Item, error) {
	return s.repoManager.ItemRepository().GetItem(ctx, itemID)
}

func (s *service) GetItems(
	ctx context.Context, page domain.Page,
) ([]domain.Item, error) {
	return s.repoManager.ItemRepository().GetItems(ctx, page)
}

// SellerOf returns the seller of the active item listing the given asset, or
// an empty string if the asset is not listed.
func (s *service) SellerOf(
	ctx context.Context, collection string, assetID uint64,
) (string, error) {
	item, err := s.repoManager.ItemRepository().GetActiveItemByAsset(
		ctx, collection, assetID,
	)
	if err != nil {
		return "", err
	}
	if item == nil {
		return "", nil
	}
	return item.Seller, nil
}

func (s *service) GetBid(
	ctx context.Context, itemID uint64, index int,
) (*domain.Bid, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, readOnly, func(ctx context.Context) (interface{}, error) {
			if _, err := s.repoManager.ItemRepository().GetItem(ctx, itemID); err != nil {
				return nil, err
			}
			return s.repoManager.BidRepository().GetBid(ctx, itemID, index)
		},
	)
	if err != nil {
		return nil, err
	}
	return res.(*domain.Bid), nil
}

func (s *service) GetBids(ctx context.Context, itemID uint64) ([]domain.Bid, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, readOnly, func(ctx context.Context) (interface{}, error) {
			if _, err := s.repoManager.ItemRepository().GetItem(ctx, itemID); err != nil {
				return nil, err
			}
			return s.repoManager.BidRepository().GetBidsForItem(ctx, itemID)
		},
	)
	if err != nil {
		return nil, err
	}
	return res.([]domain.Bid), nil
}

// GetPendingPayouts returns every payout still owed out of escrow.
func (s *service) GetPendingPayouts(ctx context.Context) ([]domain.Payout, error) {
	return s.repoManager.PayoutRepository().GetPendingPayouts(ctx)
}

// GetItemPayouts returns the payouts the token ledger refused when settling
// the item, including the ones paid later.
func (s *service) GetItemPayouts(
	ctx context.Context, itemID uint64,
) ([]domain.Payout, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, readOnly, func(ctx context.Context) (interface{}, error) {
			if _, err := s.repoManager.ItemRepository().GetItem(ctx, itemID); err != nil {
				return nil, err
			}
			return s.repoManager.PayoutRepository().GetPayoutsForItem(ctx, itemID)
		},
	)
	if err != nil {
		return nil, err
	}
	return res.([]domain.Payout), nil
}

func (s *service) GetSwap(ctx context.Context, swapID uint64) (*domain.Swap, error) {
	return s.repoManager.SwapRepository().GetSwap(ctx, swapID)
}

func (s *service) GetSwaps(
	ctx context.Context, page domain.Page,
) ([]domain.Swap, error) {
	return s.repoManager.SwapRepository().GetSwaps(ctx, page)
}

func (s *service) checkCollectionIsActive(ctx context.Context, address string) error {
	collection, err := s.repoManager.CollectionRepository().GetCollection(ctx, address)
	if err != nil {
		return err
	}
	if !collection.IsActive() {
		return domain.ErrCollectionInactive
	}
	return nil
}

// checkCustody verifies that holder currently holds the asset and authorized
// the marketplace to move it.
func (s *service) checkCustody(
	ctx context.Context, collection string, assetID uint64, holder string,
) error {
	owner, err := s.assets.OwnerOf(ctx, collection, assetID)
	if err != nil {
		if isNotFound(err) {
			return domain.ErrNotOwner
		}
		return err
	}
	if owner != holder {
		return domain.ErrNotOwner
	}
	approved, err := s.assets.IsApproved(ctx, collection, holder)
	if err != nil {
		return err
	}
	if !approved {
		return domain.ErrAssetNotApproved
	}
	return nil
}

// checkFunds verifies that the payer can be charged the given amount.
func (s *service) checkFunds(ctx context.Context, payer string, amount uint64) error {
	if amount == 0 {
		return nil
	}
	balance, err := s.tokens.BalanceOf(ctx, payer)
	if err != nil {
		return err
	}
	if balance < amount {
		return domain.ErrInsufficientFunds
	}
	allowance, err := s.tokens.Allowance(ctx, payer)
	if err != nil {
		return err
	}
	if allowance < amount {
		return domain.ErrInsufficientAllowance
	}
	return nil
}

// distributionFor splits the gross amount of a sale of the given item
// according to the current fee policy and the asset royalty, if any.
func (s *service) distributionFor(
	ctx context.Context, item domain.Item, gross uint64,
) (*domain.Distribution, error) {
	policy, err := s.repoManager.FeePolicyRepository().GetFeePolicy(ctx, s.feeScale)
	if err != nil {
		return nil, err
	}

	var royalty *domain.Royalty
	if s.royalties != nil {
		receiver, amount, err := s.royalties.RoyaltyInfo(
			ctx, item.Collection, item.AssetID, gross,
		)
		if err != nil {
			return nil, fmt.Errorf("fetching royalty info: %w", err)
		}
		if len(receiver) > 0 && amount > 0 {
			royalty = &domain.Royalty{Receiver: receiver, Amount: amount}
		}
	}

	distribution := policy.Split(gross, royalty)
	return &distribution, nil
}

func (s *service) newPlan() *settlementPlan {
	return newSettlementPlan(s.assets, s.tokens)
}

// settle executes the plan of an operation on the given item. Payouts
// refused by the token ledger are recorded as owed by the item, in the same
// transaction.
func (s *service) settle(
	ctx context.Context, plan *settlementPlan, itemID uint64,
) ([]domain.Payout, error) {
	failed, err := plan.execute(ctx)
	if err != nil {
		return nil, err
	}

	owed := make([]domain.Payout, 0, len(failed))
	for _, f := range failed {
		payout, err := domain.NewPendingPayout(
			itemID, f.wallet, f.amount, f.reason, f.err.Error(), s.now(),
		)
		if err != nil {
			return nil, err
		}
		if _, err := s.repoManager.PayoutRepository().AddPayout(ctx, payout); err != nil {
			return nil, fmt.Errorf("recording owed payout: %w", err)
		}
		owed = append(owed, *payout)
	}
	return owed, nil
}

func saveItem(item *domain.Item) func(*domain.Item) (*domain.Item, error) {
	return func(_ *domain.Item) (*domain.Item, error) {
		return item, nil
	}
}

func savePayout(payout *domain.Payout) func(*domain.Payout) (*domain.Payout, error) {
	return func(_ *domain.Payout) (*domain.Payout, error) {
		return payout, nil
	}
}

func saveSwap(swap *domain.Swap) func(*domain.Swap) (*domain.Swap, error) {
	return func(_ *domain.Swap) (*domain.Swap, error) {
		return swap, nil
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
