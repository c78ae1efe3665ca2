package application

import (
	"context"

	"github.com/chro-network/chro-marketplace/internal/core/application/marketplace"
	"github.com/chro-network/chro-marketplace/internal/core/application/pubsub"
	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/chro-network/chro-marketplace/internal/core/ports"
)

type MarketplaceService interface {
	// Items
	ListForSale(
		ctx context.Context, seller, collection string, assetID, price uint64,
	) (*domain.Item, error)
	ListForAuction(
		ctx context.Context, seller, collection string,
		assetID, startingPrice uint64, expiry int64,
	) (*domain.Item, error)
	CancelItem(ctx context.Context, itemID uint64, caller string) (*domain.Item, error)
	GetItem(ctx context.Context, itemID uint64) (*domain.Item, error)
	GetItems(ctx context.Context, page domain.Page) ([]domain.Item, error)
	SellerOf(ctx context.Context, collection string, assetID uint64) (string, error)

	// Trading
	Buy(ctx context.Context, itemID uint64, buyer string) (*domain.Item, error)
	PlaceBid(
		ctx context.Context, itemID uint64, bidder string, amount uint64,
	) (*domain.Bid, error)
	GetBid(ctx context.Context, itemID uint64, index int) (*domain.Bid, error)
	GetBids(ctx context.Context, itemID uint64) ([]domain.Bid, error)

	// Settlement
	SettleAuction(ctx context.Context, itemID uint64) (*domain.Item, error)
	ExecuteJob(ctx context.Context) (*marketplace.JobReport, error)
	GetPendingPayouts(ctx context.Context) ([]domain.Payout, error)
	GetItemPayouts(ctx context.Context, itemID uint64) ([]domain.Payout, error)

	// Swaps
	RequestSwap(
		ctx context.Context, initiator string,
		offeredCollection string, offeredAssetID uint64,
		requestedCollection string, requestedAssetID uint64,
	) (*domain.Swap, error)
	ApproveSwap(ctx context.Context, swapID uint64, approver string) (*domain.Swap, error)
	CancelSwap(ctx context.Context, swapID uint64, caller string) (*domain.Swap, error)
	GetSwap(ctx context.Context, swapID uint64) (*domain.Swap, error)
	GetSwaps(ctx context.Context, page domain.Page) ([]domain.Swap, error)
}

func NewMarketplaceService(
	repoManager ports.RepoManager,
	assetLedger ports.AssetLedger, tokenLedger ports.TokenLedger,
	pubsubSvc PubSubService, feeScale uint32, clock func() int64,
) (MarketplaceService, error) {
	p := pubsubSvc.(*pubsub.Service)
	return marketplace.NewService(
		repoManager, assetLedger, tokenLedger, p, feeScale, clock,
	)
}
