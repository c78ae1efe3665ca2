package application

import (
	"context"

	"github.com/chro-network/chro-marketplace/internal/core/application/marketplace"
	"github.com/chro-network/chro-marketplace/internal/core/application/operator"
	"github.com/chro-network/chro-marketplace/internal/core/application/pubsub"
	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/chro-network/chro-marketplace/internal/core/ports"
)

type OperatorService interface {
	// Collections
	CreateCollection(
		ctx context.Context, address, name string, active bool,
	) (*domain.Collection, error)
	SetCollectionActive(
		ctx context.Context, address string, active bool,
	) (*domain.Collection, error)
	GetCollections(ctx context.Context) ([]domain.Collection, error)

	// Fee policy
	GetFeePolicy(ctx context.Context) (*domain.FeePolicy, error)
	GetFeeCollectors(ctx context.Context) ([]domain.FeeCollector, error)
	AddFeeCollector(
		ctx context.Context, wallet string, percentage uint32,
	) (*domain.FeePolicy, error)
	RemoveFeeCollector(ctx context.Context, wallet string) (*domain.FeePolicy, error)
	SetPublicationFeeWallet(
		ctx context.Context, wallet string,
	) (*domain.FeePolicy, error)
	SetPublicationFee(
		ctx context.Context, kind domain.ListingKind, amount uint64,
	) (*domain.FeePolicy, error)

	// Job
	ExecuteJob(ctx context.Context) (*marketplace.JobReport, error)

	// Webhook
	AddWebhook(ctx context.Context, topic, endpoint, secret string) (string, error)
	RemoveWebhook(ctx context.Context, id string) error
	ListWebhooks(ctx context.Context, topic string) ([]pubsub.Webhook, error)
}

func NewOperatorService(
	repoManager ports.RepoManager, pubsubSvc PubSubService,
	marketplaceSvc MarketplaceService, feeScale uint32, clock func() int64,
) (OperatorService, error) {
	p := pubsubSvc.(*pubsub.Service)
	return operator.NewService(repoManager, p, marketplaceSvc, feeScale, clock)
}
