package ports

import (
	"context"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
)

// RepoManager interface defines the methods for items, bids, swaps,
// collections, fee policy and pending payouts.
type RepoManager interface {
	ItemRepository() domain.ItemRepository
	BidRepository() domain.BidRepository
	SwapRepository() domain.SwapRepository
	CollectionRepository() domain.CollectionRepository
	FeePolicyRepository() domain.FeePolicyRepository
	PayoutRepository() domain.PayoutRepository

	// RunTransaction runs the handler in a single atomic transaction: if the
	// handler returns an error, none of its changes are committed. Write
	// transactions are serialized, read-only ones never observe a write in
	// progress.
	RunTransaction(
		ctx context.Context,
		readOnly bool,
		handler func(ctx context.Context) (interface{}, error),
	) (interface{}, error)

	Close()
}
