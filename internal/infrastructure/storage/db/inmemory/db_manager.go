package inmemory

import (
	"context"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/chro-network/chro-marketplace/internal/core/ports"
)

type repoManager struct {
	store *store

	itemRepository       domain.ItemRepository
	bidRepository        domain.BidRepository
	swapRepository       domain.SwapRepository
	collectionRepository domain.CollectionRepository
	feePolicyRepository  domain.FeePolicyRepository
	payoutRepository     domain.PayoutRepository
}

// NewRepoManager returns a RepoManager keeping the whole state in memory.
// Write transactions work on the live state and are rolled back to a copy
// taken at their beginning if the handler fails.
func NewRepoManager() ports.RepoManager {
	s := newStore()

	return &repoManager{
		store:                s,
		itemRepository:       NewItemRepositoryImpl(s),
		bidRepository:        NewBidRepositoryImpl(s),
		swapRepository:       NewSwapRepositoryImpl(s),
		collectionRepository: NewCollectionRepositoryImpl(s),
		feePolicyRepository:  NewFeePolicyRepositoryImpl(s),
		payoutRepository:     NewPayoutRepositoryImpl(s),
	}
}

func (r *repoManager) ItemRepository() domain.ItemRepository {
	return r.itemRepository
}

func (r *repoManager) BidRepository() domain.BidRepository {
	return r.bidRepository
}

func (r *repoManager) SwapRepository() domain.SwapRepository {
	return r.swapRepository
}

func (r *repoManager) CollectionRepository() domain.CollectionRepository {
	return r.collectionRepository
}

func (r *repoManager) FeePolicyRepository() domain.FeePolicyRepository {
	return r.feePolicyRepository
}

func (r *repoManager) PayoutRepository() domain.PayoutRepository {
	return r.payoutRepository
}

func (r *repoManager) RunTransaction(
	ctx context.Context, readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	return r.store.runTransaction(ctx, readOnly, handler)
}

func (r *repoManager) Close() {}
