package db_test

import (
	"context"
	"testing"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestBidRepositoryImplementations(t *testing.T) {
	managers := createRepoManagers(t)

	for i := range managers {
		repo := managers[i]

		t.Run(repo.Name, func(t *testing.T) {
			testAddAndGetBids(t, repo)
		})
	}
}

func testAddAndGetBids(t *testing.T, repo repoManager) {
	item := makeRandomAuctionItem(t, now+100)
	_, err := repo.ItemRepository().AddItem(ctx, item)
	require.NoError(t, err)

	bids, err := repo.BidRepository().GetBidsForItem(ctx, item.ID)
	require.NoError(t, err)
	require.Empty(t, bids)

	amounts := []uint64{401, 450, 500}
	for _, amount := range amounts {
		_, err := repo.write(func(ctx context.Context) (interface{}, error) {
			bid, err := domain.NewBid(*item, randomHex(20), amount, now)
			if err != nil {
				return nil, err
			}
			if _, err := item.AcceptBid(*bid); err != nil {
				return nil, err
			}
			if err := repo.BidRepository().AddBid(ctx, *bid); err != nil {
				return nil, err
			}
			return nil, repo.ItemRepository().UpdateItem(
				ctx, item.ID, func(_ *domain.Item) (*domain.Item, error) {
					return item, nil
				},
			)
		})
		require.NoError(t, err)
	}

	bids, err = repo.BidRepository().GetBidsForItem(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, bids, len(amounts))
	for i, bid := range bids {
		require.Equal(t, i, bid.Index)
		require.Equal(t, amounts[i], bid.Amount)
	}

	bid, err := repo.BidRepository().GetBid(ctx, item.ID, 1)
	require.NoError(t, err)
	require.Equal(t, bids[1], *bid)

	_, err = repo.BidRepository().GetBid(ctx, item.ID, len(amounts))
	require.ErrorIs(t, err, domain.ErrBidNotFound)

	// A bid cannot take a position already in use.
	err = repo.BidRepository().AddBid(ctx, bids[0])
	require.Error(t, err)

	stored, err := repo.ItemRepository().GetItem(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, len(amounts), stored.BidCount)
	require.Equal(t, uint64(500), stored.HighestBid.Amount)
}
