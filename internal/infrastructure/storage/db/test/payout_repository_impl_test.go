package db_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestPayoutRepositoryImplementations(t *testing.T) {
	managers := createRepoManagers(t)

	for i := range managers {
		repo := managers[i]

		t.Run(repo.Name, func(t *testing.T) {
			testAddGetUpdatePayout(t, repo)
			testPayoutRollback(t, repo)
		})
	}
}

func makeRandomPayout(t *testing.T, itemID uint64) *domain.Payout {
	payout, err := domain.NewPendingPayout(
		itemID, randomHex(20), 15, "fee", "ledger unavailable", now,
	)
	require.NoError(t, err)
	return payout
}

func testAddGetUpdatePayout(t *testing.T, repo repoManager) {
	first := makeRandomPayout(t, 1)
	second := makeRandomPayout(t, 2)
	third := makeRandomPayout(t, 1)

	for i, p := range []*domain.Payout{first, second, third} {
		id, err := repo.PayoutRepository().AddPayout(ctx, p)
		require.NoError(t, err)
		require.Equal(t, uint64(i+1), id)
	}

	payout, err := repo.PayoutRepository().GetPayout(ctx, second.ID)
	require.NoError(t, err)
	require.Exactly(t, *second, *payout)

	payouts, err := repo.PayoutRepository().GetPayoutsForItem(ctx, 1)
	require.NoError(t, err)
	require.Len(t, payouts, 2)
	require.Equal(t, first.ID, payouts[0].ID)
	require.Equal(t, third.ID, payouts[1].ID)

	err = repo.PayoutRepository().UpdatePayout(
		ctx, first.ID, func(p *domain.Payout) (*domain.Payout, error) {
			if _, err := p.Pay(now + 1); err != nil {
				return nil, err
			}
			return p, nil
		},
	)
	require.NoError(t, err)

	pending, err := repo.PayoutRepository().GetPendingPayouts(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.Equal(t, second.ID, pending[0].ID)
	require.Equal(t, third.ID, pending[1].ID)

	payout, err = repo.PayoutRepository().GetPayout(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, domain.PayoutStatusPaid, payout.Status)
	require.Equal(t, now+1, payout.PaidAt)

	_, err = repo.PayoutRepository().GetPayout(ctx, third.ID+1)
	require.ErrorIs(t, err, domain.ErrPayoutNotFound)
	payouts, err = repo.PayoutRepository().GetPayoutsForItem(ctx, 100)
	require.NoError(t, err)
	require.Empty(t, payouts)
}

func testPayoutRollback(t *testing.T, repo repoManager) {
	before, err := repo.PayoutRepository().GetPendingPayouts(ctx)
	require.NoError(t, err)

	_, err = repo.write(func(ctx context.Context) (interface{}, error) {
		if _, err := repo.PayoutRepository().AddPayout(ctx, makeRandomPayout(t, 3)); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("settlement failed")
	})
	require.Error(t, err)

	after, err := repo.PayoutRepository().GetPendingPayouts(ctx)
	require.NoError(t, err)
	require.Equal(t, before, after)
}
