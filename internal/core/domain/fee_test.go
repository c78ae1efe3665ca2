package domain_test

import (
	"testing"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func newFeePolicy(t *testing.T, collectors ...domain.FeeCollector) *domain.FeePolicy {
	policy, err := domain.NewFeePolicy(domain.DefaultFeeScale)
	require.NoError(t, err)
	for _, c := range collectors {
		require.NoError(t, policy.AddFeeCollector(c.Wallet, c.Percentage))
	}
	return policy
}

func TestFeePolicyCollectors(t *testing.T) {
	t.Parallel()

	_, err := domain.NewFeePolicy(0)
	require.ErrorIs(t, err, domain.ErrInvalidFeeScale)

	policy := newFeePolicy(t,
		domain.FeeCollector{Wallet: "a", Percentage: 25},
		domain.FeeCollector{Wallet: "b", Percentage: 10},
		domain.FeeCollector{Wallet: "c", Percentage: 5},
	)
	require.Equal(t, uint64(40), policy.TotalPercentage())

	require.ErrorIs(t, policy.AddFeeCollector("a", 1), domain.ErrFeeCollectorExists)
	require.ErrorIs(t, policy.AddFeeCollector("d", 0), domain.ErrInvalidPercentage)
	require.ErrorIs(t, policy.AddFeeCollector("", 1), domain.ErrInvalidIdentity)
	require.ErrorIs(t, policy.AddFeeCollector("d", 961), domain.ErrFeeCapExceeded)
	require.NoError(t, policy.AddFeeCollector("d", 960))
	require.Equal(t, uint64(1000), policy.TotalPercentage())

	require.NoError(t, policy.RemoveFeeCollector("b"))
	require.ErrorIs(t, policy.RemoveFeeCollector("b"), domain.ErrFeeCollectorNotFound)
	require.Equal(t, []domain.FeeCollector{
		{Wallet: "a", Percentage: 25},
		{Wallet: "c", Percentage: 5},
		{Wallet: "d", Percentage: 960},
	}, policy.Collectors)
}

func TestFeePolicyPublicationFees(t *testing.T) {
	t.Parallel()

	policy := newFeePolicy(t)

	err := policy.SetPublicationFee(domain.ListingKindDirectSale, 10)
	require.ErrorIs(t, err, domain.ErrPublicationWalletNotSet)
	require.NoError(t, policy.SetPublicationFee(domain.ListingKindDirectSale, 0))

	require.ErrorIs(t, policy.SetPublicationFeeWallet(""), domain.ErrInvalidIdentity)
	require.NoError(t, policy.SetPublicationFeeWallet("publisher"))
	require.NoError(t, policy.SetPublicationFee(domain.ListingKindDirectSale, 10))
	require.NoError(t, policy.SetPublicationFee(domain.ListingKindAuction, 20))
	require.ErrorIs(
		t, policy.SetPublicationFee(domain.ListingKind(7), 1),
		domain.ErrInvalidListingKind,
	)

	require.Equal(t, uint64(10), policy.PublicationFee(domain.ListingKindDirectSale))
	require.Equal(t, uint64(20), policy.PublicationFee(domain.ListingKindAuction))
}

func TestFeePolicySplit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		collectors        []domain.FeeCollector
		gross             uint64
		royalty           *domain.Royalty
		expectedShares    []uint64
		expectedRoyalty   uint64
		expectedSellerNet uint64
	}{
		{
			name: "sale",
			collectors: []domain.FeeCollector{
				{Wallet: "a", Percentage: 25}, {Wallet: "b", Percentage: 10},
			},
			gross:             300,
			expectedShares:    []uint64{7, 3},
			expectedSellerNet: 290,
		},
		{
			name: "auction",
			collectors: []domain.FeeCollector{
				{Wallet: "a", Percentage: 25}, {Wallet: "b", Percentage: 10},
			},
			gross:             450,
			expectedShares:    []uint64{11, 4},
			expectedSellerNet: 435,
		},
		{
			name:              "no_collectors",
			gross:             300,
			expectedShares:    []uint64{},
			expectedSellerNet: 300,
		},
		{
			name: "with_royalty",
			collectors: []domain.FeeCollector{
				{Wallet: "a", Percentage: 25}, {Wallet: "b", Percentage: 10},
			},
			gross:             300,
			royalty:           &domain.Royalty{Receiver: "creator", Amount: 15},
			expectedShares:    []uint64{7, 3},
			expectedRoyalty:   15,
			expectedSellerNet: 275,
		},
		{
			name: "royalty_capped",
			collectors: []domain.FeeCollector{
				{Wallet: "a", Percentage: 900},
			},
			gross:             100,
			royalty:           &domain.Royalty{Receiver: "creator", Amount: 50},
			expectedShares:    []uint64{90},
			expectedRoyalty:   10,
			expectedSellerNet: 0,
		},
		{
			name: "tiny_amount",
			collectors: []domain.FeeCollector{
				{Wallet: "a", Percentage: 25},
			},
			gross:             1,
			expectedShares:    []uint64{0},
			expectedSellerNet: 1,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			policy := newFeePolicy(t, tt.collectors...)
			d := policy.Split(tt.gross, tt.royalty)

			shares := make([]uint64, 0, len(d.Shares))
			for i, s := range d.Shares {
				require.Equal(t, tt.collectors[i].Wallet, s.Wallet)
				shares = append(shares, s.Amount)
			}
			require.Equal(t, tt.expectedShares, shares)
			require.Equal(t, tt.expectedRoyalty, d.Royalty.Amount)
			require.Equal(t, tt.expectedSellerNet, d.SellerNet)
			require.Equal(t, tt.gross, d.SellerNet+d.Royalty.Amount+d.TotalFees())
		})
	}
}
