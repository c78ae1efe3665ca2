package domain_test

import (
	"testing"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/stretchr/testify/require"
)

const (
	seller     = "seller"
	buyer      = "buyer"
	collection = "punks"
	now        = int64(1700000000)
)

func TestNewSaleItem(t *testing.T) {
	t.Parallel()

	item, err := domain.NewSaleItem(seller, collection, 1, 300, now)
	require.NoError(t, err)
	require.NotNil(t, item)
	require.True(t, item.IsActive())
	require.True(t, item.IsDirectSale())
	require.False(t, item.IsAuction())
	require.False(t, item.IsExpired(now+100000))
	require.Equal(t, uint64(300), item.Price)
	require.Equal(t, now, item.CreatedAt)
	require.Zero(t, item.Expiry)
}

func TestFailingNewItem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		seller        string
		collection    string
		price         uint64
		expiry        int64
		expectedError error
	}{
		{
			name:          "missing_seller",
			collection:    collection,
			price:         300,
			expiry:        now + 1,
			expectedError: domain.ErrInvalidIdentity,
		},
		{
			name:          "missing_collection",
			seller:        seller,
			price:         300,
			expiry:        now + 1,
			expectedError: domain.ErrInvalidCollection,
		},
		{
			name:          "zero_price",
			seller:        seller,
			collection:    collection,
			expiry:        now + 1,
			expectedError: domain.ErrInvalidPrice,
		},
		{
			name:          "expiry_now",
			seller:        seller,
			collection:    collection,
			price:         300,
			expiry:        now,
			expectedError: domain.ErrInvalidExpiry,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			item, err := domain.NewAuctionItem(
				tt.seller, tt.collection, 1, tt.price, tt.expiry, now,
			)
			require.ErrorIs(t, err, tt.expectedError)
			require.Nil(t, item)
		})
	}
}

func TestItemBuy(t *testing.T) {
	t.Parallel()

	item, err := domain.NewSaleItem(seller, collection, 1, 300, now)
	require.NoError(t, err)

	require.ErrorIs(t, item.Buy(seller, now), domain.ErrSelfPurchase)
	require.ErrorIs(t, item.Buy("", now), domain.ErrInvalidIdentity)

	require.NoError(t, item.Buy(buyer, now+1))
	require.Equal(t, domain.ItemStatusSold, item.Status)
	require.Equal(t, buyer, item.Buyer)
	require.Equal(t, uint64(300), item.SalePrice)
	require.Equal(t, now+1, item.ClosedAt)

	require.ErrorIs(t, item.Buy("other", now+2), domain.ErrItemNotActive)
	require.ErrorIs(t, item.Cancel(seller, now+2), domain.ErrItemNotActive)
}

func TestItemBuyAuction(t *testing.T) {
	t.Parallel()

	item, err := domain.NewAuctionItem(seller, collection, 1, 300, now+10, now)
	require.NoError(t, err)
	require.ErrorIs(t, item.Buy(buyer, now), domain.ErrItemNotDirectSale)
	require.True(t, item.IsActive())
}

func TestItemAcceptBid(t *testing.T) {
	t.Parallel()

	item, err := domain.NewAuctionItem(seller, collection, 1, 300, now+10, now)
	require.NoError(t, err)
	require.Equal(t, uint64(300), item.MinimumBid())

	bid := func(bidder string, amount uint64, at int64) domain.Bid {
		b, err := domain.NewBid(*item, bidder, amount, at)
		require.NoError(t, err)
		return *b
	}

	_, err = item.AcceptBid(bid(buyer, 300, now))
	require.ErrorIs(t, err, domain.ErrBidTooLow)

	previous, err := item.AcceptBid(bid(buyer, 400, now))
	require.NoError(t, err)
	require.Nil(t, previous)
	require.True(t, item.HasBids())
	require.Equal(t, uint64(400), item.MinimumBid())

	_, err = item.AcceptBid(bid("other", 400, now+1))
	require.ErrorIs(t, err, domain.ErrBidTooLow)
	_, err = item.AcceptBid(bid(seller, 500, now+1))
	require.ErrorIs(t, err, domain.ErrSelfPurchase)

	// Bids must take the next free position.
	stale := bid("other", 500, now+1)
	stale.Index = 0
	_, err = item.AcceptBid(stale)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	previous, err = item.AcceptBid(bid("other", 450, now+1))
	require.NoError(t, err)
	require.Equal(t, &domain.HighestBid{Index: 0, Bidder: buyer, Amount: 400}, previous)
	require.Equal(t, domain.HighestBid{Index: 1, Bidder: "other", Amount: 450}, item.HighestBid)
	require.Equal(t, 2, item.BidCount)

	_, err = item.AcceptBid(bid(buyer, 500, now+10))
	require.ErrorIs(t, err, domain.ErrAuctionExpired)

	require.ErrorIs(t, item.Cancel(seller, now+1), domain.ErrAuctionHasBids)
}

func TestItemCancel(t *testing.T) {
	t.Parallel()

	item, err := domain.NewAuctionItem(seller, collection, 1, 300, now+10, now)
	require.NoError(t, err)

	require.ErrorIs(t, item.Cancel(buyer, now), domain.ErrNotSeller)
	require.NoError(t, item.Cancel(seller, now+1))
	require.Equal(t, domain.ItemStatusCancelled, item.Status)
	require.Equal(t, now+1, item.ClosedAt)
}

func TestItemSettleAuction(t *testing.T) {
	t.Parallel()

	t.Run("with_bids", func(t *testing.T) {
		t.Parallel()

		item, err := domain.NewAuctionItem(seller, collection, 1, 300, now+10, now)
		require.NoError(t, err)
		b, err := domain.NewBid(*item, buyer, 400, now)
		require.NoError(t, err)
		_, err = item.AcceptBid(*b)
		require.NoError(t, err)

		_, err = item.SettleAuction(now + 9)
		require.ErrorIs(t, err, domain.ErrAuctionNotExpired)

		settled, err := item.SettleAuction(now + 10)
		require.NoError(t, err)
		require.True(t, settled)
		require.Equal(t, domain.ItemStatusSold, item.Status)
		require.Equal(t, buyer, item.Buyer)
		require.Equal(t, uint64(400), item.SalePrice)

		settled, err = item.SettleAuction(now + 11)
		require.NoError(t, err)
		require.False(t, settled)
		require.Equal(t, now+10, item.ClosedAt)
	})

	t.Run("without_bids", func(t *testing.T) {
		t.Parallel()

		item, err := domain.NewAuctionItem(seller, collection, 1, 300, now+10, now)
		require.NoError(t, err)

		settled, err := item.SettleAuction(now + 10)
		require.NoError(t, err)
		require.True(t, settled)
		require.Equal(t, domain.ItemStatusCancelled, item.Status)
		require.Empty(t, item.Buyer)
	})

	t.Run("not_deliverable", func(t *testing.T) {
		t.Parallel()

		item, err := domain.NewAuctionItem(seller, collection, 1, 300, now+10, now)
		require.NoError(t, err)

		_, err = item.ExpireUnsettleable(now)
		require.ErrorIs(t, err, domain.ErrAuctionNotExpired)

		expired, err := item.ExpireUnsettleable(now + 10)
		require.NoError(t, err)
		require.True(t, expired)
		require.Equal(t, domain.ItemStatusExpiredSettled, item.Status)

		expired, err = item.ExpireUnsettleable(now + 10)
		require.NoError(t, err)
		require.False(t, expired)
	})

	t.Run("direct_sale", func(t *testing.T) {
		t.Parallel()

		item, err := domain.NewSaleItem(seller, collection, 1, 300, now)
		require.NoError(t, err)
		_, err = item.SettleAuction(now + 100)
		require.ErrorIs(t, err, domain.ErrItemNotAuction)
	})
}

func TestListingKindFromString(t *testing.T) {
	t.Parallel()

	for _, kind := range []domain.ListingKind{
		domain.ListingKindDirectSale, domain.ListingKindAuction,
	} {
		parsed, err := domain.ListingKindFromString(kind.String())
		require.NoError(t, err)
		require.Equal(t, kind, parsed)
	}

	_, err := domain.ListingKindFromString("raffle")
	require.ErrorIs(t, err, domain.ErrInvalidListingKind)
}

func TestNewPage(t *testing.T) {
	t.Parallel()

	require.Equal(t, domain.Page{Offset: 0, Limit: 10}, domain.NewPage(-1, 0))
	require.Equal(t, domain.Page{Offset: 5, Limit: 20}, domain.NewPage(5, 20))
	require.Equal(t, domain.Page{Offset: 0, Limit: 100}, domain.NewPage(0, 1000))
}

func TestErrorKinds(t *testing.T) {
	t.Parallel()

	require.Equal(t, domain.ErrNotFound, domain.KindOf(domain.ErrItemNotFound))
	require.Equal(t, domain.ErrNotAuthorized, domain.KindOf(domain.ErrNotCounterparty))
	require.Equal(t, domain.ErrInvalidState, domain.KindOf(domain.ErrAssetMoved))
	require.Equal(t, domain.ErrInvalidInput, domain.KindOf(domain.ErrBidTooLow))
	require.Equal(t, domain.ErrInsufficientResource, domain.KindOf(domain.ErrInsufficientFunds))
	require.Nil(t, domain.KindOf(nil))
}
