package pubsub_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/chro-network/chro-marketplace/internal/core/application/pubsub"
	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/chro-network/chro-marketplace/internal/core/ports"
	"github.com/stretchr/testify/require"
)

type message struct {
	topic   string
	payload map[string]interface{}
}

type fakePubSub struct {
	lock     sync.Mutex
	subs     map[string]string
	messages []message
}

func newFakePubSub() *fakePubSub {
	return &fakePubSub{subs: make(map[string]string)}
}

func (f *fakePubSub) Subscribe(topic, endpoint, _ string) (string, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	id := topic + "@" + endpoint
	f.subs[id] = topic
	return id, nil
}

func (f *fakePubSub) Unsubscribe(_, id string) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	delete(f.subs, id)
	return nil
}

func (f *fakePubSub) ListSubscriptionsForTopic(string) []ports.Subscription {
	return nil
}

func (f *fakePubSub) Publish(topic, msg string) error {
	payload := map[string]interface{}{}
	if err := json.Unmarshal([]byte(msg), &payload); err != nil {
		return err
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	f.messages = append(f.messages, message{topic, payload})
	return nil
}

func (f *fakePubSub) Close() error { return nil }

func (f *fakePubSub) all() []message {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]message{}, f.messages...)
}

func TestPublish(t *testing.T) {
	fake := newFakePubSub()
	svc := pubsub.NewService(fake)

	item := domain.Item{
		ID: 1, Seller: "alice", Collection: "punks", AssetID: 7,
		Kind: domain.ListingKindAuction, Price: 100, Expiry: 3600,
		Status: domain.ItemStatusSold, BidCount: 2,
		HighestBid: domain.HighestBid{Index: 1, Bidder: "carol", Amount: 450},
		Buyer:      "carol", SalePrice: 450,
	}
	distribution := domain.Distribution{
		Gross: 450, SellerNet: 420,
		Royalty: domain.Royalty{Receiver: "creator", Amount: 15},
		Shares:  []domain.CollectorShare{{Wallet: "treasury", Amount: 15}},
	}

	swap := domain.Swap{
		ID:        3,
		Offered:   domain.SwapAsset{Collection: "punks", AssetID: 1, Holder: "alice"},
		Requested: domain.SwapAsset{Collection: "apes", AssetID: 2, Holder: "bob"},
		Status:    domain.SwapStatusCancelled,
	}

	require.NoError(t, svc.PublishItemSoldTopic(item, distribution))
	require.NoError(t, svc.PublishSwapCancelledTopic(swap, "bob"))
	svc.Close()

	messages := fake.all()
	require.Len(t, messages, 2)

	msg := messages[0]
	require.Equal(t, pubsub.TopicItemSold, msg.topic)
	require.Equal(t, pubsub.TopicItemSold, msg.payload["event"])
	require.NotEmpty(t, msg.payload["event_id"])
	require.NotEmpty(t, msg.payload["date"])

	itemPayload := msg.payload["item"].(map[string]interface{})
	require.Equal(t, "auction", itemPayload["kind"])
	require.Equal(t, "carol", itemPayload["buyer"])
	require.Contains(t, itemPayload, "highest_bid")

	distributionPayload := msg.payload["distribution"].(map[string]interface{})
	require.Equal(t, float64(420), distributionPayload["seller_net"])
	require.Contains(t, distributionPayload, "royalty")
	require.Len(t, distributionPayload["fees"], 1)

	msg = messages[1]
	require.Equal(t, pubsub.TopicSwapCancelled, msg.topic)
	require.Equal(t, "bob", msg.payload["cancelled_by"])
	require.Equal(t, "cancelled", msg.payload["swap"].(map[string]interface{})["status"])
}

func TestWebhooks(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		svc := pubsub.NewService(nil)
		require.NoError(t, svc.PublishItemCreatedTopic(domain.Item{ID: 1}))

		_, err := svc.AddWebhook(ctx, pubsub.TopicItemSold, "http://localhost", "")
		require.Error(t, err)
		hooks, err := svc.ListWebhooks(ctx, "")
		require.NoError(t, err)
		require.Empty(t, hooks)
	})

	t.Run("topics", func(t *testing.T) {
		svc := pubsub.NewService(newFakePubSub())

		id, err := svc.AddWebhook(ctx, ports.AnyTopic, "http://localhost", "")
		require.NoError(t, err)
		require.NotEmpty(t, id)
		require.NoError(t, svc.RemoveWebhook(ctx, id))

		_, err = svc.AddWebhook(ctx, "TRADE_SETTLED", "http://localhost", "")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = svc.ListWebhooks(ctx, "TRADE_SETTLED")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestPublishBidPlaced(t *testing.T) {
	fake := newFakePubSub()
	svc := pubsub.NewService(fake)

	item := domain.Item{
		ID: 2, Seller: "alice", Collection: "punks", AssetID: 1,
		Kind: domain.ListingKindAuction, Price: 100, Expiry: 3600, BidCount: 1,
		HighestBid: domain.HighestBid{Index: 0, Bidder: "bob", Amount: 200},
	}
	bid := domain.Bid{ItemID: 2, Index: 0, Bidder: "bob", Amount: 200, Timestamp: 10}

	require.NoError(t, svc.PublishBidPlacedTopic(item, bid, nil))

	item.BidCount = 2
	item.HighestBid = domain.HighestBid{Index: 1, Bidder: "carol", Amount: 250}
	bid = domain.Bid{ItemID: 2, Index: 1, Bidder: "carol", Amount: 250, Timestamp: 20}
	refunded := &domain.HighestBid{Index: 0, Bidder: "bob", Amount: 200}

	require.NoError(t, svc.PublishBidPlacedTopic(item, bid, refunded))
	svc.Close()

	messages := fake.all()
	require.Len(t, messages, 2)
	require.NotContains(t, messages[0].payload, "refund")
	refund := messages[1].payload["refund"].(map[string]interface{})
	require.Equal(t, "bob", refund["bidder"])
	require.Equal(t, float64(200), refund["amount"])
}

func TestPublishOrder(t *testing.T) {
	fake := newFakePubSub()
	svc := pubsub.NewService(fake)

	item := domain.Item{
		ID: 4, Seller: "alice", Collection: "punks", AssetID: 9,
		Kind: domain.ListingKindAuction, Price: 100, Expiry: 3600,
	}
	for i := 0; i < 50; i++ {
		amount := uint64(100 + i)
		item.BidCount = i + 1
		item.HighestBid = domain.HighestBid{Index: i, Bidder: "bob", Amount: amount}
		bid := domain.Bid{ItemID: 4, Index: i, Bidder: "bob", Amount: amount}
		require.NoError(t, svc.PublishBidPlacedTopic(item, bid, nil))
	}
	svc.Close()

	messages := fake.all()
	require.Len(t, messages, 50)
	for i, msg := range messages {
		bid := msg.payload["bid"].(map[string]interface{})
		require.Equal(t, float64(100+i), bid["amount"])
	}

	err := svc.PublishItemCreatedTopic(item)
	require.ErrorIs(t, err, pubsub.ErrServiceClosed)
	svc.Close()
}

func TestIsValidTopic(t *testing.T) {
	tests := []struct {
		topic string
		valid bool
	}{
		{pubsub.TopicItemCreated, true},
		{pubsub.TopicSwapApproved, true},
		{pubsub.TopicFeePolicyUpdated, true},
		{ports.AnyTopic, true},
		{ports.UnspecifiedTopic, false},
		{"item_created", false},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			require.Equal(t, tt.valid, pubsub.IsValidTopic(tt.topic))
		})
	}
}
