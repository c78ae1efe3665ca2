package marketplace

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/chro-network/chro-marketplace/internal/core/application/pubsub"
	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/chro-network/chro-marketplace/internal/core/ports"
	"github.com/chro-network/chro-marketplace/internal/infrastructure/ledger"
	"github.com/chro-network/chro-marketplace/internal/infrastructure/storage/db/inmemory"
	"github.com/stretchr/testify/require"
)

const (
	collection       = "punks"
	escrow           = "marketplace"
	publicationFees  = "publisher"
	saleFee          = uint64(10)
	auctionFee       = uint64(20)
	startTime        = int64(1700000000)
	seller           = "seller"
	buyer            = "buyer"
	initialBalance   = uint64(1000)
	collectorA       = "collector-a"
	collectorB       = "collector-b"
	percentageA      = uint32(25)
	percentageB      = uint32(10)
	otherCollection  = "apes"
	inactiveCollName = "inactive"
)

var ctx = context.Background()

type testClock struct {
	lock sync.Mutex
	now  int64
}

func (c *testClock) Now() int64 {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.now
}

func (c *testClock) Advance(seconds int64) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.now += seconds
}

// faultyAssetLedger lets tests make transfers or ownership lookups fail for
// a given asset.
type faultyAssetLedger struct {
	*ledger.AssetRegistry
	lock          sync.Mutex
	failTransfer  map[uint64]bool
	failOwnership map[uint64]bool
}

func (l *faultyAssetLedger) Transfer(
	ctx context.Context, collection string, assetID uint64, from, to string,
) error {
	l.lock.Lock()
	fail := l.failTransfer[assetID]
	l.lock.Unlock()
	if fail {
		return fmt.Errorf("asset ledger unavailable")
	}
	return l.AssetRegistry.Transfer(ctx, collection, assetID, from, to)
}

func (l *faultyAssetLedger) OwnerOf(
	ctx context.Context, collection string, assetID uint64,
) (string, error) {
	l.lock.Lock()
	fail := l.failOwnership[assetID]
	l.lock.Unlock()
	if fail {
		return "", fmt.Errorf("asset ledger unavailable")
	}
	return l.AssetRegistry.OwnerOf(ctx, collection, assetID)
}

func (l *faultyAssetLedger) setFailTransfer(assetID uint64, fail bool) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.failTransfer[assetID] = fail
}

func (l *faultyAssetLedger) setFailOwnership(assetID uint64, fail bool) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.failOwnership[assetID] = fail
}

// faultyTokenLedger lets tests make payouts to a given account fail.
type faultyTokenLedger struct {
	*ledger.TokenLedger
	lock       sync.Mutex
	failPayout map[string]bool
}

func (l *faultyTokenLedger) Transfer(
	ctx context.Context, to string, amount uint64,
) error {
	l.lock.Lock()
	fail := l.failPayout[to]
	l.lock.Unlock()
	if fail {
		return fmt.Errorf("token ledger rejected payout to %s", to)
	}
	return l.TokenLedger.Transfer(ctx, to, amount)
}

func (l *faultyTokenLedger) setFailPayout(account string, fail bool) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.failPayout[account] = fail
}

type testEnv struct {
	svc    *service
	repo   ports.RepoManager
	assets *faultyAssetLedger
	tokens *faultyTokenLedger
	events *pubsub.Service
	clock  *testClock
}

func newTestEnv(t *testing.T, scale uint32, secure ports.SecurePubSub) *testEnv {
	registry, err := ledger.NewAssetRegistry(scale)
	require.NoError(t, err)
	assets := &faultyAssetLedger{
		AssetRegistry: registry,
		failTransfer:  make(map[uint64]bool),
		failOwnership: make(map[uint64]bool),
	}
	tokenLedger, err := ledger.NewTokenLedger(escrow)
	require.NoError(t, err)
	tokens := &faultyTokenLedger{
		TokenLedger: tokenLedger,
		failPayout:  make(map[string]bool),
	}

	repo := inmemory.NewRepoManager()
	clock := &testClock{now: startTime}

	events := pubsub.NewService(secure)
	t.Cleanup(events.Close)

	svc, err := NewService(repo, assets, tokens, events, scale, clock.Now)
	require.NoError(t, err)

	for _, c := range []struct {
		address string
		active  bool
	}{
		{collection, true}, {otherCollection, true}, {inactiveCollName, false},
	} {
		coll, err := domain.NewCollection(c.address, c.address, c.active, startTime)
		require.NoError(t, err)
		require.NoError(t, repo.CollectionRepository().AddCollection(ctx, coll))
	}

	err = repo.FeePolicyRepository().UpdateFeePolicy(
		ctx, scale, func(p *domain.FeePolicy) (*domain.FeePolicy, error) {
			if err := p.AddFeeCollector(collectorA, percentageA); err != nil {
				return nil, err
			}
			if err := p.AddFeeCollector(collectorB, percentageB); err != nil {
				return nil, err
			}
			if err := p.SetPublicationFeeWallet(publicationFees); err != nil {
				return nil, err
			}
			if err := p.SetPublicationFee(domain.ListingKindDirectSale, saleFee); err != nil {
				return nil, err
			}
			if err := p.SetPublicationFee(domain.ListingKindAuction, auctionFee); err != nil {
				return nil, err
			}
			return p, nil
		},
	)
	require.NoError(t, err)

	return &testEnv{
		svc:    svc,
		repo:   repo,
		assets: assets,
		tokens: tokens,
		events: events,
		clock:  clock,
	}
}

// fund gives the account an initial balance, all spendable by the
// marketplace.
func (e *testEnv) fund(t *testing.T, accounts ...string) {
	for _, account := range accounts {
		require.NoError(t, e.tokens.Mint(account, initialBalance))
		require.NoError(t, e.tokens.Approve(account, initialBalance))
	}
}

// mint creates an asset held by holder and approves the marketplace.
func (e *testEnv) mint(t *testing.T, coll string, assetID uint64, holder string) {
	require.NoError(t, e.assets.Mint(coll, assetID, holder))
	require.NoError(t, e.assets.SetApprovalForAll(coll, holder, true))
}

func (e *testEnv) balanceOf(t *testing.T, account string) uint64 {
	balance, err := e.tokens.BalanceOf(ctx, account)
	require.NoError(t, err)
	return balance
}

func (e *testEnv) ownerOf(t *testing.T, coll string, assetID uint64) string {
	owner, err := e.assets.AssetRegistry.OwnerOf(ctx, coll, assetID)
	require.NoError(t, err)
	return owner
}

func (e *testEnv) requireBalances(t *testing.T, expected map[string]uint64) {
	for account, balance := range expected {
		require.Equal(t, balance, e.balanceOf(t, account), account)
	}
}

// recordingPubSub is a SecurePubSub keeping every published message in
// memory, along with the order of the topics.
type recordingPubSub struct {
	lock     sync.Mutex
	messages map[string][]string
	topics   []string
}

func newRecordingPubSub() *recordingPubSub {
	return &recordingPubSub{messages: make(map[string][]string)}
}

func (r *recordingPubSub) Subscribe(topic, endpoint, secret string) (string, error) {
	return "", nil
}
func (r *recordingPubSub) Unsubscribe(topic, id string) error { return nil }
func (r *recordingPubSub) ListSubscriptionsForTopic(topic string) []ports.Subscription {
	return nil
}
func (r *recordingPubSub) Close() error { return nil }

func (r *recordingPubSub) Publish(topic string, message string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.messages[topic] = append(r.messages[topic], message)
	r.topics = append(r.topics, topic)
	return nil
}

func (r *recordingPubSub) count(topic string) int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.messages[topic])
}
