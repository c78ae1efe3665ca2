package inmemory

import (
	"context"
	"sync"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
)

type txKey struct{}

// storeData holds the whole state of the in-memory database.
type storeData struct {
	items           map[uint64]domain.Item
	itemSeq         uint64
	bids            map[uint64][]domain.Bid
	swaps           map[uint64]domain.Swap
	swapSeq         uint64
	collections     map[string]domain.Collection
	collectionOrder []string
	feePolicy       *domain.FeePolicy
	payouts         map[uint64]domain.Payout
	payoutSeq       uint64
}

func newStoreData() *storeData {
	return &storeData{
		items:           make(map[uint64]domain.Item),
		bids:            make(map[uint64][]domain.Bid),
		swaps:           make(map[uint64]domain.Swap),
		collections:     make(map[string]domain.Collection),
		collectionOrder: make([]string, 0),
		payouts:         make(map[uint64]domain.Payout),
	}
}

// clone returns a deep copy used to roll back a failed write transaction.
func (d *storeData) clone() *storeData {
	c := &storeData{
		items:           make(map[uint64]domain.Item, len(d.items)),
		itemSeq:         d.itemSeq,
		bids:            make(map[uint64][]domain.Bid, len(d.bids)),
		swaps:           make(map[uint64]domain.Swap, len(d.swaps)),
		swapSeq:         d.swapSeq,
		collections:     make(map[string]domain.Collection, len(d.collections)),
		collectionOrder: append([]string{}, d.collectionOrder...),
		feePolicy:       copyFeePolicy(d.feePolicy),
		payouts:         make(map[uint64]domain.Payout, len(d.payouts)),
		payoutSeq:       d.payoutSeq,
	}
	for k, v := range d.items {
		c.items[k] = v
	}
	for k, v := range d.bids {
		c.bids[k] = append([]domain.Bid{}, v...)
	}
	for k, v := range d.swaps {
		c.swaps[k] = v
	}
	for k, v := range d.collections {
		c.collections[k] = v
	}
	for k, v := range d.payouts {
		c.payouts[k] = v
	}
	return c
}

type store struct {
	locker *sync.RWMutex
	data   *storeData
}

func newStore() *store {
	return &store{
		locker: &sync.RWMutex{},
		data:   newStoreData(),
	}
}

// read runs fn with a shared lock, unless ctx belongs to a running
// transaction that already holds the lock.
func (s *store) read(ctx context.Context, fn func(d *storeData) error) error {
	if isInTx(ctx) {
		return fn(s.data)
	}
	s.locker.RLock()
	defer s.locker.RUnlock()
	return fn(s.data)
}

// write runs fn with an exclusive lock, unless ctx belongs to a running
// transaction that already holds the lock.
func (s *store) write(ctx context.Context, fn func(d *storeData) error) error {
	if readOnly, ok := ctx.Value(txKey{}).(bool); ok {
		if readOnly {
			return ErrReadOnlyTx
		}
		return fn(s.data)
	}
	s.locker.Lock()
	defer s.locker.Unlock()

	backup := s.data.clone()
	if err := fn(s.data); err != nil {
		s.data = backup
		return err
	}
	return nil
}

func (s *store) runTransaction(
	ctx context.Context, readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	if isInTx(ctx) {
		return handler(ctx)
	}

	if readOnly {
		s.locker.RLock()
		defer s.locker.RUnlock()
		return handler(context.WithValue(ctx, txKey{}, true))
	}

	s.locker.Lock()
	defer s.locker.Unlock()

	backup := s.data.clone()
	res, err := handler(context.WithValue(ctx, txKey{}, false))
	if err != nil {
		s.data = backup
		return nil, err
	}
	return res, nil
}

func isInTx(ctx context.Context) bool {
	return ctx.Value(txKey{}) != nil
}

func copyFeePolicy(p *domain.FeePolicy) *domain.FeePolicy {
	if p == nil {
		return nil
	}
	c := *p
	c.Collectors = append([]domain.FeeCollector{}, p.Collectors...)
	c.PublicationFees = make(map[domain.ListingKind]uint64, len(p.PublicationFees))
	for k, v := range p.PublicationFees {
		c.PublicationFees[k] = v
	}
	return &c
}
