package dbbadger

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/chro-network/chro-marketplace/internal/core/ports"
	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
)

type txKey struct{}

// DbManager holds the badgerhold store and the repositories built on top of
// it. Write transactions are serialized by a writer mutex, so that badger
// never reports a conflict for concurrent marketplace operations.
type DbManager struct {
	store  *badgerhold.Store
	writer *sync.Mutex
	ticker *time.Ticker

	itemRepository       domain.ItemRepository
	bidRepository        domain.BidRepository
	swapRepository       domain.SwapRepository
	collectionRepository domain.CollectionRepository
	feePolicyRepository  domain.FeePolicyRepository
	payoutRepository     domain.PayoutRepository
}

// NewRepoManager opens (or creates if not exists) the badger store in the
// given base data dir. If the dir is empty, the store is kept in memory.
func NewRepoManager(
	baseDbDir string, logger badger.Logger,
) (ports.RepoManager, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, "market")
	}

	store, ticker, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening market db: %w", err)
	}

	db := &DbManager{
		store:  store,
		writer: &sync.Mutex{},
		ticker: ticker,
	}
	db.itemRepository = NewItemRepositoryImpl(db)
	db.bidRepository = NewBidRepositoryImpl(db)
	db.swapRepository = NewSwapRepositoryImpl(db)
	db.collectionRepository = NewCollectionRepositoryImpl(db)
	db.feePolicyRepository = NewFeePolicyRepositoryImpl(db)
	db.payoutRepository = NewPayoutRepositoryImpl(db)
	return db, nil
}

func (d *DbManager) ItemRepository() domain.ItemRepository {
	return d.itemRepository
}

func (d *DbManager) BidRepository() domain.BidRepository {
	return d.bidRepository
}

func (d *DbManager) SwapRepository() domain.SwapRepository {
	return d.swapRepository
}

func (d *DbManager) CollectionRepository() domain.CollectionRepository {
	return d.collectionRepository
}

func (d *DbManager) FeePolicyRepository() domain.FeePolicyRepository {
	return d.feePolicyRepository
}

func (d *DbManager) PayoutRepository() domain.PayoutRepository {
	return d.payoutRepository
}

func (d *DbManager) Close() {
	if d.ticker != nil {
		d.ticker.Stop()
	}
	if err := d.store.Close(); err != nil {
		log.WithError(err).Warn("error while closing market db")
	}
}

// RunTransaction runs the handler in a badger transaction carried in ctx so
// that every repository method invoked by the handler takes part to it. If
// ctx already carries a transaction the handler joins it.
func (d *DbManager) RunTransaction(
	ctx context.Context, readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	if ctx.Value(txKey{}) != nil {
		return handler(ctx)
	}

	if !readOnly {
		d.writer.Lock()
		defer d.writer.Unlock()
	}

	tx := d.store.Badger().NewTransaction(!readOnly)
	defer tx.Discard()

	res, err := handler(context.WithValue(ctx, txKey{}, tx))
	if err != nil {
		return nil, err
	}

	if !readOnly {
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("committing transaction: %w", err)
		}
	}
	return res, nil
}

// view runs fn in the transaction carried by ctx, or in a new read-only one.
func (d *DbManager) view(ctx context.Context, fn func(tx *badger.Txn) error) error {
	if tx, ok := ctx.Value(txKey{}).(*badger.Txn); ok {
		return fn(tx)
	}
	return d.store.Badger().View(fn)
}

// update runs fn in the transaction carried by ctx, or in a new serialized
// read-write one.
func (d *DbManager) update(ctx context.Context, fn func(tx *badger.Txn) error) error {
	if tx, ok := ctx.Value(txKey{}).(*badger.Txn); ok {
		return fn(tx)
	}
	d.writer.Lock()
	defer d.writer.Unlock()
	return d.store.Badger().Update(fn)
}

// sequence is the persisted counter from which item, swap and payout ids
// are allocated.
type sequence struct {
	Name  string
	Value uint64
}

func (d *DbManager) nextID(tx *badger.Txn, name string) (uint64, error) {
	var seq sequence
	if err := d.store.TxGet(tx, name, &seq); err != nil {
		if err != badgerhold.ErrNotFound {
			return 0, err
		}
		seq = sequence{Name: name}
	}
	seq.Value++
	if err := d.store.TxUpsert(tx, name, &seq); err != nil {
		return 0, err
	}
	return seq.Value, nil
}

func (d *DbManager) lastID(tx *badger.Txn, name string) (uint64, error) {
	var seq sequence
	if err := d.store.TxGet(tx, name, &seq); err != nil {
		if err == badgerhold.ErrNotFound {
			return 0, nil
		}
		return 0, err
	}
	return seq.Value, nil
}

func createDb(
	dbDir string, logger badger.Logger,
) (*badgerhold.Store, *time.Ticker, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	db, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, nil, err
	}

	if isInMemory {
		return db, nil, nil
	}

	ticker := time.NewTicker(30 * time.Minute)
	go func() {
		for range ticker.C {
			if err := db.Badger().RunValueLogGC(0.5); err != nil &&
				err != badger.ErrNoRewrite {
				log.WithError(err).Warn("market db value log gc failed")
			}
		}
	}()

	return db, ticker, nil
}
