package dbbadger

import (
	"context"
	"sort"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
)

const itemSequence = "item"

type itemRepositoryImpl struct {
	db *DbManager
}

// NewItemRepositoryImpl returns a new badger ItemRepository implementation.
func NewItemRepositoryImpl(db *DbManager) domain.ItemRepository {
	return &itemRepositoryImpl{db}
}

func (r *itemRepositoryImpl) AddItem(
	ctx context.Context, item *domain.Item,
) (uint64, error) {
	var id uint64
	err := r.db.update(ctx, func(tx *badger.Txn) error {
		nextID, err := r.db.nextID(tx, itemSequence)
		if err != nil {
			return err
		}
		i := *item
		i.ID = nextID
		if err := r.db.store.TxInsert(tx, nextID, &i); err != nil {
			return err
		}
		id = nextID
		return nil
	})
	if err != nil {
		return 0, err
	}
	item.ID = id
	return id, nil
}

func (r *itemRepositoryImpl) GetItem(
	ctx context.Context, id uint64,
) (*domain.Item, error) {
	var item *domain.Item
	err := r.db.view(ctx, func(tx *badger.Txn) error {
		i, err := r.getItem(tx, id)
		item = i
		return err
	})
	return item, err
}

func (r *itemRepositoryImpl) GetActiveItemByAsset(
	ctx context.Context, collection string, assetID uint64,
) (*domain.Item, error) {
	query := badgerhold.Where("Status").Eq(domain.ItemStatusActive).
		And("Collection").Eq(collection).
		And("AssetID").Eq(assetID)

	var items []domain.Item
	err := r.db.view(ctx, func(tx *badger.Txn) error {
		return r.db.store.TxFind(tx, &items, query)
	})
	if err != nil {
		return nil, err
	}
	if len(items) <= 0 {
		return nil, nil
	}
	return &items[0], nil
}

func (r *itemRepositoryImpl) GetItems(
	ctx context.Context, page domain.Page,
) ([]domain.Item, error) {
	items := make([]domain.Item, 0, page.Limit)
	err := r.db.view(ctx, func(tx *badger.Txn) error {
		last, err := r.db.lastID(tx, itemSequence)
		if err != nil {
			return err
		}
		from := uint64(page.Offset) + 1
		to := from + uint64(page.Limit)
		for id := from; id < to && id <= last; id++ {
			item, err := r.getItem(tx, id)
			if err != nil {
				return err
			}
			items = append(items, *item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepositoryImpl) GetExpiredAuctions(
	ctx context.Context, now int64,
) ([]domain.Item, error) {
	query := badgerhold.Where("Status").Eq(domain.ItemStatusActive).
		And("Kind").Eq(domain.ListingKindAuction)

	var auctions []domain.Item
	err := r.db.view(ctx, func(tx *badger.Txn) error {
		return r.db.store.TxFind(tx, &auctions, query)
	})
	if err != nil {
		return nil, err
	}

	expired := make([]domain.Item, 0, len(auctions))
	for _, a := range auctions {
		if a.IsExpired(now) {
			expired = append(expired, a)
		}
	}
	sort.SliceStable(expired, func(i, j int) bool {
		return expired[i].ID < expired[j].ID
	})
	return expired, nil
}

func (r *itemRepositoryImpl) UpdateItem(
	ctx context.Context, id uint64,
	updateFn func(i *domain.Item) (*domain.Item, error),
) error {
	return r.db.update(ctx, func(tx *badger.Txn) error {
		current, err := r.getItem(tx, id)
		if err != nil {
			return err
		}

		updated, err := updateFn(current)
		if err != nil {
			return err
		}
		updated.ID = id
		return r.db.store.TxUpdate(tx, id, updated)
	})
}

func (r *itemRepositoryImpl) getItem(
	tx *badger.Txn, id uint64,
) (*domain.Item, error) {
	var item domain.Item
	if err := r.db.store.TxGet(tx, id, &item); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}
