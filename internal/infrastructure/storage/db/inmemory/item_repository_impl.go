package inmemory

import (
	"context"
	"sort"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
)

type itemRepositoryImpl struct {
	store *store
}

// NewItemRepositoryImpl returns a new inmemory ItemRepository implementation.
func NewItemRepositoryImpl(store *store) domain.ItemRepository {
	return &itemRepositoryImpl{store}
}

func (r *itemRepositoryImpl) AddItem(
	ctx context.Context, item *domain.Item,
) (uint64, error) {
	var id uint64
	err := r.store.write(ctx, func(d *storeData) error {
		d.itemSeq++
		id = d.itemSeq
		i := *item
		i.ID = id
		d.items[id] = i
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
	err := r.store.read(ctx, func(d *storeData) error {
		i, ok := d.items[id]
		if !ok {
			return domain.ErrItemNotFound
		}
		item = &i
		return nil
	})
	return item, err
}

func (r *itemRepositoryImpl) GetActiveItemByAsset(
	ctx context.Context, collection string, assetID uint64,
) (*domain.Item, error) {
	var item *domain.Item
	err := r.store.read(ctx, func(d *storeData) error {
		for _, i := range d.items {
			if i.IsActive() && i.Collection == collection && i.AssetID == assetID {
				found := i
				item = &found
				return nil
			}
		}
		return nil
	})
	return item, err
}

func (r *itemRepositoryImpl) GetItems(
	ctx context.Context, page domain.Page,
) ([]domain.Item, error) {
	items := make([]domain.Item, 0)
	err := r.store.read(ctx, func(d *storeData) error {
		// ids are sequential starting from 1, so the page maps to a range.
		from := uint64(page.Offset) + 1
		to := from + uint64(page.Limit)
		for id := from; id < to && id <= d.itemSeq; id++ {
			if i, ok := d.items[id]; ok {
				items = append(items, i)
			}
		}
		return nil
	})
	return items, err
}

func (r *itemRepositoryImpl) GetExpiredAuctions(
	ctx context.Context, now int64,
) ([]domain.Item, error) {
	items := make([]domain.Item, 0)
	err := r.store.read(ctx, func(d *storeData) error {
		for _, i := range d.items {
			if i.IsActive() && i.IsExpired(now) {
				items = append(items, i)
			}
		}
		return nil
	})
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ID < items[j].ID
	})
	return items, err
}

func (r *itemRepositoryImpl) UpdateItem(
	ctx context.Context, id uint64,
	updateFn func(i *domain.Item) (*domain.Item, error),
) error {
	return r.store.write(ctx, func(d *storeData) error {
		current, ok := d.items[id]
		if !ok {
			return domain.ErrItemNotFound
		}

		updated, err := updateFn(&current)
		if err != nil {
			return err
		}
		updated.ID = id
		d.items[id] = *updated
		return nil
	})
}
