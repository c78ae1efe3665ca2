package inmemory

import (
	"context"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
)

type collectionRepositoryImpl struct {
	store *store
}

// NewCollectionRepositoryImpl returns a new inmemory CollectionRepository
// implementation.
func NewCollectionRepositoryImpl(store *store) domain.CollectionRepository {
	return &collectionRepositoryImpl{store}
}

func (r *collectionRepositoryImpl) AddCollection(
	ctx context.Context, collection *domain.Collection,
) error {
	return r.store.write(ctx, func(d *storeData) error {
		if _, ok := d.collections[collection.Address]; ok {
			return domain.ErrCollectionExists
		}
		d.collections[collection.Address] = *collection
		d.collectionOrder = append(d.collectionOrder, collection.Address)
		return nil
	})
}

func (r *collectionRepositoryImpl) GetCollection(
	ctx context.Context, address string,
) (*domain.Collection, error) {
	var collection *domain.Collection
	err := r.store.read(ctx, func(d *storeData) error {
		c, ok := d.collections[address]
		if !ok {
			return domain.ErrCollectionNotFound
		}
		collection = &c
		return nil
	})
	return collection, err
}

func (r *collectionRepositoryImpl) GetAllCollections(
	ctx context.Context,
) ([]domain.Collection, error) {
	collections := make([]domain.Collection, 0)
	err := r.store.read(ctx, func(d *storeData) error {
		for _, address := range d.collectionOrder {
			collections = append(collections, d.collections[address])
		}
		return nil
	})
	return collections, err
}

func (r *collectionRepositoryImpl) UpdateCollection(
	ctx context.Context, address string,
	updateFn func(c *domain.Collection) (*domain.Collection, error),
) error {
	return r.store.write(ctx, func(d *storeData) error {
		current, ok := d.collections[address]
		if !ok {
			return domain.ErrCollectionNotFound
		}

		updated, err := updateFn(&current)
		if err != nil {
			return err
		}
		updated.Address = address
		d.collections[address] = *updated
		return nil
	})
}
