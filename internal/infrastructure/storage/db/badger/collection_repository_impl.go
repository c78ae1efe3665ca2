package dbbadger

import (
	"context"
	"sort"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
)

// collectionData wraps a collection with its insertion position, used to
// list collections sorted by creation.
type collectionData struct {
	domain.Collection
	Position uint64
}

const collectionSequence = "collection"

type collectionRepositoryImpl struct {
	db *DbManager
}

// NewCollectionRepositoryImpl returns a new badger CollectionRepository
// implementation.
func NewCollectionRepositoryImpl(db *DbManager) domain.CollectionRepository {
	return &collectionRepositoryImpl{db}
}

func (r *collectionRepositoryImpl) AddCollection(
	ctx context.Context, collection *domain.Collection,
) error {
	return r.db.update(ctx, func(tx *badger.Txn) error {
		var existing collectionData
		err := r.db.store.TxGet(tx, collection.Address, &existing)
		if err == nil {
			return domain.ErrCollectionExists
		}
		if err != badgerhold.ErrNotFound {
			return err
		}

		position, err := r.db.nextID(tx, collectionSequence)
		if err != nil {
			return err
		}
		data := collectionData{*collection, position}
		return r.db.store.TxInsert(tx, collection.Address, &data)
	})
}

func (r *collectionRepositoryImpl) GetCollection(
	ctx context.Context, address string,
) (*domain.Collection, error) {
	var data *collectionData
	err := r.db.view(ctx, func(tx *badger.Txn) error {
		d, err := r.getCollection(tx, address)
		data = d
		return err
	})
	if err != nil {
		return nil, err
	}
	return &data.Collection, nil
}

func (r *collectionRepositoryImpl) GetAllCollections(
	ctx context.Context,
) ([]domain.Collection, error) {
	var data []collectionData
	err := r.db.view(ctx, func(tx *badger.Txn) error {
		return r.db.store.TxFind(tx, &data, nil)
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(data, func(i, j int) bool {
		return data[i].Position < data[j].Position
	})
	collections := make([]domain.Collection, 0, len(data))
	for _, d := range data {
		collections = append(collections, d.Collection)
	}
	return collections, nil
}

func (r *collectionRepositoryImpl) UpdateCollection(
	ctx context.Context, address string,
	updateFn func(c *domain.Collection) (*domain.Collection, error),
) error {
	return r.db.update(ctx, func(tx *badger.Txn) error {
		current, err := r.getCollection(tx, address)
		if err != nil {
			return err
		}

		updated, err := updateFn(&current.Collection)
		if err != nil {
			return err
		}
		updated.Address = address
		data := collectionData{*updated, current.Position}
		return r.db.store.TxUpdate(tx, address, &data)
	})
}

func (r *collectionRepositoryImpl) getCollection(
	tx *badger.Txn, address string,
) (*collectionData, error) {
	var data collectionData
	if err := r.db.store.TxGet(tx, address, &data); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrCollectionNotFound
		}
		return nil, err
	}
	return &data, nil
}
