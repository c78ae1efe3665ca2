package operator

import (
	"context"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/chro-network/chro-marketplace/pkg/stats"
	log "github.com/sirupsen/logrus"
)

func (s *service) CreateCollection(
	ctx context.Context, address, name string, active bool,
) (*domain.Collection, error) {
	collection, err := domain.NewCollection(address, name, active, s.now())
	if err != nil {
		return nil, err
	}

	err = s.repoManager.CollectionRepository().AddCollection(ctx, collection)
	stats.RecordOperation("create_collection", err)
	if err != nil {
		return nil, err
	}

	log.Debugf("collection %s: created (active: %t)", collection.Address, collection.Active)
	s.publishCollectionUpdated(*collection)
	return collection, nil
}

// SetCollectionActive opens or closes a collection to new listings. Items
// already listed are not affected.
func (s *service) SetCollectionActive(
	ctx context.Context, address string, active bool,
) (*domain.Collection, error) {
	var updated domain.Collection
	err := s.repoManager.CollectionRepository().UpdateCollection(
		ctx, address, func(c *domain.Collection) (*domain.Collection, error) {
			if active {
				c.Activate()
			} else {
				c.Deactivate()
			}
			updated = *c
			return c, nil
		},
	)
	stats.RecordOperation("set_collection_active", err)
	if err != nil {
		return nil, err
	}

	log.Debugf("collection %s: active set to %t", address, active)
	s.publishCollectionUpdated(updated)
	return &updated, nil
}

func (s *service) GetCollections(ctx context.Context) ([]domain.Collection, error) {
	return s.repoManager.CollectionRepository().GetAllCollections(ctx)
}

func (s *service) publishCollectionUpdated(collection domain.Collection) {
	if err := s.pubsub.PublishCollectionUpdatedTopic(collection); err != nil {
		log.WithError(err).Warnf(
			"pubsub: failed to publish topic for collection %s",
			collection.Address,
		)
	}
}
