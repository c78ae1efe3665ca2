package db_test

import (
	"testing"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestCollectionRepositoryImplementations(t *testing.T) {
	managers := createRepoManagers(t)

	for i := range managers {
		repo := managers[i]

		t.Run(repo.Name, func(t *testing.T) {
			testCollections(t, repo)
		})
	}
}

func testCollections(t *testing.T, repo repoManager) {
	addresses := []string{randomHex(20), randomHex(20), randomHex(20)}
	for i, address := range addresses {
		collection, err := domain.NewCollection(address, "collection", i != 1, now)
		require.NoError(t, err)
		err = repo.CollectionRepository().AddCollection(ctx, collection)
		require.NoError(t, err)
	}

	duplicate, _ := domain.NewCollection(addresses[0], "other", true, now)
	err := repo.CollectionRepository().AddCollection(ctx, duplicate)
	require.ErrorIs(t, err, domain.ErrCollectionExists)

	collection, err := repo.CollectionRepository().GetCollection(ctx, addresses[1])
	require.NoError(t, err)
	require.False(t, collection.IsActive())

	err = repo.CollectionRepository().UpdateCollection(
		ctx, addresses[1], func(c *domain.Collection) (*domain.Collection, error) {
			c.Activate()
			return c, nil
		},
	)
	require.NoError(t, err)

	collection, err = repo.CollectionRepository().GetCollection(ctx, addresses[1])
	require.NoError(t, err)
	require.True(t, collection.IsActive())

	collections, err := repo.CollectionRepository().GetAllCollections(ctx)
	require.NoError(t, err)
	require.Len(t, collections, len(addresses))
	for i, c := range collections {
		require.Equal(t, addresses[i], c.Address)
		require.Equal(t, "collection", c.Name)
	}

	_, err = repo.CollectionRepository().GetCollection(ctx, randomHex(20))
	require.ErrorIs(t, err, domain.ErrCollectionNotFound)
}
