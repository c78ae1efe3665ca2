package db_test

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/chro-network/chro-marketplace/internal/core/ports"
	dbbadger "github.com/chro-network/chro-marketplace/internal/infrastructure/storage/db/badger"
	"github.com/chro-network/chro-marketplace/internal/infrastructure/storage/db/inmemory"
	"github.com/stretchr/testify/require"
)

var (
	readOnly = true
	ctx      = context.Background()
	now      = int64(1700000000)
)

type repoManager struct {
	Name string
	ports.RepoManager
}

func (r repoManager) read(
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	return r.RunTransaction(ctx, readOnly, handler)
}

func (r repoManager) write(
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	return r.RunTransaction(ctx, !readOnly, handler)
}

// createRepoManagers returns a fresh instance of every storage backend. The
// badger one runs in memory.
func createRepoManagers(t *testing.T) []repoManager {
	badgerRepoManager, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)

	managers := []repoManager{
		{Name: "inmemory", RepoManager: inmemory.NewRepoManager()},
		{Name: "badger", RepoManager: badgerRepoManager},
	}
	t.Cleanup(func() {
		for _, m := range managers {
			m.Close()
		}
	})
	return managers
}

func makeRandomSaleItem(t *testing.T) *domain.Item {
	item, err := domain.NewSaleItem(
		randomHex(20), randomHex(20), randomAssetID(), 300, now,
	)
	require.NoError(t, err)
	return item
}

func makeRandomAuctionItem(t *testing.T, expiry int64) *domain.Item {
	item, err := domain.NewAuctionItem(
		randomHex(20), randomHex(20), randomAssetID(), 400, expiry, now,
	)
	require.NoError(t, err)
	return item
}

func randomHex(len int) string {
	return hex.EncodeToString(randomBytes(len))
}

func randomAssetID() uint64 {
	b := randomBytes(4)
	return uint64(b[0])<<24 | uint64(b[1])<<16 | uint64(b[2])<<8 | uint64(b[3])
}

func randomBytes(len int) []byte {
	b := make([]byte, len)
	//nolint
	rand.Read(b)
	return b
}
