package ledger

import (
	"context"
	"sync"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/chro-network/chro-marketplace/internal/core/ports"
	"github.com/chro-network/chro-marketplace/pkg/mathutil"
)

type assetKey struct {
	collection string
	assetID    uint64
}

type approvalKey struct {
	collection string
	holder     string
}

type royaltyRule struct {
	receiver   string
	percentage uint32
}

// AssetRegistry is an in-process registry of unique assets. It implements
// ports.AssetLedger and ports.RoyaltyProvider.
type AssetRegistry struct {
	lock      *sync.RWMutex
	scale     uint32
	owners    map[assetKey]string
	approvals map[approvalKey]bool
	royalties map[string]royaltyRule
}

// NewAssetRegistry returns an empty registry. Royalty percentages are
// expressed in parts of the given scale.
func NewAssetRegistry(scale uint32) (*AssetRegistry, error) {
	if scale == 0 {
		return nil, domain.ErrInvalidFeeScale
	}
	return &AssetRegistry{
		lock:      &sync.RWMutex{},
		scale:     scale,
		owners:    make(map[assetKey]string),
		approvals: make(map[approvalKey]bool),
		royalties: make(map[string]royaltyRule),
	}, nil
}

var (
	_ ports.AssetLedger     = (*AssetRegistry)(nil)
	_ ports.RoyaltyProvider = (*AssetRegistry)(nil)
)

// Mint creates a new asset held by holder.
func (r *AssetRegistry) Mint(collection string, assetID uint64, holder string) error {
	if len(collection) <= 0 {
		return domain.ErrInvalidCollection
	}
	if len(holder) <= 0 {
		return ErrMissingAccount
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	key := assetKey{collection, assetID}
	if _, ok := r.owners[key]; ok {
		return ErrAssetExists
	}
	r.owners[key] = holder
	return nil
}

// SetApprovalForAll authorizes, or revokes the authorization of, the
// marketplace to move any asset of the collection held by holder.
func (r *AssetRegistry) SetApprovalForAll(
	collection, holder string, approved bool,
) error {
	if len(collection) <= 0 {
		return domain.ErrInvalidCollection
	}
	if len(holder) <= 0 {
		return ErrMissingAccount
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	key := approvalKey{collection, holder}
	if !approved {
		delete(r.approvals, key)
		return nil
	}
	r.approvals[key] = true
	return nil
}

// SetRoyalty sets the royalty owed to receiver on every sale of an asset of
// the collection. A zero percentage removes the royalty.
func (r *AssetRegistry) SetRoyalty(
	collection, receiver string, percentage uint32,
) error {
	if len(collection) <= 0 {
		return domain.ErrInvalidCollection
	}
	if percentage > r.scale {
		return domain.ErrInvalidPercentage
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	if percentage == 0 {
		delete(r.royalties, collection)
		return nil
	}
	if len(receiver) <= 0 {
		return ErrMissingAccount
	}
	r.royalties[collection] = royaltyRule{receiver, percentage}
	return nil
}

func (r *AssetRegistry) OwnerOf(
	_ context.Context, collection string, assetID uint64,
) (string, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	owner, ok := r.owners[assetKey{collection, assetID}]
	if !ok {
		return "", ErrAssetNotFound
	}
	return owner, nil
}

func (r *AssetRegistry) IsApproved(
	_ context.Context, collection, holder string,
) (bool, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.approvals[approvalKey{collection, holder}], nil
}

func (r *AssetRegistry) Transfer(
	_ context.Context, collection string, assetID uint64, from, to string,
) error {
	if len(to) <= 0 {
		return ErrMissingAccount
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	key := assetKey{collection, assetID}
	owner, ok := r.owners[key]
	if !ok {
		return ErrAssetNotFound
	}
	if owner != from {
		return domain.ErrNotOwner
	}
	if !r.approvals[approvalKey{collection, from}] {
		return domain.ErrAssetNotApproved
	}

	r.owners[key] = to
	return nil
}

func (r *AssetRegistry) RoyaltyInfo(
	_ context.Context, collection string, _, salePrice uint64,
) (string, uint64, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	rule, ok := r.royalties[collection]
	if !ok {
		return "", 0, nil
	}
	return rule.receiver, mathutil.ShareOf(salePrice, rule.percentage, r.scale), nil
}
