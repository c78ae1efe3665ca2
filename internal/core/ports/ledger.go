package ports

import "context"

// AssetLedger is the capability that moves unique assets between holders.
// The marketplace acts as an operator approved by the holders.
type AssetLedger interface {
	// OwnerOf returns the current holder of the asset.
	OwnerOf(ctx context.Context, collection string, assetID uint64) (string, error)
	// IsApproved returns whether the holder authorized the marketplace to
	// move its assets of the given collection.
	IsApproved(ctx context.Context, collection, holder string) (bool, error)
	// Transfer moves the asset, failing if from is not the holder or has not
	// authorized the marketplace.
	Transfer(
		ctx context.Context, collection string, assetID uint64, from, to string,
	) error
}

// TokenLedger is the capability that moves the fungible payment token. The
// marketplace owns an escrow account on the ledger.
type TokenLedger interface {
	// BalanceOf returns the balance of the account.
	BalanceOf(ctx context.Context, account string) (uint64, error)
	// Allowance returns the amount the owner authorized the marketplace to
	// spend on its behalf.
	Allowance(ctx context.Context, owner string) (uint64, error)
	// TransferFrom moves funds on behalf of from, consuming its allowance.
	TransferFrom(ctx context.Context, from, to string, amount uint64) error
	// Transfer moves funds out of the marketplace escrow account.
	Transfer(ctx context.Context, to string, amount uint64) error
	// EscrowAccount returns the identity of the marketplace escrow account.
	EscrowAccount() string
}

// RoyaltyProvider is optionally implemented by asset ledgers whose assets
// carry a creator royalty.
type RoyaltyProvider interface {
	// RoyaltyInfo returns the receiver and amount of the royalty owed for the
	// given sale price. An empty receiver means no royalty.
	RoyaltyInfo(
		ctx context.Context, collection string, assetID, salePrice uint64,
	) (string, uint64, error)
}
