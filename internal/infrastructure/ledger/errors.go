package ledger

import (
	"fmt"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
)

var (
	// ErrAssetNotFound ...
	ErrAssetNotFound = fmt.Errorf("%w: asset not found", domain.ErrNotFound)
	// ErrAssetExists is returned when minting an asset id already in use.
	ErrAssetExists = fmt.Errorf("%w: asset already exists", domain.ErrInvalidInput)
	// ErrInvalidAmount ...
	ErrInvalidAmount = fmt.Errorf("%w: amount must be greater than zero", domain.ErrInvalidInput)
	// ErrMissingAccount ...
	ErrMissingAccount = fmt.Errorf("%w: missing account", domain.ErrInvalidInput)
	// ErrBalanceOverflow ...
	ErrBalanceOverflow = fmt.Errorf("%w: balance overflow", domain.ErrInvalidInput)
)
