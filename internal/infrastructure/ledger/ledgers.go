package ledger

import "fmt"

// Ledgers bundles the reference asset registry and token ledger so that both
// can be served by a single interface.
type Ledgers struct {
	*AssetRegistry
	*TokenLedger
}

// NewLedgers returns the reference ledgers, seeded from the genesis file if
// any is given.
func NewLedgers(scale uint32, escrowAccount, genesisFile string) (*Ledgers, error) {
	assets, err := NewAssetRegistry(scale)
	if err != nil {
		return nil, err
	}
	tokens, err := NewTokenLedger(escrowAccount)
	if err != nil {
		return nil, err
	}

	if len(genesisFile) > 0 {
		genesis, err := LoadGenesis(genesisFile)
		if err != nil {
			return nil, err
		}
		if err := genesis.Apply(assets, tokens); err != nil {
			return nil, fmt.Errorf("applying genesis: %w", err)
		}
	}
	return &Ledgers{assets, tokens}, nil
}
