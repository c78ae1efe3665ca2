package ledger

import (
	"encoding/json"
	"fmt"
	"os"
)

// Genesis is the initial state of the reference ledgers, usually loaded from
// a JSON file.
type Genesis struct {
	Balances   map[string]uint64 `json:"balances"`
	Allowances map[string]uint64 `json:"allowances"`
	Assets     []GenesisAsset    `json:"assets"`
	Approvals  []GenesisApproval `json:"approvals"`
	Royalties  []GenesisRoyalty  `json:"royalties"`
}

type GenesisAsset struct {
	Collection string `json:"collection"`
	AssetID    uint64 `json:"assetId"`
	Holder     string `json:"holder"`
}

type GenesisApproval struct {
	Collection string `json:"collection"`
	Holder     string `json:"holder"`
}

type GenesisRoyalty struct {
	Collection string `json:"collection"`
	Receiver   string `json:"receiver"`
	Percentage uint32 `json:"percentage"`
}

// LoadGenesis reads the genesis from the given JSON file.
func LoadGenesis(filename string) (*Genesis, error) {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading genesis file: %w", err)
	}

	genesis := &Genesis{}
	if err := json.Unmarshal(buf, genesis); err != nil {
		return nil, fmt.Errorf("decoding genesis file: %w", err)
	}
	return genesis, nil
}

// Apply seeds the given ledgers with the genesis state.
func (g *Genesis) Apply(assets *AssetRegistry, tokens *TokenLedger) error {
	for account, amount := range g.Balances {
		if err := tokens.Mint(account, amount); err != nil {
			return fmt.Errorf("minting balance of %s: %w", account, err)
		}
	}
	for owner, amount := range g.Allowances {
		if err := tokens.Approve(owner, amount); err != nil {
			return fmt.Errorf("approving allowance of %s: %w", owner, err)
		}
	}
	for _, a := range g.Assets {
		if err := assets.Mint(a.Collection, a.AssetID, a.Holder); err != nil {
			return fmt.Errorf("minting asset %s/%d: %w", a.Collection, a.AssetID, err)
		}
	}
	for _, a := range g.Approvals {
		if err := assets.SetApprovalForAll(a.Collection, a.Holder, true); err != nil {
			return fmt.Errorf(
				"approving collection %s for %s: %w", a.Collection, a.Holder, err,
			)
		}
	}
	for _, r := range g.Royalties {
		if err := assets.SetRoyalty(r.Collection, r.Receiver, r.Percentage); err != nil {
			return fmt.Errorf("setting royalty for %s: %w", r.Collection, err)
		}
	}
	return nil
}
