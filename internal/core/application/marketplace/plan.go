package marketplace

import (
	"context"
	"fmt"
	"math"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/chro-network/chro-marketplace/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

type leg struct {
	description string
	check       func(ctx context.Context, v *ledgerView) error
	run         func(ctx context.Context) error
	compensate  func(ctx context.Context) error
}

// payout is an amount leaving the escrow once every leg of the plan
// succeeded.
type payout struct {
	reason string
	wallet string
	amount uint64
}

func (p payout) String() string {
	return fmt.Sprintf("pay %d to %s (%s)", p.amount, p.wallet, p.reason)
}

// failedPayout is a payout refused by the token ledger. The funds are still
// in escrow.
type failedPayout struct {
	payout
	err error
}

// settlementPlan is the ordered list of asset and fund movements of an
// operation. Every leg and payout is verified against a projection of the
// ledgers before anything moves.
//
// Legs collect funds into escrow and move assets. They run in order and, if
// one fails, the already executed ones are compensated in reverse order.
// Collections are always refunded out of escrow; an asset move is undone
// only when the marketplace was verified to be approved by the receiver.
//
// Payouts run after the legs, once the trade is committed: a failed payout
// is not compensated but returned to the caller, that records it as owed.
type settlementPlan struct {
	assets  ports.AssetLedger
	tokens  ports.TokenLedger
	legs    []leg
	payouts []payout
}

func newSettlementPlan(
	assets ports.AssetLedger, tokens ports.TokenLedger,
) *settlementPlan {
	return &settlementPlan{assets: assets, tokens: tokens}
}

// collect moves funds from the payer into the marketplace escrow.
func (p *settlementPlan) collect(from string, amount uint64) {
	if amount == 0 {
		return
	}
	escrow := p.tokens.EscrowAccount()
	p.legs = append(p.legs, leg{
		description: fmt.Sprintf("collect %d from %s", amount, from),
		check: func(ctx context.Context, v *ledgerView) error {
			if err := v.spend(ctx, from, amount); err != nil {
				return err
			}
			return v.move(ctx, from, escrow, amount)
		},
		run: func(ctx context.Context) error {
			return p.tokens.TransferFrom(ctx, from, escrow, amount)
		},
		compensate: func(ctx context.Context) error {
			return p.tokens.Transfer(ctx, from, amount)
		},
	})
}

// payout schedules an amount to leave the marketplace escrow.
func (p *settlementPlan) payout(reason, to string, amount uint64) {
	if amount == 0 {
		return
	}
	p.payouts = append(p.payouts, payout{reason, to, amount})
}

// distribute pays out the royalty, the collector shares in insertion order
// and finally the seller net.
func (p *settlementPlan) distribute(d domain.Distribution, seller string) {
	if len(d.Royalty.Receiver) > 0 {
		p.payout("royalty", d.Royalty.Receiver, d.Royalty.Amount)
	}
	for _, share := range d.Shares {
		p.payout("fee", share.Wallet, share.Amount)
	}
	p.payout("seller", seller, d.SellerNet)
}

func (p *settlementPlan) moveAsset(
	collection string, assetID uint64, from, to string,
) {
	reversible := false
	p.legs = append(p.legs, leg{
		description: fmt.Sprintf(
			"move asset %s/%d from %s to %s", collection, assetID, from, to,
		),
		check: func(ctx context.Context, v *ledgerView) error {
			if err := v.moveAsset(ctx, collection, assetID, from, to); err != nil {
				return err
			}
			approved, err := v.isApproved(ctx, collection, to)
			if err != nil {
				return err
			}
			reversible = approved
			return nil
		},
		run: func(ctx context.Context) error {
			return p.assets.Transfer(ctx, collection, assetID, from, to)
		},
		compensate: func(ctx context.Context) error {
			if !reversible {
				return fmt.Errorf(
					"%w: %s did not approve the marketplace for %s",
					domain.ErrAssetNotApproved, to, collection,
				)
			}
			return p.assets.Transfer(ctx, collection, assetID, to, from)
		},
	})
}

// verify checks every leg and payout of the plan against a projection of
// the ledgers, without moving anything.
func (p *settlementPlan) verify(ctx context.Context) error {
	view := newLedgerView(p.assets, p.tokens)
	for _, l := range p.legs {
		if err := l.check(ctx, view); err != nil {
			return fmt.Errorf("%s: %w", l.description, err)
		}
	}
	escrow := p.tokens.EscrowAccount()
	for _, po := range p.payouts {
		if err := view.move(ctx, escrow, po.wallet, po.amount); err != nil {
			return fmt.Errorf("%s: %w", po, err)
		}
	}
	return nil
}

// execute verifies the plan, runs its legs and finally its payouts. An
// error means nothing moved. The returned payouts are the ones refused by
// the token ledger after the trade was committed.
func (p *settlementPlan) execute(ctx context.Context) ([]failedPayout, error) {
	if err := p.verify(ctx); err != nil {
		return nil, err
	}

	for i, l := range p.legs {
		if err := l.run(ctx); err != nil {
			p.rollback(ctx, i)
			return nil, fmt.Errorf("%s: %w", l.description, err)
		}
	}

	failed := make([]failedPayout, 0)
	for _, po := range p.payouts {
		if err := p.tokens.Transfer(ctx, po.wallet, po.amount); err != nil {
			log.WithError(err).Warnf("settlement: %s failed, recording it as owed", po)
			failed = append(failed, failedPayout{po, err})
		}
	}
	return failed, nil
}

func (p *settlementPlan) rollback(ctx context.Context, executed int) {
	for i := executed - 1; i >= 0; i-- {
		l := p.legs[i]
		if err := l.compensate(ctx); err != nil {
			log.WithError(err).Errorf(
				"settlement: failed to compensate leg '%s'", l.description,
			)
			continue
		}
		log.Debugf("settlement: compensated leg '%s'", l.description)
	}
}

type assetRef struct {
	collection string
	assetID    uint64
}

// ledgerView is a projection of the ledgers' state as the legs of a plan
// would leave it. Values are fetched lazily and then updated in place.
type ledgerView struct {
	assets     ports.AssetLedger
	tokens     ports.TokenLedger
	balances   map[string]uint64
	allowances map[string]uint64
	owners     map[assetRef]string
}

func newLedgerView(assets ports.AssetLedger, tokens ports.TokenLedger) *ledgerView {
	return &ledgerView{
		assets:     assets,
		tokens:     tokens,
		balances:   make(map[string]uint64),
		allowances: make(map[string]uint64),
		owners:     make(map[assetRef]string),
	}
}

func (v *ledgerView) balance(ctx context.Context, account string) (uint64, error) {
	if balance, ok := v.balances[account]; ok {
		return balance, nil
	}
	balance, err := v.tokens.BalanceOf(ctx, account)
	if err != nil {
		return 0, err
	}
	v.balances[account] = balance
	return balance, nil
}

// spend consumes the allowance given by owner to the marketplace.
func (v *ledgerView) spend(ctx context.Context, owner string, amount uint64) error {
	allowance, ok := v.allowances[owner]
	if !ok {
		var err error
		if allowance, err = v.tokens.Allowance(ctx, owner); err != nil {
			return err
		}
	}
	if allowance < amount {
		return domain.ErrInsufficientAllowance
	}
	v.allowances[owner] = allowance - amount
	return nil
}

func (v *ledgerView) move(ctx context.Context, from, to string, amount uint64) error {
	fromBalance, err := v.balance(ctx, from)
	if err != nil {
		return err
	}
	if fromBalance < amount {
		return domain.ErrInsufficientFunds
	}
	if from == to {
		return nil
	}
	toBalance, err := v.balance(ctx, to)
	if err != nil {
		return err
	}
	if toBalance > math.MaxUint64-amount {
		return domain.ErrPayeeCannotReceive
	}
	v.balances[from] = fromBalance - amount
	v.balances[to] = toBalance + amount
	return nil
}

func (v *ledgerView) isApproved(
	ctx context.Context, collection, holder string,
) (bool, error) {
	return v.assets.IsApproved(ctx, collection, holder)
}

func (v *ledgerView) moveAsset(
	ctx context.Context, collection string, assetID uint64, from, to string,
) error {
	ref := assetRef{collection, assetID}
	owner, ok := v.owners[ref]
	if !ok {
		var err error
		if owner, err = v.assets.OwnerOf(ctx, collection, assetID); err != nil {
			if isNotFound(err) {
				return domain.ErrNotOwner
			}
			return err
		}
	}
	if owner != from {
		return domain.ErrNotOwner
	}
	approved, err := v.isApproved(ctx, collection, from)
	if err != nil {
		return err
	}
	if !approved {
		return domain.ErrAssetNotApproved
	}
	v.owners[ref] = to
	return nil
}
