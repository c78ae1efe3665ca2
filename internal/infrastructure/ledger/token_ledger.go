package ledger

import (
	"context"
	"math"
	"sync"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/chro-network/chro-marketplace/internal/core/ports"
)

// TokenLedger is an in-process ledger of the fungible payment token. It
// implements ports.TokenLedger, the marketplace being the spender of the
// allowances and the holder of the escrow account.
type TokenLedger struct {
	lock       *sync.Mutex
	escrow     string
	balances   map[string]uint64
	allowances map[string]uint64
}

// NewTokenLedger returns an empty ledger whose marketplace escrow account is
// identified by the given name.
func NewTokenLedger(escrowAccount string) (*TokenLedger, error) {
	if len(escrowAccount) <= 0 {
		return nil, ErrMissingAccount
	}
	return &TokenLedger{
		lock:       &sync.Mutex{},
		escrow:     escrowAccount,
		balances:   make(map[string]uint64),
		allowances: make(map[string]uint64),
	}, nil
}

var _ ports.TokenLedger = (*TokenLedger)(nil)

// Mint credits the account with the given amount.
func (l *TokenLedger) Mint(account string, amount uint64) error {
	if len(account) <= 0 {
		return ErrMissingAccount
	}
	if amount == 0 {
		return ErrInvalidAmount
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	return l.credit(account, amount)
}

// Approve sets the amount the marketplace can spend on behalf of owner.
func (l *TokenLedger) Approve(owner string, amount uint64) error {
	if len(owner) <= 0 {
		return ErrMissingAccount
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	l.allowances[owner] = amount
	return nil
}

func (l *TokenLedger) EscrowAccount() string {
	return l.escrow
}

func (l *TokenLedger) BalanceOf(_ context.Context, account string) (uint64, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	return l.balances[account], nil
}

func (l *TokenLedger) Allowance(_ context.Context, owner string) (uint64, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	return l.allowances[owner], nil
}

func (l *TokenLedger) TransferFrom(
	_ context.Context, from, to string, amount uint64,
) error {
	if len(from) <= 0 || len(to) <= 0 {
		return ErrMissingAccount
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	if l.allowances[from] < amount {
		return domain.ErrInsufficientAllowance
	}
	if err := l.move(from, to, amount); err != nil {
		return err
	}
	l.allowances[from] -= amount
	return nil
}

func (l *TokenLedger) Transfer(_ context.Context, to string, amount uint64) error {
	if len(to) <= 0 {
		return ErrMissingAccount
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	return l.move(l.escrow, to, amount)
}

func (l *TokenLedger) move(from, to string, amount uint64) error {
	if l.balances[from] < amount {
		return domain.ErrInsufficientFunds
	}
	if from == to {
		return nil
	}
	if err := l.credit(to, amount); err != nil {
		return err
	}
	l.balances[from] -= amount
	return nil
}

func (l *TokenLedger) credit(account string, amount uint64) error {
	if l.balances[account] > math.MaxUint64-amount {
		return ErrBalanceOverflow
	}
	l.balances[account] += amount
	return nil
}
