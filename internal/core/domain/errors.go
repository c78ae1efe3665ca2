package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the marketplace core wraps exactly one
// of them, so callers can branch with errors.Is regardless of the detail.
var (
	// ErrNotFound is the kind of errors about unknown items, swaps, bids,
	// collections or fee collectors.
	ErrNotFound = errors.New("not found")
	// ErrNotAuthorized is the kind of errors raised when the caller lacks the
	// required role or does not hold the asset.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrInvalidState is the kind of errors raised when an operation targets
	// an item or swap that is not in the required status.
	ErrInvalidState = errors.New("invalid state")
	// ErrInvalidInput is the kind of errors about malformed arguments.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInsufficientResource is the kind of errors about funds or allowance
	// shortfalls reported by the payment ledger.
	ErrInsufficientResource = errors.New("insufficient resource")
)

// Item errors
var (
	// ErrItemNotFound ...
	ErrItemNotFound = kindError(ErrNotFound, "item not found")
	// ErrNotOwner is returned when the seller does not currently hold the asset.
	ErrNotOwner = kindError(ErrNotAuthorized, "caller does not hold the asset")
	// ErrNotSeller is returned when a seller-only operation is attempted by
	// somebody else.
	ErrNotSeller = kindError(ErrNotAuthorized, "caller is not the seller of the item")
	// ErrAssetNotApproved is returned when the holder has not authorized the
	// marketplace to move the asset on its behalf.
	ErrAssetNotApproved = kindError(ErrNotAuthorized, "marketplace is not approved to move the asset")
	// ErrAlreadyListed ...
	ErrAlreadyListed = kindError(ErrInvalidState, "asset is already listed")
	// ErrItemNotActive ...
	ErrItemNotActive = kindError(ErrInvalidState, "item is not active")
	// ErrItemNotDirectSale ...
	ErrItemNotDirectSale = kindError(ErrInvalidState, "item is not listed for direct sale")
	// ErrItemNotAuction ...
	ErrItemNotAuction = kindError(ErrInvalidState, "item is not listed for auction")
	// ErrAuctionExpired is returned for bids placed at or after the expiry.
	ErrAuctionExpired = kindError(ErrInvalidState, "auction is expired")
	// ErrAuctionNotExpired is returned when settling an auction too early.
	ErrAuctionNotExpired = kindError(ErrInvalidState, "auction is not expired yet")
	// ErrAuctionHasBids is returned when cancelling an auction with bids.
	ErrAuctionHasBids = kindError(ErrInvalidState, "auction already has bids")
	// ErrInvalidPrice ...
	ErrInvalidPrice = kindError(ErrInvalidInput, "price must be greater than zero")
	// ErrInvalidExpiry ...
	ErrInvalidExpiry = kindError(ErrInvalidInput, "expiry must be in the future")
	// ErrInvalidListingKind ...
	ErrInvalidListingKind = kindError(ErrInvalidInput, "unknown listing kind")
	// ErrInvalidIdentity ...
	ErrInvalidIdentity = kindError(ErrInvalidInput, "missing identity")
	// ErrSelfPurchase ...
	ErrSelfPurchase = kindError(ErrInvalidInput, "seller cannot buy or bid on its own item")
)

// Bid errors
var (
	// ErrBidNotFound ...
	ErrBidNotFound = kindError(ErrNotFound, "bid not found")
	// ErrBidTooLow is returned when the amount does not strictly exceed the
	// current high bid, or the starting price for the first bid.
	ErrBidTooLow = kindError(ErrInvalidInput, "bid must exceed the current highest bid")
)

// Swap errors
var (
	// ErrSwapNotFound ...
	ErrSwapNotFound = kindError(ErrNotFound, "swap not found")
	// ErrSwapNotPending ...
	ErrSwapNotPending = kindError(ErrInvalidState, "swap is not pending")
	// ErrNotCounterparty ...
	ErrNotCounterparty = kindError(ErrNotAuthorized, "caller is not the counterparty of the swap")
	// ErrNotSwapParty ...
	ErrNotSwapParty = kindError(ErrNotAuthorized, "caller is not a party of the swap")
	// ErrAssetMoved is returned when any asset of a swap changed hands after
	// the offer was created.
	ErrAssetMoved = kindError(ErrInvalidState, "asset changed hands since the offer was created")
	// ErrInvalidSwap ...
	ErrInvalidSwap = kindError(ErrInvalidInput, "swap must exchange two distinct assets of two distinct holders")
)

// Collection errors
var (
	// ErrCollectionNotFound ...
	ErrCollectionNotFound = kindError(ErrNotFound, "collection not found")
	// ErrCollectionInactive ...
	ErrCollectionInactive = kindError(ErrInvalidState, "collection is not active")
	// ErrCollectionExists ...
	ErrCollectionExists = kindError(ErrInvalidInput, "collection already exists")
	// ErrInvalidCollection ...
	ErrInvalidCollection = kindError(ErrInvalidInput, "collection address must not be empty")
)

// Fee errors
var (
	// ErrFeeCollectorNotFound ...
	ErrFeeCollectorNotFound = kindError(ErrNotFound, "fee collector not found")
	// ErrFeeCollectorExists ...
	ErrFeeCollectorExists = kindError(ErrInvalidInput, "fee collector already exists")
	// ErrInvalidPercentage ...
	ErrInvalidPercentage = kindError(ErrInvalidInput, "percentage must be greater than zero")
	// ErrFeeCapExceeded is returned when the sum of collector percentages
	// would exceed the fee scale.
	ErrFeeCapExceeded = kindError(ErrInvalidInput, "sum of collector percentages exceeds 100%")
	// ErrInvalidFeeScale ...
	ErrInvalidFeeScale = kindError(ErrInvalidInput, "fee scale must be greater than zero")
	// ErrPublicationWalletNotSet ...
	ErrPublicationWalletNotSet = kindError(ErrInvalidState, "publication fee wallet is not set")
)

// Payout errors
var (
	// ErrPayoutNotFound ...
	ErrPayoutNotFound = kindError(ErrNotFound, "payout not found")
	// ErrInvalidPayoutAmount ...
	ErrInvalidPayoutAmount = kindError(ErrInvalidInput, "payout amount must be greater than zero")
	// ErrPayoutNotPending ...
	ErrPayoutNotPending = kindError(ErrInvalidState, "payout is not pending")
	// ErrPayeeCannotReceive is returned when crediting a payee would overflow
	// its balance.
	ErrPayeeCannotReceive = kindError(ErrInvalidInput, "payee balance cannot receive the amount")
)

// Payment errors, returned by token ledgers.
var (
	// ErrInsufficientFunds ...
	ErrInsufficientFunds = kindError(ErrInsufficientResource, "insufficient funds")
	// ErrInsufficientAllowance ...
	ErrInsufficientAllowance = kindError(ErrInsufficientResource, "insufficient allowance")
)

// ErrNotOperator is returned by interfaces when an operator-only operation is
// invoked without the operator role.
var ErrNotOperator = kindError(ErrNotAuthorized, "operator role required")

func kindError(kind error, msg string) error {
	return fmt.Errorf("%w: %s", kind, msg)
}

// KindOf returns the error kind wrapped by err, or nil if err is not a
// marketplace error.
func KindOf(err error) error {
	for _, kind := range []error{
		ErrNotFound, ErrNotAuthorized, ErrInvalidState, ErrInvalidInput,
		ErrInsufficientResource,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
