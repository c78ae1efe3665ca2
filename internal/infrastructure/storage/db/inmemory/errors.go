package inmemory

import "errors"

var (
	// ErrReadOnlyTx ...
	ErrReadOnlyTx = errors.New("cannot write in a read-only transaction")
)
