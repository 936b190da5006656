package store

import "errors"

// ErrTradeNotFound reports an update against an id the store has never seen.
var ErrTradeNotFound = errors.New("trade not found")
