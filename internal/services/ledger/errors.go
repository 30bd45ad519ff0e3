package ledger

import "errors"

// Validation failures. Callers match with errors.Is; state is never mutated
// when one of these is returned.
var (
	ErrNotDummyAccount    = errors.New("account is not a dummy account")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrInsufficientZolos  = errors.New("insufficient Zolos balance")
	ErrInvestmentTooSmall = errors.New("investment too small to buy one share")
	ErrHoldingNotFound    = errors.New("no holding for symbol")
	ErrInsufficientShares = errors.New("insufficient shares to sell")
)
