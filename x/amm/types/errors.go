package types

import (
	"cosmossdk.io/errors"
)

// AMM module sentinel errors
var (
	ErrArithmeticOverflow  = errors.Register(ModuleName, 2, "arithmetic overflow")
	ErrDivisionByZero      = errors.Register(ModuleName, 3, "division by zero")
	ErrInsufficientReserve = errors.Register(ModuleName, 4, "insufficient reserve")
	ErrInsufficientShares  = errors.Register(ModuleName, 5, "insufficient liquidity shares")
	ErrPoolEmpty           = errors.Register(ModuleName, 6, "pool is empty")
	ErrSlippageExceeded    = errors.Register(ModuleName, 7, "output amount less than minimum required")
	ErrAlreadyInitialized  = errors.Register(ModuleName, 8, "pool already initialized")
	ErrTransferFailed      = errors.Register(ModuleName, 9, "asset transfer failed")
	ErrNotInitialized      = errors.Register(ModuleName, 10, "pool not initialized")
	ErrInvalidAmount       = errors.Register(ModuleName, 11, "invalid amount")
	ErrInvalidAsset        = errors.Register(ModuleName, 12, "invalid asset")
	ErrInvalidFee          = errors.Register(ModuleName, 13, "invalid fee")
	ErrInvalidAddress      = errors.Register(ModuleName, 14, "invalid address")
	ErrInvariantViolation  = errors.Register(ModuleName, 15, "pool invariant violated")
)
