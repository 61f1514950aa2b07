package types

import (
	errorsmod "cosmossdk.io/errors"
)

// BaseErrorCode is the first code used by the bridge codespace.
const BaseErrorCode uint32 = 1

var (
	ErrAddressMismatch      = errorsmod.Register(ModuleName, BaseErrorCode+1, "derived address mismatch")
	ErrAlreadyInitialized   = errorsmod.Register(ModuleName, BaseErrorCode+2, "account already initialized")
	ErrUninitializedAccount = errorsmod.Register(ModuleName, BaseErrorCode+3, "account not initialized")
	ErrFieldMismatch        = errorsmod.Register(ModuleName, BaseErrorCode+4, "lock field mismatch")
	ErrInvalidArgument      = errorsmod.Register(ModuleName, BaseErrorCode+5, "invalid argument")
	ErrMissingSignature     = errorsmod.Register(ModuleName, BaseErrorCode+6, "missing required signature")
	ErrUnauthorized         = errorsmod.Register(ModuleName, BaseErrorCode+7, "unauthorized")
	ErrInsufficientFunds    = errorsmod.Register(ModuleName, BaseErrorCode+8, "insufficient funds")
	ErrNotRentExempt        = errorsmod.Register(ModuleName, BaseErrorCode+9, "account not rent exempt")
	ErrAccountAlreadyInUse  = errorsmod.Register(ModuleName, BaseErrorCode+10, "account already in use")
	ErrCodec                = errorsmod.Register(ModuleName, BaseErrorCode+11, "codec failure")
	ErrInvalidInstruction   = errorsmod.Register(ModuleName, BaseErrorCode+12, "invalid instruction data")
	ErrNotEnoughAccountKeys = errorsmod.Register(ModuleName, BaseErrorCode+13, "not enough account keys")
	ErrInvalidAccountData   = errorsmod.Register(ModuleName, BaseErrorCode+14, "invalid account data")
	ErrInvalidAccountOwner  = errorsmod.Register(ModuleName, BaseErrorCode+15, "invalid account owner")
	ErrInvalidSeeds         = errorsmod.Register(ModuleName, BaseErrorCode+16, "invalid seeds")
	ErrReadonlyDataModified = errorsmod.Register(ModuleName, BaseErrorCode+17, "read-only account data modified")
	ErrUnsupportedProgram   = errorsmod.Register(ModuleName, BaseErrorCode+18, "unsupported program id")
	ErrAccountNotWritable   = errorsmod.Register(ModuleName, BaseErrorCode+19, "account not writable")
	ErrAccountNotFound      = errorsmod.Register(ModuleName, BaseErrorCode+20, "account not found")
)
