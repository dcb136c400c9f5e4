package ledger

import "errors"

// Every command failure is one of these sentinels (possibly wrapped with
// context via fmt.Errorf and %w). Callers branch with errors.Is; the HTTP
// layer maps them onto status codes. A failed command has zero effect.
var (
	// Validation
	ErrNameRequired       = errors.New("name required")
	ErrEmptyField         = errors.New("required field is empty")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrContributionTooLow = errors.New("contribution too low")
	ErrFeeTooHigh         = errors.New("fee cannot exceed 5%")
	ErrInvalidReputation  = errors.New("reputation must be between 0 and 1000")
	ErrInvalidStatus      = errors.New("invalid status")

	// Authorization
	ErrNotOwner     = errors.New("not platform owner")
	ErrNotPoolAdmin = errors.New("not pool admin")

	// State conflicts
	ErrAlreadyRegistered        = errors.New("already registered")
	ErrNotRegisteredAsMember    = errors.New("not registered as member")
	ErrNotRegisteredAsProvider  = errors.New("not registered as provider")
	ErrProviderNotVerified      = errors.New("provider not verified")
	ErrNotAPoolMember           = errors.New("not a pool member")
	ErrAlreadyMember            = errors.New("already a pool member")
	ErrHasPendingClaims         = errors.New("member has pending claims")
	ErrInsufficientContribution = errors.New("insufficient contribution")
	ErrAmountExceedsMaxClaim    = errors.New("amount exceeds max claim")
	ErrAmountExceedsRequested   = errors.New("amount exceeds requested")
	ErrInvalidClaimState        = errors.New("invalid claim state")
	ErrInsufficientFunds        = errors.New("insufficient funds")
	ErrPoolNotActive            = errors.New("pool is not active")
	ErrNotFound                 = errors.New("not found")
)
