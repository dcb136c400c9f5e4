// Package ledger implements the mutual-aid funding core: member and provider
// registries, pool fund accounting, the claim lifecycle, and platform-fee /
// emergency-fund bookkeeping. All state is owned by a single Service and
// mutated only through its command methods; each command either fully applies
// an invariant-preserving change and records exactly one event, or fails with
// a typed error and zero effect.
package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Transferor is the external value-transfer primitive. Deposits fund it as
// value enters the ledger; transfers pay value out. Both settle synchronously
// inside the calling command's atomic step, and a returned error aborts the
// command before any ledger state changes.
type Transferor interface {
	Deposit(ctx context.Context, amount int64) error
	Transfer(ctx context.Context, to Principal, amount int64) error
}

// Config wires the service's injected collaborators and platform policy.
type Config struct {
	Owner           Principal
	FeeBps          int64 // used verbatim when within range, else DefaultFeeBps
	MinContribution int64 // platform floor for contributions and pool minimums
	Clock           func() time.Time
	Payout          Transferor
	Events          Recorder
	Logger          zerolog.Logger
}

// DefaultFeeBps is the platform fee applied when none is configured (2%).
const DefaultFeeBps = 200

// Service is the ledger engine. One mutex serializes every command and read;
// no caller ever observes a partially applied mutation.
type Service struct {
	mu      sync.Mutex
	log     zerolog.Logger
	clock   func() time.Time
	payout  Transferor
	events  Recorder
	pending []Event

	owner           Principal
	feeBps          int64
	minContribution int64
	emergencyFund   int64

	members   map[Principal]*Member
	providers map[Principal]*Provider
	pools     map[int64]*Pool
	claims    map[int64]*Claim

	memberPools    map[Principal][]int64
	memberClaims   map[Principal][]int64
	providerClaims map[Principal][]int64

	totalPools     int64
	totalMembers   int64
	totalProviders int64
	totalClaims    int64
}

func NewService(cfg Config) *Service {
	feeBps := cfg.FeeBps
	if !validFeeBps(feeBps) {
		feeBps = DefaultFeeBps
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		log:             cfg.Logger,
		clock:           clock,
		payout:          cfg.Payout,
		events:          cfg.Events,
		owner:           cfg.Owner,
		feeBps:          feeBps,
		minContribution: cfg.MinContribution,
		members:         make(map[Principal]*Member),
		providers:       make(map[Principal]*Provider),
		pools:           make(map[int64]*Pool),
		claims:          make(map[int64]*Claim),
		memberPools:     make(map[Principal][]int64),
		memberClaims:    make(map[Principal][]int64),
		providerClaims:  make(map[Principal][]int64),
	}
}

// Owner returns the platform owner principal.
func (s *Service) Owner() Principal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owner
}

// requireOwner is the owner capability check shared by all owner-only
// commands. Performed before any state change.
func (s *Service) requireOwner(caller Principal) error {
	if caller != s.owner {
		return ErrNotOwner
	}
	return nil
}

// deposit hands inbound value to the external transfer primitive so later
// payouts can draw on it. Called before any state change; an error leaves the
// ledger untouched.
func (s *Service) deposit(ctx context.Context, amount int64) error {
	if s.payout == nil {
		return nil
	}
	return s.payout.Deposit(ctx, amount)
}

// requirePoolAdmin authorizes the pool admin or the platform owner.
func (s *Service) requirePoolAdmin(caller Principal, pool *Pool) error {
	if caller != pool.Admin && caller != s.owner {
		return ErrNotPoolAdmin
	}
	return nil
}

// -- Owner operations on global state --

// UpdatePlatformFee sets the fee, in basis points, deducted from every
// contribution. Owner only; capped at MaxFeeBps.
func (s *Service) UpdatePlatformFee(ctx context.Context, caller Principal, feeBps int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOwner(caller); err != nil {
		return err
	}
	if !validFeeBps(feeBps) {
		return ErrFeeTooHigh
	}

	s.feeBps = feeBps
	s.emit(Event{Type: EventPlatformFeeUpdated, Timestamp: s.clock(), Actor: caller, Amount: feeBps})
	s.commit(ctx, "UpdatePlatformFee")
	return nil
}

// WithdrawEmergencyFund moves amount from the emergency fund to the owner's
// external balance. The external transfer settles inside this atomic step.
func (s *Service) WithdrawEmergencyFund(ctx context.Context, caller Principal, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOwner(caller); err != nil {
		return err
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > s.emergencyFund {
		return ErrInsufficientFunds
	}
	if s.payout != nil {
		if err := s.payout.Transfer(ctx, s.owner, amount); err != nil {
			return err
		}
	}

	s.emergencyFund -= amount
	s.emit(Event{Type: EventEmergencyFundWithdrawn, Timestamp: s.clock(), Actor: caller, Amount: amount})
	s.commit(ctx, "WithdrawEmergencyFund")
	return nil
}

// ReplenishEmergencyFund credits the emergency fund directly, with no fee
// taken. Owner only.
func (s *Service) ReplenishEmergencyFund(ctx context.Context, caller Principal, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOwner(caller); err != nil {
		return err
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if err := s.deposit(ctx, amount); err != nil {
		return err
	}

	s.emergencyFund += amount
	s.emit(Event{Type: EventEmergencyFundReplenished, Timestamp: s.clock(), Actor: caller, Amount: amount})
	s.commit(ctx, "ReplenishEmergencyFund")
	return nil
}
