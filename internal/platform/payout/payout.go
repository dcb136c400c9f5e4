// Package payout implements the external value-transfer primitive the
// ledger settles claim payments and fund withdrawals through. The ledger
// only sees the Transferor interface; this package provides the single-node
// implementation backed by an escrow account.
package payout

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/carepool/carepool/internal/ledger"
)

// Escrow holds platform escrow and per-principal external balances. The
// ledger deposits every inbound contribution into escrow as it lands;
// transfers move escrow out to a principal and fail, leaving both sides
// untouched, if escrow cannot cover the amount.
type Escrow struct {
	mu       sync.Mutex
	log      zerolog.Logger
	escrowed int64
	balances map[ledger.Principal]int64
}

func NewEscrow(log zerolog.Logger) *Escrow {
	return &Escrow{
		log:      log,
		balances: make(map[ledger.Principal]int64),
	}
}

// Deposit credits the platform escrow, mirroring value received from the
// outside world as a ledger command accepts it.
func (e *Escrow) Deposit(ctx context.Context, amount int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if amount <= 0 {
		return fmt.Errorf("deposit amount must be positive, got %d", amount)
	}
	e.escrowed += amount
	e.log.Debug().Int64("amount", amount).Msg("escrow deposit")
	return nil
}

// Transfer sends amount from escrow to a principal's external balance.
// Synchronous and all-or-nothing, as the ledger's atomic step requires.
func (e *Escrow) Transfer(ctx context.Context, to ledger.Principal, amount int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if amount <= 0 {
		return fmt.Errorf("transfer amount must be positive, got %d", amount)
	}
	if amount > e.escrowed {
		return ledger.ErrInsufficientFunds
	}

	e.escrowed -= amount
	e.balances[to] += amount
	e.log.Debug().Str("to", string(to)).Int64("amount", amount).Msg("escrow transfer")
	return nil
}

// Balance reports a principal's external balance.
func (e *Escrow) Balance(principal ledger.Principal) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.balances[principal]
}

// Escrowed reports the undistributed escrow balance.
func (e *Escrow) Escrowed() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.escrowed
}
