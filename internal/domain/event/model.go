package event

import (
	"time"

	"github.com/google/uuid"
)

// Event is one entry in the append-only event journal: a committed ledger
// state transition with the transition's key fields flattened out. Sequence
// is assigned by the repository and is strictly increasing in commit order.
type Event struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Sequence   int64     `db:"sequence" json:"sequence"`
	Type       string    `db:"type" json:"type"`
	Actor      string    `db:"actor" json:"actor,omitempty"`
	PoolID     *int64    `db:"pool_id" json:"pool_id,omitempty"`
	ClaimID    *int64    `db:"claim_id" json:"claim_id,omitempty"`
	Member     string    `db:"member" json:"member,omitempty"`
	Provider   string    `db:"provider" json:"provider,omitempty"`
	Amount     *int64    `db:"amount" json:"amount,omitempty"`
	Status     string    `db:"status" json:"status,omitempty"`
	Name       string    `db:"name" json:"name,omitempty"`
	Reason     string    `db:"reason" json:"reason,omitempty"`
	OccurredAt time.Time `db:"occurred_at" json:"occurred_at"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Type      string
	PoolID    int64
	ClaimID   int64
	Principal string // matches actor, member or provider
}
