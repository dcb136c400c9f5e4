package ledger

import (
	"context"
	"time"
)

// EventType names a committed state transition.
type EventType string

const (
	EventPoolCreated              EventType = "pool.created"
	EventPoolStatusUpdated        EventType = "pool.status_updated"
	EventMemberRegistered         EventType = "member.registered"
	EventMemberJoinedPool         EventType = "member.joined_pool"
	EventMemberExitedPool         EventType = "member.exited_pool"
	EventContributionMade         EventType = "contribution.made"
	EventProviderRegistered       EventType = "provider.registered"
	EventProviderVerified         EventType = "provider.verified"
	EventProviderSuspended        EventType = "provider.suspended"
	EventProviderReputationSet    EventType = "provider.reputation_updated"
	EventClaimSubmitted           EventType = "claim.submitted"
	EventClaimProcessed           EventType = "claim.processed"
	EventClaimPaid                EventType = "claim.paid"
	EventEmergencyFundWithdrawn   EventType = "emergency_fund.withdrawn"
	EventEmergencyFundReplenished EventType = "emergency_fund.replenished"
	EventPlatformFeeUpdated       EventType = "platform_fee.updated"
)

// Event carries the key fields of one state transition. Exactly one event is
// recorded per successful mutating command, none on failure.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Actor     Principal `json:"actor,omitempty"`
	PoolID    int64     `json:"pool_id,omitempty"`
	ClaimID   int64     `json:"claim_id,omitempty"`
	Member    Principal `json:"member,omitempty"`
	Provider  Principal `json:"provider,omitempty"`
	Amount    int64     `json:"amount,omitempty"`
	Status    string    `json:"status,omitempty"`
	Name      string    `json:"name,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

// Recorder consumes committed events. Implementations must treat the batch
// as already-final history: the mutation has committed by the time Record is
// called, so recording failures must not propagate back into the command.
type Recorder interface {
	Record(ctx context.Context, events []Event)
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(ctx context.Context, events []Event)

func (f RecorderFunc) Record(ctx context.Context, events []Event) { f(ctx, events) }

// emit buffers an event for the current command. Buffered events are flushed
// by commit only after all state changes have been applied.
func (s *Service) emit(e Event) {
	s.pending = append(s.pending, e)
}

// commit flushes buffered events to the recorder and logs the command.
// Called with the service lock held, after the mutation is fully applied.
func (s *Service) commit(ctx context.Context, command string) {
	events := s.pending
	s.pending = nil
	if len(events) > 0 && s.events != nil {
		s.events.Record(ctx, events)
	}
	s.log.Info().Str("command", command).Int("events", len(events)).Msg("ledger command committed")
}
