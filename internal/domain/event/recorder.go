package event

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carepool/carepool/internal/ledger"
)

// Recorder adapts the repository to the ledger's event sink. By the time
// Record runs the command has already committed, so append failures are
// logged and dropped rather than surfaced into the command result.
type Recorder struct {
	repo Repository
	log  zerolog.Logger
}

func NewRecorder(repo Repository, log zerolog.Logger) *Recorder {
	return &Recorder{repo: repo, log: log}
}

func (r *Recorder) Record(ctx context.Context, events []ledger.Event) {
	batch := make([]*Event, len(events))
	for i, e := range events {
		batch[i] = fromLedger(e)
	}
	if err := r.repo.Append(ctx, batch); err != nil {
		r.log.Error().Err(err).Int("events", len(batch)).Msg("event journal append failed")
	}
}

func fromLedger(e ledger.Event) *Event {
	out := &Event{
		ID:         uuid.New(),
		Type:       string(e.Type),
		Actor:      string(e.Actor),
		Member:     string(e.Member),
		Provider:   string(e.Provider),
		Status:     e.Status,
		Name:       e.Name,
		Reason:     e.Reason,
		OccurredAt: e.Timestamp,
	}
	if e.PoolID != 0 {
		id := e.PoolID
		out.PoolID = &id
	}
	if e.ClaimID != 0 {
		id := e.ClaimID
		out.ClaimID = &id
	}
	if e.Amount != 0 {
		amount := e.Amount
		out.Amount = &amount
	}
	return out
}
