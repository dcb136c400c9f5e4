package ledger

import (
	"context"
	"errors"
	"testing"
)

func TestCreatePool(t *testing.T) {
	ctx := context.Background()

	t.Run("creates active pool with creator as admin", func(t *testing.T) {
		svc, _, rec := newTestService(t)
		p, err := svc.CreatePool(ctx, "alice", "Village Fund", "neighborhood care", 100, 1_000)
		if err != nil {
			t.Fatalf("CreatePool: %v", err)
		}
		if p.ID != 1 {
			t.Errorf("expected id=1, got %d", p.ID)
		}
		if p.Admin != "alice" {
			t.Errorf("expected admin=alice, got %s", p.Admin)
		}
		if p.Status != PoolActive {
			t.Errorf("expected status=%s, got %s", PoolActive, p.Status)
		}
		if p.TotalFunds != 0 || p.MemberCount != 0 {
			t.Errorf("expected empty pool, got funds=%d members=%d", p.TotalFunds, p.MemberCount)
		}
		if rec.last(t).Type != EventPoolCreated {
			t.Errorf("expected event %s, got %s", EventPoolCreated, rec.last(t).Type)
		}
	})

	t.Run("creator needs no member record", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		if _, err := svc.CreatePool(ctx, "stranger", "Fund", "", 100, 1_000); err != nil {
			t.Errorf("expected unregistered creator to succeed, got %v", err)
		}
	})

	t.Run("validation", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		if _, err := svc.CreatePool(ctx, "alice", "", "", 100, 1_000); !errors.Is(err, ErrNameRequired) {
			t.Errorf("expected ErrNameRequired, got %v", err)
		}
		if _, err := svc.CreatePool(ctx, "alice", "Fund", "", testMinContribution-1, 1_000); !errors.Is(err, ErrContributionTooLow) {
			t.Errorf("expected ErrContributionTooLow, got %v", err)
		}
		if _, err := svc.CreatePool(ctx, "alice", "Fund", "", 100, 0); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("expected ErrInvalidAmount, got %v", err)
		}
		if svc.Stats().TotalPools != 0 {
			t.Errorf("expected no pools after failures, got %d", svc.Stats().TotalPools)
		}
	})

	t.Run("ids are sequential", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		for want := int64(1); want <= 3; want++ {
			p := createPool(t, svc, "alice", 100, 1_000)
			if p.ID != want {
				t.Errorf("expected id=%d, got %d", want, p.ID)
			}
		}
	})
}

func TestJoinPool(t *testing.T) {
	ctx := context.Background()

	t.Run("splits contribution into pool funds and emergency fund", func(t *testing.T) {
		svc, _, rec := newTestService(t)
		registerMember(t, svc, "alice")
		pool := createPool(t, svc, "admin", 100_000_000, 1_000_000_000)

		if err := svc.JoinPool(ctx, "alice", pool.ID, 500_000_000); err != nil {
			t.Fatalf("JoinPool: %v", err)
		}

		p, _ := svc.GetPool(pool.ID)
		if p.TotalFunds != 490_000_000 {
			t.Errorf("expected pool funds=490000000, got %d", p.TotalFunds)
		}
		if got := svc.Stats().EmergencyFund; got != 10_000_000 {
			t.Errorf("expected emergency fund=10000000, got %d", got)
		}
		if p.MemberCount != 1 || len(p.Members) != 1 || p.Members[0] != "alice" {
			t.Errorf("expected alice as sole member, got count=%d members=%v", p.MemberCount, p.Members)
		}

		// Member tracks the gross amount, fee included.
		m, _ := svc.GetMember("alice")
		if m.TotalContributed != 500_000_000 {
			t.Errorf("expected gross contribution=500000000, got %d", m.TotalContributed)
		}

		ev := rec.last(t)
		if ev.Type != EventMemberJoinedPool || ev.Amount != 500_000_000 {
			t.Errorf("expected joined event with gross amount, got %+v", ev)
		}
	})

	t.Run("deposits the gross amount with the payout sink", func(t *testing.T) {
		svc, pay, _ := newTestService(t)
		registerMember(t, svc, "alice")
		pool := createPool(t, svc, "admin", 100, 1_000)
		joinPool(t, svc, "alice", pool.ID, 500)

		if len(pay.deposits) != 1 || pay.deposits[0] != 500 {
			t.Errorf("expected one deposit of 500, got %v", pay.deposits)
		}
	})

	t.Run("failed deposit leaves state untouched", func(t *testing.T) {
		svc, pay, rec := newTestService(t)
		registerMember(t, svc, "alice")
		pool := createPool(t, svc, "admin", 100, 1_000)
		eventsBefore := len(rec.events)

		pay.err = errors.New("escrow unavailable")
		if err := svc.JoinPool(ctx, "alice", pool.ID, 500); err == nil {
			t.Fatal("expected deposit error to surface")
		}
		p, _ := svc.GetPool(pool.ID)
		if p.TotalFunds != 0 || p.MemberCount != 0 {
			t.Errorf("expected empty pool, got funds=%d members=%d", p.TotalFunds, p.MemberCount)
		}
		if got := svc.Stats().EmergencyFund; got != 0 {
			t.Errorf("expected empty emergency fund, got %d", got)
		}
		if len(rec.events) != eventsBefore {
			t.Error("expected no event on failure")
		}
	})

	t.Run("splits very large contributions exactly", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		registerMember(t, svc, "whale")
		pool := createPool(t, svc, "admin", 100, 1_000)

		const amount = 69_175_290_276_410_818
		if err := svc.JoinPool(ctx, "whale", pool.ID, amount); err != nil {
			t.Fatalf("JoinPool: %v", err)
		}

		p, _ := svc.GetPool(pool.ID)
		fund := svc.Stats().EmergencyFund
		if fund != 1_383_505_805_528_216 {
			t.Errorf("expected emergency fund=1383505805528216, got %d", fund)
		}
		if fund < 0 || p.TotalFunds < 0 {
			t.Errorf("expected non-negative balances, got funds=%d fund=%d", p.TotalFunds, fund)
		}
		if p.TotalFunds+fund != amount {
			t.Errorf("expected funds+fund=%d, got %d", int64(amount), p.TotalFunds+fund)
		}
	})

	t.Run("guards", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		registerMember(t, svc, "alice")
		pool := createPool(t, svc, "admin", 100, 1_000)

		if err := svc.JoinPool(ctx, "ghost", pool.ID, 100); !errors.Is(err, ErrNotRegisteredAsMember) {
			t.Errorf("expected ErrNotRegisteredAsMember, got %v", err)
		}
		if err := svc.JoinPool(ctx, "alice", 999, 100); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if err := svc.JoinPool(ctx, "alice", pool.ID, 99); !errors.Is(err, ErrInsufficientContribution) {
			t.Errorf("expected ErrInsufficientContribution, got %v", err)
		}
		joinPool(t, svc, "alice", pool.ID, 100)
		if err := svc.JoinPool(ctx, "alice", pool.ID, 100); !errors.Is(err, ErrAlreadyMember) {
			t.Errorf("expected ErrAlreadyMember, got %v", err)
		}
	})

	t.Run("rejects paused and closed pools", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		registerMember(t, svc, "alice")
		pool := createPool(t, svc, "admin", 100, 1_000)
		for _, status := range []PoolStatus{PoolPaused, PoolClosed} {
			if err := svc.UpdatePoolStatus(ctx, "admin", pool.ID, status); err != nil {
				t.Fatalf("UpdatePoolStatus(%s): %v", status, err)
			}
			if err := svc.JoinPool(ctx, "alice", pool.ID, 100); !errors.Is(err, ErrPoolNotActive) {
				t.Errorf("status=%s: expected ErrPoolNotActive, got %v", status, err)
			}
		}
	})
}

func TestContributeToPool(t *testing.T) {
	ctx := context.Background()

	t.Run("no pool minimum on follow-up contributions", func(t *testing.T) {
		svc, _, rec := newTestService(t)
		registerMember(t, svc, "alice")
		pool := createPool(t, svc, "admin", 1_000, 10_000)
		joinPool(t, svc, "alice", pool.ID, 1_000)

		// Well below the 1_000 join minimum, still accepted.
		if err := svc.ContributeToPool(ctx, "alice", pool.ID, 50); err != nil {
			t.Fatalf("ContributeToPool: %v", err)
		}
		if err := svc.ContributeToPool(ctx, "alice", pool.ID, 0); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("expected ErrInvalidAmount for zero, got %v", err)
		}
		if err := svc.ContributeToPool(ctx, "alice", pool.ID, -5); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("expected ErrInvalidAmount for negative, got %v", err)
		}
		if rec.last(t).Type != EventContributionMade {
			t.Errorf("expected event %s, got %s", EventContributionMade, rec.last(t).Type)
		}
	})

	t.Run("accumulates with fee split", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		registerMember(t, svc, "alice")
		pool := createPool(t, svc, "admin", 10_000, 100_000)
		joinPool(t, svc, "alice", pool.ID, 10_000)
		if err := svc.ContributeToPool(ctx, "alice", pool.ID, 10_000); err != nil {
			t.Fatalf("ContributeToPool: %v", err)
		}

		p, _ := svc.GetPool(pool.ID)
		if p.TotalFunds != 19_600 {
			t.Errorf("expected pool funds=19600, got %d", p.TotalFunds)
		}
		if got := svc.Stats().EmergencyFund; got != 400 {
			t.Errorf("expected emergency fund=400, got %d", got)
		}
		m, _ := svc.GetMember("alice")
		if m.TotalContributed != 20_000 {
			t.Errorf("expected gross contributed=20000, got %d", m.TotalContributed)
		}
	})

	t.Run("non-members cannot contribute", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		registerMember(t, svc, "alice")
		registerMember(t, svc, "bob")
		pool := createPool(t, svc, "admin", 100, 1_000)
		joinPool(t, svc, "alice", pool.ID, 100)
		if err := svc.ContributeToPool(ctx, "bob", pool.ID, 100); !errors.Is(err, ErrNotAPoolMember) {
			t.Errorf("expected ErrNotAPoolMember, got %v", err)
		}
	})
}

func TestExitPool(t *testing.T) {
	ctx := context.Background()

	t.Run("removes membership, keeps funds pooled", func(t *testing.T) {
		svc, _, rec := newTestService(t)
		registerMember(t, svc, "alice")
		registerMember(t, svc, "bob")
		pool := createPool(t, svc, "admin", 100, 1_000)
		joinPool(t, svc, "alice", pool.ID, 100)
		joinPool(t, svc, "bob", pool.ID, 100)

		before, _ := svc.GetPool(pool.ID)
		if err := svc.ExitPool(ctx, "alice", pool.ID); err != nil {
			t.Fatalf("ExitPool: %v", err)
		}

		after, _ := svc.GetPool(pool.ID)
		if after.TotalFunds != before.TotalFunds {
			t.Errorf("expected funds unchanged on exit, got %d -> %d", before.TotalFunds, after.TotalFunds)
		}
		if after.MemberCount != 1 || len(after.Members) != 1 || after.Members[0] != "bob" {
			t.Errorf("expected only bob left, got count=%d members=%v", after.MemberCount, after.Members)
		}
		pools, err := svc.GetMemberPools("alice")
		if err != nil {
			t.Fatalf("GetMemberPools: %v", err)
		}
		if len(pools) != 0 {
			t.Errorf("expected alice in no pools, got %v", pools)
		}
		if rec.last(t).Type != EventMemberExitedPool {
			t.Errorf("expected event %s, got %s", EventMemberExitedPool, rec.last(t).Type)
		}
	})

	t.Run("blocked while claims are open", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		registerMember(t, svc, "alice")
		registerVerifiedProvider(t, svc, "clinic")
		pool := createPool(t, svc, "admin", 100, 1_000)
		joinPool(t, svc, "alice", pool.ID, 100)

		c, err := svc.SubmitClaim(ctx, "alice", pool.ID, "clinic", "dx", "tx", 50, "proof")
		if err != nil {
			t.Fatalf("SubmitClaim: %v", err)
		}
		if err := svc.ExitPool(ctx, "alice", pool.ID); !errors.Is(err, ErrHasPendingClaims) {
			t.Errorf("pending claim: expected ErrHasPendingClaims, got %v", err)
		}

		if err := svc.ApproveClaim(ctx, "admin", c.ID, 50); err != nil {
			t.Fatalf("ApproveClaim: %v", err)
		}
		if err := svc.ExitPool(ctx, "alice", pool.ID); !errors.Is(err, ErrHasPendingClaims) {
			t.Errorf("approved claim: expected ErrHasPendingClaims, got %v", err)
		}

		if err := svc.PayClaim(ctx, "clinic", c.ID); err != nil {
			t.Fatalf("PayClaim: %v", err)
		}
		if err := svc.ExitPool(ctx, "alice", pool.ID); err != nil {
			t.Errorf("paid claim: expected exit to succeed, got %v", err)
		}
	})

	t.Run("rejoin after exit", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		registerMember(t, svc, "alice")
		pool := createPool(t, svc, "admin", 100, 1_000)
		joinPool(t, svc, "alice", pool.ID, 100)
		if err := svc.ExitPool(ctx, "alice", pool.ID); err != nil {
			t.Fatalf("ExitPool: %v", err)
		}
		if err := svc.JoinPool(ctx, "alice", pool.ID, 100); err != nil {
			t.Errorf("expected rejoin to succeed, got %v", err)
		}
	})

	t.Run("guards", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		registerMember(t, svc, "alice")
		pool := createPool(t, svc, "admin", 100, 1_000)
		if err := svc.ExitPool(ctx, "ghost", pool.ID); !errors.Is(err, ErrNotRegisteredAsMember) {
			t.Errorf("expected ErrNotRegisteredAsMember, got %v", err)
		}
		if err := svc.ExitPool(ctx, "alice", pool.ID); !errors.Is(err, ErrNotAPoolMember) {
			t.Errorf("expected ErrNotAPoolMember, got %v", err)
		}
	})
}

func TestUpdatePoolStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("admin and owner may change status", func(t *testing.T) {
		svc, _, rec := newTestService(t)
		pool := createPool(t, svc, "admin", 100, 1_000)

		if err := svc.UpdatePoolStatus(ctx, "admin", pool.ID, PoolPaused); err != nil {
			t.Fatalf("admin UpdatePoolStatus: %v", err)
		}
		if err := svc.UpdatePoolStatus(ctx, "owner", pool.ID, PoolActive); err != nil {
			t.Fatalf("owner UpdatePoolStatus: %v", err)
		}
		p, _ := svc.GetPool(pool.ID)
		if p.Status != PoolActive {
			t.Errorf("expected status=%s, got %s", PoolActive, p.Status)
		}
		if rec.last(t).Type != EventPoolStatusUpdated {
			t.Errorf("expected event %s, got %s", EventPoolStatusUpdated, rec.last(t).Type)
		}
	})

	t.Run("others rejected", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		pool := createPool(t, svc, "admin", 100, 1_000)
		if err := svc.UpdatePoolStatus(ctx, "mallory", pool.ID, PoolClosed); !errors.Is(err, ErrNotPoolAdmin) {
			t.Errorf("expected ErrNotPoolAdmin, got %v", err)
		}
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		pool := createPool(t, svc, "admin", 100, 1_000)
		if err := svc.UpdatePoolStatus(ctx, "admin", pool.ID, PoolStatus("Archived")); !errors.Is(err, ErrInvalidStatus) {
			t.Errorf("expected ErrInvalidStatus, got %v", err)
		}
	})

	t.Run("closed pool can be reopened", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		registerMember(t, svc, "alice")
		pool := createPool(t, svc, "admin", 100, 1_000)
		if err := svc.UpdatePoolStatus(ctx, "admin", pool.ID, PoolClosed); err != nil {
			t.Fatalf("close: %v", err)
		}
		if err := svc.UpdatePoolStatus(ctx, "admin", pool.ID, PoolActive); err != nil {
			t.Fatalf("reopen: %v", err)
		}
		if err := svc.JoinPool(ctx, "alice", pool.ID, 100); err != nil {
			t.Errorf("expected join after reopen, got %v", err)
		}
	})
}
