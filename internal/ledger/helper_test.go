package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

var testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// fakePayout records deposits and transfers and optionally fails them.
type fakePayout struct {
	deposits []int64
	calls    []transferCall
	err      error
}

type transferCall struct {
	to     Principal
	amount int64
}

func (f *fakePayout) Deposit(ctx context.Context, amount int64) error {
	if f.err != nil {
		return f.err
	}
	f.deposits = append(f.deposits, amount)
	return nil
}

func (f *fakePayout) Transfer(ctx context.Context, to Principal, amount int64) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, transferCall{to: to, amount: amount})
	return nil
}

// capture collects every event the service commits.
type capture struct {
	events []Event
}

func (c *capture) Record(ctx context.Context, events []Event) {
	c.events = append(c.events, events...)
}

func (c *capture) last(t *testing.T) Event {
	t.Helper()
	if len(c.events) == 0 {
		t.Fatal("expected at least one event")
	}
	return c.events[len(c.events)-1]
}

const testMinContribution = 10

func newTestService(t *testing.T) (*Service, *fakePayout, *capture) {
	t.Helper()
	pay := &fakePayout{}
	rec := &capture{}
	svc := NewService(Config{
		Owner:           "owner",
		FeeBps:          DefaultFeeBps,
		MinContribution: testMinContribution,
		Clock:           func() time.Time { return testTime },
		Payout:          pay,
		Events:          rec,
		Logger:          zerolog.Nop(),
	})
	return svc, pay, rec
}

// registerMember registers a member and fails the test on error.
func registerMember(t *testing.T, svc *Service, principal Principal) {
	t.Helper()
	if _, err := svc.RegisterMember(context.Background(), principal, string(principal)+" name", "contact"); err != nil {
		t.Fatalf("RegisterMember(%s): %v", principal, err)
	}
}

// registerVerifiedProvider registers a provider and verifies it as owner.
func registerVerifiedProvider(t *testing.T, svc *Service, principal Principal) {
	t.Helper()
	ctx := context.Background()
	if _, err := svc.RegisterProvider(ctx, principal, string(principal)+" clinic", "LIC-1", "general", "City"); err != nil {
		t.Fatalf("RegisterProvider(%s): %v", principal, err)
	}
	if err := svc.VerifyProvider(ctx, "owner", principal); err != nil {
		t.Fatalf("VerifyProvider(%s): %v", principal, err)
	}
}

// createPool creates a pool owned by admin and fails the test on error.
func createPool(t *testing.T, svc *Service, admin Principal, minContribution, maxClaim int64) *Pool {
	t.Helper()
	p, err := svc.CreatePool(context.Background(), admin, "Test Pool", "shared fund", minContribution, maxClaim)
	if err != nil {
		t.Fatalf("CreatePool: %v", err)
	}
	return p
}

// joinPool registers a member into a pool and fails the test on error.
func joinPool(t *testing.T, svc *Service, member Principal, poolID, amount int64) {
	t.Helper()
	if err := svc.JoinPool(context.Background(), member, poolID, amount); err != nil {
		t.Fatalf("JoinPool(%s, %d): %v", member, poolID, err)
	}
}
