package ledger

import "context"

// RegisterMember creates a Member record for principal. One record per
// principal, ever; re-registration fails even after the member exits.
func (s *Service) RegisterMember(ctx context.Context, principal Principal, name, contact string) (*Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		return nil, ErrNameRequired
	}
	if _, ok := s.members[principal]; ok {
		return nil, ErrAlreadyRegistered
	}

	now := s.clock()
	m := &Member{
		Principal: principal,
		Name:      name,
		Contact:   contact,
		Status:    MemberActive,
		JoinedAt:  now,
	}
	s.members[principal] = m
	s.totalMembers++

	s.emit(Event{Type: EventMemberRegistered, Timestamp: now, Actor: principal, Member: principal, Name: name})
	s.commit(ctx, "RegisterMember")
	return m.clone(), nil
}

// RegisterProvider creates a Provider record in the Pending state with a
// neutral reputation. Verification is a separate owner-only step.
func (s *Service) RegisterProvider(ctx context.Context, principal Principal, name, license, specialty, location string) (*Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		return nil, ErrNameRequired
	}
	if _, ok := s.providers[principal]; ok {
		return nil, ErrAlreadyRegistered
	}

	now := s.clock()
	p := &Provider{
		Principal:    principal,
		Name:         name,
		License:      license,
		Specialty:    specialty,
		Location:     location,
		Status:       ProviderPending,
		Reputation:   NeutralReputation,
		RegisteredAt: now,
	}
	s.providers[principal] = p
	s.totalProviders++

	s.emit(Event{Type: EventProviderRegistered, Timestamp: now, Actor: principal, Provider: principal, Name: name})
	s.commit(ctx, "RegisterProvider")
	return p.clone(), nil
}

// VerifyProvider marks a provider eligible for claims. Owner only.
func (s *Service) VerifyProvider(ctx context.Context, caller, principal Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOwner(caller); err != nil {
		return err
	}
	p, ok := s.providers[principal]
	if !ok {
		return ErrNotRegisteredAsProvider
	}

	p.Status = ProviderVerified
	s.emit(Event{Type: EventProviderVerified, Timestamp: s.clock(), Actor: caller, Provider: principal})
	s.commit(ctx, "VerifyProvider")
	return nil
}

// SuspendProvider blocks a provider from new claims and payouts. Owner only.
func (s *Service) SuspendProvider(ctx context.Context, caller, principal Principal, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOwner(caller); err != nil {
		return err
	}
	p, ok := s.providers[principal]
	if !ok {
		return ErrNotRegisteredAsProvider
	}

	p.Status = ProviderSuspended
	s.emit(Event{Type: EventProviderSuspended, Timestamp: s.clock(), Actor: caller, Provider: principal, Reason: reason})
	s.commit(ctx, "SuspendProvider")
	return nil
}

// Reputation bounds. New providers start neutral.
const (
	MinReputation     = 0
	MaxReputation     = 1000
	NeutralReputation = 500
)

// UpdateProviderReputation sets a provider's reputation score. Owner only.
func (s *Service) UpdateProviderReputation(ctx context.Context, caller, principal Principal, reputation int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOwner(caller); err != nil {
		return err
	}
	if reputation < MinReputation || reputation > MaxReputation {
		return ErrInvalidReputation
	}
	p, ok := s.providers[principal]
	if !ok {
		return ErrNotRegisteredAsProvider
	}

	p.Reputation = reputation
	s.emit(Event{Type: EventProviderReputationSet, Timestamp: s.clock(), Actor: caller, Provider: principal, Amount: reputation})
	s.commit(ctx, "UpdateProviderReputation")
	return nil
}
