package ledger

import "context"

// CreatePool opens a new shared fund with the creator as admin. The creator
// does not need a member record; joining their own pool still requires one.
func (s *Service) CreatePool(ctx context.Context, creator Principal, name, description string, minContribution, maxClaimAmount int64) (*Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		return nil, ErrNameRequired
	}
	if minContribution < s.minContribution {
		return nil, ErrContributionTooLow
	}
	if maxClaimAmount <= 0 {
		return nil, ErrInvalidAmount
	}

	now := s.clock()
	s.totalPools++
	p := &Pool{
		ID:              s.totalPools,
		Name:            name,
		Description:     description,
		Admin:           creator,
		MinContribution: minContribution,
		MaxClaimAmount:  maxClaimAmount,
		Status:          PoolActive,
		CreatedAt:       now,
	}
	s.pools[p.ID] = p

	s.emit(Event{Type: EventPoolCreated, Timestamp: now, Actor: creator, PoolID: p.ID, Name: name})
	s.commit(ctx, "CreatePool")
	return p.clone(), nil
}

// JoinPool adds a registered member to an active pool with an initial
// contribution of at least the pool minimum. The platform fee is split off
// into the emergency fund; the net is credited to the pool balance.
func (s *Service) JoinPool(ctx context.Context, member Principal, poolID, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[member]
	if !ok {
		return ErrNotRegisteredAsMember
	}
	p, ok := s.pools[poolID]
	if !ok {
		return ErrNotFound
	}
	if p.Status != PoolActive {
		return ErrPoolNotActive
	}
	if amount < p.MinContribution {
		return ErrInsufficientContribution
	}
	if p.hasMember(member) {
		return ErrAlreadyMember
	}
	if err := s.deposit(ctx, amount); err != nil {
		return err
	}

	net, fee := NetAndFee(amount, s.feeBps)
	p.TotalFunds += net
	s.emergencyFund += fee
	p.Members = append(p.Members, member)
	p.MemberCount++
	m.TotalContributed += amount
	s.memberPools[member] = append(s.memberPools[member], poolID)

	s.emit(Event{Type: EventMemberJoinedPool, Timestamp: s.clock(), Actor: member, PoolID: poolID, Member: member, Amount: amount})
	s.commit(ctx, "JoinPool")
	return nil
}

// ContributeToPool adds funds to a pool the member already belongs to. No
// pool-level minimum applies beyond the platform contribution floor.
func (s *Service) ContributeToPool(ctx context.Context, member Principal, poolID, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[member]
	if !ok {
		return ErrNotRegisteredAsMember
	}
	p, ok := s.pools[poolID]
	if !ok {
		return ErrNotFound
	}
	if p.Status != PoolActive {
		return ErrPoolNotActive
	}
	if !p.hasMember(member) {
		return ErrNotAPoolMember
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if err := s.deposit(ctx, amount); err != nil {
		return err
	}

	net, fee := NetAndFee(amount, s.feeBps)
	p.TotalFunds += net
	s.emergencyFund += fee
	m.TotalContributed += amount

	s.emit(Event{Type: EventContributionMade, Timestamp: s.clock(), Actor: member, PoolID: poolID, Member: member, Amount: amount})
	s.commit(ctx, "ContributeToPool")
	return nil
}

// ExitPool removes the member from the pool's member set. Contributed funds
// stay pooled; exits move no money. Blocked while the member has a Pending
// or Approved claim in this pool.
func (s *Service) ExitPool(ctx context.Context, member Principal, poolID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[member]; !ok {
		return ErrNotRegisteredAsMember
	}
	p, ok := s.pools[poolID]
	if !ok {
		return ErrNotFound
	}
	if !p.hasMember(member) {
		return ErrNotAPoolMember
	}
	for _, claimID := range p.ClaimIDs {
		c := s.claims[claimID]
		if c.Member == member && (c.Status == ClaimPending || c.Status == ClaimApproved) {
			return ErrHasPendingClaims
		}
	}

	for i, mp := range p.Members {
		if mp == member {
			p.Members = append(p.Members[:i], p.Members[i+1:]...)
			break
		}
	}
	p.MemberCount--
	pools := s.memberPools[member]
	for i, id := range pools {
		if id == poolID {
			s.memberPools[member] = append(pools[:i], pools[i+1:]...)
			break
		}
	}

	s.emit(Event{Type: EventMemberExitedPool, Timestamp: s.clock(), Actor: member, PoolID: poolID, Member: member})
	s.commit(ctx, "ExitPool")
	return nil
}

// UpdatePoolStatus sets a pool Active, Paused or Closed. Pool admin or
// platform owner only; no further transition restrictions apply.
func (s *Service) UpdatePoolStatus(ctx context.Context, caller Principal, poolID int64, status PoolStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pools[poolID]
	if !ok {
		return ErrNotFound
	}
	if err := s.requirePoolAdmin(caller, p); err != nil {
		return err
	}
	if !validPoolStatuses[status] {
		return ErrInvalidStatus
	}

	p.Status = status
	s.emit(Event{Type: EventPoolStatusUpdated, Timestamp: s.clock(), Actor: caller, PoolID: poolID, Status: string(status)})
	s.commit(ctx, "UpdatePoolStatus")
	return nil
}
