package ledger

// Read surface. Every getter takes the engine lock and returns copies, so
// callers never alias live ledger state. Sequences come back in insertion
// order. Stats is a plain counter read; nothing here scans or recomputes.

func (s *Service) GetPool(id int64) (*Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pools[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p.clone(), nil
}

func (s *Service) GetMember(principal Principal) (*Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[principal]
	if !ok {
		return nil, ErrNotFound
	}
	return m.clone(), nil
}

func (s *Service) GetProvider(principal Principal) (*Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.providers[principal]
	if !ok {
		return nil, ErrNotFound
	}
	return p.clone(), nil
}

func (s *Service) GetClaim(id int64) (*Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.claims[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c.clone(), nil
}

// GetPoolMembers returns the pool's member principals in join order.
func (s *Service) GetPoolMembers(poolID int64) ([]Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pools[poolID]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]Principal(nil), p.Members...), nil
}

// GetPoolClaims returns the pool's claim ids in submission order.
func (s *Service) GetPoolClaims(poolID int64) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pools[poolID]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]int64(nil), p.ClaimIDs...), nil
}

// GetMemberPools returns the ids of pools the member currently belongs to.
func (s *Service) GetMemberPools(principal Principal) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[principal]; !ok {
		return nil, ErrNotFound
	}
	return append([]int64(nil), s.memberPools[principal]...), nil
}

// GetMemberClaims returns all claim ids the member has ever submitted.
func (s *Service) GetMemberClaims(principal Principal) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[principal]; !ok {
		return nil, ErrNotFound
	}
	return append([]int64(nil), s.memberClaims[principal]...), nil
}

// GetProviderClaims returns all claim ids naming the provider.
func (s *Service) GetProviderClaims(principal Principal) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.providers[principal]; !ok {
		return nil, ErrNotFound
	}
	return append([]int64(nil), s.providerClaims[principal]...), nil
}

func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		TotalPools:     s.totalPools,
		TotalMembers:   s.totalMembers,
		TotalProviders: s.totalProviders,
		TotalClaims:    s.totalClaims,
		EmergencyFund:  s.emergencyFund,
		PlatformFeeBps: s.feeBps,
	}
}
