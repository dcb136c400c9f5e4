package ledger

import "context"

// SubmitClaim opens a Pending claim against a pool the member belongs to,
// naming a verified provider. Diagnosis, treatment and proof are required
// but opaque; the requested amount is capped by the pool's max claim.
func (s *Service) SubmitClaim(ctx context.Context, member Principal, poolID int64, provider Principal, diagnosis, treatment string, requestedAmount int64, medicalProof string) (*Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if diagnosis == "" || treatment == "" || medicalProof == "" {
		return nil, ErrEmptyField
	}
	if requestedAmount <= 0 {
		return nil, ErrInvalidAmount
	}
	if _, ok := s.members[member]; !ok {
		return nil, ErrNotRegisteredAsMember
	}
	p, ok := s.pools[poolID]
	if !ok {
		return nil, ErrNotFound
	}
	if !p.hasMember(member) {
		return nil, ErrNotAPoolMember
	}
	prov, ok := s.providers[provider]
	if !ok || prov.Status != ProviderVerified {
		return nil, ErrProviderNotVerified
	}
	if requestedAmount > p.MaxClaimAmount {
		return nil, ErrAmountExceedsMaxClaim
	}

	now := s.clock()
	s.totalClaims++
	c := &Claim{
		ID:              s.totalClaims,
		PoolID:          poolID,
		Member:          member,
		Provider:        provider,
		Diagnosis:       diagnosis,
		Treatment:       treatment,
		RequestedAmount: requestedAmount,
		Status:          ClaimPending,
		MedicalProof:    medicalProof,
		SubmittedAt:     now,
	}
	s.claims[c.ID] = c
	p.ClaimIDs = append(p.ClaimIDs, c.ID)
	s.memberClaims[member] = append(s.memberClaims[member], c.ID)
	s.providerClaims[provider] = append(s.providerClaims[provider], c.ID)

	s.emit(Event{Type: EventClaimSubmitted, Timestamp: now, Actor: member, ClaimID: c.ID, PoolID: poolID, Member: member, Provider: provider, Amount: requestedAmount})
	s.commit(ctx, "SubmitClaim")
	return c.clone(), nil
}

// ApproveClaim moves a Pending claim to Approved with the amount the admin
// is willing to pay, at most the requested amount.
func (s *Service) ApproveClaim(ctx context.Context, caller Principal, claimID, approvedAmount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.claims[claimID]
	if !ok {
		return ErrNotFound
	}
	p := s.pools[c.PoolID]
	if err := s.requirePoolAdmin(caller, p); err != nil {
		return err
	}
	if c.Status != ClaimPending {
		return ErrInvalidClaimState
	}
	if approvedAmount <= 0 {
		return ErrInvalidAmount
	}
	if approvedAmount > c.RequestedAmount {
		return ErrAmountExceedsRequested
	}

	now := s.clock()
	c.Status = ClaimApproved
	c.ApprovedAmount = approvedAmount
	c.ProcessedAt = &now
	c.ProcessedBy = caller

	s.emit(Event{Type: EventClaimProcessed, Timestamp: now, Actor: caller, ClaimID: claimID, PoolID: c.PoolID, Status: string(ClaimApproved), Amount: approvedAmount})
	s.commit(ctx, "ApproveClaim")
	return nil
}

// RejectClaim moves a Pending claim to Rejected with the admin's reason.
// The approved amount stays zero.
func (s *Service) RejectClaim(ctx context.Context, caller Principal, claimID int64, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.claims[claimID]
	if !ok {
		return ErrNotFound
	}
	p := s.pools[c.PoolID]
	if err := s.requirePoolAdmin(caller, p); err != nil {
		return err
	}
	if c.Status != ClaimPending {
		return ErrInvalidClaimState
	}

	now := s.clock()
	c.Status = ClaimRejected
	c.RejectionReason = reason
	c.ProcessedAt = &now
	c.ProcessedBy = caller

	s.emit(Event{Type: EventClaimProcessed, Timestamp: now, Actor: caller, ClaimID: claimID, PoolID: c.PoolID, Status: string(ClaimRejected), Reason: reason})
	s.commit(ctx, "RejectClaim")
	return nil
}

// PayClaim settles an Approved claim: the pool balance is debited, the
// provider is credited through the external transfer primitive, and all
// cumulative counters move together. Only the claim's own provider, while
// Verified, may call it. The funds check is a hard backstop; a pool that
// satisfies the conservation invariant cannot trip it through payouts alone.
func (s *Service) PayClaim(ctx context.Context, caller Principal, claimID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.claims[claimID]
	if !ok {
		return ErrNotFound
	}
	prov, ok := s.providers[caller]
	if !ok {
		return ErrNotRegisteredAsProvider
	}
	if caller != c.Provider {
		return ErrNotRegisteredAsProvider
	}
	if prov.Status != ProviderVerified {
		return ErrProviderNotVerified
	}
	if c.Status != ClaimApproved {
		return ErrInvalidClaimState
	}
	p := s.pools[c.PoolID]
	if c.ApprovedAmount > p.TotalFunds {
		return ErrInsufficientFunds
	}
	if s.payout != nil {
		if err := s.payout.Transfer(ctx, c.Provider, c.ApprovedAmount); err != nil {
			return err
		}
	}

	now := s.clock()
	p.TotalFunds -= c.ApprovedAmount
	p.TotalPaidClaims += c.ApprovedAmount
	prov.TotalClaimsProcessed++
	prov.TotalAmountProcessed += c.ApprovedAmount
	m := s.members[c.Member]
	m.TotalClaimsReceived += c.ApprovedAmount
	m.ClaimCount++
	c.Status = ClaimPaid
	c.ProcessedAt = &now
	c.ProcessedBy = caller

	s.emit(Event{Type: EventClaimPaid, Timestamp: now, Actor: caller, ClaimID: claimID, PoolID: c.PoolID, Member: c.Member, Provider: c.Provider, Amount: c.ApprovedAmount})
	s.commit(ctx, "PayClaim")
	return nil
}
