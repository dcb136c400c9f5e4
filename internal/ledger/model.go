package ledger

import (
	"time"
)

// Principal identifies an external account (member, provider, owner or pool
// admin). The ledger treats it as an opaque address-like string.
type Principal string

// -- Statuses --

type MemberStatus string

const (
	MemberActive    MemberStatus = "active"
	MemberSuspended MemberStatus = "suspended"
	MemberExited    MemberStatus = "exited"
)

type ProviderStatus string

const (
	ProviderPending   ProviderStatus = "pending"
	ProviderVerified  ProviderStatus = "verified"
	ProviderSuspended ProviderStatus = "suspended"
)

type PoolStatus string

const (
	PoolActive PoolStatus = "active"
	PoolPaused PoolStatus = "paused"
	PoolClosed PoolStatus = "closed"
)

var validPoolStatuses = map[PoolStatus]bool{
	PoolActive: true, PoolPaused: true, PoolClosed: true,
}

type ClaimStatus string

const (
	ClaimPending  ClaimStatus = "pending"
	ClaimApproved ClaimStatus = "approved"
	ClaimRejected ClaimStatus = "rejected"
	ClaimPaid     ClaimStatus = "paid"
	// ClaimDisputed is a declared terminal escape hatch. No command
	// transitions into it; it exists so stored claims from future dispute
	// tooling remain representable on the read surface.
	ClaimDisputed ClaimStatus = "disputed"
)

// -- Entities --

// Member is a registered participant. Records are never physically deleted;
// MemberExited is a status, not removal.
type Member struct {
	Principal           Principal    `json:"principal"`
	Name                string       `json:"name"`
	Contact             string       `json:"contact"`
	TotalContributed    int64        `json:"total_contributed"`
	TotalClaimsReceived int64        `json:"total_claims_received"`
	ClaimCount          int64        `json:"claim_count"`
	Status              MemberStatus `json:"status"`
	JoinedAt            time.Time    `json:"joined_at"`
}

// Provider is a care provider eligible to be named on claims once verified
// by the platform owner.
type Provider struct {
	Principal            Principal      `json:"principal"`
	Name                 string         `json:"name"`
	License              string         `json:"license"`
	Specialty            string         `json:"specialty"`
	Location             string         `json:"location"`
	Status               ProviderStatus `json:"status"`
	TotalClaimsProcessed int64          `json:"total_claims_processed"`
	TotalAmountProcessed int64          `json:"total_amount_processed"`
	Reputation           int64          `json:"reputation"`
	RegisteredAt         time.Time      `json:"registered_at"`
}

// Pool is a shared fund with one admin and many contributing members.
// TotalFunds is the spendable balance net of platform fees; TotalPaidClaims
// is cumulative and informational only.
type Pool struct {
	ID              int64       `json:"id"`
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	Admin           Principal   `json:"admin"`
	MinContribution int64       `json:"min_contribution"`
	MaxClaimAmount  int64       `json:"max_claim_amount"`
	TotalFunds      int64       `json:"total_funds"`
	TotalPaidClaims int64       `json:"total_paid_claims"`
	MemberCount     int64       `json:"member_count"`
	Status          PoolStatus  `json:"status"`
	CreatedAt       time.Time   `json:"created_at"`
	Members         []Principal `json:"members"`
	ClaimIDs        []int64     `json:"claim_ids"`
}

func (p *Pool) hasMember(principal Principal) bool {
	for _, m := range p.Members {
		if m == principal {
			return true
		}
	}
	return false
}

// Claim is a request to move pool funds to a provider for a member's
// treatment. Diagnosis, treatment and proof are opaque to the ledger.
type Claim struct {
	ID              int64       `json:"id"`
	PoolID          int64       `json:"pool_id"`
	Member          Principal   `json:"member"`
	Provider        Principal   `json:"provider"`
	Diagnosis       string      `json:"diagnosis"`
	Treatment       string      `json:"treatment"`
	RequestedAmount int64       `json:"requested_amount"`
	ApprovedAmount  int64       `json:"approved_amount"`
	Status          ClaimStatus `json:"status"`
	MedicalProof    string      `json:"medical_proof"`
	RejectionReason string      `json:"rejection_reason,omitempty"`
	SubmittedAt     time.Time   `json:"submitted_at"`
	ProcessedAt     *time.Time  `json:"processed_at,omitempty"`
	ProcessedBy     Principal   `json:"processed_by,omitempty"`
}

// Stats is the O(1) read of the maintained global counters.
type Stats struct {
	TotalPools     int64 `json:"total_pools"`
	TotalMembers   int64 `json:"total_members"`
	TotalProviders int64 `json:"total_providers"`
	TotalClaims    int64 `json:"total_claims"`
	EmergencyFund  int64 `json:"emergency_fund"`
	PlatformFeeBps int64 `json:"platform_fee_bps"`
}

func (m *Member) clone() *Member {
	cp := *m
	return &cp
}

func (p *Provider) clone() *Provider {
	cp := *p
	return &cp
}

func (p *Pool) clone() *Pool {
	cp := *p
	cp.Members = append([]Principal(nil), p.Members...)
	cp.ClaimIDs = append([]int64(nil), p.ClaimIDs...)
	return &cp
}

func (c *Claim) clone() *Claim {
	cp := *c
	if c.ProcessedAt != nil {
		t := *c.ProcessedAt
		cp.ProcessedAt = &t
	}
	return &cp
}
