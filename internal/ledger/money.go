package ledger

// Fee arithmetic is integer basis points. 10_000 bps == 100%; the platform
// fee is capped at MaxFeeBps (5%).
const (
	BpsDenominator = 10_000
	MaxFeeBps      = 500
)

// NetAndFee splits amount into the net credited to a pool and the platform
// fee. Truncating integer division; net+fee == amount holds exactly for any
// amount >= 0 and 0 <= feeBps <= BpsDenominator. The quotient/remainder
// split keeps every intermediate product inside int64 for the full amount
// range; a naive amount*feeBps would wrap for large contributions.
func NetAndFee(amount, feeBps int64) (net, fee int64) {
	fee = amount/BpsDenominator*feeBps + amount%BpsDenominator*feeBps/BpsDenominator
	return amount - fee, fee
}

// validFeeBps reports whether a platform fee percentage is acceptable.
func validFeeBps(feeBps int64) bool {
	return feeBps >= 0 && feeBps <= MaxFeeBps
}
