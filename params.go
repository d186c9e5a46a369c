package pimalign

import "fmt"

// BandWidth is the fixed anti-diagonal band width W used by the
// kernel. The spec fixes this at 128 and treats variable band widths
// as a non-goal.
const BandWidth = 128

// NegInf is the sentinel value carried by cells outside the band (or
// otherwise unreachable), chosen so that one gap-extension step can
// never overflow an int32. See spec.md section 4.1 "Numeric semantics".
const NegInf int32 = -(1 << 30)

// AlignParams holds the scoring parameters for one run. Match should
// be non-negative; the rest are conventionally zero or negative.
// The struct carries no band width: the kernel always operates at the
// package constant BandWidth.
type AlignParams struct {
	Match         int32
	Mismatch      int32
	GapOpening    int32
	GapExtension  int32
}

// Validate applies the scoring conventions from the data model
// (spec.md section 3): match should be non-negative, the rest should
// be non-positive. These are conventions, not hard kernel requirements,
// but balancer.Run and config.Load reject parameters that break them,
// returning this error, since a positive gap/mismatch score makes the
// DP's optimality assumptions meaningless.
func (p AlignParams) Validate() error {
	if p.Match < 0 {
		return fmt.Errorf("pimalign: match score %d must be >= 0", p.Match)
	}
	if p.Mismatch > 0 {
		return fmt.Errorf("pimalign: mismatch penalty %d must be <= 0", p.Mismatch)
	}
	if p.GapOpening > 0 {
		return fmt.Errorf("pimalign: gap opening penalty %d must be <= 0", p.GapOpening)
	}
	if p.GapExtension > 0 {
		return fmt.Errorf("pimalign: gap extension penalty %d must be <= 0", p.GapExtension)
	}
	return nil
}
