package rawtcp

import "bytes"

// Checker is a predicate over a received segment, returning nil on
// success or a tagged *Error otherwise — spec.md §3, §4.7.
type Checker interface {
	Check(seg *Segment, src, dst Endpoint, state *ConnState) error
}

// Dummy always succeeds; the identity element for Concat composition.
type Dummy struct{}

func (Dummy) Check(*Segment, Endpoint, Endpoint, *ConnState) error { return nil }

// HasTCPOption requires the received segment to carry a TCP option of
// the given kind (used to confirm SACK-permitted / Timestamp survived).
type HasTCPOption struct{ Kind uint8 }

func (c HasTCPOption) Check(seg *Segment, src, dst Endpoint, state *ConnState) error {
	if !HasOption(seg, c.Kind) {
		return newError(TestFailed, "expected tcp option not present")
	}
	return nil
}

// CheckSynAckValues re-runs the three SYN-ACK field checks from
// spec.md §4.6 steps 4-6 against an already-received segment. A zero
// field in the triple means "don't check".
type CheckSynAckValues struct {
	Urg   uint16
	Cksum uint16
	Res   uint8
}

func (c CheckSynAckValues) Check(seg *Segment, src, dst Endpoint, state *ConnState) error {
	return checkSynAckValues(seg, c.Urg, c.Cksum, c.Res)
}

// CheckData compares the segment's payload byte-for-byte against
// Expected, spec.md §4.7.
type CheckData struct{ Expected []byte }

func (c CheckData) Check(seg *Segment, src, dst Endpoint, state *ConnState) error {
	if !bytes.Equal(seg.Payload(), c.Expected) {
		return newError(TestFailed, "payload does not match expected bytes")
	}
	return nil
}

// CheckReservedBits requires the received segment's reserved field to
// equal want, used by the reserved_est scenario to confirm a data
// segment's reserved bits survived transit — spec.md §4.3, §9.
type CheckReservedBits struct{ Want uint8 }

func (c CheckReservedBits) Check(seg *Segment, src, dst Endpoint, state *ConnState) error {
	_, r := seg.TCP().DataOffsetReserved()
	if r&0x0F != c.Want {
		return newError(TestFailed, "reserved bits mismatch on data segment")
	}
	return nil
}

// ConcatChecker runs Left, returns its error if any, else runs Right —
// spec.md §4.7. Associative; Dummy is its left/right identity.
type ConcatChecker struct{ Left, Right Checker }

func (c ConcatChecker) Check(seg *Segment, src, dst Endpoint, state *ConnState) error {
	if err := c.Left.Check(seg, src, dst, state); err != nil {
		return err
	}
	return c.Right.Check(seg, src, dst, state)
}
