package rawtcp

import "time"

// Modifier is a single-shot transform applied to an in-flight segment
// before it is sent: it may rewrite header fields, append options or
// payload, advance ConnState, or sleep — spec.md §3, §4.7. Each type
// below is one tagged variant from the closed set spec.md's design
// notes call for in place of the original's closures (§9).
type Modifier interface {
	Apply(seg *Segment, src, dst Endpoint, state *ConnState) error
}

// Identity leaves the segment and state untouched; the right/left
// identity for Concat.
type Identity struct{}

func (Identity) Apply(*Segment, Endpoint, Endpoint, *ConnState) error { return nil }

// AppendData appends bytes to the segment's current payload, setting
// PSH and recomputing IP total length and the TCP checksum.
type AppendData struct{ Data []byte }

func (m AppendData) Apply(seg *Segment, src, dst Endpoint, state *ConnState) error {
	payload := append(append([]byte(nil), seg.Payload()...), m.Data...)
	seg.setPayload(payload)
	if len(payload) > 0 {
		seg.TCP().SetFlags(seg.TCP().Flags() | FlagPSH)
	}
	seg.IP().SetTotalLen(uint16(ipHeaderLen + seg.headerLen() + seg.PayloadLen()))
	seg.checksum(src.ip4(), dst.ip4())
	return nil
}

// IncreaseSeq adds Delta to seq_local and rewrites the segment's seq
// field accordingly, leaving a gap in the byte stream the peer is
// expected to SACK around — used to force SACK ranges, spec.md §4.7.
type IncreaseSeq struct{ Delta uint32 }

func (m IncreaseSeq) Apply(seg *Segment, src, dst Endpoint, state *ConnState) error {
	state.SeqLocal += m.Delta
	seg.TCP().SetSeq(state.SeqLocal)
	seg.checksum(src.ip4(), dst.ip4())
	return nil
}

// Delay sleeps for Duration before the step's send, spec.md §4.7.
type Delay struct{ Duration time.Duration }

func (m Delay) Apply(*Segment, Endpoint, Endpoint, *ConnState) error {
	time.Sleep(m.Duration)
	return nil
}

// AddTimestampOption appends a Timestamp option carrying the connection
// state's current round-trip timestamp values.
type AddTimestampOption struct{}

func (AddTimestampOption) Apply(seg *Segment, src, dst Endpoint, state *ConnState) error {
	return AppendTimestamp(seg, src, dst, state.RcvTSVal, state.TSRecent)
}

// AddSACKPermittedOption appends a SACK-permitted option.
type AddSACKPermittedOption struct{}

func (AddSACKPermittedOption) Apply(seg *Segment, src, dst Endpoint, state *ConnState) error {
	return AppendSACKPermitted(seg, src, dst)
}

// AddSynExtras sets the covert ack/urg/reserved fields on a SYN segment
// so the peer can echo them back, spec.md §4.6 step 1. This is the
// SYN-time modifier every scenario in the catalog supplies.
type AddSynExtras struct {
	Ack uint32
	Urg uint16
	Res uint8
}

func (m AddSynExtras) Apply(seg *Segment, src, dst Endpoint, state *ConnState) error {
	tcp := seg.TCP()
	tcp.SetAckSeq(m.Ack)
	tcp.SetUrgPtr(m.Urg)
	doff, _ := tcp.DataOffsetReserved()
	tcp.SetDataOffsetReserved(doff, m.Res)
	seg.checksum(src.ip4(), dst.ip4())
	return nil
}

// Concat runs Left then Right, spec.md §4.7. Associative; Identity is
// its left/right identity.
type Concat struct{ Left, Right Modifier }

func (m Concat) Apply(seg *Segment, src, dst Endpoint, state *ConnState) error {
	if err := m.Left.Apply(seg, src, dst, state); err != nil {
		return err
	}
	return m.Right.Apply(seg, src, dst, state)
}
