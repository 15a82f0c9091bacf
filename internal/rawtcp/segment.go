package rawtcp

// Segment is the single contiguous buffer one probe owns for its entire
// lifetime — IPv4 header, TCP header, options and payload laid out in
// place at fixed offsets, reused for both transmit and receive, never
// reallocated per-segment. spec.md §3.
type Segment struct {
	buf     []byte
	optLen  int // option bytes currently appended to the TCP header, padded to a 4-byte multiple
	dataLen int // payload bytes currently following the header
}

// NewSegment allocates one segment buffer, sized per BufferCapacity.
func NewSegment() *Segment {
	return &Segment{buf: make([]byte, BufferCapacity)}
}

// Reset clears the header region and option/payload lengths ahead of
// building a new segment in the same buffer (driver.go does this between
// steps so the buffer is genuinely reused, never reallocated).
func (s *Segment) Reset() {
	clear(s.buf[:ipHeaderLen+maxTCPHeaderLen])
	s.optLen = 0
	s.dataLen = 0
}

func (s *Segment) headerLen() int { return tcpHeaderLen + s.optLen }

// IP returns a view over the fixed 20-byte IPv4 header.
func (s *Segment) IP() ipv4View { return ipv4View(s.buf[:ipHeaderLen]) }

// TCP returns a view over the TCP header's fixed 20 bytes (options are
// read via Options and written by AppendOption).
func (s *Segment) TCP() tcpView { return tcpView(s.buf[ipHeaderLen : ipHeaderLen+tcpHeaderLen]) }

// Options returns the option bytes currently appended after the fixed
// TCP header.
func (s *Segment) Options() []byte {
	off := ipHeaderLen + tcpHeaderLen
	return s.buf[off : off+s.optLen]
}

// OptionLen reports how many option bytes (already padded to a 4-byte
// multiple) are appended.
func (s *Segment) OptionLen() int { return s.optLen }

// Payload returns the payload bytes currently following the header and
// options.
func (s *Segment) Payload() []byte {
	off := ipHeaderLen + s.headerLen()
	return s.buf[off : off+s.dataLen]
}

// PayloadLen reports the current payload length.
func (s *Segment) PayloadLen() int { return s.dataLen }

// TotalLen is the number of on-wire bytes currently occupied: IP header
// + TCP header + options + payload.
func (s *Segment) TotalLen() int { return ipHeaderLen + s.headerLen() + s.dataLen }

// Bytes returns the on-wire segment, ip header through payload.
func (s *Segment) Bytes() []byte { return s.buf[:s.TotalLen()] }

// setPayload copies data into the payload region (which must immediately
// follow the current header+options) and records its length.
func (s *Segment) setPayload(data []byte) {
	off := ipHeaderLen + s.headerLen()
	s.dataLen = copy(s.buf[off:], data)
}

// Raw exposes the full backing array for callers (recv_one) that need to
// read an arbitrary number of bytes off the wire into this segment's
// buffer before its lengths are known.
func (s *Segment) Raw() []byte { return s.buf }

// SetLengths is used by the receive path to record how many option and
// payload bytes a just-received datagram actually carries, once doff has
// been read back out of the wire bytes.
func (s *Segment) SetLengths(optLen, dataLen int) {
	s.optLen = optLen
	s.dataLen = dataLen
}
