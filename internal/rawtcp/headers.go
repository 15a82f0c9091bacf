package rawtcp

import (
	"net"

	"golang.org/x/net/ipv4"
)

// buildIPHeader lays out the shared 20-byte IPv4 header for a segment:
// version 4, IHL 5, TTL 40, protocol TCP, total length computed from the
// TCP header+options+payload lengths — spec.md §4.3. It is seeded with
// golang.org/x/net/ipv4's Header.Marshal, then mutated in place
// afterwards by modifiers. The IP checksum field is intentionally left
// zero and never recomputed — the invariants this engine maintains are
// scoped to the TCP checksum.
func buildIPHeader(seg *Segment, src, dst net.IP, headerLen, datalen int) {
	h := &ipv4.Header{
		Version:  ipv4.Version,
		Len:      ipHeaderLen,
		TotalLen: ipHeaderLen + headerLen + datalen,
		TTL:      40,
		Protocol: tcpProtocolNumber,
		Src:      src,
		Dst:      dst,
	}
	raw, err := h.Marshal()
	if err != nil {
		// Marshal of a fixed-size header with valid fields cannot fail.
		panic(err)
	}
	copy(seg.buf[:ipHeaderLen], raw)
}

func (s *Segment) checksum(src, dst net.IP) {
	writeTCPChecksum(s.buf, src, dst, ipHeaderLen, s.headerLen(), s.dataLen)
}

// BuildSyn builds a SYN segment carrying scenario-supplied covert values
// in the ACK number, URG pointer and reserved bits — fields that are
// normally meaningless in a SYN, so a cooperating peer can echo them back
// as a side channel (spec.md §4.3, §4.6 step 1).
func BuildSyn(seg *Segment, src, dst Endpoint, seq, ack uint32, urg uint16, res uint8) {
	seg.Reset()
	tcp := seg.TCP()
	tcp.SetSourcePort(src.Port)
	tcp.SetDestPort(dst.Port)
	tcp.SetSeq(seq)
	tcp.SetAckSeq(ack)
	tcp.SetDataOffsetReserved(5, res)
	tcp.SetFlags(FlagSYN)
	tcp.SetWindow(uint16(BufferCapacity - ipHeaderLen - tcpHeaderLen))
	tcp.SetUrgPtr(urg)

	buildIPHeader(seg, src.ip4(), dst.ip4(), tcpHeaderLen, 0)
	seg.checksum(src.ip4(), dst.ip4())
}

// BuildAck builds a plain ACK segment (used to close the handshake and
// to acknowledge received data), spec.md §4.3.
func BuildAck(seg *Segment, src, dst Endpoint, seqLocal, seqRemote uint32) {
	seg.Reset()
	tcp := seg.TCP()
	tcp.SetSourcePort(src.Port)
	tcp.SetDestPort(dst.Port)
	tcp.SetSeq(seqLocal)
	tcp.SetAckSeq(seqRemote)
	tcp.SetDataOffsetReserved(5, 0)
	tcp.SetFlags(FlagACK)
	tcp.SetWindow(uint16(BufferCapacity - ipHeaderLen - tcpHeaderLen))

	buildIPHeader(seg, src.ip4(), dst.ip4(), tcpHeaderLen, 0)
	seg.checksum(src.ip4(), dst.ip4())
}

// BuildFin builds a FIN+ACK segment to begin connection teardown,
// spec.md §4.3, §4.6 teardown step 1.
func BuildFin(seg *Segment, src, dst Endpoint, seqLocal, seqRemote uint32) {
	seg.Reset()
	tcp := seg.TCP()
	tcp.SetSourcePort(src.Port)
	tcp.SetDestPort(dst.Port)
	tcp.SetSeq(seqLocal)
	tcp.SetAckSeq(seqRemote)
	tcp.SetDataOffsetReserved(5, 0)
	tcp.SetFlags(FlagACK | FlagFIN)
	tcp.SetWindow(uint16(BufferCapacity - ipHeaderLen - tcpHeaderLen))

	buildIPHeader(seg, src.ip4(), dst.ip4(), tcpHeaderLen, 0)
	seg.checksum(src.ip4(), dst.ip4())
}

// BuildData builds an ACK segment carrying payload (PSH set iff the
// payload is non-empty) and a caller-controlled reserved field, so
// scenarios can probe whether middleboxes clear reserved bits on data
// segments too — spec.md §4.3.
func BuildData(seg *Segment, src, dst Endpoint, seqLocal, seqRemote uint32, reserved uint8, payload []byte) {
	seg.Reset()
	tcp := seg.TCP()
	tcp.SetSourcePort(src.Port)
	tcp.SetDestPort(dst.Port)
	tcp.SetSeq(seqLocal)
	tcp.SetAckSeq(seqRemote)
	tcp.SetDataOffsetReserved(5, reserved)
	flags := FlagACK
	if len(payload) > 0 {
		flags |= FlagPSH
	}
	tcp.SetFlags(flags)
	tcp.SetWindow(uint16(BufferCapacity - ipHeaderLen - tcpHeaderLen))

	seg.setPayload(payload)
	buildIPHeader(seg, src.ip4(), dst.ip4(), tcpHeaderLen, len(payload))
	seg.checksum(src.ip4(), dst.ip4())
}
