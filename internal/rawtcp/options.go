package rawtcp

import (
	"encoding/binary"
	"fmt"
)

// TCP option kinds this engine knows how to append or recognize,
// per spec.md §4.4 and RFC 2018 / RFC 7323.
const (
	OptKindEOL          uint8 = 0
	OptKindNOP          uint8 = 1
	OptKindMSS          uint8 = 2
	OptKindWScale       uint8 = 3
	OptKindSACKPermitted uint8 = 4
	OptKindSACK         uint8 = 5
	OptKindTimestamp    uint8 = 8
)

// AppendOption writes one TCP option immediately after the current last
// option: kind byte, length byte, then totalLen-2 data bytes (data holds
// exactly that many bytes; totalLen itself includes the kind and length
// bytes, e.g. 2 for SACK-permitted, 10 for Timestamp). It pads the new
// end of the option block to a 4-byte boundary with NOP bytes, shifts any
// existing payload rightward to stay contiguous behind the header,
// updates doff and the IP total length, and recomputes the TCP checksum.
// Fails if the resulting header would exceed the 60-byte / 15-word limit
// — spec.md §4.4.
func AppendOption(seg *Segment, src, dst Endpoint, kind uint8, totalLen int, data []byte) error {
	base := ipHeaderLen + tcpHeaderLen

	prevDataLen := seg.dataLen
	payload := append([]byte(nil), seg.Payload()...)

	optOff := base + seg.optLen
	seg.buf[optOff] = kind
	if totalLen > 1 {
		seg.buf[optOff+1] = uint8(totalLen)
		copy(seg.buf[optOff+2:optOff+totalLen], data)
	}

	rawOptLen := seg.optLen + totalLen
	padded := (rawOptLen + 3) / 4 * 4
	for i := rawOptLen; i < padded; i++ {
		seg.buf[base+i] = OptKindNOP
	}

	headerLen := tcpHeaderLen + padded
	if headerLen > maxTCPHeaderLen {
		return newError(TestFailed, fmt.Sprintf("tcp header too large after option: %d bytes (limit %d)", headerLen, maxTCPHeaderLen))
	}
	seg.optLen = padded

	copy(seg.buf[ipHeaderLen+headerLen:], payload)
	seg.dataLen = prevDataLen

	doff := headerLen / 4
	_, res := seg.TCP().DataOffsetReserved()
	seg.TCP().SetDataOffsetReserved(doff, res)

	seg.IP().SetTotalLen(uint16(ipHeaderLen + headerLen + prevDataLen))
	seg.checksum(src.ip4(), dst.ip4())
	return nil
}

// AppendSACKPermitted appends a SACK-permitted option (RFC 2018): kind 4,
// length 2, no data.
func AppendSACKPermitted(seg *Segment, src, dst Endpoint) error {
	return AppendOption(seg, src, dst, OptKindSACKPermitted, 2, nil)
}

// AppendTimestamp appends a Timestamp option (RFC 7323): kind 8, length
// 10, an 8-byte payload of TSval || TSecr.
func AppendTimestamp(seg *Segment, src, dst Endpoint, tsval, tsecr uint32) error {
	data := make([]byte, 8)
	binary.BigEndian.PutUint32(data[0:4], tsval)
	binary.BigEndian.PutUint32(data[4:8], tsecr)
	return AppendOption(seg, src, dst, OptKindTimestamp, 10, data)
}

// HasOption reports whether seg's TCP header currently carries an option
// of the given kind.
func HasOption(seg *Segment, kind uint8) bool {
	opts := seg.Options()
	i := 0
	for i < len(opts) {
		k := opts[i]
		switch {
		case k == OptKindEOL:
			return false
		case k == OptKindNOP:
			i++
			continue
		}
		if i+1 >= len(opts) {
			return false
		}
		l := int(opts[i+1])
		if k == kind {
			return true
		}
		if l < 2 {
			return false
		}
		i += l
	}
	return false
}
