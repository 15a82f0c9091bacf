package rawtcp

import (
	"encoding/binary"
	"net"
)

// TCP flag bits, per spec.md §4.3. Byte 13 of the TCP header.
const (
	FlagFIN uint8 = 0x01
	FlagSYN uint8 = 0x02
	FlagRST uint8 = 0x04
	FlagPSH uint8 = 0x08
	FlagACK uint8 = 0x10
	FlagURG uint8 = 0x20
	FlagECE uint8 = 0x40
	FlagCWR uint8 = 0x80
)

// ipv4View gives offset-based access to the fixed 20-byte IPv4 header at
// the front of a segment buffer. The header is seeded once via
// golang.org/x/net/ipv4's Header.Marshal (buildIPHeader) and mutated in
// place afterwards — spec.md requires the header stay laid out at fixed
// offsets so modifiers can rewrite any field without a rebuild.
type ipv4View []byte

func (h ipv4View) TotalLen() uint16       { return binary.BigEndian.Uint16(h[2:4]) }
func (h ipv4View) SetTotalLen(v uint16)   { binary.BigEndian.PutUint16(h[2:4], v) }
func (h ipv4View) Protocol() uint8        { return h[9] }
func (h ipv4View) Checksum() uint16       { return binary.BigEndian.Uint16(h[10:12]) }
func (h ipv4View) SetChecksum(v uint16)   { binary.BigEndian.PutUint16(h[10:12], v) }
func (h ipv4View) Src() net.IP            { return net.IP(h[12:16]) }
func (h ipv4View) Dst() net.IP            { return net.IP(h[16:20]) }
func (h ipv4View) SetSrc(ip net.IP)       { copy(h[12:16], ip.To4()) }
func (h ipv4View) SetDst(ip net.IP)       { copy(h[16:20], ip.To4()) }

// tcpView gives offset-based access to the fixed 20-byte TCP header at
// offset ipHeaderLen of a segment buffer; options are not part of it.
type tcpView []byte

func (h tcpView) SourcePort() uint16     { return binary.BigEndian.Uint16(h[0:2]) }
func (h tcpView) SetSourcePort(p uint16) { binary.BigEndian.PutUint16(h[0:2], p) }
func (h tcpView) DestPort() uint16       { return binary.BigEndian.Uint16(h[2:4]) }
func (h tcpView) SetDestPort(p uint16)   { binary.BigEndian.PutUint16(h[2:4], p) }
func (h tcpView) Seq() uint32            { return binary.BigEndian.Uint32(h[4:8]) }
func (h tcpView) SetSeq(v uint32)        { binary.BigEndian.PutUint32(h[4:8], v) }
func (h tcpView) AckSeq() uint32         { return binary.BigEndian.Uint32(h[8:12]) }
func (h tcpView) SetAckSeq(v uint32)     { binary.BigEndian.PutUint32(h[8:12], v) }

// DataOffsetReserved splits byte 12 into the data-offset word count and
// the 4-bit reserved field (res1 in the original source).
func (h tcpView) DataOffsetReserved() (doff int, res uint8) {
	return int(h[12] >> 4), h[12] & 0x0F
}

func (h tcpView) SetDataOffsetReserved(doff int, res uint8) {
	h[12] = byte(doff<<4) | (res & 0x0F)
}

func (h tcpView) Flags() uint8          { return h[13] }
func (h tcpView) SetFlags(f uint8)      { h[13] = f }
func (h tcpView) HasFlags(mask uint8) bool { return h[13]&mask == mask }

func (h tcpView) Window() uint16     { return binary.BigEndian.Uint16(h[14:16]) }
func (h tcpView) SetWindow(v uint16) { binary.BigEndian.PutUint16(h[14:16], v) }
func (h tcpView) Checksum() uint16   { return binary.BigEndian.Uint16(h[16:18]) }
func (h tcpView) SetChecksum(v uint16) { binary.BigEndian.PutUint16(h[16:18], v) }
func (h tcpView) UrgPtr() uint16     { return binary.BigEndian.Uint16(h[18:20]) }
func (h tcpView) SetUrgPtr(v uint16) { binary.BigEndian.PutUint16(h[18:20], v) }
