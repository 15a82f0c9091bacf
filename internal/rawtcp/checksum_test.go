package rawtcp

import (
	"net"
	"testing"
)

func TestInternetChecksumEvenLength(t *testing.T) {
	data := []byte{0x00, 0x01, 0xf2, 0x03, 0xf4, 0xf5, 0xf6, 0xf7}
	sum := internetChecksum(data)

	// Writing the checksum back in and re-summing must yield zero,
	// mirroring the checksum round-trip law in spec.md §8.
	withChecksum := append(append([]byte(nil), data...), byte(sum>>8), byte(sum))
	if got := internetChecksum(withChecksum); got != 0xffff && got != 0 {
		t.Errorf("checksum round-trip failed: got %#04x", got)
	}
}

func TestInternetChecksumOddLength(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03}
	// Odd-length input must be padded with a trailing zero byte, not
	// crash or silently drop the last byte.
	got := internetChecksum(data)
	want := internetChecksum([]byte{0x01, 0x02, 0x03, 0x00})
	if got != want {
		t.Errorf("odd-length checksum mismatch: got %#04x want %#04x", got, want)
	}
}

func TestCsumAddEndAroundCarry(t *testing.T) {
	got := csumAdd(0xffff, 0x0001)
	if got != 0x0001 {
		t.Errorf("csumAdd end-around carry: got %#04x want 0x0001", got)
	}
}

func TestWriteTCPChecksumSetsNonZeroField(t *testing.T) {
	seg := NewSegment()
	src := net.IPv4(10, 0, 0, 1)
	dst := net.IPv4(10, 0, 0, 2)
	BuildAck(seg, Endpoint{IP: src, Port: 1234}, Endpoint{IP: dst, Port: 80}, 1, 1)

	if seg.TCP().Checksum() == 0 {
		t.Errorf("expected non-zero checksum after BuildAck")
	}
}

func TestUndoNattingIdentity(t *testing.T) {
	dst := net.IPv4(203, 0, 113, 7)
	dstPort := uint16(12345)

	// Simulate a sender that targeted checksum C and built a segment
	// whose on-wire checksum already reflects C minus the destination
	// address/port; undo_natting must recover C.
	const wantC = uint16(0xBEEF)
	lo := uint16(dst.To4()[2])<<8 | uint16(dst.To4()[3])
	hi := uint16(dst.To4()[0])<<8 | uint16(dst.To4()[1])

	onWire := csumAdd(wantC, ^lo)
	onWire = csumAdd(onWire, ^hi)
	onWire = csumAdd(onWire, ^dstPort)

	got := undoNatting(dst, dstPort, onWire)
	if got != wantC {
		t.Errorf("undo_natting identity failed: got %#04x want %#04x", got, wantC)
	}
}
