package rawtcp

import (
	"encoding/binary"
	"fmt"
	"net"

	"github.com/billyprice1/natprobe/internal/logger"
)

// internetChecksum is the one's-complement 16-bit Internet checksum over
// data treated as big-endian 16-bit words, with the trailing byte padded
// on the right with one zero byte when len(data) is odd — spec.md §4.1.
func internetChecksum(data []byte) uint16 {
	var sum uint32
	n := len(data)
	i := 0
	for n > 1 {
		sum += uint32(binary.BigEndian.Uint16(data[i : i+2]))
		i += 2
		n -= 2
	}
	if n == 1 {
		sum += uint32(data[i]) << 8
	}
	for sum>>16 > 0 {
		sum = (sum & 0xffff) + (sum >> 16)
	}
	return ^uint16(sum)
}

// csumAdd adds two 16-bit one's-complement checksum field values with
// end-around carry.
func csumAdd(a, b uint16) uint16 {
	sum := uint32(a) + uint32(b)
	for sum>>16 > 0 {
		sum = (sum & 0xffff) + (sum >> 16)
	}
	return uint16(sum)
}

// assertBufferRoom panics if buf cannot hold the transient pseudo-header
// this engine appends past the payload during checksumming — the
// "pseudo-header appended past the payload" aliasing trick from
// spec.md's design notes is only safe with this guarantee.
func assertBufferRoom(buf []byte, tcpOff, headerLen, datalen int) {
	pad := datalen % 2
	need := tcpOff + headerLen + datalen + pad + pseudoHeaderLen
	if need > len(buf) {
		panic(fmt.Sprintf("rawtcp: segment buffer too small: need %d bytes, have %d", need, len(buf)))
	}
}

// writeTCPChecksum computes and writes the TCP checksum for the header
// starting at tcpOff (headerLen bytes of header+options) followed by
// datalen bytes of payload. It builds a transient 12-byte pseudo-header
// immediately after the payload (plus one zero pad byte if datalen is odd),
// sums from the TCP header through that pseudo-header, and then zeroes
// the scratch bytes it used — spec.md §4.1.
func writeTCPChecksum(buf []byte, srcIP, dstIP net.IP, tcpOff, headerLen, datalen int) {
	assertBufferRoom(buf, tcpOff, headerLen, datalen)

	pad := datalen % 2
	phOff := tcpOff + headerLen + datalen + pad
	ph := buf[phOff : phOff+pseudoHeaderLen]
	if pad == 1 {
		buf[phOff-1] = 0
	}

	copy(ph[0:4], srcIP.To4())
	copy(ph[4:8], dstIP.To4())
	ph[8] = 0
	ph[9] = tcpProtocolNumber
	binary.BigEndian.PutUint16(ph[10:12], uint16(headerLen+datalen))

	// Checksum field itself must read as zero while summing.
	binary.BigEndian.PutUint16(buf[tcpOff+16:tcpOff+18], 0)

	checksum := internetChecksum(buf[tcpOff : phOff+pseudoHeaderLen])
	binary.BigEndian.PutUint16(buf[tcpOff+16:tcpOff+18], checksum)

	for i := range ph {
		ph[i] = 0
	}
}

// undoNatting recovers the checksum value the sender originally targeted
// from a segment whose destination address/port were rewritten by an
// intermediate NAT, per spec.md §4.2: NATs are required by RFC 3022 to
// repair the TCP checksum incrementally, so adding the (possibly new)
// destination address and port back into the received checksum field
// undoes exactly that repair.
func undoNatting(dstIP net.IP, dstPort uint16, tcpCheck uint16) uint16 {
	d := dstIP.To4()
	lo := binary.BigEndian.Uint16(d[2:4])
	hi := binary.BigEndian.Uint16(d[0:2])

	check := csumAdd(tcpCheck, lo)
	check = csumAdd(check, hi)
	check = csumAdd(check, dstPort)

	logger.WithField("checksum", fmt.Sprintf("%04X", check)).Debug("undo_natting recalculated")
	return check
}
