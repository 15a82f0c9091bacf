package rawtcp

import (
	"encoding/hex"
	"fmt"

	"github.com/billyprice1/natprobe/internal/logger"
)

// TraceSegment logs a one-line summary of a segment's IP/TCP header
// fields at Debug level, the Go-native equivalent of the original
// implementation's printPacketInfo.
func TraceSegment(label string, seg *Segment) {
	ip := seg.IP()
	tcp := seg.TCP()
	logger.WithFields(map[string]interface{}{
		"label":   label,
		"src":     ip.Src().String(),
		"dst":     ip.Dst().String(),
		"sport":   tcp.SourcePort(),
		"dport":   tcp.DestPort(),
		"seq":     tcp.Seq(),
		"ack":     tcp.AckSeq(),
		"flags":   fmt.Sprintf("%#02x", tcp.Flags()),
		"urg":     tcp.UrgPtr(),
		"total":   ip.TotalLen(),
		"payload": seg.PayloadLen(),
	}).Debug("segment")
}

// TraceHex logs the hex dump of a segment's on-wire bytes at Debug
// level, the Go-native equivalent of the original's printBufferHex.
func TraceHex(label string, seg *Segment) {
	logger.WithField("label", label).Debugf("bytes: %s", hex.EncodeToString(seg.Bytes()))
}
