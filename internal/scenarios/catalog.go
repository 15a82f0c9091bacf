// Package scenarios is the concrete probe catalog: the fourteen
// scenarios from testsuite.cpp and proxy_testsuite.cpp, each exposing
// the (src_ip, src_port, dst_ip, dst_port) -> verdict calling convention
// from spec.md §6.
package scenarios

import (
	"net"
	"time"

	"github.com/billyprice1/natprobe/internal/rawtcp"
)

// Step is a local alias so this file reads close to the scenario table
// without repeating the package prefix on every entry.
type Step = rawtcp.Step

func endpoints(srcIP net.IP, srcPort uint16, dstIP net.IP, dstPort uint16) (rawtcp.Endpoint, rawtcp.Endpoint) {
	return rawtcp.Endpoint{IP: srcIP, Port: srcPort}, rawtcp.Endpoint{IP: dstIP, Port: dstPort}
}

// beWord16 splits v into its big-endian byte pair, the form the
// covert-channel scenarios expect the peer to echo back.
func beWord16(v uint16) []byte { return []byte{byte(v >> 8), byte(v)} }

func beWord32(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

// runOneStep is the shape shared by every single-exchange scenario in
// testsuite.cpp's runTest: open with the given covert SYN/SYN-ACK
// values, send one payload, check the reply, close.
func runOneStep(srcIP net.IP, srcPort uint16, dstIP net.IP, dstPort uint16,
	synAck uint32, synUrg uint16, synRes uint8,
	synAckCheck rawtcp.CheckSynAckValues,
	payload string, checker rawtcp.Checker) rawtcp.Verdict {

	src, dst := endpoints(srcIP, srcPort, dstIP, dstPort)
	sc := rawtcp.Scenario{
		SynModifier: rawtcp.AddSynExtras{Ack: synAck, Urg: synUrg, Res: synRes},
		SynAckCheck: synAckCheck,
		Steps: []Step{{
			Modifier:       rawtcp.AppendData{Data: []byte(payload)},
			Checker:        checker,
			ExpectResponse: true,
		}},
	}
	return rawtcp.Run(src, dst, sc)
}

// RunCustom is the classic one-shot probe spec.md §4.8 calls out as the
// driver's minimal instance: send payload, expect its byte-reversal back,
// then close immediately (step 2 omitted). Unlike the catalog's other
// entries it takes the payload as a parameter instead of a hardcoded
// literal, so cmd/probe can drive it from scenario.payload in the config
// file rather than only from the fixed-value covert-channel probes.
func RunCustom(srcIP net.IP, srcPort uint16, dstIP net.IP, dstPort uint16, payload []byte) rawtcp.Verdict {
	src, dst := endpoints(srcIP, srcPort, dstIP, dstPort)
	reversed := make([]byte, len(payload))
	for i, b := range payload {
		reversed[len(payload)-1-i] = b
	}
	sc := rawtcp.Scenario{
		SynModifier: rawtcp.AddSynExtras{},
		SynAckCheck: rawtcp.CheckSynAckValues{},
		Steps: []Step{{
			Modifier:       rawtcp.AppendData{Data: payload},
			Checker:        rawtcp.CheckData{Expected: reversed},
			ExpectResponse: true,
		}},
	}
	return rawtcp.Run(src, dst, sc)
}

// RunAckOnly echoes the covert ACK-number value back as the first four
// payload bytes (testsuite.cpp runTest_ack_only).
func RunAckOnly(srcIP net.IP, srcPort uint16, dstIP net.IP, dstPort uint16) rawtcp.Verdict {
	const synAck = 0xbeef0001
	return runOneStep(srcIP, srcPort, dstIP, dstPort,
		synAck, 0, 0, rawtcp.CheckSynAckValues{},
		"HELLO", rawtcp.CheckData{Expected: beWord32(synAck)})
}

// RunUrgOnly echoes the covert URG pointer back as the first two
// payload bytes (testsuite.cpp runTest_urg_only).
func RunUrgOnly(srcIP net.IP, srcPort uint16, dstIP net.IP, dstPort uint16) rawtcp.Verdict {
	const synUrg = 0xbe02
	return runOneStep(srcIP, srcPort, dstIP, dstPort,
		0, synUrg, 0, rawtcp.CheckSynAckValues{},
		"HELLO", rawtcp.CheckData{Expected: beWord16(synUrg)})
}

// RunAckUrg requires the SYN-ACK's URG pointer to match and the peer to
// reverse the payload (testsuite.cpp runTest_ack_urg).
func RunAckUrg(srcIP net.IP, srcPort uint16, dstIP net.IP, dstPort uint16) rawtcp.Verdict {
	return runOneStep(srcIP, srcPort, dstIP, dstPort,
		0xbeef0003, 0, 0, rawtcp.CheckSynAckValues{Urg: 0xbe03},
		"HELLO", rawtcp.CheckData{Expected: []byte("OLLEH")})
}

// RunPlainUrg checks only the SYN-ACK-side URG pointer, with no SYN-side
// covert value, isolating return-path rewriting from forward-path
// rewriting (proxy_testsuite supplement; testsuite.cpp runTest_plain_urg).
func RunPlainUrg(srcIP net.IP, srcPort uint16, dstIP net.IP, dstPort uint16) rawtcp.Verdict {
	return runOneStep(srcIP, srcPort, dstIP, dstPort,
		0, 0, 0, rawtcp.CheckSynAckValues{Urg: 0xbe04},
		"HELLO", rawtcp.CheckData{Expected: []byte("OLLEH")})
}

// RunAckChecksum requires the NAT-undone SYN-ACK checksum to match
// (testsuite.cpp runTest_ack_checksum).
func RunAckChecksum(srcIP net.IP, srcPort uint16, dstIP net.IP, dstPort uint16) rawtcp.Verdict {
	return runOneStep(srcIP, srcPort, dstIP, dstPort,
		0xbeef0006, 0, 0, rawtcp.CheckSynAckValues{Cksum: 0xbeef},
		"HELLO", rawtcp.CheckData{Expected: []byte("OLLEH")})
}

// RunAckChecksumIncorrect targets a checksum value the SYN-ACK won't
// actually carry if a NAT is present, expecting SynAckErrorUrg
// (testsuite.cpp runTest_ack_checksum_incorrect).
func RunAckChecksumIncorrect(srcIP net.IP, srcPort uint16, dstIP net.IP, dstPort uint16) rawtcp.Verdict {
	return runOneStep(srcIP, srcPort, dstIP, dstPort,
		0xbeef0005, 0, 0, rawtcp.CheckSynAckValues{Cksum: 0xbeef},
		"HELLO", rawtcp.CheckData{Expected: []byte("OLLEH")})
}

// RunUrgUrg sets the same covert URG value on both SYN and SYN-ACK
// sides (testsuite.cpp runTest_urg_urg).
func RunUrgUrg(srcIP net.IP, srcPort uint16, dstIP net.IP, dstPort uint16) rawtcp.Verdict {
	return runOneStep(srcIP, srcPort, dstIP, dstPort,
		0, 0xbe07, 0, rawtcp.CheckSynAckValues{Urg: 0xbe07},
		"HELLO", rawtcp.CheckData{Expected: []byte("OLLEH")})
}

// RunUrgChecksum sets a covert SYN-side URG value and checks the
// SYN-ACK checksum (testsuite.cpp runTest_urg_checksum).
func RunUrgChecksum(srcIP net.IP, srcPort uint16, dstIP net.IP, dstPort uint16) rawtcp.Verdict {
	return runOneStep(srcIP, srcPort, dstIP, dstPort,
		0, 0xbe08, 0, rawtcp.CheckSynAckValues{Cksum: 0xbeef},
		"HELLO", rawtcp.CheckData{Expected: []byte("OLLEH")})
}

// RunUrgChecksumIncorrect is RunUrgChecksum's deliberately-mismatched
// sibling (testsuite.cpp runTest_urg_checksum_incorrect).
func RunUrgChecksumIncorrect(srcIP net.IP, srcPort uint16, dstIP net.IP, dstPort uint16) rawtcp.Verdict {
	return runOneStep(srcIP, srcPort, dstIP, dstPort,
		0, 0xbe09, 0, rawtcp.CheckSynAckValues{Cksum: 0xbeef},
		"HELLO", rawtcp.CheckData{Expected: []byte("OLLEH")})
}

// reservedBitValues are the four single-bit reserved-field values the
// reserved_syn and reserved_est sub-probes iterate over.
var reservedBitValues = [4]uint8{0b0001, 0b0010, 0b0100, 0b1000}

// RunReservedSyn runs four sub-probes, one per reserved bit, requiring
// the SYN-ACK to echo the same bit the SYN carried; test_complete iff
// all four pass (testsuite.cpp runTest_reserved_syn).
func RunReservedSyn(srcIP net.IP, srcPort uint16, dstIP net.IP, dstPort uint16) rawtcp.Verdict {
	for _, res := range reservedBitValues {
		v := runOneStep(srcIP, srcPort, dstIP, dstPort,
			0, 0, res, rawtcp.CheckSynAckValues{Res: res},
			"HELLO", rawtcp.CheckData{Expected: []byte("OLLEH")})
		if v != rawtcp.TestComplete {
			return rawtcp.TestFailed
		}
	}
	return rawtcp.TestComplete
}

// RunReservedEst runs four sub-probes, one per reserved bit, this time
// set on the established-connection data segment rather than the SYN
// (testsuite.cpp runTest_reserved_est).
func RunReservedEst(srcIP net.IP, srcPort uint16, dstIP net.IP, dstPort uint16) rawtcp.Verdict {
	src, dst := endpoints(srcIP, srcPort, dstIP, dstPort)
	for _, res := range reservedBitValues {
		sc := rawtcp.Scenario{
			SynModifier: rawtcp.AddSynExtras{},
			SynAckCheck: rawtcp.CheckSynAckValues{},
			Steps: []Step{{
				Modifier: rawtcp.Concat{
					Left:  reservedDataModifier{Res: res},
					Right: rawtcp.AppendData{Data: []byte("HELLO")},
				},
				Checker: rawtcp.ConcatChecker{
					Left:  rawtcp.CheckData{Expected: []byte("OLLEH")},
					Right: rawtcp.CheckReservedBits{Want: res},
				},
				ExpectResponse: true,
			}},
		}
		if rawtcp.Run(src, dst, sc) != rawtcp.TestComplete {
			return rawtcp.TestFailed
		}
	}
	return rawtcp.TestComplete
}

// reservedDataModifier sets the reserved field on an in-flight data
// segment, used only by RunReservedEst: BuildData already accepts a
// reserved value per call, but the driver's per-step base template
// always builds with reserved=0, so this modifier patches it in. It does
// not recompute the TCP checksum; RunReservedEst runs it before
// AppendData, which does.
type reservedDataModifier struct{ Res uint8 }

func (m reservedDataModifier) Apply(seg *rawtcp.Segment, src, dst rawtcp.Endpoint, state *rawtcp.ConnState) error {
	tcp := seg.TCP()
	doff, _ := tcp.DataOffsetReserved()
	tcp.SetDataOffsetReserved(doff, m.Res)
	return nil
}

// RunSackGap forces a sequence-number gap so the peer must respond with
// a selective acknowledgment, requiring the SYN-ACK to carry
// SACK-permitted (proxy_testsuite.cpp runTest_sackGap).
func RunSackGap(srcIP net.IP, srcPort uint16, dstIP net.IP, dstPort uint16) rawtcp.Verdict {
	src, dst := endpoints(srcIP, srcPort, dstIP, dstPort)

	fillA := make([]byte, 0xbe)
	for i := range fillA {
		fillA[i] = 'a'
	}
	fillB := []byte{'b', 'b'}

	sc := rawtcp.Scenario{
		SynModifier: rawtcp.Concat{
			Left:  rawtcp.AddSynExtras{},
			Right: rawtcp.AddSACKPermittedOption{},
		},
		SynAckCheck: rawtcp.ConcatChecker{
			Left:  rawtcp.CheckSynAckValues{},
			Right: rawtcp.HasTCPOption{Kind: rawtcp.OptKindSACKPermitted},
		},
		Steps: []Step{
			{
				Modifier: rawtcp.Concat{
					Left:  rawtcp.AppendData{Data: []byte("HELLO_ACK_GAP")},
					Right: rawtcp.IncreaseSeq{Delta: 0xbe},
				},
				Checker:        rawtcp.Dummy{},
				ExpectResponse: true,
			},
			{
				Modifier: rawtcp.Concat{
					Left: rawtcp.Concat{
						Left:  rawtcp.AppendData{Data: fillA},
						Right: rawtcp.IncreaseSeq{Delta: 0x02},
					},
					Right: rawtcp.Delay{Duration: 5 * time.Second},
				},
				Checker:        rawtcp.Dummy{},
				ExpectResponse: true,
			},
			{
				Modifier:       rawtcp.AppendData{Data: fillB},
				Checker:        rawtcp.CheckData{Expected: []byte("OLLEH")},
				ExpectResponse: true,
			},
		},
	}

	return rawtcp.Run(src, dst, sc)
}

// RunTimestamping forces a sequence-number gap the way RunSackGap does,
// but with a Timestamp option instead of SACK-permitted, requiring the
// SYN-ACK to carry a Timestamp option (proxy_testsuite.cpp
// runTest_timestamping).
func RunTimestamping(srcIP net.IP, srcPort uint16, dstIP net.IP, dstPort uint16) rawtcp.Verdict {
	src, dst := endpoints(srcIP, srcPort, dstIP, dstPort)

	fillA := make([]byte, 0xbe)
	for i := range fillA {
		fillA[i] = 'a'
	}

	sc := rawtcp.Scenario{
		SynModifier: rawtcp.Concat{
			Left:  rawtcp.AddSynExtras{},
			Right: rawtcp.AddTimestampOption{},
		},
		SynAckCheck: rawtcp.ConcatChecker{
			Left:  rawtcp.CheckSynAckValues{},
			Right: rawtcp.HasTCPOption{Kind: rawtcp.OptKindTimestamp},
		},
		Steps: []Step{
			{
				Modifier: rawtcp.Concat{
					Left:  rawtcp.AppendData{Data: []byte("HELLO_timestamp")},
					Right: rawtcp.IncreaseSeq{Delta: 0xbe},
				},
				Checker:        rawtcp.Dummy{},
				ExpectResponse: true,
			},
			{
				Modifier: rawtcp.Concat{
					Left:  rawtcp.AppendData{Data: fillA},
					Right: rawtcp.Delay{Duration: 5 * time.Second},
				},
				Checker:        rawtcp.Dummy{},
				ExpectResponse: false,
			},
		},
	}

	return rawtcp.Run(src, dst, sc)
}
