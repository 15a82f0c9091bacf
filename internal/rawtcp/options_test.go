package rawtcp

import (
	"net"
	"testing"
)

func testEndpoints() (Endpoint, Endpoint) {
	src := Endpoint{IP: net.IPv4(10, 0, 0, 1), Port: 40000}
	dst := Endpoint{IP: net.IPv4(10, 0, 0, 2), Port: 80}
	return src, dst
}

func TestAppendSACKPermitted(t *testing.T) {
	src, dst := testEndpoints()
	seg := NewSegment()
	BuildSyn(seg, src, dst, 1, 0, 0, 0)

	if err := AppendSACKPermitted(seg, src, dst); err != nil {
		t.Fatalf("AppendSACKPermitted: %v", err)
	}
	if !HasOption(seg, OptKindSACKPermitted) {
		t.Errorf("expected SACK-permitted option present")
	}
	if seg.OptionLen()%4 != 0 {
		t.Errorf("option block not padded to 4-byte boundary: %d", seg.OptionLen())
	}
}

func TestAppendTimestampThenSACK(t *testing.T) {
	src, dst := testEndpoints()
	seg := NewSegment()
	BuildSyn(seg, src, dst, 1, 0, 0, 0)

	if err := AppendTimestamp(seg, src, dst, 111, 222); err != nil {
		t.Fatalf("AppendTimestamp: %v", err)
	}
	if err := AppendSACKPermitted(seg, src, dst); err != nil {
		t.Fatalf("AppendSACKPermitted: %v", err)
	}

	if !HasOption(seg, OptKindTimestamp) {
		t.Errorf("expected timestamp option present")
	}
	if !HasOption(seg, OptKindSACKPermitted) {
		t.Errorf("expected SACK-permitted option present")
	}

	doff, _ := seg.TCP().DataOffsetReserved()
	if doff*4 != tcpHeaderLen+seg.OptionLen() {
		t.Errorf("doff %d does not match header+options length", doff)
	}
}

func TestAppendOptionPreservesPayload(t *testing.T) {
	src, dst := testEndpoints()
	seg := NewSegment()
	BuildData(seg, src, dst, 1, 1, 0, []byte("HELLO"))

	if err := AppendSACKPermitted(seg, src, dst); err != nil {
		t.Fatalf("AppendSACKPermitted: %v", err)
	}
	if string(seg.Payload()) != "HELLO" {
		t.Errorf("payload corrupted by option append: %q", seg.Payload())
	}
}

func TestAppendOptionFailsPastHeaderLimit(t *testing.T) {
	src, dst := testEndpoints()
	seg := NewSegment()
	BuildSyn(seg, src, dst, 1, 0, 0, 0)

	// 40 bytes of option space remain (60 - 20); keep appending
	// 10-byte timestamp options until the header limit is exceeded.
	var lastErr error
	for i := 0; i < 6; i++ {
		lastErr = AppendTimestamp(seg, src, dst, uint32(i), uint32(i))
		if lastErr != nil {
			break
		}
	}
	if lastErr == nil {
		t.Fatalf("expected header-size limit to be hit")
	}
	if AsVerdict(lastErr) != TestFailed {
		t.Errorf("expected TestFailed verdict, got %v", AsVerdict(lastErr))
	}
}

func TestHasOptionSkipsNOPPadding(t *testing.T) {
	src, dst := testEndpoints()
	seg := NewSegment()
	BuildSyn(seg, src, dst, 1, 0, 0, 0)

	if err := AppendSACKPermitted(seg, src, dst); err != nil {
		t.Fatalf("AppendSACKPermitted: %v", err)
	}
	if err := AppendTimestamp(seg, src, dst, 1, 2); err != nil {
		t.Fatalf("AppendTimestamp: %v", err)
	}
	if !HasOption(seg, OptKindTimestamp) {
		t.Errorf("expected timestamp option found past NOP padding")
	}
	if HasOption(seg, OptKindMSS) {
		t.Errorf("did not expect MSS option present")
	}
}
