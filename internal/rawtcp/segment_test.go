package rawtcp

import "testing"

func TestSegmentResetClearsLengths(t *testing.T) {
	seg := NewSegment()
	src, dst := testEndpoints()
	BuildData(seg, src, dst, 1, 1, 0, []byte("payload"))

	if seg.PayloadLen() == 0 {
		t.Fatalf("expected non-zero payload before reset")
	}

	seg.Reset()
	if seg.PayloadLen() != 0 || seg.OptionLen() != 0 {
		t.Errorf("Reset did not clear lengths: payload=%d options=%d", seg.PayloadLen(), seg.OptionLen())
	}
}

func TestSegmentTotalLenMatchesIPTotalLen(t *testing.T) {
	seg := NewSegment()
	src, dst := testEndpoints()
	BuildData(seg, src, dst, 1, 1, 0, []byte("HELLO"))

	if int(seg.IP().TotalLen()) != seg.TotalLen() {
		t.Errorf("ip.tot_len %d does not match segment total length %d", seg.IP().TotalLen(), seg.TotalLen())
	}
	wantTotal := ipHeaderLen + tcpHeaderLen + len("HELLO")
	if seg.TotalLen() != wantTotal {
		t.Errorf("total length %d, want %d", seg.TotalLen(), wantTotal)
	}
}

func TestBuildDataZeroLengthPayloadHasNoPSH(t *testing.T) {
	seg := NewSegment()
	src, dst := testEndpoints()
	BuildData(seg, src, dst, 1, 1, 0, nil)

	if seg.TCP().HasFlags(FlagPSH) {
		t.Errorf("expected PSH clear for zero-length payload")
	}
}

func TestBuildDataSetsPSHWithPayload(t *testing.T) {
	seg := NewSegment()
	src, dst := testEndpoints()
	BuildData(seg, src, dst, 1, 1, 0, []byte("x"))

	if !seg.TCP().HasFlags(FlagPSH) {
		t.Errorf("expected PSH set for non-empty payload")
	}
}
