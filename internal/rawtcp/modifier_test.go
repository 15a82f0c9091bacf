package rawtcp

import "testing"

func TestIncreaseSeqAdvancesState(t *testing.T) {
	src, dst := testEndpoints()
	seg := NewSegment()
	state := &ConnState{SeqLocal: 100, SeqRemote: 1}
	BuildData(seg, src, dst, state.SeqLocal, state.SeqRemote, 0, nil)

	mod := IncreaseSeq{Delta: 0xBE}
	if err := mod.Apply(seg, src, dst, state); err != nil {
		t.Fatalf("IncreaseSeq.Apply: %v", err)
	}
	if state.SeqLocal != 100+0xBE {
		t.Errorf("seq_local = %d, want %d", state.SeqLocal, 100+0xBE)
	}
	if seg.TCP().Seq() != state.SeqLocal {
		t.Errorf("segment seq field not updated: got %d want %d", seg.TCP().Seq(), state.SeqLocal)
	}
}

func TestConcatModifierRunsBothInOrder(t *testing.T) {
	src, dst := testEndpoints()
	seg := NewSegment()
	state := NewConnState()
	BuildData(seg, src, dst, state.SeqLocal, state.SeqRemote, 0, nil)

	mod := Concat{Left: AppendData{Data: []byte("HEL")}, Right: AppendData{Data: []byte("LO")}}
	if err := mod.Apply(seg, src, dst, state); err != nil {
		t.Fatalf("Concat.Apply: %v", err)
	}
	if string(seg.Payload()) != "HELLO" {
		t.Errorf("payload = %q, want %q", seg.Payload(), "HELLO")
	}
}

func TestConcatModifierIdentityLaw(t *testing.T) {
	src, dst := testEndpoints()

	segA := NewSegment()
	stateA := NewConnState()
	BuildData(segA, src, dst, 0, 0, 0, nil)
	if err := (AppendData{Data: []byte("x")}).Apply(segA, src, dst, stateA); err != nil {
		t.Fatalf("apply: %v", err)
	}

	segB := NewSegment()
	stateB := NewConnState()
	BuildData(segB, src, dst, 0, 0, 0, nil)
	if err := (Concat{Left: AppendData{Data: []byte("x")}, Right: Identity{}}).Apply(segB, src, dst, stateB); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if string(segA.Payload()) != string(segB.Payload()) {
		t.Errorf("Concat(m, Identity) != m: %q vs %q", segB.Payload(), segA.Payload())
	}
}

func TestConcatCheckerShortCircuits(t *testing.T) {
	src, dst := testEndpoints()
	seg := NewSegment()
	state := NewConnState()
	BuildData(seg, src, dst, 0, 0, 0, []byte("HELLO"))

	// Right would fail with SynAckErrorUrg (urg_ptr is 0), so a TestFailed
	// verdict shows only Left ran.
	c := ConcatChecker{Left: CheckData{Expected: []byte("WRONG")}, Right: CheckSynAckValues{Urg: 0xbe03}}
	err := c.Check(seg, src, dst, state)
	if err == nil {
		t.Fatalf("expected failure from left checker")
	}
	if AsVerdict(err) != TestFailed {
		t.Errorf("expected TestFailed, got %v", AsVerdict(err))
	}
}

func TestDummyCheckerIsIdentity(t *testing.T) {
	src, dst := testEndpoints()
	seg := NewSegment()
	state := NewConnState()
	BuildData(seg, src, dst, 0, 0, 0, []byte("HELLO"))

	c := ConcatChecker{Left: Dummy{}, Right: CheckData{Expected: []byte("HELLO")}}
	if err := c.Check(seg, src, dst, state); err != nil {
		t.Errorf("Concat(dummy, check) failed: %v", err)
	}
}
