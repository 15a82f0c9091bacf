package rawtcp

import (
	"net"
	"testing"
)

// fakeSocket replays a fixed queue of segments, used to test recv_one's
// flow filtering without a real raw socket.
type fakeSocket struct {
	queue [][]byte
	pos   int
}

func (f *fakeSocket) Send([]byte, net.IP) error { return nil }

func (f *fakeSocket) Recv(buf []byte) (int, error) {
	if f.pos >= len(f.queue) {
		return 0, newError(ReceiveError, "queue exhausted")
	}
	pkt := f.queue[f.pos]
	f.pos++
	return copy(buf, pkt), nil
}

func (f *fakeSocket) Close() error { return nil }

func buildRaw(t *testing.T, src, dst Endpoint, seq, ack uint32) []byte {
	t.Helper()
	seg := NewSegment()
	BuildAck(seg, src, dst, seq, ack)
	return append([]byte(nil), seg.Bytes()...)
}

func TestRecvOneDiscardsOtherFlows(t *testing.T) {
	us := Endpoint{IP: net.IPv4(10, 0, 0, 1), Port: 40000}
	peer := Endpoint{IP: net.IPv4(10, 0, 0, 2), Port: 80}
	otherPeer := Endpoint{IP: net.IPv4(10, 0, 0, 3), Port: 80}

	sock := &fakeSocket{queue: [][]byte{
		buildRaw(t, otherPeer, us, 1, 1),
		buildRaw(t, peer, us, 5, 9),
	}}

	seg := NewSegment()
	if err := RecvOne(sock, seg, peer, us); err != nil {
		t.Fatalf("RecvOne: %v", err)
	}
	if seg.TCP().Seq() != 5 {
		t.Errorf("expected to land on the matching flow's segment, got seq %d", seg.TCP().Seq())
	}
}

func TestRecvOneErrorsOnSocketFailure(t *testing.T) {
	sock := &fakeSocket{queue: nil}
	seg := NewSegment()
	peer := Endpoint{IP: net.IPv4(10, 0, 0, 2), Port: 80}
	us := Endpoint{IP: net.IPv4(10, 0, 0, 1), Port: 40000}

	err := RecvOne(sock, seg, peer, us)
	if err == nil {
		t.Fatalf("expected error from exhausted queue")
	}
	if AsVerdict(err) != ReceiveError {
		t.Errorf("expected ReceiveError verdict, got %v", AsVerdict(err))
	}
}
