//go:build !linux

package rawtcp

import (
	"net"
	"time"
)

// rawSocket is the portable fallback transport for platforms without
// IP_HDRINCL raw sockets wired through golang.org/x/sys/unix. It opens an
// "ip4:tcp" packet connection the way the poros TCP prober does: the
// kernel supplies its own IP header, so only the TCP header, options and
// payload this engine built are written on the wire. Received datagrams
// likewise arrive without their IP header: Recv copies the TCP bytes in
// after the 20-byte IP header region and leaves that region as it was, so
// RecvOne's address match and undo_natting's destination address read
// whatever the last built segment left there, not the received
// datagram's addresses.
type rawSocket struct {
	conn net.PacketConn
}

// OpenSocket acquires one IPv4 "ip4:tcp" packet connection.
func OpenSocket() (Socket, error) {
	conn, err := net.ListenPacket("ip4:tcp", "0.0.0.0")
	if err != nil {
		return nil, newError(TestFailed, "listen ip4:tcp: "+err.Error())
	}
	return &rawSocket{conn: conn}, nil
}

func (s *rawSocket) Send(buf []byte, dst net.IP) error {
	if err := s.conn.SetWriteDeadline(time.Now().Add(socketReceiveTimeout)); err != nil {
		return newError(SendError, err.Error())
	}
	if _, err := s.conn.WriteTo(buf[ipHeaderLen:], &net.IPAddr{IP: dst}); err != nil {
		return newError(SendError, err.Error())
	}
	return nil
}

func (s *rawSocket) Recv(buf []byte) (int, error) {
	if err := s.conn.SetReadDeadline(time.Now().Add(socketReceiveTimeout)); err != nil {
		return 0, newError(ReceiveError, err.Error())
	}
	n, _, err := s.conn.ReadFrom(buf[ipHeaderLen:])
	if err != nil {
		return 0, newError(ReceiveError, err.Error())
	}
	return n + ipHeaderLen, nil
}

func (s *rawSocket) Close() error {
	return s.conn.Close()
}
