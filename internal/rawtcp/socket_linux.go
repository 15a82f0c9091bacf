//go:build linux

package rawtcp

import (
	"net"

	"golang.org/x/sys/unix"
)

// rawSocket is the Linux raw-socket transport: SOCK_RAW bound to
// IPPROTO_TCP with IP_HDRINCL set so the kernel transmits exactly the
// bytes this engine built, and a receive timeout so recv_one never blocks
// forever — spec.md §4.5. Grounded on the teacher's
// netraw/socket_linux.go, issued through golang.org/x/sys/unix rather than
// the standard library's syscall package (see SPEC_FULL.md §B for why).
type rawSocket struct {
	fd int
}

// OpenSocket acquires one promiscuous IPv4 raw TCP socket. The caller
// owns it for the lifetime of a scenario run and must Close it when done.
func OpenSocket() (Socket, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_RAW, unix.IPPROTO_TCP)
	if err != nil {
		return nil, newError(TestFailed, "socket: "+err.Error())
	}
	if err := unix.SetsockoptInt(fd, unix.IPPROTO_IP, unix.IP_HDRINCL, 1); err != nil {
		unix.Close(fd)
		return nil, newError(TestFailed, "IP_HDRINCL: "+err.Error())
	}
	tv := unix.NsecToTimeval(socketReceiveTimeout.Nanoseconds())
	if err := unix.SetsockoptTimeval(fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv); err != nil {
		unix.Close(fd)
		return nil, newError(TestFailed, "SO_RCVTIMEO: "+err.Error())
	}
	return &rawSocket{fd: fd}, nil
}

func (s *rawSocket) Send(buf []byte, dst net.IP) error {
	d := dst.To4()
	if d == nil {
		return newError(SendError, "destination is not an IPv4 address")
	}
	addr := &unix.SockaddrInet4{Addr: [4]byte{d[0], d[1], d[2], d[3]}}
	if err := unix.Sendto(s.fd, buf, 0, addr); err != nil {
		return newError(SendError, err.Error())
	}
	return nil
}

func (s *rawSocket) Recv(buf []byte) (int, error) {
	n, _, err := unix.Recvfrom(s.fd, buf, 0)
	if err != nil {
		return 0, newError(ReceiveError, err.Error())
	}
	return n, nil
}

func (s *rawSocket) Close() error {
	return unix.Close(s.fd)
}
