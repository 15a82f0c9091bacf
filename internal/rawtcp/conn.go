package rawtcp

import "net"

// Endpoint is a (IPv4 address, port) pair identifying one side of a flow.
type Endpoint struct {
	IP   net.IP
	Port uint16
}

func (e Endpoint) ip4() net.IP { return e.IP.To4() }

// ConnState is the mutable state of one probe's connection: negotiated
// sequence counters and the running Timestamp option values. It is
// created zeroed at socket setup, mutated by the handshake and by each
// data step, and discarded when the probe returns — spec.md §3.
type ConnState struct {
	SeqLocal  uint32
	SeqRemote uint32

	RcvTSVal uint32
	TSRecent uint32
}

// NewConnState returns a zeroed ConnState, as built at socket setup time.
func NewConnState() *ConnState {
	return &ConnState{}
}
