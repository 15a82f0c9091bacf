// Package rawtcp is the raw-socket TCP engine: header construction,
// checksum mathematics, a manually driven handshake/teardown state
// machine, and a composable packet-modification/validation pipeline for
// probing how middleboxes rewrite TCP segments in transit.
package rawtcp

const (
	// BufferCapacity is the size of the segment buffer a probe owns for
	// its entire lifetime. It must be large enough to hold the biggest
	// legal IPv4+TCP segment this engine ever builds, plus the transient
	// pseudo-header appended past the payload during checksumming.
	BufferCapacity = 65535

	ipHeaderLen     = 20
	tcpHeaderLen    = 20
	pseudoHeaderLen = 12
	maxTCPHeaderLen = 60 // doff limited to 15 words

	tcpProtocolNumber = 6
)
