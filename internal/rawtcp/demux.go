package rawtcp

import "time"

// RecvOne reads from sock until it sees a segment whose four-tuple
// matches (expectedSrc → expectedDst) exactly, discarding anything else,
// bounded by an overall wall-clock deadline measured from the first read
// of this call — spec.md §4.5. On a match it records the segment's
// option and payload lengths on seg and returns nil.
func RecvOne(sock Socket, seg *Segment, expectedSrc, expectedDst Endpoint) error {
	deadline := time.Now().Add(socketReceiveTimeout)

	for {
		if time.Now().After(deadline) {
			return newError(ReceiveError, "recv_one: deadline exceeded")
		}

		n, err := sock.Recv(seg.Raw())
		if err != nil {
			return newError(ReceiveError, err.Error())
		}
		if n < ipHeaderLen+tcpHeaderLen {
			continue
		}

		ip := seg.IP()
		if !ip.Src().Equal(expectedSrc.IP.To4()) || !ip.Dst().Equal(expectedDst.IP.To4()) {
			continue
		}

		tcp := tcpView(seg.Raw()[ipHeaderLen : ipHeaderLen+tcpHeaderLen])
		if tcp.SourcePort() != expectedSrc.Port || tcp.DestPort() != expectedDst.Port {
			continue
		}

		doff, _ := tcp.DataOffsetReserved()
		headerLen := doff * 4
		if headerLen < tcpHeaderLen || ipHeaderLen+headerLen > n {
			continue
		}
		optLen := headerLen - tcpHeaderLen
		dataLen := int(ip.TotalLen()) - ipHeaderLen - headerLen
		if dataLen < 0 || ipHeaderLen+headerLen+dataLen > n {
			dataLen = n - ipHeaderLen - headerLen
		}
		seg.SetLengths(optLen, dataLen)
		return nil
	}
}
