package rawtcp

// OpenHandshake drives spec.md §4.6 steps 1-7: build and send a SYN
// carrying the scenario's covert ack/urg/res values (via synMod),
// validate the peer's SYN-ACK against synAckCheck, then complete the
// handshake with an ACK. On success state.SeqLocal/SeqRemote hold the
// negotiated sequence numbers and the connection is Established.
func OpenHandshake(sock Socket, seg *Segment, src, dst Endpoint, state *ConnState, synMod Modifier, synAckCheck Checker) error {
	localISN := state.SeqLocal

	BuildSyn(seg, src, dst, localISN, 0, 0, 0)
	if synMod != nil {
		if err := synMod.Apply(seg, src, dst, state); err != nil {
			return err
		}
	}
	if err := sock.Send(seg.Bytes(), dst.ip4()); err != nil {
		return newError(SendError, err.Error())
	}
	state.SeqLocal = localISN + 1

	if err := RecvOne(sock, seg, dst, src); err != nil {
		return err
	}
	tcp := seg.TCP()
	if !tcp.HasFlags(FlagSYN | FlagACK) {
		return newError(ProtocolError, "expected SYN+ACK")
	}
	if tcp.AckSeq() != state.SeqLocal {
		return newError(SequenceError, "unexpected ack_seq in SYN-ACK")
	}
	if synAckCheck != nil {
		if err := synAckCheck.Check(seg, src, dst, state); err != nil {
			return err
		}
	}

	state.SeqRemote = tcp.Seq() + 1
	BuildAck(seg, src, dst, state.SeqLocal, state.SeqRemote)
	if err := sock.Send(seg.Bytes(), dst.ip4()); err != nil {
		return newError(SendError, err.Error())
	}
	return nil
}

// checkSynAckValues implements spec.md §4.6 steps 4-6: URG pointer,
// NAT-undone checksum, and reserved-bits checks, each only applied when
// its expected value is non-zero. All three surface as SynAckErrorUrg,
// per §9's note to preserve the original verdict bucketing. The checksum
// check adds back the segment's *own* destination address and port —
// i.e. the local endpoint as it actually arrived on the wire, which is
// what any NAT along the path rewrote — not the configured dst, per
// spec.md §4.2's "its own current destination address and port".
func checkSynAckValues(seg *Segment, urg, check uint16, res uint8) error {
	tcp := seg.TCP()
	if urg != 0 && tcp.UrgPtr() != urg {
		return newError(SynAckErrorUrg, "urg_ptr mismatch")
	}
	if check != 0 {
		if undoNatting(seg.IP().Dst(), tcp.DestPort(), tcp.Checksum()) != check {
			return newError(SynAckErrorUrg, "checksum mismatch")
		}
	}
	if res != 0 {
		_, r := tcp.DataOffsetReserved()
		if r&0x0F != res {
			return newError(SynAckErrorUrg, "reserved bits mismatch")
		}
	}
	return nil
}

// Teardown drives spec.md §4.6 teardown: FIN+ACK, then one or two more
// exchanges depending on whether the peer combines FIN+ACK in a single
// segment.
func Teardown(sock Socket, seg *Segment, src, dst Endpoint, state *ConnState) error {
	BuildFin(seg, src, dst, state.SeqLocal, state.SeqRemote)
	if err := sock.Send(seg.Bytes(), dst.ip4()); err != nil {
		return newError(SendError, err.Error())
	}

	if err := RecvOne(sock, seg, dst, src); err != nil {
		return err
	}
	tcp := seg.TCP()
	combined := tcp.HasFlags(FlagFIN | FlagACK)
	if !combined && !tcp.HasFlags(FlagFIN) {
		return newError(ProtocolError, "expected FIN")
	}
	if combined {
		state.SeqRemote = tcp.AckSeq() + 1
	} else {
		state.SeqRemote = tcp.Seq() + 1
	}

	BuildAck(seg, src, dst, state.SeqLocal, state.SeqRemote)
	if err := sock.Send(seg.Bytes(), dst.ip4()); err != nil {
		return newError(SendError, err.Error())
	}

	if !combined {
		if err := RecvOne(sock, seg, dst, src); err != nil {
			return err
		}
	}
	return nil
}
