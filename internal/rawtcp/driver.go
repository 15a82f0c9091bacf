package rawtcp

import "github.com/billyprice1/natprobe/internal/logger"

// Step is one (modifier, checker) pair the driver runs between open and
// close, spec.md §4.8.
type Step struct {
	Modifier Modifier
	Checker  Checker
	// ExpectResponse marks a step that should recv_one and run Checker
	// against the reply; a step with ExpectResponse false only sends.
	ExpectResponse bool
}

// Scenario is the complete recipe for one probe, GLOSSARY "Scenario":
// a SYN-time modifier, a SYN-ACK checker, and an ordered step list.
type Scenario struct {
	SynModifier Modifier
	SynAckCheck Checker
	Steps       []Step
	// BasePayload seeds every step's base data segment before its
	// modifier runs (spec.md §4.8 step 3's "re-emit the base data
	// segment template"). Most scenarios leave this nil and build their
	// payload entirely through AppendData.
	BasePayload []byte
}

// Run executes one scenario end to end on a freshly opened socket:
// acquire, handshake, steps, teardown, verdict — spec.md §4.8.
func Run(src, dst Endpoint, sc Scenario) Verdict {
	sock, err := OpenSocket()
	if err != nil {
		logger.WithField("err", err.Error()).Error("open raw socket failed")
		return TestFailed
	}
	defer sock.Close()

	return RunOnSocket(sock, src, dst, sc)
}

// RunOnSocket executes a scenario over an already-open socket that the
// caller owns and closes; Run is its only caller in this module.
func RunOnSocket(sock Socket, src, dst Endpoint, sc Scenario) Verdict {
	seg := NewSegment()
	state := NewConnState()

	if err := OpenHandshake(sock, seg, src, dst, state, sc.SynModifier, sc.SynAckCheck); err != nil {
		logger.WithFields(map[string]interface{}{
			"sport": src.Port, "err": err.Error(),
		}).Warn("handshake failed")
		return TestFailed
	}
	TraceSegment("established", seg)

	stepsOK := true
	var lastAckSeq uint32
	var lastPayloadLen int
	haveLastRecv := false

stepLoop:
	for i, step := range sc.Steps {
		BuildData(seg, src, dst, state.SeqLocal, state.SeqRemote, 0, sc.BasePayload)
		if step.Modifier != nil {
			if err := step.Modifier.Apply(seg, src, dst, state); err != nil {
				logger.WithFields(map[string]interface{}{"step": i, "err": err.Error()}).Warn("step modifier failed")
				stepsOK = false
				break stepLoop
			}
		}
		TraceSegment("step send", seg)
		if err := sock.Send(seg.Bytes(), dst.ip4()); err != nil {
			logger.WithFields(map[string]interface{}{"step": i, "err": err.Error()}).Warn("step send failed")
			stepsOK = false
			break stepLoop
		}
		if !step.ExpectResponse {
			continue
		}

		if err := RecvOne(sock, seg, dst, src); err != nil {
			logger.WithFields(map[string]interface{}{"step": i, "err": err.Error()}).Warn("step recv failed")
			stepsOK = false
			break stepLoop
		}
		TraceSegment("step recv", seg)
		lastAckSeq = seg.TCP().AckSeq()
		lastPayloadLen = seg.PayloadLen()
		haveLastRecv = true

		if step.Checker != nil {
			if err := step.Checker.Check(seg, src, dst, state); err != nil {
				logger.WithFields(map[string]interface{}{"step": i, "err": err.Error()}).Warn("step checker failed")
				stepsOK = false
				break stepLoop
			}
		}
	}

	if haveLastRecv {
		state.SeqLocal = lastAckSeq
		state.SeqRemote += uint32(lastPayloadLen)
		BuildAck(seg, src, dst, state.SeqLocal, state.SeqRemote)
		if err := sock.Send(seg.Bytes(), dst.ip4()); err != nil {
			logger.WithField("err", err.Error()).Warn("final ack send failed")
		}
	}

	if err := Teardown(sock, seg, src, dst, state); err != nil {
		logger.WithField("err", err.Error()).Warn("teardown failed")
	}

	if stepsOK {
		return TestComplete
	}
	return TestFailed
}
