package scenarios

import (
	"net"
	"sync"
	"time"

	"github.com/billyprice1/natprobe/internal/logger"
	"github.com/billyprice1/natprobe/internal/rawtcp"
)

// handshakeResult is what each parallel handshake goroutine reports
// back: its own segment buffer and connection state, needed afterwards
// to build the window-zero ACK on the first flow.
type handshakeResult struct {
	flow  int
	seg   *rawtcp.Segment
	state *rawtcp.ConnState
	err   error
}

// runHandshake opens one handshake on the shared socket using its own,
// independently-zeroed segment buffer and connection state. Each
// goroutine owns its own *Segment/*ConnState values start to finish —
// unlike the threaded C original, which built the second flow's thread
// argument by copying the first flow's still-being-mutated struct, then
// overwrote fields on the wrong copy, so neither thread ended up with
// consistent state. Giving every goroutine its own zeroed state from
// the start avoids that by construction.
func runHandshake(sock rawtcp.Socket, src, dst rawtcp.Endpoint, flow int, result chan<- handshakeResult) {
	seg := rawtcp.NewSegment()
	state := rawtcp.NewConnState()
	err := rawtcp.OpenHandshake(sock, seg, src, dst, state, rawtcp.AddSynExtras{}, rawtcp.CheckSynAckValues{})
	result <- handshakeResult{flow: flow, seg: seg, state: state, err: err}
}

// RunDoubleSyn drives two independent handshakes concurrently over one
// shared raw socket, then idles and tears down the first flow with a
// zero-window ACK rather than a clean FIN — proxy_testsuite.cpp
// runTest_doubleSyn. The second flow's local port is src_port+1, as in
// the original.
func RunDoubleSyn(srcIP net.IP, srcPort uint16, dstIP net.IP, dstPort uint16) rawtcp.Verdict {
	sock, err := rawtcp.OpenSocket()
	if err != nil {
		logger.WithField("err", err.Error()).Error("open raw socket failed")
		return rawtcp.TestFailed
	}
	defer sock.Close()

	src1, dst := endpoints(srcIP, srcPort, dstIP, dstPort)
	src2, _ := endpoints(srcIP, srcPort+1, dstIP, dstPort)

	results := make(chan handshakeResult, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		runHandshake(sock, src1, dst, 1, results)
	}()
	go func() {
		defer wg.Done()
		runHandshake(sock, src2, dst, 2, results)
	}()
	wg.Wait()
	close(results)

	verdict := rawtcp.TestComplete
	var flow1 *handshakeResult
	for r := range results {
		r := r
		if r.err != nil {
			logger.WithField("err", r.err.Error()).Warn("parallel handshake failed")
			verdict = rawtcp.TestFailed
		}
		// Flow 1, bound to the scenario's own src_port (not src_port+1),
		// is "the middle connection" the original RSTs afterwards.
		if r.flow == 1 {
			flow1 = &r
		}
	}

	logger.Info("sleeping before resetting first flow")
	time.Sleep(10 * time.Second)

	if flow1 != nil && flow1.err == nil {
		seg := flow1.seg
		state := flow1.state
		rawtcp.BuildAck(seg, src1, dst, state.SeqLocal, state.SeqRemote)
		seg.TCP().SetWindow(0)
		if err := sock.Send(seg.Bytes(), dst.IP.To4()); err != nil {
			logger.WithField("err", err.Error()).Warn("zero-window reset send failed")
			verdict = rawtcp.TestFailed
		}
	}

	time.Sleep(5 * time.Second)
	return verdict
}
