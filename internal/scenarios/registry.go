package scenarios

import (
	"net"
	"sort"

	"github.com/billyprice1/natprobe/internal/rawtcp"
)

// ProbeFunc is the calling convention every scenario entry point shares,
// spec.md §6: (src_ip, src_port, dst_ip, dst_port) -> verdict.
type ProbeFunc func(srcIP net.IP, srcPort uint16, dstIP net.IP, dstPort uint16) rawtcp.Verdict

// registry is the full fourteen-scenario roster from
// original_source/app/jni/{testsuite.cpp,proxy_testsuite.cpp}, named the
// way the host CLI selects them (SPEC_FULL.md §A, §C.1).
var registry = map[string]ProbeFunc{
	"ack_only":               RunAckOnly,
	"urg_only":               RunUrgOnly,
	"ack_urg":                RunAckUrg,
	"plain_urg":              RunPlainUrg,
	"ack_checksum":           RunAckChecksum,
	"ack_checksum_incorrect": RunAckChecksumIncorrect,
	"urg_urg":                RunUrgUrg,
	"urg_checksum":           RunUrgChecksum,
	"urg_checksum_incorrect": RunUrgChecksumIncorrect,
	"reserved_syn":           RunReservedSyn,
	"reserved_est":           RunReservedEst,
	"sack_gap":               RunSackGap,
	"timestamping":           RunTimestamping,
	"double_syn":             RunDoubleSyn,
}

// Names returns every registered scenario name, sorted, for CLI listing.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the probe function registered under name, or false if
// no scenario has that name.
func Lookup(name string) (ProbeFunc, bool) {
	fn, ok := registry[name]
	return fn, ok
}
