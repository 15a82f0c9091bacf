package scenarios

import "testing"

func TestNamesAreSortedAndMatchLookup(t *testing.T) {
	names := Names()
	if len(names) == 0 {
		t.Fatalf("expected at least one registered scenario")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("Names() not sorted: %q before %q", names[i-1], names[i])
		}
	}
	for _, n := range names {
		if _, ok := Lookup(n); !ok {
			t.Errorf("Names() returned %q but Lookup failed", n)
		}
	}
}

func TestLookupUnknownScenario(t *testing.T) {
	if _, ok := Lookup("does_not_exist"); ok {
		t.Errorf("expected Lookup to fail for an unregistered name")
	}
}

func TestFullScenarioRosterRegistered(t *testing.T) {
	want := []string{
		"ack_only", "urg_only", "ack_urg", "plain_urg",
		"ack_checksum", "ack_checksum_incorrect",
		"urg_urg", "urg_checksum", "urg_checksum_incorrect",
		"reserved_syn", "reserved_est",
		"sack_gap", "timestamping", "double_syn",
	}
	for _, name := range want {
		if _, ok := Lookup(name); !ok {
			t.Errorf("expected %q to be registered, per SPEC_FULL.md's restored scenario roster", name)
		}
	}
	if len(Names()) != len(want) {
		t.Errorf("registry has %d scenarios, expected exactly %d", len(Names()), len(want))
	}
}
