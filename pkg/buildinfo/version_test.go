package buildinfo

import (
	"encoding/json"
	"testing"
)

func stamp(t *testing.T, version, commit, date string) {
	t.Helper()
	v, c, d := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })
	Version, Commit, Date = version, commit, date
}

func TestInfo(t *testing.T) {
	stamp(t, "v1.2.3", "abc123", "2026-01-02")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"short", Short(), "peerplot/v1.2.3"},
		{"string", Get().String(), "peerplot v1.2.3 (commit abc123, built 2026-01-02)"},
		{"template", Template(), "{{.Name}} v1.2.3 (commit abc123, built 2026-01-02)\n"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestInfoJSON(t *testing.T) {
	stamp(t, "v0.1.0", "deadbee", "now")

	data, err := json.Marshal(Get())
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"version":"v0.1.0","commit":"deadbee","date":"now"}`; string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}
