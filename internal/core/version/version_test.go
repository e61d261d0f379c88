package version

import (
	"testing"

	kit "addrcheck/internal/platform/testkit"
)

func TestInfo_Stamped(t *testing.T) {
	kit.Serial(t)
	kit.Swap(t, &version, "v1.2.3")
	kit.Swap(t, &commit, "abc123")
	kit.Swap(t, &date, "2026-01-02")

	bi := Info("addrcheck-api")
	want := BuildInfo{Service: "addrcheck-api", Version: "v1.2.3", Commit: "abc123", Date: "2026-01-02"}
	if bi != want {
		t.Fatalf("Info = %+v, want %+v", bi, want)
	}
}

func TestInfo_Unstamped(t *testing.T) {
	kit.Serial(t)
	bi := Info("addrcheck-cli")
	if bi.Service != "addrcheck-cli" || bi.Version != "dev" || bi.Commit == "" {
		t.Fatalf("Info = %+v", bi)
	}
}
