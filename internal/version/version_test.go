package version

import "testing"

func TestString(t *testing.T) {
	origVersion, origBuild := Version, BuildTime
	t.Cleanup(func() { Version, BuildTime = origVersion, origBuild })

	Version = "v1.2.3"
	BuildTime = "2026-01-02"
	if got := String(); got != "v1.2.3 (2026-01-02)" {
		t.Errorf("String() = %q", got)
	}
}
