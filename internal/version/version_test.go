package version

import "testing"

func TestString(t *testing.T) {
	oldV, oldC, oldB := Version, Commit, BuildTime
	t.Cleanup(func() { Version, Commit, BuildTime = oldV, oldC, oldB })

	Version, Commit, BuildTime = "1.2.3", "abc1234", "2024-01-01T00:00:00Z"

	want := "1.2.3 (abc1234) built 2024-01-01T00:00:00Z"
	if got := String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := Info(); got.Version != "1.2.3" || got.Commit != "abc1234" {
		t.Errorf("Info() = %+v", got)
	}
}
