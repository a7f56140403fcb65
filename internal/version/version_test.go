package version

import (
	"strings"
	"testing"
)

func TestInfoIncludesBuildMetadata(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = oldVersion, oldCommit })

	Version, Commit = "1.2.3", "abc1234"
	got := Info()
	for _, want := range []string{"worklog 1.2.3", "commit abc1234"} {
		if !strings.Contains(got, want) {
			t.Fatalf("Info() = %q, missing %q", got, want)
		}
	}
}
