package buildinfo

import (
	"strings"
	"testing"
)

func TestCacheVersion(t *testing.T) {
	oldV, oldC := Version, Commit
	defer func() { Version, Commit = oldV, oldC }()

	Version, Commit = "dev", "abc123"
	if got := CacheVersion(); got != "dev+abc123" {
		t.Errorf("CacheVersion() = %q, want dev+abc123", got)
	}
	Version = "v0.3.0"
	if got := CacheVersion(); got != "v0.3.0" {
		t.Errorf("CacheVersion() = %q, want v0.3.0", got)
	}
}

func TestTemplate(t *testing.T) {
	if !strings.Contains(Template(), "{{.Name}} version "+Version) {
		t.Errorf("Template() = %q", Template())
	}
	if !strings.Contains(String(), "commit: "+Commit) {
		t.Errorf("String() = %q", String())
	}
}
