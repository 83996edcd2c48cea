package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		bi   *debug.BuildInfo
		want Info
	}{
		{
			name: "no build info",
			want: Info{Version: "dev", Commit: "none", Date: "unknown"},
		},
		{
			name: "module version and vcs",
			bi: &debug.BuildInfo{
				GoVersion: "go1.24.0",
				Main:      debug.Module{Version: "v0.3.1"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abc123"},
					{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
				},
			},
			want: Info{Version: "v0.3.1", Commit: "abc123", Date: "2026-01-02T03:04:05Z", GoVersion: "go1.24.0"},
		},
		{
			name: "dirty devel build",
			bi: &debug.BuildInfo{
				GoVersion: "go1.24.0",
				Main:      debug.Module{Version: "(devel)"},
				Settings:  []debug.BuildSetting{{Key: "vcs.modified", Value: "true"}},
			},
			want: Info{Version: "dev-dirty", Commit: "none", Date: "unknown", GoVersion: "go1.24.0"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolve(tt.bi); got != tt.want {
				t.Errorf("resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolveKeepsStampedValues(t *testing.T) {
	defer func(v, c string) { Version, Commit = v, c }(Version, Commit)
	Version, Commit = "v1.0.0", "deadbeef"

	got := resolve(&debug.BuildInfo{
		Main:     debug.Module{Version: "v0.0.1"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}},
	})
	if got.Version != "v1.0.0" || got.Commit != "deadbeef" {
		t.Errorf("resolve() = %+v", got)
	}
}

func TestTemplate(t *testing.T) {
	tmpl := Template()
	if !strings.HasPrefix(tmpl, "{{.Name}} version ") || !strings.Contains(tmpl, "commit: ") {
		t.Errorf("Template() = %q", tmpl)
	}
	if !strings.Contains(String(), "go: ") {
		t.Errorf("String() = %q", String())
	}
}
