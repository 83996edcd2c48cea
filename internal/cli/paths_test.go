package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"default", "", filepath.Join(home, ".cache", appName)},
		{"xdg", "/tmp/custom-cache", filepath.Join("/tmp/custom-cache", appName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			dir, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if dir != tt.want {
				t.Errorf("cacheDir() = %q, want %q", dir, tt.want)
			}
		})
	}
}

func TestSnapshotPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"chart.toml", "chart.snapshot.json"},
		{"specs/revenue.yaml", "specs/revenue.snapshot.json"},
		{"noext", "noext.snapshot.json"},
	}
	for _, tt := range tests {
		if got := snapshotPath(tt.in); got != tt.want {
			t.Errorf("snapshotPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClearCache(t *testing.T) {
	dir := t.TempDir()
	if n, err := clearCache(filepath.Join(dir, "missing")); err != nil || n != 0 {
		t.Fatalf("missing dir: n=%d err=%v", n, err)
	}

	for _, name := range []string{"a", "b"} {
		sub := filepath.Join(dir, name)
		if err := os.MkdirAll(sub, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(sub, "entry"), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	n, err := clearCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("cleared %d entries, want 2", n)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("%d entries left", len(entries))
	}
}

func TestCacheStats(t *testing.T) {
	dir := t.TempDir()
	if n, size, err := cacheStats(filepath.Join(dir, "missing")); err != nil || n != 0 || size != 0 {
		t.Fatalf("missing dir: n=%d size=%d err=%v", n, size, err)
	}

	sub := filepath.Join(dir, "ab")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, body := range map[string]string{"cdef": "0\nabc", ".tmp-1": "partial"} {
		if err := os.WriteFile(filepath.Join(sub, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	n, size, err := cacheStats(dir)
	if err != nil || n != 1 || size != 5 {
		t.Errorf("stats = %d entries, %d bytes, err %v; want 1, 5", n, size, err)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
