package app

import (
	"testing"
	"testing/fstest"

	"competency-matrix/seed"
)

func TestListenAddr(t *testing.T) {
	cases := map[string]string{"8080": ":8080", " :9000 ": ":9000"}
	for in, want := range cases {
		got, err := ListenAddr(in)
		if err != nil || got != want {
			t.Fatalf("ListenAddr(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ListenAddr("  "); err == nil {
		t.Fatalf("expected error for empty port")
	}
}

func TestSeedSource(t *testing.T) {
	if got := SeedSource(""); got != seed.FS {
		t.Fatalf("expected embedded bundle for empty dir")
	}
	dir := t.TempDir()
	if err := fstest.TestFS(SeedSource(dir)); err != nil {
		t.Fatalf("expected readable empty directory: %v", err)
	}
}
