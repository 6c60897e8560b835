package rmeconv

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func mkdir(t *testing.T, path string) {
	t.Helper()

	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}

func writeRaw(t *testing.T, path string, data []byte) {
	t.Helper()

	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// newLibrary builds a small legacy material tree:
//
//	from/brick.png        albedo, already present in the destination
//	from/brick_rme.png    converts against the local albedo
//	from/wall_n.png       normal map, copied through
//	from/sub/lamp_rme.png albedo only reachable via the search root
//	from/corrupt_rme.png  not a decodable image
//	search/sub/lamp.png   albedo for lamp
func newLibrary(t *testing.T) (from, to, search string) {
	t.Helper()

	base := t.TempDir()
	from = filepath.Join(base, "from")
	to = filepath.Join(base, "to")
	search = filepath.Join(base, "search")

	mkdir(t, filepath.Join(from, "sub"))
	mkdir(t, to)
	mkdir(t, filepath.Join(search, "sub"))

	writeTexture(t, filepath.Join(from, "brick.png"), 2, 2, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	writeTexture(t, filepath.Join(from, "brick_rme.png"), 2, 2, color.NRGBA{R: 51, G: 102, B: 255, A: 255})
	writeTexture(t, filepath.Join(from, "wall_n.png"), 2, 2, color.NRGBA{R: 128, G: 128, B: 255, A: 255})
	writeTexture(t, filepath.Join(from, "sub", "lamp_rme.png"), 2, 2, color.NRGBA{B: 255, A: 255})
	writeRaw(t, filepath.Join(from, "corrupt_rme.png"), []byte("not a texture"))

	writeTexture(t, filepath.Join(search, "sub", "lamp.png"), 2, 2, color.NRGBA{R: 255, A: 255})

	// Pre-seed the destination so the copy pass has something to skip.
	writeRaw(t, filepath.Join(to, "brick.png"), []byte("seeded"))

	return from, to, search
}

func TestRunConvertsLibrary(t *testing.T) {
	from, to, search := newLibrary(t)

	opts := DefaultBatchOptions()
	opts.FromDir = from
	opts.ToDir = to
	opts.SearchDirs = []string{search}

	sum, err := Run(opts)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if sum.Copied != 1 {
		t.Fatalf("copied: got %d want 1", sum.Copied)
	}
	if sum.CopySkips != 1 {
		t.Fatalf("copy skips: got %d want 1", sum.CopySkips)
	}
	if sum.ORMWritten != 2 || sum.EmissionWritten != 2 {
		t.Fatalf("written: got %d orm, %d emission want 2, 2", sum.ORMWritten, sum.EmissionWritten)
	}
	if sum.Failures != 1 {
		t.Fatalf("failures: got %d want 1", sum.Failures)
	}
	if sum.NoOps != 0 {
		t.Fatalf("no-ops: got %d want 0", sum.NoOps)
	}
	if len(sum.Results) != 3 {
		t.Fatalf("results: got %d want 3", len(sum.Results))
	}

	// The normal map is copied byte for byte.
	src, err := os.ReadFile(filepath.Join(from, "wall_n.png"))
	if err != nil {
		t.Fatalf("read source normal: %v", err)
	}
	dst, err := os.ReadFile(filepath.Join(to, "wall_n.png"))
	if err != nil {
		t.Fatalf("read copied normal: %v", err)
	}
	if !bytes.Equal(src, dst) {
		t.Fatalf("normal map copy differs")
	}

	// The seeded albedo was kept, not replaced.
	seeded, err := os.ReadFile(filepath.Join(to, "brick.png"))
	if err != nil {
		t.Fatalf("read seeded albedo: %v", err)
	}
	if !bytes.Equal(seeded, []byte("seeded")) {
		t.Fatalf("seeded albedo was replaced")
	}

	for _, rel := range []string{"brick_orm.png", "brick_e.png", "sub/lamp_orm.png", "sub/lamp_e.png"} {
		if _, err := DecodeFile(filepath.Join(to, filepath.FromSlash(rel))); err != nil {
			t.Fatalf("missing result %s: %v", rel, err)
		}
	}

	for _, rel := range []string{"brick_rme.png", "corrupt_orm.png", "corrupt_e.png"} {
		if _, err := os.Stat(filepath.Join(to, rel)); !os.IsNotExist(err) {
			t.Fatalf("unexpected file %s", rel)
		}
	}

	// The lamp albedo came from the search root.
	want := filepath.Join(search, "sub", "lamp.png")
	var found bool
	for _, r := range sum.Results {
		if r.AlbedoPath == want {
			found = true
		}
	}
	if !found {
		t.Fatalf("no result used the search root albedo")
	}
}

func TestRunIsIdempotent(t *testing.T) {
	from, to, search := newLibrary(t)

	opts := DefaultBatchOptions()
	opts.FromDir = from
	opts.ToDir = to
	opts.SearchDirs = []string{search}

	if _, err := Run(opts); err != nil {
		t.Fatalf("first run: %v", err)
	}

	sum, err := Run(opts)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if sum.Copied != 0 {
		t.Fatalf("copied: got %d want 0", sum.Copied)
	}
	if sum.CopySkips != 2 {
		t.Fatalf("copy skips: got %d want 2", sum.CopySkips)
	}
	if sum.ORMWritten != 0 || sum.EmissionWritten != 0 {
		t.Fatalf("written: got %d orm, %d emission want 0, 0", sum.ORMWritten, sum.EmissionWritten)
	}
	if sum.NoOps != 2 {
		t.Fatalf("no-ops: got %d want 2", sum.NoOps)
	}

	// The corrupt file fails on every run.
	if sum.Failures != 1 {
		t.Fatalf("failures: got %d want 1", sum.Failures)
	}
}

func TestRunOverwrite(t *testing.T) {
	from, to, search := newLibrary(t)

	opts := DefaultBatchOptions()
	opts.FromDir = from
	opts.ToDir = to
	opts.SearchDirs = []string{search}

	if _, err := Run(opts); err != nil {
		t.Fatalf("first run: %v", err)
	}

	opts.Params.OverwriteORM = true
	opts.Params.OverwriteEmission = true

	sum, err := Run(opts)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if sum.ORMWritten != 2 || sum.EmissionWritten != 2 {
		t.Fatalf("written: got %d orm, %d emission want 2, 2", sum.ORMWritten, sum.EmissionWritten)
	}
	if sum.NoOps != 0 {
		t.Fatalf("no-ops: got %d want 0", sum.NoOps)
	}
}

func TestRunContinuesPastBlockedDestination(t *testing.T) {
	base := t.TempDir()
	from := filepath.Join(base, "from")
	to := filepath.Join(base, "to")

	mkdir(t, filepath.Join(from, "a"))
	mkdir(t, filepath.Join(from, "b"))
	mkdir(t, to)

	writeTexture(t, filepath.Join(from, "a", "decal.png"), 2, 2, color.NRGBA{R: 10, A: 255})
	writeTexture(t, filepath.Join(from, "a", "lamp_rme.png"), 2, 2, color.NRGBA{B: 255, A: 255})
	writeTexture(t, filepath.Join(from, "b", "wall.png"), 2, 2, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	writeTexture(t, filepath.Join(from, "b", "wall_rme.png"), 2, 2, color.NRGBA{R: 51, G: 102, B: 255, A: 255})

	// A plain file where a destination subtree should go blocks every
	// write under it.
	blocker := []byte("in the way")
	writeRaw(t, filepath.Join(to, "a"), blocker)

	sum, err := Run(BatchOptions{FromDir: from, ToDir: to, Params: DefaultParams()})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if sum.Copied != 1 {
		t.Fatalf("copied: got %d want 1", sum.Copied)
	}
	if sum.CopyFailures != 1 {
		t.Fatalf("copy failures: got %d want 1", sum.CopyFailures)
	}
	if sum.Failures != 1 {
		t.Fatalf("failures: got %d want 1", sum.Failures)
	}
	if sum.ORMWritten != 1 || sum.EmissionWritten != 1 {
		t.Fatalf("written: got %d orm, %d emission want 1, 1", sum.ORMWritten, sum.EmissionWritten)
	}
	if len(sum.Results) != 2 {
		t.Fatalf("results: got %d want 2", len(sum.Results))
	}

	// The failure is recorded against the blocked file.
	var blocked *FileResult
	for i := range sum.Results {
		if sum.Results[i].RMEPath == filepath.Join(from, "a", "lamp_rme.png") {
			blocked = &sum.Results[i]
		}
	}
	if blocked == nil || blocked.Err == nil {
		t.Fatalf("no recorded failure for the blocked subtree: %+v", sum.Results)
	}

	// The subtree walked after the failure still converted.
	for _, rel := range []string{"b/wall_orm.png", "b/wall_e.png"} {
		if _, err := DecodeFile(filepath.Join(to, filepath.FromSlash(rel))); err != nil {
			t.Fatalf("missing result %s: %v", rel, err)
		}
	}

	// The blocking file itself is untouched.
	data, err := os.ReadFile(filepath.Join(to, "a"))
	if err != nil {
		t.Fatalf("read blocking file: %v", err)
	}
	if !bytes.Equal(data, blocker) {
		t.Fatalf("blocking file was replaced")
	}
}

func TestFindAlbedo(t *testing.T) {
	from := t.TempDir()
	search := t.TempDir()

	mkdir(t, filepath.Join(search, "sub"))
	writeRaw(t, filepath.Join(search, "sub", "lamp.tga"), []byte("tga"))

	got, tried := FindAlbedo(from, "sub", "lamp", []string{search})

	if want := filepath.Join(search, "sub", "lamp.tga"); got != want {
		t.Fatalf("got %q want %q", got, want)
	}

	// Both extensions in the source root, then .png in the search root.
	if len(tried) != 3 {
		t.Fatalf("tried %d paths want 3", len(tried))
	}
	if want := filepath.Join(from, "sub", "lamp.png"); tried[0] != want {
		t.Fatalf("probe order: got %q want %q", tried[0], want)
	}

	got, tried = FindAlbedo(from, "sub", "missing", []string{search})
	if got != "" {
		t.Fatalf("got %q want empty", got)
	}
	if len(tried) != 4 {
		t.Fatalf("tried %d paths want 4", len(tried))
	}
}

func TestRunMissingSource(t *testing.T) {
	base := t.TempDir()

	opts := DefaultBatchOptions()
	opts.FromDir = filepath.Join(base, "absent")
	opts.ToDir = filepath.Join(base, "to")

	if _, err := Run(opts); err == nil {
		t.Fatal("expected error for missing source tree")
	}
}
