package combocache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/jmylchreest/huewheel/internal/search"
	"github.com/jmylchreest/huewheel/internal/security"
)

func sampleCombos(n int) []search.Combination {
	combos := make([]search.Combination, n)
	for i := range combos {
		combos[i] = search.Combination{
			Lightness:  uint8(i % 101),
			Saturation: uint8((i / 101) % 101),
			Offset:     uint16(i % 360),
		}
	}
	return combos
}

// countingGenerator returns combos and records how often it was called.
func countingGenerator(combos []search.Combination, calls *int) Generator {
	return func(ctx context.Context) ([]search.Combination, error) {
		*calls++
		return combos, nil
	}
}

func TestEncodeLayout(t *testing.T) {
	got := Encode([]search.Combination{{Lightness: 60, Saturation: 100, Offset: 0x0102}})
	want := []byte{60, 100, 0x02, 0x01}
	if !slices.Equal(got, want) {
		t.Errorf("Encode() = %v, want %v", got, want)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	boundaries := []search.Combination{
		{Lightness: 0, Saturation: 0, Offset: 0},
		{Lightness: 100, Saturation: 100, Offset: 359},
		{Lightness: 0, Saturation: 100, Offset: 359},
		{Lightness: 100, Saturation: 0, Offset: 0},
		{Lightness: 50, Saturation: 50, Offset: 255},
		{Lightness: 50, Saturation: 50, Offset: 256},
	}

	tests := []struct {
		name   string
		combos []search.Combination
	}{
		{name: "empty", combos: []search.Combination{}},
		{name: "single", combos: []search.Combination{{Lightness: 60, Saturation: 100, Offset: 0}}},
		{name: "boundaries", combos: boundaries},
		{name: "large", combos: append(sampleCombos(10000), boundaries...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := Encode(tt.combos)
			if len(data) != len(tt.combos)*RecordSize {
				t.Fatalf("Encode() length = %d, want %d", len(data), len(tt.combos)*RecordSize)
			}
			got := Decode(data)
			if !slices.Equal(got, tt.combos) {
				t.Errorf("Decode(Encode()) differs from input (%d vs %d records)", len(got), len(tt.combos))
			}
		})
	}
}

func TestDecodeDropsPartialRecord(t *testing.T) {
	data := Encode(sampleCombos(3))
	for extra := 1; extra < RecordSize; extra++ {
		truncated := append(slices.Clone(data), make([]byte, extra)...)
		got := Decode(truncated)
		if len(got) != 3 {
			t.Errorf("Decode() with %d trailing bytes = %d records, want 3", extra, len(got))
		}
	}
	if got := Decode(data[:len(data)-1]); len(got) != 2 {
		t.Errorf("Decode() of cut record = %d records, want 2", len(got))
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key     string
		wantErr bool
	}{
		{key: "000000"},
		{key: "FFFFFF"},
		{key: "ffffff"},
		{key: "", wantErr: true},
		{key: "../etc", wantErr: true},
		{key: "a/b", wantErr: true},
		{key: `a\b`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if tt.wantErr != (err != nil) {
				t.Fatalf("ValidateKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidKey) {
				t.Errorf("ValidateKey(%q) error = %v, want ErrInvalidKey", tt.key, err)
			}
		})
	}
}

func TestPath(t *testing.T) {
	got, err := Path("/tmp/cache", "2E3440")
	if err != nil {
		t.Fatalf("Path() unexpected error: %v", err)
	}
	if want := filepath.Join("/tmp/cache", "valid_combs.bin.2E3440"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestLoadOrGenerateCachesResult(t *testing.T) {
	ctx := context.Background()
	opts := Options{CacheDir: t.TempDir()}
	want := sampleCombos(50)

	calls := 0
	got, err := LoadOrGenerate(ctx, "000000", opts, countingGenerator(want, &calls))
	if err != nil {
		t.Fatalf("LoadOrGenerate() unexpected error: %v", err)
	}
	if calls != 1 || !slices.Equal(got, want) {
		t.Fatalf("first LoadOrGenerate() calls = %d, equal = %v", calls, slices.Equal(got, want))
	}

	path, _ := Path(opts.CacheDir, "000000")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("cache file not written: %v", err)
	}
	if info.Size() != int64(len(want)*RecordSize) {
		t.Errorf("cache file size = %d, want %d", info.Size(), len(want)*RecordSize)
	}

	got, err = LoadOrGenerate(ctx, "000000", opts, countingGenerator(nil, &calls))
	if err != nil {
		t.Fatalf("second LoadOrGenerate() unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("generator called %d times, want 1", calls)
	}
	if !slices.Equal(got, want) {
		t.Error("cached result differs from generated result")
	}
}

func TestLoadOrGenerateEmptyResult(t *testing.T) {
	ctx := context.Background()
	opts := Options{CacheDir: t.TempDir()}

	calls := 0
	if _, err := LoadOrGenerate(ctx, "808080", opts, countingGenerator(nil, &calls)); err != nil {
		t.Fatalf("LoadOrGenerate() unexpected error: %v", err)
	}
	got, err := LoadOrGenerate(ctx, "808080", opts, countingGenerator(sampleCombos(1), &calls))
	if err != nil {
		t.Fatalf("LoadOrGenerate() unexpected error: %v", err)
	}
	if calls != 1 || len(got) != 0 {
		t.Errorf("empty cache entry: calls = %d, len = %d, want 1 and 0", calls, len(got))
	}
}

func TestLoadOrGenerateKeySensitivity(t *testing.T) {
	ctx := context.Background()
	opts := Options{CacheDir: t.TempDir()}

	blackCombos := sampleCombos(5)
	whiteCombos := sampleCombos(9)
	calls := 0

	if _, err := LoadOrGenerate(ctx, "000000", opts, countingGenerator(blackCombos, &calls)); err != nil {
		t.Fatal(err)
	}
	got, err := LoadOrGenerate(ctx, "FFFFFF", opts, countingGenerator(whiteCombos, &calls))
	if err != nil {
		t.Fatal(err)
	}
	if calls != 2 || !slices.Equal(got, whiteCombos) {
		t.Errorf("FFFFFF read the 000000 entry (calls = %d)", calls)
	}

	// Same colour, different case: a separate entry.
	got, err = LoadOrGenerate(ctx, "ffffff", opts, countingGenerator(blackCombos, &calls))
	if err != nil {
		t.Fatal(err)
	}
	if calls != 3 || !slices.Equal(got, blackCombos) {
		t.Errorf("ffffff hit the FFFFFF entry (calls = %d)", calls)
	}

	got, err = LoadOrGenerate(ctx, "000000", opts, countingGenerator(nil, &calls))
	if err != nil {
		t.Fatal(err)
	}
	if calls != 3 || !slices.Equal(got, blackCombos) {
		t.Errorf("000000 entry was overwritten (calls = %d)", calls)
	}
}

func TestLoadOrGenerateTruncatedEntry(t *testing.T) {
	ctx := context.Background()
	opts := Options{CacheDir: t.TempDir()}
	path, _ := Path(opts.CacheDir, "123456")

	data := append(Encode(sampleCombos(4)), 0xAA, 0xBB)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	calls := 0
	got, err := LoadOrGenerate(ctx, "123456", opts, countingGenerator(nil, &calls))
	if err != nil {
		t.Fatalf("LoadOrGenerate() unexpected error: %v", err)
	}
	if calls != 0 {
		t.Errorf("generator called for a readable entry")
	}
	if !slices.Equal(got, sampleCombos(4)) {
		t.Errorf("LoadOrGenerate() = %v, want the 4 complete records", got)
	}
}

func TestLoadOrGenerateOversizedEntry(t *testing.T) {
	ctx := context.Background()
	opts := Options{CacheDir: t.TempDir()}
	path, _ := Path(opts.CacheDir, "0A0A0A")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	// Sparse file one record past the largest possible entry.
	if err := f.Truncate(MaxFileSize + RecordSize); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if _, err := Load(path); !errors.Is(err, security.ErrSizeLimit) {
		t.Fatalf("Load() error = %v, want %v", err, security.ErrSizeLimit)
	}

	calls := 0
	want := sampleCombos(2)
	got, err := LoadOrGenerate(ctx, "0A0A0A", opts, countingGenerator(want, &calls))
	if err != nil {
		t.Fatalf("LoadOrGenerate() unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("generator called %d times, want 1", calls)
	}
	if !slices.Equal(got, want) {
		t.Errorf("LoadOrGenerate() = %v, want %v", got, want)
	}
}

func TestLoadOrGenerateUnreadableAndUnwritable(t *testing.T) {
	ctx := context.Background()
	opts := Options{CacheDir: t.TempDir()}
	path, _ := Path(opts.CacheDir, "ABCDEF")

	// A directory where the file should be can be neither read nor replaced.
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatal(err)
	}

	want := sampleCombos(7)
	calls := 0
	got, err := LoadOrGenerate(ctx, "ABCDEF", opts, countingGenerator(want, &calls))
	if err != nil {
		t.Fatalf("LoadOrGenerate() unexpected error: %v", err)
	}
	if calls != 1 || !slices.Equal(got, want) {
		t.Errorf("LoadOrGenerate() did not fall back to the generator")
	}
}

func TestLoadOrGenerateWaitsForLockHolder(t *testing.T) {
	ctx := context.Background()
	opts := Options{CacheDir: t.TempDir()}
	path, _ := Path(opts.CacheDir, "1E1E2E")

	// Stand in for another process that is generating this entry.
	holder, err := lockEntry(path)
	if err != nil {
		t.Fatalf("lockEntry() error = %v", err)
	}

	type result struct {
		combos []search.Combination
		err    error
	}
	calls := 0
	done := make(chan result, 1)
	go func() {
		combos, err := LoadOrGenerate(ctx, "1E1E2E", opts, countingGenerator(sampleCombos(9), &calls))
		done <- result{combos, err}
	}()

	want := sampleCombos(3)
	if err := Save(path, want); err != nil {
		t.Fatal(err)
	}
	holder.Close()

	res := <-done
	if res.err != nil {
		t.Fatalf("LoadOrGenerate() unexpected error: %v", res.err)
	}
	if calls != 0 {
		t.Errorf("generator called %d times, want 0", calls)
	}
	if !slices.Equal(res.combos, want) {
		t.Errorf("LoadOrGenerate() = %v, want the holder's entry", res.combos)
	}
}

func TestLoadOrGenerateInvalidKeyBypassesCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	opts := Options{CacheDir: dir}

	want := sampleCombos(2)
	calls := 0
	got, err := LoadOrGenerate(ctx, "../escape", opts, countingGenerator(want, &calls))
	if err != nil {
		t.Fatalf("LoadOrGenerate() unexpected error: %v", err)
	}
	if calls != 1 || !slices.Equal(got, want) {
		t.Errorf("LoadOrGenerate() = %v, want generated result", got)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("invalid key wrote %d files", len(entries))
	}
}

func TestLoadOrGenerateGeneratorError(t *testing.T) {
	boom := errors.New("boom")
	_, err := LoadOrGenerate(context.Background(), "000000", Options{CacheDir: t.TempDir()},
		func(ctx context.Context) ([]search.Combination, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Errorf("LoadOrGenerate() error = %v, want wrapped generator error", err)
	}
}

func TestRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	opts := Options{CacheDir: t.TempDir()}
	calls := 0

	for _, key := range []string{"000000", "FFFFFF", "2E3440"} {
		if _, err := LoadOrGenerate(ctx, key, opts, countingGenerator(sampleCombos(1), &calls)); err != nil {
			t.Fatal(err)
		}
	}

	if err := Remove("FFFFFF", opts); err != nil {
		t.Fatalf("Remove() unexpected error: %v", err)
	}
	if err := Remove("FFFFFF", opts); err != nil {
		t.Errorf("Remove() of missing entry returned %v", err)
	}

	// A half-written Save and a lock someone still holds.
	tmpPath := filepath.Join(opts.CacheDir, BaseName+".000000"+tempInfix+"123")
	if err := os.WriteFile(tmpPath, []byte{1, 2}, 0o600); err != nil {
		t.Fatal(err)
	}
	heldPath, _ := Path(opts.CacheDir, "2E3440")
	held, err := lockEntry(heldPath)
	if err != nil {
		t.Fatalf("lockEntry() error = %v", err)
	}
	defer held.Close()

	n, err := Clear(opts)
	if err != nil {
		t.Fatalf("Clear() unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("Clear() removed %d entries, want 2", n)
	}

	if _, err := os.Stat(tmpPath); err != nil {
		t.Errorf("Clear() touched a temporary file: %v", err)
	}
	if _, err := os.Stat(heldPath + LockSuffix); err != nil {
		t.Errorf("Clear() removed a held lock: %v", err)
	}
	for _, key := range []string{"000000", "FFFFFF"} {
		p, _ := Path(opts.CacheDir, key)
		if _, err := os.Stat(p + LockSuffix); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("idle lock for %s still present (err = %v)", key, err)
		}
	}
}
