package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/pable/go-lol-metrics/internal/capturetest"
)

func writeFile(t *testing.T, dir, name string, b []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), b, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestParseDir_NumericOrder(t *testing.T) {
	dir := t.TempDir()
	// Unpadded names sort wrong lexically: 10 < 2.
	writeFile(t, dir, "10.json", []byte(`{"n":10}`))
	writeFile(t, dir, "2.json", []byte(`{"n":2}`))
	writeFile(t, dir, "1.json", []byte(`{"n":1}`))
	writeFile(t, dir, "notes.txt", []byte("ignored"))
	if err := os.Mkdir(filepath.Join(dir, "3.json"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	raw, err := ParseDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{`{"n":1}`, `{"n":2}`, `{"n":10}`}
	if len(raw.Records) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(raw.Records))
	}
	for i, w := range want {
		if string(raw.Records[i]) != w {
			t.Errorf("record %d: want %s, got %s", i, w, raw.Records[i])
		}
	}
	if raw.SourceDir != dir {
		t.Errorf("SourceDir: want %s, got %s", dir, raw.SourceDir)
	}
	if len(raw.MatchHash) != 64 {
		t.Errorf("expected 64-char hex hash, got %q", raw.MatchHash)
	}
}

func TestParseDir_ZstdMatchesPlainHash(t *testing.T) {
	rec1 := capturetest.Announce("G1", "", capturetest.TwoTeams()...)
	rec2 := capturetest.Positions(1000, capturetest.Pos{PlayerURN: "P1", X: 1, Y: 2})
	plain := capturetest.WriteDir(t, rec1, rec2)

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("zstd writer: %v", err)
	}
	defer enc.Close()
	packed := t.TempDir()
	writeFile(t, packed, "000001.json.zst", enc.EncodeAll(rec1, nil))
	writeFile(t, packed, "000002.json", rec2)

	a, err := ParseDir(plain)
	if err != nil {
		t.Fatalf("parse plain: %v", err)
	}
	b, err := ParseDir(packed)
	if err != nil {
		t.Fatalf("parse zstd: %v", err)
	}
	if a.MatchHash != b.MatchHash {
		t.Errorf("hash differs between plain and zstd capture: %s vs %s", a.MatchHash, b.MatchHash)
	}
	if string(b.Records[0]) != string(rec1) {
		t.Errorf("decompressed record mismatch")
	}
}

func TestParseDir_HashDependsOnContent(t *testing.T) {
	a, err := ParseDir(capturetest.WriteDir(t, []byte(`{"a":1}`)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := ParseDir(capturetest.WriteDir(t, []byte(`{"a":2}`)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.MatchHash == b.MatchHash {
		t.Error("expected different hashes for different records")
	}
}

func TestParseDir_Errors(t *testing.T) {
	_, err := ParseDir(t.TempDir())
	if !errors.Is(err, ErrEmptyCapture) {
		t.Errorf("expected ErrEmptyCapture, got %v", err)
	}

	if _, err := ParseDir(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing dir")
	}

	dup := t.TempDir()
	writeFile(t, dup, "1.json", []byte(`{}`))
	writeFile(t, dup, "001.json", []byte(`{}`))
	if _, err := ParseDir(dup); err == nil {
		t.Error("expected error for duplicate record number")
	}

	bad := t.TempDir()
	writeFile(t, bad, "1.json.zst", []byte("not zstd"))
	if _, err := ParseDir(bad); err == nil {
		t.Error("expected error for corrupt zstd record")
	}
}

func TestIsCaptureDir(t *testing.T) {
	if !IsCaptureDir(capturetest.WriteDir(t, []byte(`{}`))) {
		t.Error("expected capture dir")
	}
	if IsCaptureDir(t.TempDir()) {
		t.Error("expected empty dir not to be a capture")
	}
}
