package parser

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/klauspost/compress/zstd"

	"github.com/pable/go-lol-metrics/internal/model"
)

// ErrEmptyCapture is returned when a directory holds no record files.
var ErrEmptyCapture = errors.New("no record files")

// recordName matches 000001.json and its zstd-compressed form 000001.json.zst.
var recordName = regexp.MustCompile(`^(\d+)\.json(\.zst)?$`)

type recordFile struct {
	seq  int
	name string
	zst  bool
}

// ParseDir loads every numbered record file in dir, in ascending numeric
// order, and returns them as a RawMatch. Other files are ignored.
func ParseDir(dir string) (*model.RawMatch, error) {
	files, err := listRecords(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("parse %s: %w", dir, ErrEmptyCapture)
	}

	var dec *zstd.Decoder
	defer func() {
		if dec != nil {
			dec.Close()
		}
	}()

	// Hash the decoded records for the idempotency key, so a capture hashes
	// the same compressed or not.
	h := sha256.New()
	raw := &model.RawMatch{SourceDir: dir, Records: make([][]byte, 0, len(files))}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(dir, f.name))
		if err != nil {
			return nil, fmt.Errorf("read record %s: %w", f.name, err)
		}
		if f.zst {
			if dec == nil {
				if dec, err = zstd.NewReader(nil); err != nil {
					return nil, fmt.Errorf("zstd: %w", err)
				}
			}
			if b, err = dec.DecodeAll(b, nil); err != nil {
				return nil, fmt.Errorf("decompress record %s: %w", f.name, err)
			}
		}
		h.Write(b)
		h.Write([]byte{'\n'})
		raw.Records = append(raw.Records, b)
	}
	raw.MatchHash = fmt.Sprintf("%x", h.Sum(nil))
	return raw, nil
}

func listRecords(dir string) ([]recordFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read capture dir: %w", err)
	}
	var files []recordFile
	seen := make(map[int]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := recordName.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		seq, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("record number %s: %w", e.Name(), err)
		}
		if prev, dup := seen[seq]; dup {
			return nil, fmt.Errorf("record %d present as both %s and %s", seq, prev, e.Name())
		}
		seen[seq] = e.Name()
		files = append(files, recordFile{seq: seq, name: e.Name(), zst: m[2] != ""})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].seq < files[j].seq })
	return files, nil
}

// IsCaptureDir reports whether dir directly contains at least one record file.
func IsCaptureDir(dir string) bool {
	files, err := listRecords(dir)
	return err == nil && len(files) > 0
}
