package merge

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type fakeFileInfo struct {
	size int64
	mode fs.FileMode
}

func (f fakeFileInfo) Name() string       { return "fake" }
func (f fakeFileInfo) Size() int64        { return f.size }
func (f fakeFileInfo) Mode() fs.FileMode  { return f.mode }
func (f fakeFileInfo) ModTime() time.Time { return time.Time{} }
func (f fakeFileInfo) IsDir() bool        { return f.mode.IsDir() }
func (f fakeFileInfo) Sys() any           { return nil }

type fakeSystem struct {
	files map[string]int64
}

func (s fakeSystem) Stat(path string) (fs.FileInfo, error) {
	size, ok := s.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return fakeFileInfo{size: size}, nil
}

func (s fakeSystem) Size(path string) (int64, error) {
	size, ok := s.files[path]
	if !ok {
		return 0, fs.ErrNotExist
	}
	return size, nil
}

func TestValidateSizes(t *testing.T) {
	cases := []struct {
		name         string
		sizeA, sizeB int64
		offset       int64
		appendB      bool
		want         error
	}{
		{"equal", 4096, 4096, 0, false, nil},
		{"a larger", 4608, 4096, 0, false, ErrSizeMismatch},
		{"b larger", 4096, 4608, 0, false, ErrSizeMismatch},
		{"off by one byte", 4096, 4095, 0, false, ErrSizeMismatch},
		{"offset fits", 4096, 2048, 2, false, nil},
		{"offset exact", 4096, 3072, 2, false, nil},
		{"offset too small", 4096, 3584, 2, false, ErrSizeTooSmall},
		{"append any size", 512, 8192, 0, true, nil},
		{"append with offset", 1024, 8192, 2, true, nil},
		{"append a ends before offset", 512, 8192, 2, true, ErrSizeTooSmall},
		{"offset overflows byte range", 1024, 512, 1 << 58, false, ErrInvalidOptions},
		{"offset overflows byte range, append", 1024, 512, 1 << 58, true, ErrInvalidOptions},
	}

	for _, tc := range cases {
		opts := DefaultOptions()
		opts.AlignOffset = tc.offset
		opts.AllowAppend = tc.appendB
		err := ValidateSizes(tc.sizeA, tc.sizeB, opts)
		if tc.want == nil && err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if tc.want != nil && !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestValidateMergeSafety_OutputChecks(t *testing.T) {
	sys := fakeSystem{files: map[string]int64{
		"a":     1024,
		"b":     1024,
		"full":  10,
		"empty": 0,
	}}
	opts := DefaultOptions()

	if err := ValidateMergeSafety(sys, "a", "b", "new", opts); err != nil {
		t.Fatalf("new output: unexpected error: %v", err)
	}
	if err := ValidateMergeSafety(sys, "a", "b", "empty", opts); err != nil {
		t.Fatalf("empty output: unexpected error: %v", err)
	}
	if err := ValidateMergeSafety(sys, "a", "b", "full", opts); !errors.Is(err, ErrOutputExists) {
		t.Fatalf("non-empty output: got %v, want ErrOutputExists", err)
	}
	if err := ValidateMergeSafety(sys, "a", "missing", "new", opts); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("missing input: got %v, want not-exist", err)
	}
}

func TestValidateMergeSafety_RejectsDirectoryAndSameFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.img")
	if err := os.WriteFile(a, nil, 0o644); err != nil {
		t.Fatalf("write a: %v", err)
	}
	opts := DefaultOptions()
	sys := NewLocalSystem()

	if err := ValidateMergeSafety(sys, a, a, dir, opts); !errors.Is(err, ErrOutputExists) {
		t.Fatalf("directory output: got %v, want ErrOutputExists", err)
	}
	if err := ValidateMergeSafety(sys, a, a, a, opts); !errors.Is(err, ErrOutputExists) {
		t.Fatalf("output equal to input: got %v, want ErrOutputExists", err)
	}
}

func TestOptionsValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Options)
		ok     bool
	}{
		{"defaults", func(*Options) {}, true},
		{"zero sector size", func(o *Options) { o.SectorSize = 0 }, false},
		{"empty marker", func(o *Options) { o.Marker = nil }, false},
		{"marker longer than sector", func(o *Options) { o.SectorSize = 8 }, false},
		{"negative offset", func(o *Options) { o.AlignOffset = -1 }, false},
		{"negative progress", func(o *Options) { o.ProgressInterval = -1 }, false},
		{"4k sectors", func(o *Options) { o.SectorSize = 4096 }, true},
		{"largest sector size", func(o *Options) { o.SectorSize = MaxSectorSize }, true},
		{"sector size too large", func(o *Options) { o.SectorSize = MaxSectorSize + 1 }, false},
		{"largest offset", func(o *Options) { o.AlignOffset = math.MaxInt64 / int64(o.SectorSize) }, true},
		{"offset overflows byte offset", func(o *Options) { o.AlignOffset = math.MaxInt64/int64(o.SectorSize) + 1 }, false},
	}

	for _, tc := range cases {
		opts := DefaultOptions()
		tc.mutate(&opts)
		err := opts.Validate()
		if tc.ok && err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidOptions) {
			t.Fatalf("%s: got %v, want ErrInvalidOptions", tc.name, err)
		}
	}
}
