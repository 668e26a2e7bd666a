package archive

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ulikunitz/xz"

	jerrors "github.com/FocuswithJustin/JuniperReports/core/errors"
)

type testFile struct {
	name string
	body string
}

func writeTar(t *testing.T, w io.Writer, files []testFile) {
	t.Helper()
	tw := tar.NewWriter(w)
	if err := tw.WriteHeader(&tar.Header{
		Name:     "corpus/",
		Mode:     0755,
		Typeflag: tar.TypeDir,
	}); err != nil {
		t.Fatalf("write header: %v", err)
	}
	for _, f := range files {
		if err := tw.WriteHeader(&tar.Header{
			Name:     f.name,
			Mode:     0644,
			Size:     int64(len(f.body)),
			Typeflag: tar.TypeReg,
		}); err != nil {
			t.Fatalf("write header: %v", err)
		}
		if _, err := tw.Write([]byte(f.body)); err != nil {
			t.Fatalf("write content: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("close tar: %v", err)
	}
}

func createTarGz(t *testing.T, dir string, files []testFile) string {
	t.Helper()
	path := filepath.Join(dir, "corpus.tar.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create file: %v", err)
	}
	defer f.Close()

	gw := gzip.NewWriter(f)
	writeTar(t, gw, files)
	if err := gw.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	return path
}

func createTarXz(t *testing.T, dir string, files []testFile) string {
	t.Helper()
	path := filepath.Join(dir, "corpus.tar.xz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create file: %v", err)
	}
	defer f.Close()

	xw, err := xz.NewWriter(f)
	if err != nil {
		t.Fatalf("xz writer: %v", err)
	}
	writeTar(t, xw, files)
	if err := xw.Close(); err != nil {
		t.Fatalf("close xz: %v", err)
	}
	return path
}

var sampleFiles = []testFile{
	{"corpus/02-EXO.usfm", `\id EXO`},
	{"corpus/01-GEN.usfm", `\id GEN`},
	{"corpus/readme.txt", "not scripture"},
}

func TestIsArchive(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"corpus.tar.gz", true},
		{"corpus.TGZ", true},
		{"corpus.tar.xz", true},
		{"corpus.zip", false},
		{"corpus", false},
		{"GEN.usfm", false},
	}
	for _, tt := range tests {
		if got := IsArchive(tt.path); got != tt.want {
			t.Errorf("IsArchive(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestNewReader(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr error
	}{
		{
			name:  "tar.gz archive",
			setup: func(t *testing.T) string { return createTarGz(t, t.TempDir(), sampleFiles) },
		},
		{
			name:  "tar.xz archive",
			setup: func(t *testing.T) string { return createTarXz(t, t.TempDir(), sampleFiles) },
		},
		{
			name: "unsupported format",
			setup: func(t *testing.T) string {
				path := filepath.Join(dir, "test.zip")
				os.WriteFile(path, []byte("not a tar"), 0644)
				return path
			},
			wantErr: jerrors.ErrUnsupported,
		},
		{
			name:    "nonexistent file",
			setup:   func(t *testing.T) string { return filepath.Join(dir, "nonexistent.tar.gz") },
			wantErr: os.ErrNotExist,
		},
		{
			name: "corrupt gzip",
			setup: func(t *testing.T) string {
				path := filepath.Join(dir, "corrupt.tar.gz")
				os.WriteFile(path, []byte("plain text"), 0644)
				return path
			},
			wantErr: jerrors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(tt.setup(t))
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("NewReader() error = %v", err)
				}
				if err := r.Close(); err != nil {
					t.Errorf("Close() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewReader() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestReaderIterateSkipsDirectories(t *testing.T) {
	path := createTarGz(t, t.TempDir(), sampleFiles)
	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	defer r.Close()

	var names []string
	err = r.Iterate(func(header *tar.Header, _ io.Reader) (bool, error) {
		names = append(names, header.Name)
		return false, nil
	})
	if err != nil {
		t.Fatalf("Iterate() error = %v", err)
	}
	if len(names) != 3 {
		t.Errorf("Iterate() visited %v, want 3 regular files", names)
	}
}

func TestReaderIterateStop(t *testing.T) {
	path := createTarGz(t, t.TempDir(), sampleFiles)
	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	defer r.Close()

	count := 0
	err = r.Iterate(func(*tar.Header, io.Reader) (bool, error) {
		count++
		return true, nil
	})
	if err != nil {
		t.Fatalf("Iterate() error = %v", err)
	}
	if count != 1 {
		t.Errorf("visited %d entries, want 1", count)
	}
}

func TestReadMatching(t *testing.T) {
	for _, create := range []func(*testing.T, string, []testFile) string{createTarGz, createTarXz} {
		path := create(t, t.TempDir(), sampleFiles)
		t.Run(filepath.Base(path), func(t *testing.T) {
			entries, err := ReadMatching(path, func(name string) bool {
				return strings.HasSuffix(name, ".usfm")
			})
			if err != nil {
				t.Fatalf("ReadMatching() error = %v", err)
			}
			if len(entries) != 2 {
				t.Fatalf("got %d entries, want 2", len(entries))
			}
			if entries[0].Name != "corpus/01-GEN.usfm" || entries[1].Name != "corpus/02-EXO.usfm" {
				t.Errorf("entries not sorted: %s, %s", entries[0].Name, entries[1].Name)
			}
			if string(entries[0].Data) != `\id GEN` {
				t.Errorf("entries[0].Data = %q, want %q", entries[0].Data, `\id GEN`)
			}
		})
	}
}

func TestReadMatchingSkipsUnsafeNames(t *testing.T) {
	path := createTarGz(t, t.TempDir(), []testFile{
		{"../escape.usfm", `\id GEN`},
		{"./corpus//GEN.usfm", `\id GEN`},
	})
	entries, err := ReadMatching(path, func(string) bool { return true })
	if err != nil {
		t.Fatalf("ReadMatching() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "corpus/GEN.usfm" {
		t.Errorf("entries = %+v, want only corpus/GEN.usfm", entries)
	}
}
