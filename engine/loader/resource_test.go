package loader

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-gltf/common"
)

func TestDataURIs(t *testing.T) {
	payload := []byte{0, 1, 2, 3, 250}
	r := NewFileResourceResolver("")

	tests := []struct {
		name string
		uri  string
		want []byte
	}{
		{"padded base64", "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(payload), payload},
		{"unpadded base64", "data:application/gltf-buffer;base64," + base64.RawStdEncoding.EncodeToString(payload), payload},
		{"upper-case scheme", "DATA:;base64," + base64.StdEncoding.EncodeToString(payload), payload},
		{"percent-encoded", "data:text/plain,a%20b", []byte("a b")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.uri)
			if err != nil {
				t.Fatalf("Resolve error: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Resolve = %v, want %v", got, tt.want)
			}
			if err := r.Exists(tt.uri); err != nil {
				t.Errorf("Exists error: %v", err)
			}
			if p := r.Path(tt.uri); p != "" {
				t.Errorf("Path = %q, want empty", p)
			}
		})
	}

	for _, bad := range []string{"data:application/octet-stream;base64", "data:;base64,@@@@"} {
		if _, err := r.Resolve(bad); !errors.Is(err, common.ErrUnsupportedFormat) {
			t.Errorf("Resolve(%q) error = %v, want ErrUnsupportedFormat", bad, err)
		}
	}
}

func TestFileResources(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mesh data.bin"), []byte{7, 7}, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	r := NewFileResourceResolver(dir)

	got, err := r.Resolve("mesh%20data.bin")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if !bytes.Equal(got, []byte{7, 7}) {
		t.Errorf("Resolve = %v", got)
	}

	abs := filepath.Join(dir, "mesh data.bin")
	if p := NewFileResourceResolver("/elsewhere").Path(abs); p != abs {
		t.Errorf("Path(absolute) = %q, want %q", p, abs)
	}
	if err := r.Exists("mesh%20data.bin"); err != nil {
		t.Errorf("Exists error: %v", err)
	}

	_, err = r.Resolve("missing.bin")
	if !errors.Is(err, common.ErrNotFound) || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Resolve(missing) error = %v, want ErrNotFound and fs.ErrNotExist", err)
	}
	if err := r.Exists("missing.png"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Exists(missing) error = %v, want ErrNotFound", err)
	}
	if err := NewFileResourceResolver(filepath.Dir(dir)).Exists(filepath.Base(dir)); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Exists(directory) error = %v, want ErrNotFound", err)
	}
}
