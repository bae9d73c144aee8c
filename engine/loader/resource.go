package loader

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-gltf/common"
)

// fileResourceResolverImpl is the default ResourceResolver, reading files relative to a base directory.
type fileResourceResolverImpl struct {
	baseDir string
}

// ResourceResolver loads the bytes behind buffer and image URIs.
// The default implementation decodes data: URIs and reads everything else from the filesystem.
type ResourceResolver interface {
	// Resolve returns the bytes referenced by uri.
	//
	// Parameters:
	//   - uri: a data: URI or a path, relative paths being resolved against the document directory
	//
	// Returns:
	//   - []byte: the referenced bytes
	//   - error: wraps common.ErrNotFound if the resource does not exist, common.ErrUnsupportedFormat for undecodable data: URIs
	Resolve(uri string) ([]byte, error)

	// Exists checks that uri names an existing resource without reading it.
	//
	// Parameters:
	//   - uri: a data: URI or a path
	//
	// Returns:
	//   - error: wraps common.ErrNotFound if the resource does not exist
	Exists(uri string) error

	// Path returns the filesystem path uri resolves to, or "" for data: URIs.
	Path(uri string) string
}

var _ ResourceResolver = &fileResourceResolverImpl{}

// NewFileResourceResolver creates a ResourceResolver rooted at baseDir.
//
// Parameters:
//   - baseDir: the directory relative URIs are resolved against
//
// Returns:
//   - ResourceResolver: the filesystem-backed resolver
func NewFileResourceResolver(baseDir string) ResourceResolver {
	return &fileResourceResolverImpl{baseDir: baseDir}
}

func (r *fileResourceResolverImpl) Resolve(uri string) ([]byte, error) {
	if isDataURI(uri) {
		return decodeDataURI(uri)
	}

	path := r.Path(uri)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, notFound(path, err)
	}
	return data, nil
}

func (r *fileResourceResolverImpl) Exists(uri string) error {
	if isDataURI(uri) {
		return nil
	}

	path := r.Path(uri)
	info, err := os.Stat(path)
	if err != nil {
		return notFound(path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("resource %s is a directory: %w", path, common.ErrNotFound)
	}
	return nil
}

func (r *fileResourceResolverImpl) Path(uri string) string {
	if isDataURI(uri) {
		return ""
	}

	// URIs are percent-encoded; a malformed escape is taken literally.
	p := uri
	if unescaped, err := url.PathUnescape(uri); err == nil {
		p = unescaped
	}
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) || r.baseDir == "" {
		return p
	}
	return filepath.Join(r.baseDir, p)
}

// isDataURI reports whether uri uses the data: scheme.
func isDataURI(uri string) bool {
	return len(uri) >= 5 && strings.EqualFold(uri[:5], "data:")
}

// decodeDataURI decodes a data URI.
// Format: data:[<mediatype>][;base64],<data>
func decodeDataURI(uri string) ([]byte, error) {
	header, payload, ok := strings.Cut(uri[5:], ",")
	if !ok {
		return nil, fmt.Errorf("data URI has no ',' separator: %w", common.ErrUnsupportedFormat)
	}

	if !strings.HasSuffix(strings.ToLower(header), ";base64") {
		data, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to percent-decode data URI: %w: %w", common.ErrUnsupportedFormat, err)
		}
		return []byte(data), nil
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some exporters drop the '=' padding.
		var rawErr error
		data, rawErr = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if rawErr != nil {
			return nil, fmt.Errorf("failed to decode base64 data URI: %w: %w", common.ErrUnsupportedFormat, err)
		}
	}
	return data, nil
}

// notFound wraps a filesystem error so that it matches both common.ErrNotFound and the original cause.
func notFound(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("resource %s: %w: %w", path, common.ErrNotFound, err)
	}
	return fmt.Errorf("failed to read resource %s: %w: %w", path, common.ErrNotFound, err)
}
