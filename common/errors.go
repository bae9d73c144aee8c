package common

import "errors"

// Error kinds returned by the loader, resolver and decoder.
// Every error produced by this module wraps exactly one of these, so callers classify failures with errors.Is.
var (
	// ErrNotFound reports a missing input file or a missing external buffer/image resource.
	ErrNotFound = errors.New("not found")

	// ErrCorruptContainer reports a GLB container with a bad magic number or truncated chunks.
	ErrCorruptContainer = errors.New("corrupt container")

	// ErrUnsupportedFormat reports an unknown file extension, component/structure type, MIME type or enum string.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrMissingField reports a required JSON property that is absent.
	ErrMissingField = errors.New("missing required field")

	// ErrDanglingReference reports an index that points outside the bounds of its target array.
	ErrDanglingReference = errors.New("dangling reference")

	// ErrInvalidAccessor reports an accessor whose linkage is nil or incoherent.
	ErrInvalidAccessor = errors.New("invalid accessor")

	// ErrBufferOverrun reports a read or declared range that would exceed the underlying bytes.
	ErrBufferOverrun = errors.New("buffer overrun")
)
