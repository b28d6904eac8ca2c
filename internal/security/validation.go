// Package security provides validation helpers for file system access and
// integer narrowing.
package security

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ErrSizeLimit is returned by LimitedReader when the source holds more
// data than allowed.
var ErrSizeLimit = errors.New("size limit exceeded")

// ValidateFileName checks that name is a single path element, so joining
// it to a directory cannot escape that directory.
func ValidateFileName(name string) error {
	if name == "" {
		return fmt.Errorf("empty file name")
	}
	if strings.ContainsRune(name, 0) {
		return fmt.Errorf("file name contains NUL byte")
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("file name %q contains a path separator", name)
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("file name %q contains directory traversal (..)", name)
	}
	if filepath.Base(name) != name || filepath.IsAbs(name) {
		return fmt.Errorf("file name %q is not a single path element", name)
	}
	return nil
}

// SafeUint8 converts an integer to uint8, clamping to 0-255.
func SafeUint8(val int) uint8 {
	if val < 0 {
		return 0
	}
	if val > 255 {
		return 255
	}
	return uint8(val)
}

// SafeUint16 converts an integer to uint16, clamping to 0-65535.
func SafeUint16(val int) uint16 {
	if val < 0 {
		return 0
	}
	if val > 65535 {
		return 65535
	}
	return uint16(val)
}

// LimitedReader wraps an io.Reader and fails with ErrSizeLimit once more
// than the allowed number of bytes is available. Unlike io.LimitedReader
// it does not silently truncate.
type LimitedReader struct {
	R         io.Reader
	Remaining int64
}

// Read implements io.Reader with size limits.
func (l *LimitedReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if l.Remaining <= 0 {
		// Allowance used up: only a clean EOF is acceptable now.
		var probe [1]byte
		n, err := l.R.Read(probe[:])
		if n > 0 {
			return 0, ErrSizeLimit
		}
		return 0, err
	}
	if int64(len(p)) > l.Remaining {
		p = p[:l.Remaining]
	}
	n, err := l.R.Read(p)
	l.Remaining -= int64(n)
	return n, err
}

// NewLimitedReader creates a new LimitedReader with the specified size limit.
func NewLimitedReader(r io.Reader, maxBytes int64) *LimitedReader {
	return &LimitedReader{
		R:         r,
		Remaining: maxBytes,
	}
}
