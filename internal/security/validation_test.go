package security

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestValidateFileName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain", "valid_combs.bin.000000", false},
		{"mixed case", "valid_combs.bin.FFffFF", false},
		{"empty", "", true},
		{"forward slash", "valid_combs.bin.a/b", true},
		{"backslash", `valid_combs.bin.a\b`, true},
		{"traversal", "valid_combs.bin...", true},
		{"nul", "valid_combs.bin.\x00", true},
		{"absolute", "/etc/passwd", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFileName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFileName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestSafeIntegers(t *testing.T) {
	tests := []struct {
		in  int
		u8  uint8
		u16 uint16
	}{
		{-1, 0, 0},
		{0, 0, 0},
		{100, 100, 100},
		{255, 255, 255},
		{359, 255, 359},
		{70000, 255, 65535},
	}
	for _, tt := range tests {
		if got := SafeUint8(tt.in); got != tt.u8 {
			t.Errorf("SafeUint8(%d) = %d, want %d", tt.in, got, tt.u8)
		}
		if got := SafeUint16(tt.in); got != tt.u16 {
			t.Errorf("SafeUint16(%d) = %d, want %d", tt.in, got, tt.u16)
		}
	}
}

func TestLimitedReader(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		limit   int64
		wantErr error
	}{
		{"under limit", "abc", 8, nil},
		{"exactly at limit", "abcd", 4, nil},
		{"empty", "", 0, nil},
		{"over limit", "abcde", 4, ErrSizeLimit},
		{"zero limit with data", "a", 0, ErrSizeLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(NewLimitedReader(strings.NewReader(tt.data), tt.limit))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ReadAll() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && !bytes.Equal(got, []byte(tt.data)) {
				t.Errorf("ReadAll() = %q, want %q", got, tt.data)
			}
		})
	}
}
