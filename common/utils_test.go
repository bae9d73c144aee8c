package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestCoalesce(t *testing.T) {
	if got := Coalesce("", "", "b", "c"); got != "b" {
		t.Errorf("Coalesce = %q, want %q", got, "b")
	}
	if got := Coalesce(0, 0); got != 0 {
		t.Errorf("Coalesce of zeros = %d, want 0", got)
	}
}

func TestDeref(t *testing.T) {
	v := 7
	if got := Deref(&v, 3); got != 7 {
		t.Errorf("Deref(&7, 3) = %d, want 7", got)
	}
	if got := Deref[int](nil, 3); got != 3 {
		t.Errorf("Deref(nil, 3) = %d, want 3", got)
	}
}

func TestInBounds(t *testing.T) {
	tests := []struct {
		i, n int
		want bool
	}{
		{0, 1, true},
		{1, 2, true},
		{2, 2, false},
		{-1, 2, false},
		{0, 0, false},
	}
	for _, tt := range tests {
		if got := InBounds(tt.i, tt.n); got != tt.want {
			t.Errorf("InBounds(%d, %d) = %v, want %v", tt.i, tt.n, got, tt.want)
		}
	}
}

func TestErrorKindsAreDistinct(t *testing.T) {
	kinds := []error{
		ErrNotFound, ErrCorruptContainer, ErrUnsupportedFormat, ErrMissingField,
		ErrDanglingReference, ErrInvalidAccessor, ErrBufferOverrun,
	}
	for i, a := range kinds {
		wrapped := fmt.Errorf("accessors[%d]: %w", i, a)
		for j, b := range kinds {
			if got := errors.Is(wrapped, b); got != (i == j) {
				t.Errorf("errors.Is(%v, %v) = %v", wrapped, b, got)
			}
		}
	}
}
