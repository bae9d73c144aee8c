package common

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Deref returns the value pointed to by p, or fallback when p is nil.
// Optional glTF properties are decoded as pointers so that an explicit zero can be told apart from an absent field.
//
// Parameters:
//   - p: the optional value
//   - fallback: the documented default used when p is nil
//
// Returns:
//   - T: *p or fallback
func Deref[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}

// InBounds reports whether i is a valid index into a collection of length n.
//
// Parameters:
//   - i: the index to check
//   - n: the collection length
//
// Returns:
//   - bool: true if 0 <= i < n
func InBounds(i, n int) bool {
	return i >= 0 && i < n
}
