package util

// NotNilOrDefault expects a pointer to some type. If the pointer is
// nil, then the dflt value is returned. If the pointer is NOT nil, then
// it is dereferenced and the concrete value is returned.
func NotNilOrDefault[T any](maybe *T, dflt T) T {
	if maybe == nil {
		return dflt
	}

	return *maybe
}

// FirstNotNilOrDefault dereferences and returns the first non-nil pointer
// from those provided, in order. If every pointer is nil, the dflt value
// is returned.
func FirstNotNilOrDefault[T any](dflt T, candidates ...*T) T {
	for _, maybe := range candidates {
		if maybe != nil {
			return *maybe
		}
	}

	return dflt
}
