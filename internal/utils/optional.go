package utils

// Ptr returns a pointer to v, for the optional (nullable) fields of request models.
func Ptr[T any](v T) *T {
	return &v
}

// Deref returns the zero value for a nil pointer.
func Deref[T any](v *T) T {
	var zero T
	return DerefOr(v, zero)
}

// DerefOr returns fallback for a nil pointer.
func DerefOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}
