package ptr

// Ptr returns a pointer to the given value.
// Useful for passing literals to APIs that take optional pointer arguments.
func Ptr[T any](v T) *T {
	return &v
}
