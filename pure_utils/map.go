package pure_utils

// Map returns a new slice composed of the result of passing each element of
// the input slice to the given function.
func Map[T, U any](src []T, f func(T) U) []U {
	us := make([]U, len(src))
	for i := range src {
		us[i] = f(src[i])
	}
	return us
}

func Ptr[T any](v T) *T {
	return &v
}
