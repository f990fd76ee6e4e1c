package core

// BestEffort is the outcome of an optional external call. Value is always
// usable: on failure it holds the fallback and Err records why.
type BestEffort[T any] struct {
	Value T
	Err   error
}

func Ok[T any](v T) BestEffort[T] {
	return BestEffort[T]{Value: v}
}

func Fallback[T any](v T, err error) BestEffort[T] {
	return BestEffort[T]{Value: v, Err: err}
}

func (b BestEffort[T]) Failed() bool {
	return b.Err != nil
}
