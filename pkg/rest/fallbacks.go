package rest

// ZeroOnNotFound returns an exception parser that turns a not-found fault into the zero
// value of T and re-raises everything else.
func ZeroOnNotFound[T any]() func(error) (T, error) {
	return func(err error) (T, error) {
		var zero T
		if IsNotFound(err) {
			return zero, nil
		}
		return zero, err
	}
}

// FalseOnNotFound is the exception parser for existence checks.
func FalseOnNotFound(err error) (bool, error) {
	if IsNotFound(err) {
		return false, nil
	}
	return false, err
}

// NilOnNotFound is the untyped form of ZeroOnNotFound, for use in a Method.
func NilOnNotFound(err error) (any, error) {
	if IsNotFound(err) {
		return nil, nil
	}
	return nil, err
}
