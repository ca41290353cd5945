package memo

import "errors"

var (
	// ErrUnhashable is returned when an argument (or a nested component of
	// one) cannot participate in key equality. Slices, maps and funcs are
	// never hashable; neither is any composite type containing one.
	ErrUnhashable = errors.New("memo: argument is not hashable")

	// ErrNegativeMaxSize is returned by New for a MaxSize below zero that
	// is not the Unbounded marker.
	ErrNegativeMaxSize = errors.New("memo: max size must be non-negative or Unbounded")

	// ErrNilFunc is returned by New when no computation is supplied.
	ErrNilFunc = errors.New("memo: nil function")
)
