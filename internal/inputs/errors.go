package inputs

import "errors"

var (
	// ErrFactoryNotFound means the reference names no file or registered
	// factory, or the file does not define the factory function.
	ErrFactoryNotFound = errors.New("input factory not found")
	// ErrNotFactory means the factory is not a zero-argument function
	// returning a value and an optional error.
	ErrNotFactory = errors.New("input factory is not callable")
	// ErrDerive means no schema could be derived from the validator.
	ErrDerive = errors.New("cannot derive input schema")
)
