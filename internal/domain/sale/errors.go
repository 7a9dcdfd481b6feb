package sale

import "errors"

var (
	ErrNotFound         = errors.New("return not found")
	ErrAlreadyCompleted = errors.New("return already completed")
	ErrNoItems          = errors.New("a return needs at least one item")
	ErrNoReplacements   = errors.New("an exchange needs at least one replacement item")
)
