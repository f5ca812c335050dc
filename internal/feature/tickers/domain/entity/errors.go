package entity

import "errors"

// Table shape errors.
var (
	// ErrMissingColumn indicates that a required column is not present in a table.
	ErrMissingColumn = errors.New("missing column")

	// ErrLengthMismatch indicates that a column does not line up with the table index.
	ErrLengthMismatch = errors.New("column length does not match index")
)
