package container

import "github.com/xenosrecomp/xenosrecomp/core/fault"

const (
	// ErrInvalidContainer is returned when the header magic does not match
	// the expected shader container pattern.
	ErrInvalidContainer = fault.Const("container: invalid shader container")
	// ErrTruncatedInput is returned when the byte slice ends before a
	// length-prefixed table or the instruction stream it declares.
	ErrTruncatedInput = fault.Const("container: truncated input")
	// ErrMissingVertexElement is returned when a vertex fetch instruction's
	// slot address has no corresponding entry in the vertex element table.
	ErrMissingVertexElement = fault.Const("container: missing vertex element")
)
