package schema

import "errors"

var (
	// ErrUnknownVariant indicates a tagged-union payload whose tag matched
	// no known variant of the target type.
	ErrUnknownVariant = errors.New("unknown variant")
	// ErrInvalidIdentifier indicates a malformed tab or window identifier.
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrMalformedVariant indicates a recognized tag whose payload does not
	// match the variant's declared shape.
	ErrMalformedVariant = errors.New("malformed variant payload")
)
