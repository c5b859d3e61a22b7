package recipe

import "errors"

// Domain errors for recipe operations
var (
	ErrMissingID     = errors.New("recipe id is required")
	ErrImageTooLarge = errors.New("recipe image must not exceed 5 MB")
	ErrImageType     = errors.New("recipe image must be a JPEG, PNG, GIF or WebP file")
)
