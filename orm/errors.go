package orm

import "github.com/mintbase/weave/errors"

// Codes 100 to 109 belong to the orm package.
var (
	// ErrInvalidIndex is returned when a bucket is queried by an index
	// it does not declare.
	ErrInvalidIndex = errors.Register(100, "invalid index")
)
