package royalty

import "github.com/mintbase/weave/errors"

// Error codes
// royalty reserves 200 ~ 209
var (
	ErrInvalidPercentage  = errors.Register(200, "invalid royalty percentage")
	ErrInvalidShare       = errors.Register(201, "invalid royalty share")
	ErrRoyaltySumMismatch = errors.Register(202, "royalty shares do not sum to one")
)
