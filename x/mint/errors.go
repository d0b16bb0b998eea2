package mint

import "github.com/mintbase/weave/errors"

// Error codes
// mint reserves 300 ~ 309
var (
	ErrInvalidQuantity = errors.Register(300, "invalid quantity")
	ErrNoMarketplace   = errors.Register(301, "marketplace not set")
)
