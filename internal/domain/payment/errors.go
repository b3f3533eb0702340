package payment

import "errors"

// Domain errors
var (
	ErrUnknownPlan = errors.New("unknown plan")
)
