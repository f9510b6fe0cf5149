package account

import "errors"

// Account errors.
var (
	ErrNotFound        = errors.New("account: not found")
	ErrInvalidProvider = errors.New("account: unknown storage provider")
	ErrInvalidPlan     = errors.New("account: unknown subscription plan")
)
