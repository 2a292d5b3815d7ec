package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidFeature      = errors.New("invalid feature")
	ErrQuotaExceeded       = errors.New("quota exceeded")
	ErrLotExhausted        = errors.New("top-up lot exhausted")
	ErrInvalidLotAmount    = errors.New("lot amount must be positive")
	ErrDuplicateOperation  = errors.New("duplicate operation")
	ErrMissingUserIdentity = errors.New("missing user identity")
)
