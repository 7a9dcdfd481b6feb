package promotion

import "errors"

var (
	ErrNotFound          = errors.New("promotion not found")
	ErrUnknownType       = errors.New("unknown promotion type")
	ErrInvalidTargetType = errors.New("invalid target type")
	ErrInvalidDateRange  = errors.New("end date must be after start date")
	ErrBuyGetRequired    = errors.New("buyQuantity and getQuantity are required for BUY_X_GET_Y promotions")
	ErrBuyGetForbidden   = errors.New("buyQuantity and getQuantity are only allowed for BUY_X_GET_Y promotions")
	ErrProductRequired   = errors.New("productId is required")
	ErrInvalidValue      = errors.New("numeric fields must not be negative")
	ErrVersionConflict   = errors.New("promotion was modified concurrently")
	ErrUsageLimitReached = errors.New("promotion usage limit reached")
)
