package customer

import "errors"

var (
	ErrNotSeated     = errors.New("customer is not seated")
	ErrNoOrder       = errors.New("customer has not ordered anything")
	ErrAlreadyServed = errors.New("customer has already been served")
)
