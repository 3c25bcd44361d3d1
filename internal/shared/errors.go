package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig   = fmt.Errorf("configuration not found")
	ErrInvalidConfig   = fmt.Errorf("invalid configuration")
	ErrInvalidSchedule = fmt.Errorf("invalid schedule expression")

	// Remote server errors
	ErrConnectivity = fmt.Errorf("server unreachable")
	ErrAPIRequest   = fmt.Errorf("API request failed")
	ErrItemNotFound = fmt.Errorf("item not found")

	// Service errors
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)
