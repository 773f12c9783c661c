package gateway

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("gateway: unauthorized")
	ErrNotFound     = errors.New("gateway: resource not found")
	ErrConflict     = errors.New("gateway: conflict")
	ErrInvalidMoney = errors.New("gateway: amount is not a non-negative whole number of minor units")
)

// APIError is returned for upstream failures that have no dedicated sentinel.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway: upstream returned status %d", e.StatusCode)
	}

	return fmt.Sprintf("gateway: upstream returned status %d: %s", e.StatusCode, e.Message)
}
