package entities

import (
	"errors"
	"strings"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderIDTaken      = errors.New("order id already exists")
	ErrInvalidAddress    = errors.New("invalid shipping address format")
	ErrInvalidStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

// ValidationError reports which required order fields were missing or empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}
