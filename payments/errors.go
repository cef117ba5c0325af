package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/intelliDean/Stripe-Payment/payments/processor"
)

var ErrInvalidAmount = errors.New("amount must be a positive number of major currency units")

// ProviderError is returned for every failed call to the payment provider,
// whatever the operation.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Message is the provider's own description of the failure.
func (e *ProviderError) Message() string {
	return processor.ErrorMessage(e.Err)
}

// statusLine renders a status the way the response bodies carry it: "201 CREATED".
func statusLine(code int) string {
	text := strings.ToUpper(strings.ReplaceAll(http.StatusText(code), " ", "_"))
	return fmt.Sprintf("%d %s", code, text)
}
