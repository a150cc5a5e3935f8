// Package apperr classifies the failures a screen can surface.
//
// Every error a screen controller returns is either an *Error (with a
// message safe to show on the page) or an internal failure that callers
// report as a generic page-level message.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	// Network covers any failed call to the remote API.
	Network Kind = "network"
	// Invalid covers local input problems (missing fields, password mismatch).
	Invalid Kind = "invalid"
	// StockConflict means the requested quantity exceeds live stock.
	StockConflict Kind = "stock_conflict"
	Internal      Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string            // shown to the user as-is
	Fields  map[string]string // per-field validation failures
	Status  int               // remote HTTP status for Network errors, 0 otherwise
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// NetworkErr wraps a failed remote call. message is the server-provided
// message when there is one, else the transport error text.
func NetworkErr(status int, message string, err error) *Error {
	return &Error{Kind: Network, Status: status, Message: message, Err: err}
}

func InvalidErr(message string, fields map[string]string) *Error {
	return &Error{Kind: Invalid, Message: message, Fields: fields}
}

func StockConflictErr(productID string, requested, available int) *Error {
	return &Error{
		Kind:    StockConflict,
		Message: "Sorry. Product is out of stock",
		Fields: map[string]string{
			"product":   productID,
			"requested": fmt.Sprint(requested),
			"available": fmt.Sprint(available),
		},
	}
}

func Wrap(err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: Internal, Message: "Something went wrong", Err: err}
}

func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// Is reports whether err is an *Error of kind k.
func Is(err error, k Kind) bool {
	ae, ok := As(err)
	return ok && ae.Kind == k
}

// HTTPStatus maps an error onto the status the local HTTP surface answers with.
func HTTPStatus(err error) int {
	ae, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch ae.Kind {
	case Network:
		return http.StatusBadGateway
	case Invalid:
		return http.StatusUnprocessableEntity
	case StockConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text to show for err.
func PublicMessage(err error) string {
	if ae, ok := As(err); ok && ae.Message != "" {
		return ae.Message
	}
	return "Something went wrong"
}
