package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	// Ambient codes shared by every surface.
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeInternal     Code = "INTERNAL_ERROR"
	CodeDependency   Code = "DEPENDENCY_ERROR"
	CodeIdempotency  Code = "IDEMPOTENCY_KEY_REUSED"

	// Domain codes. All are recoverable application errors; none should ever
	// crash the process, and none should be retried without new input.
	CodeUserNotFound        Code = "USER_NOT_FOUND"
	CodeOrderNotFound       Code = "ORDER_NOT_FOUND"
	CodeListingNotAvailable Code = "LISTING_NOT_AVAILABLE"
	CodeCannotBuyOwn        Code = "CANNOT_BUY_OWN"
	CodeInvalidAmount       Code = "INVALID_AMOUNT"
	CodeInsufficientBalance Code = "INSUFFICIENT_BALANCE"
	CodeNoEscrow            Code = "NO_ESCROW"
	CodeInvalidTransition   Code = "INVALID_STATUS_TRANSITION"
	CodeNotAuthorized       Code = "NOT_AUTHORIZED"
	CodeDuplicateDispute    Code = "DUPLICATE_DISPUTE"

	CodeNotificationNotFound Code = "NOTIFICATION_NOT_FOUND"
)

type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		HTTPStatus:     http.StatusBadRequest,
		PublicMessage:  "validation failed",
		DetailsAllowed: true,
	},
	CodeUnauthorized: {
		HTTPStatus:    http.StatusUnauthorized,
		PublicMessage: "authentication required",
	},
	CodeInternal: {
		HTTPStatus:    http.StatusInternalServerError,
		Retryable:     true,
		PublicMessage: "internal server error",
	},
	CodeDependency: {
		HTTPStatus:     http.StatusServiceUnavailable,
		Retryable:      true,
		PublicMessage:  "dependency unavailable",
		DetailsAllowed: true,
	},
	CodeIdempotency: {
		HTTPStatus:     http.StatusConflict,
		PublicMessage:  "idempotency key reused",
		DetailsAllowed: true,
	},
	CodeUserNotFound: {
		HTTPStatus:    http.StatusNotFound,
		PublicMessage: "user not found",
	},
	CodeOrderNotFound: {
		HTTPStatus:    http.StatusNotFound,
		PublicMessage: "order not found",
	},
	CodeListingNotAvailable: {
		HTTPStatus:    http.StatusUnprocessableEntity,
		PublicMessage: "listing is not available",
	},
	CodeCannotBuyOwn: {
		HTTPStatus:    http.StatusUnprocessableEntity,
		PublicMessage: "cannot purchase your own listing",
	},
	CodeInvalidAmount: {
		HTTPStatus:     http.StatusBadRequest,
		PublicMessage:  "amount must be positive",
		DetailsAllowed: true,
	},
	CodeInsufficientBalance: {
		HTTPStatus:    http.StatusUnprocessableEntity,
		PublicMessage: "insufficient available balance",
	},
	CodeNoEscrow: {
		HTTPStatus:    http.StatusConflict,
		PublicMessage: "no escrow held for order",
	},
	CodeInvalidTransition: {
		HTTPStatus:     http.StatusUnprocessableEntity,
		PublicMessage:  "status transition disallowed",
		DetailsAllowed: true,
	},
	CodeNotAuthorized: {
		HTTPStatus:    http.StatusForbidden,
		PublicMessage: "not authorized for this order",
	},
	CodeDuplicateDispute: {
		HTTPStatus:    http.StatusConflict,
		PublicMessage: "dispute already open for order",
	},
	CodeNotificationNotFound: {
		HTTPStatus:    http.StatusNotFound,
		PublicMessage: "notification not found",
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As extracts a typed *Error from an error chain, or nil.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// HasCode reports whether the error chain carries the given code.
func HasCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}
