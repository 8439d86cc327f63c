package export

import (
	"context"
	"errors"

	errorslib "github.com/goliatone/go-errors"
)

// ErrorKind classifies export pipeline failures.
type ErrorKind string

const (
	// KindErrPrecondition: the preview is not renderable yet.
	KindErrPrecondition ErrorKind = "precondition"
	// KindErrEncoding: the rasterizer or encoder produced no usable output.
	KindErrEncoding ErrorKind = "encoding"
	// KindErrBusy: another export is already in flight.
	KindErrBusy ErrorKind = "busy"
	// KindErrValidation: bad request input.
	KindErrValidation ErrorKind = "validation"
	// KindErrNotFound: unknown artifact.
	KindErrNotFound ErrorKind = "not_found"
	// KindErrTimeout and KindErrCanceled: context outcomes.
	KindErrTimeout  ErrorKind = "timeout"
	KindErrCanceled ErrorKind = "canceled"
	// KindErrInternal: everything else.
	KindErrInternal ErrorKind = "internal"
)

// ExportError wraps errors with a kind.
type ExportError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *ExportError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// NewError creates a new export error.
func NewError(kind ErrorKind, msg string, err error) *ExportError {
	return &ExportError{Kind: kind, Msg: msg, Err: err}
}

// KindFromError maps an error to its export error kind.
func KindFromError(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var exportErr *ExportError
	if errors.As(err, &exportErr) {
		return exportErr.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindErrTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindErrCanceled
	}

	return KindErrInternal
}

// AsGoError maps an error into a go-errors error for the HTTP layer.
func AsGoError(err error) *errorslib.Error {
	if err == nil {
		return nil
	}

	var ge *errorslib.Error
	if errors.As(err, &ge) {
		return ge
	}

	kind := KindFromError(err)
	msg := err.Error()
	var exportErr *ExportError
	if errors.As(err, &exportErr) && exportErr.Msg != "" {
		msg = exportErr.Msg
	}

	switch kind {
	case KindErrPrecondition:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("precondition")
	case KindErrEncoding:
		return errorslib.New(msg, errorslib.CategoryExternal).WithTextCode("encoding")
	case KindErrBusy:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("busy")
	case KindErrValidation:
		return errorslib.New(msg, errorslib.CategoryValidation).WithTextCode("validation")
	case KindErrNotFound:
		return errorslib.New(msg, errorslib.CategoryNotFound).WithTextCode("not_found")
	case KindErrTimeout:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("timeout")
	case KindErrCanceled:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("canceled")
	default:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode("internal")
	}
}

// UserMessage is the generic blocking notification shown for a failed
// export action. The message names the action, never the cause.
func UserMessage(kind Kind) string {
	switch kind {
	case KindPDF:
		return "Error al generar el PDF. Por favor, intente nuevamente."
	case KindShare:
		return "Error al compartir por WhatsApp. Por favor, intente nuevamente."
	default:
		return "Error al generar la imagen. Por favor, intente nuevamente."
	}
}
