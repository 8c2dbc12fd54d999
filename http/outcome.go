package http

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrOffline is reported when no network route is available.
	ErrOffline = errors.New("internet connection is not available")

	// ErrTransport wraps failures below the HTTP layer, including timeouts.
	ErrTransport = errors.New("transport error")

	// ErrHTTPStatus is reported for any status code other than 200.
	ErrHTTPStatus = errors.New("unexpected HTTP status")

	// ErrJSONDecode is reported when a 200 body is not a JSON object or array.
	ErrJSONDecode = errors.New("JSON decode error")

	// ErrCancelled is reported when the caller cancels an in-flight dispatch.
	ErrCancelled = errors.New("request cancelled")

	// ErrNoResponse is the cause used when a transport returns neither a
	// status code nor an error.
	ErrNoResponse = errors.New("transport returned no response")
)

// Outcome is the result of a dispatch or decode. The set of variants is
// closed: SuccessBytes, SuccessList, SuccessMap, TransportError,
// HTTPStatusError, DecodeError, Offline and Cancelled.
type Outcome interface {
	outcome()
}

// SuccessBytes carries the raw body of a 200 response.
type SuccessBytes struct {
	Data []byte
}

// SuccessList carries a 200 body whose JSON root is an array.
type SuccessList struct {
	Items []interface{}
}

// SuccessMap carries a 200 body whose JSON root is an object.
type SuccessMap struct {
	Fields map[string]interface{}
}

// TransportError carries a failure below the HTTP layer.
type TransportError struct {
	Cause error
}

// HTTPStatusError carries a response whose status code was not 200.
type HTTPStatusError struct {
	Code int
	Body []byte
}

// DecodeError carries a 200 body that could not be classified as a JSON
// object or array.
type DecodeError struct {
	Code    int
	Message string
	Cause   error
}

// Offline is returned without contacting the network.
type Offline struct{}

// Cancelled is returned when the caller's context was cancelled.
type Cancelled struct {
	Cause error
}

func (SuccessBytes) outcome()    {}
func (SuccessList) outcome()     {}
func (SuccessMap) outcome()      {}
func (TransportError) outcome()  {}
func (HTTPStatusError) outcome() {}
func (DecodeError) outcome()     {}
func (Offline) outcome()         {}
func (Cancelled) outcome()       {}

func (e TransportError) Error() string {
	if e.Cause == nil {
		return ErrTransport.Error()
	}
	return fmt.Sprintf("%s: %v", ErrTransport, e.Cause)
}

func (e TransportError) Unwrap() []error { return []error{ErrTransport, e.Cause} }

func (e HTTPStatusError) Error() string {
	return fmt.Sprintf("%s %d%s", ErrHTTPStatus, e.Code, bodySnippet(e.Body))
}

func (e HTTPStatusError) Unwrap() error { return ErrHTTPStatus }

func (e DecodeError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s %d: %s", ErrJSONDecode, e.Code, e.Message)
	}
	return fmt.Sprintf("%s %d: %s: %v", ErrJSONDecode, e.Code, e.Message, e.Cause)
}

func (e DecodeError) Unwrap() []error { return []error{ErrJSONDecode, e.Cause} }

func (Offline) Error() string { return ErrOffline.Error() }

func (Offline) Unwrap() error { return ErrOffline }

func (e Cancelled) Error() string {
	if e.Cause == nil {
		return ErrCancelled.Error()
	}
	return fmt.Sprintf("%s: %v", ErrCancelled, e.Cause)
}

func (e Cancelled) Unwrap() []error { return []error{ErrCancelled, e.Cause} }

// Err returns the outcome as an error, or nil for the success variants.
func Err(out Outcome) error {
	if err, ok := out.(error); ok {
		return err
	}
	return nil
}

// Kind returns a short stable name for the outcome variant.
func Kind(out Outcome) string {
	switch out.(type) {
	case SuccessBytes:
		return "bytes"
	case SuccessList:
		return "list"
	case SuccessMap:
		return "map"
	case TransportError:
		return "transport_error"
	case HTTPStatusError:
		return "http_status_error"
	case DecodeError:
		return "decode_error"
	case Offline:
		return "offline"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

func bodySnippet(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > 512 {
		body = body[:512]
	}
	return ": " + strings.TrimSpace(string(body))
}
