package gateway

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNotImplemented is the cause of every Delete envelope.
var ErrNotImplemented = errors.New("not implemented")

// StatusUnknown is the envelope status when no HTTP status could be
// determined (connection refused, DNS failure, cancelled request...).
const StatusUnknown = 0

// Kind classifies a TransportError.
type Kind int

const (
	// KindRequest: the request could not be built or its body encoded.
	KindRequest Kind = iota + 1
	// KindNetwork: the transport failed before a response was read.
	KindNetwork
	// KindTimeout: the transport or the context deadline timed out.
	KindTimeout
	// KindCanceled: the caller cancelled the context.
	KindCanceled
	// KindStatus: the server answered with a non-2xx status.
	KindStatus
	// KindUnimplemented: the operation is not supported by the gateway.
	KindUnimplemented
)

func (k Kind) String() string {
	switch k {
	case KindRequest:
		return "request"
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindCanceled:
		return "canceled"
	case KindStatus:
		return "status"
	case KindUnimplemented:
		return "unimplemented"
	default:
		return "unknown"
	}
}

// TransportError describes a failed gateway call. It is only ever found in
// Envelope.Err, never returned on its own.
type TransportError struct {
	Kind       Kind
	Method     string
	URL        string
	StatusCode int
	Body       []byte
	Cause      error
}

func (e *TransportError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %s", e.Method, e.URL, e.Kind)
	if e.StatusCode != StatusUnknown {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *TransportError) Unwrap() error { return e.Cause }

// IsKind reports whether err is a TransportError of kind k.
func IsKind(err error, k Kind) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Kind == k
}

// statusCoder and bodyCarrier let a Doer's error hand back the HTTP
// response it failed on.
type statusCoder interface {
	StatusCode() int
}

type bodyCarrier interface {
	ResponseBody() []byte
}

// statusFromError extracts an HTTP status from a transport error. The
// error's own StatusCode wins; failing that, an error in the chain whose
// message is just a status number ("401") is used. Otherwise the status is
// StatusUnknown.
func statusFromError(err error) int {
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		if n, convErr := strconv.Atoi(strings.TrimSpace(e.Error())); convErr == nil && n >= 100 && n <= 599 {
			return n
		}
	}
	return StatusUnknown
}

func bodyFromError(err error) []byte {
	var bc bodyCarrier
	if errors.As(err, &bc) {
		return bc.ResponseBody()
	}
	return nil
}
