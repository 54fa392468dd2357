package httpclient

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
)

// Code is the completion code of a single transfer. Values are numbered like
// libcurl's CURLcode so callers that switch on the numbers keep working.
type Code int

const (
	CodeOK                     Code = 0
	CodeUnsupportedProtocol    Code = 1
	CodeFailedInit             Code = 2
	CodeURLMalformat           Code = 3
	CodeCouldntResolveHost     Code = 6
	CodeCouldntConnect         Code = 7
	CodeWriteError             Code = 23
	CodeOperationTimedOut      Code = 28
	CodeSSLConnectError        Code = 35
	CodeAbortedByCallback      Code = 42
	CodeTooManyRedirects       Code = 47
	CodeSendError              Code = 55
	CodeRecvError              Code = 56
	CodePeerFailedVerification Code = 60
	CodeSSLCACertBadFile       Code = 77
)

func (c Code) String() string {
	switch c {
	case CodeOK:
		return "no error"
	case CodeUnsupportedProtocol:
		return "unsupported protocol"
	case CodeFailedInit:
		return "failed initialization"
	case CodeURLMalformat:
		return "URL using bad/illegal format or missing URL"
	case CodeCouldntResolveHost:
		return "couldn't resolve host name"
	case CodeCouldntConnect:
		return "couldn't connect to server"
	case CodeWriteError:
		return "failed writing received data to output buffer"
	case CodeOperationTimedOut:
		return "timeout was reached"
	case CodeSSLConnectError:
		return "SSL connect error"
	case CodeAbortedByCallback:
		return "operation was aborted"
	case CodeTooManyRedirects:
		return "number of redirects hit maximum amount"
	case CodeSendError:
		return "failed sending data to the peer"
	case CodeRecvError:
		return "failure when receiving data from the peer"
	case CodePeerFailedVerification:
		return "SSL peer certificate or SSH remote key was not OK"
	case CodeSSLCACertBadFile:
		return "problem with the SSL CA cert (path? access rights?)"
	default:
		return fmt.Sprintf("unknown transfer code %d", int(c))
	}
}

// Error is returned by every facade operation that did not complete with CodeOK.
type Error struct {
	Code   Code
	Method string
	URL    string
	Err    error
}

func (e *Error) Error() string {
	prefix := fmt.Sprintf("httpclient: %s %s: %s", e.Method, e.URL, e.Code)
	if e.Err != nil {
		return prefix + ": " + e.Err.Error()
	}
	return prefix
}

func (e *Error) Unwrap() error { return e.Err }

// CodeOf reports the completion code carried by err. A nil error is CodeOK and
// foreign errors are classified the same way transfer failures are.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	var te *Error
	if errors.As(err, &te) {
		return te.Code
	}
	return classify(err, phaseRequest)
}

// ErrNoOutputBuffer is reported by the accumulator when it has nowhere to
// append received data.
var ErrNoOutputBuffer = errors.New("output buffer is nil")

var (
	errMissingHost    = errors.New("missing host in URL")
	errTooManyRedirs  = errors.New("too many redirects")
	errHandleCreation = errors.New("transfer handle could not be created")
)

type phase int

const (
	phaseRequest phase = iota
	phaseBody
)

// classify maps an error returned by the engine to a completion code. The
// phase decides the fallback: unknown failures while the request is in flight
// are send errors, unknown failures while draining the body are receive errors.
func classify(err error, p phase) Code {
	if err == nil {
		return CodeOK
	}

	var te *Error
	if errors.As(err, &te) {
		return te.Code
	}

	switch {
	case errors.Is(err, ErrNoOutputBuffer):
		return CodeWriteError
	case errors.Is(err, errTooManyRedirs):
		return CodeTooManyRedirects
	case errors.Is(err, errMissingHost):
		return CodeURLMalformat
	case errors.Is(err, context.Canceled):
		return CodeAbortedByCallback
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded):
		return CodeOperationTimedOut
	}

	if strings.Contains(err.Error(), "unsupported protocol scheme") {
		return CodeUnsupportedProtocol
	}

	if isCertificateError(err) {
		return CodePeerFailedVerification
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return CodeOperationTimedOut
		}
		return CodeCouldntResolveHost
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CodeOperationTimedOut
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return CodeCouldntConnect
	}

	if isTLSHandshakeError(err) {
		return CodeSSLConnectError
	}

	if p == phaseBody {
		return CodeRecvError
	}
	return CodeSendError
}

func isCertificateError(err error) bool {
	var verifyErr *tls.CertificateVerificationError
	if errors.As(err, &verifyErr) {
		return true
	}
	var unknownAuth x509.UnknownAuthorityError
	if errors.As(err, &unknownAuth) {
		return true
	}
	var hostErr x509.HostnameError
	if errors.As(err, &hostErr) {
		return true
	}
	var invalidErr x509.CertificateInvalidError
	return errors.As(err, &invalidErr)
}

func isTLSHandshakeError(err error) bool {
	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return true
	}
	var alertErr tls.AlertError
	if errors.As(err, &alertErr) {
		return true
	}
	return strings.Contains(err.Error(), "tls: ")
}
