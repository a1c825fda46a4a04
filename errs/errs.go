// Package errs holds the failure taxonomy shared by the RCON and query clients.
package errs

import (
	"errors"
	"fmt"
	"io"
	"net"
)

var (
	// ErrConnection means the transport could not be established or maintained.
	ErrConnection = errors.New("connection error")

	// ErrAuthentication means the server rejected the RCON password.
	ErrAuthentication = errors.New("authentication failed")

	// ErrProtocol is matched by every *ProtocolError.
	ErrProtocol = errors.New("protocol violation")

	// ErrUnsupportedCommand means a disabled catalog entry was requested.
	ErrUnsupportedCommand = errors.New("unsupported command")

	// ErrTimeout means the peer did not answer within the bounded wait.
	ErrTimeout = errors.New("timed out")
)

// ProtocolKind tells protocol failures apart.
type ProtocolKind int

const (
	// KindFormat is a frame or payload that could not be parsed.
	KindFormat ProtocolKind = iota
	// KindConnectionClosed is a peer that went away mid-frame.
	KindConnectionClosed
	// KindMismatch is a response that does not belong to the request in flight.
	KindMismatch
)

func (k ProtocolKind) String() string {
	switch k {
	case KindFormat:
		return "format"
	case KindConnectionClosed:
		return "connection closed"
	case KindMismatch:
		return "mismatch"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// A ProtocolError is a peer behaving inconsistently with the expected packet
// sequence or framing. The connection is not reusable afterwards.
type ProtocolError struct {
	Op   string
	Kind ProtocolKind
	Err  error
}

func (e *ProtocolError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: protocol violation (%s)", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: protocol violation (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// Is makes every ProtocolError match ErrProtocol.
func (e *ProtocolError) Is(target error) bool { return target == ErrProtocol }

// Protocol builds a *ProtocolError.
func Protocol(op string, kind ProtocolKind, format string, args ...interface{}) error {
	return &ProtocolError{Op: op, Kind: kind, Err: fmt.Errorf(format, args...)}
}

// IsConnectionClosed reports whether err is a protocol error caused by the
// peer closing the connection.
func IsConnectionClosed(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe) && pe.Kind == KindConnectionClosed
}

// IsTimeout reports whether err is, or wraps, a network timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, ErrTimeout) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// Classify maps a transport error from op onto the taxonomy. Errors that are
// already classified are returned unchanged.
func Classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrTimeout), errors.Is(err, ErrConnection), errors.Is(err, ErrProtocol):
		return err
	case IsTimeout(err):
		return fmt.Errorf("%s: %w: %v", op, ErrTimeout, err)
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, net.ErrClosed), errors.Is(err, io.ErrClosedPipe):
		return &ProtocolError{Op: op, Kind: KindConnectionClosed, Err: err}
	}
	return fmt.Errorf("%s: %w: %v", op, ErrConnection, err)
}
