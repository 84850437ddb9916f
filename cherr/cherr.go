// Package cherr defines the structured error kinds surfaced by chconn.
//
// Every error the client returns carries one of the Kind values below so
// callers can decide retry policy without string-matching messages.
package cherr

import "fmt"

// Kind classifies an error by the layer that raised it and whether the
// Session remains usable afterwards (see (*Error).Recoverable).
type Kind uint8

const (
	// KindConnection covers dial failures, name resolution, connect timeout,
	// and abrupt reset before a session exists.
	KindConnection Kind = iota
	// KindIO covers send/recv timeouts and unexpected socket closure on an
	// established session.
	KindIO
	// KindProtocol covers wire-contract violations: unexpected packet kind,
	// truncated frame, bad varint, bad LowCardinality flags, and similar.
	KindProtocol
	// KindCompression covers checksum mismatch, size mismatch, and
	// compressor/decompressor failure.
	KindCompression
	// KindValidation covers client-side precondition failures raised before
	// any bytes are sent for the current operation.
	KindValidation
	// KindServer wraps a structured Exception the server sent back.
	KindServer
	// KindUnimplemented covers a negotiated feature this client doesn't
	// implement yet (e.g. a future LowCardinality version).
	KindUnimplemented
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "Connection"
	case KindIO:
		return "Io"
	case KindProtocol:
		return "Protocol"
	case KindCompression:
		return "Compression"
	case KindValidation:
		return "Validation"
	case KindServer:
		return "Server"
	case KindUnimplemented:
		return "Unimplemented"
	default:
		return "Unknown"
	}
}

// ServerInfo is the structured payload of a KindServer error: the snapshot
// of a server Exception packet, possibly chained (spec §3 "Exception").
type ServerInfo struct {
	Code       int32
	Name       string
	Message    string
	StackTrace string
	// Nested holds the rest of the exception chain, outermost first, when
	// the server reported nested causes.
	Nested []ServerInfo
}

// Error is the single error type returned across package boundaries in
// chconn. Use errors.As to recover Kind-specific fields (e.g. Server).
type Error struct {
	Kind Kind
	// Reason is a short machine-stable tag within Kind, e.g. "UnexpectedEof"
	// or "VarintOverflow". Empty when Kind alone is sufficient.
	Reason string
	Msg    string
	Server *ServerInfo
	Err    error
}

func (e *Error) Error() string {
	if e.Server != nil {
		return fmt.Sprintf("%s: %s (code=%d, name=%s)", e.Kind, e.Msg, e.Server.Code, e.Server.Name)
	}
	if e.Reason != "" {
		return fmt.Sprintf("%s(%s): %s", e.Kind, e.Reason, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Recoverable reports whether the Session that produced this error remains
// usable for subsequent operations (spec §7 propagation policy).
//
// KindValidation is always recoverable. KindServer is recoverable only when
// the caller marks it so (a statement-level exception arriving at a stable
// point); mid-stream server exceptions must be constructed with
// recoverable=false via NewServerMidStream.
func (e *Error) Recoverable() bool {
	switch e.Kind {
	case KindValidation:
		return true
	case KindServer:
		return e.Reason != "mid-stream"
	default:
		return false
	}
}

// New constructs an *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap constructs an *Error of the given kind wrapping an underlying cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// WithReason attaches a machine-stable reason tag, e.g. cherr.New(cherr.KindProtocol, "...").WithReason("UnexpectedEof").
func (e *Error) WithReason(reason string) *Error {
	e.Reason = reason
	return e
}

// NewServer builds a KindServer error from a server Exception, recoverable
// at stable points (before any Data, or after EndOfStream).
func NewServer(info ServerInfo) *Error {
	return &Error{Kind: KindServer, Msg: info.Message, Server: &info}
}

// NewServerMidStream builds a KindServer error that arrived mid-Data-stream;
// the Session must be discarded per spec §4.6.3.
func NewServerMidStream(info ServerInfo) *Error {
	return &Error{Kind: KindServer, Reason: "mid-stream", Msg: info.Message, Server: &info}
}

// Is reports whether err is a *Error of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if ok := asError(err, &e); ok {
		return e.Kind == kind
	}
	return false
}

func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
