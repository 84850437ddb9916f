// Package chconn is a pure-Go client for the ClickHouse-style columnar OLAP
// native TCP protocol (spec §4).
//
// # Core Features
//
//   - Native binary protocol over a single TCP (optionally TLS) connection,
//     including the compression envelope and block codec (package proto,
//     package block)
//   - Columnar type system covering the primitive, Nullable, Array, Tuple,
//     Map, LowCardinality, Enum8/16, and Decimal kinds (package types)
//   - A Session type exposing Execute/Query/Insert/Ping/Reset/Close, each
//     serialized against the one physical connection it owns (package
//     session)
//   - A host-value coercion layer so callers exchange plain Go values
//     (int64, string, time.Time, []any, map[any]any, ...) without handling
//     the wire representation directly (package column)
//
// # Basic Usage
//
// Connecting and running a query:
//
//	sess, err := chconn.Connect(chconn.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sess.Close()
//
//	result, err := sess.Query("SELECT number FROM system.numbers LIMIT 10")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, b := range result.Blocks {
//	    for _, col := range b.Columns {
//	        fmt.Println(col.Name, col.Values)
//	    }
//	}
//
// Inserting rows built from host values:
//
//	u64, _ := chconn.ParseType("UInt64")
//	str, _ := chconn.ParseType("String")
//
//	b := chconn.NewBlockBuilder()
//	_ = b.AddColumn("id", u64, []any{uint64(1), uint64(2)})
//	_ = b.AddColumn("name", str, []any{"alice", "bob"})
//
//	err = sess.Insert("events", b.Build())
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the session,
// block, and column packages, covering the most common use cases. For
// advanced control over an individual exchange — cancellation, protocol
// internals, raw LogicalValue construction — use those packages directly.
package chconn

import (
	"context"

	"github.com/olapdb/chconn/block"
	"github.com/olapdb/chconn/column"
	"github.com/olapdb/chconn/proto"
	"github.com/olapdb/chconn/session"
	"github.com/olapdb/chconn/types"
)

// Re-exported types so callers need only import this package for the
// common path.
type (
	Session = session.Session
	Config  = session.Config
	Opt     = session.Opt

	Block  = block.Block
	Column = block.Column

	Type         = types.Type
	LogicalValue = types.LogicalValue

	QueryResult = proto.QueryResult
	Progress    = proto.Progress
	ProfileInfo = proto.ProfileInfo
)

// Connect dials cfg.Host:cfg.Port and runs the protocol handshake (§4.6.2),
// returning a ready-to-use Session.
func Connect(cfg Config) (*Session, error) {
	return session.Connect(cfg)
}

// DefaultConfig returns the baseline Config: localhost:9000, user default,
// no password, no compression, TLS off.
func DefaultConfig() Config {
	return session.DefaultConfig()
}

// NewConfig builds a Config from DefaultConfig with opts applied.
func NewConfig(opts ...Opt) (Config, error) {
	return session.NewConfig(opts...)
}

// Functional Config options, re-exported from package session.
var (
	WithHostPort    = session.WithHostPort
	WithDatabase    = session.WithDatabase
	WithCredentials = session.WithCredentials
	WithCompression = session.WithCompression
	WithTLS         = session.WithTLS
	WithTimeouts    = session.WithTimeouts
	WithClientInfo  = session.WithClientInfo
	WithLogger      = session.WithLogger
)

// Logger sinks connection lifecycle events and server Log packets (§6),
// re-exported from package proto.
type Logger = proto.Logger

// DefaultLogger returns the stdlib-backed Logger a Session uses when it
// isn't configured with one explicitly.
func DefaultLogger() Logger {
	return proto.DefaultLogger()
}

// ParseType parses a column type-text string (e.g. "Nullable(String)",
// "Array(LowCardinality(String))", "Decimal(18, 4)") into a Type (§3).
func ParseType(text string) (Type, error) {
	return types.Parse(text)
}

// ToLogical converts a host-language value into the LogicalValue that t
// expects (§4.8).
func ToLogical(t Type, v any) (LogicalValue, error) {
	return column.ToLogical(t, v)
}

// FromLogical converts v back into a host-language value for type t (§4.8).
func FromLogical(t Type, v LogicalValue) (any, error) {
	return column.FromLogical(t, v)
}

// BlockBuilder accumulates columns of host values into a Block, following
// the same AddColumn contract as package block's Builder.
type BlockBuilder = block.Builder

// NewBlockBuilder returns an empty BlockBuilder.
func NewBlockBuilder() *BlockBuilder {
	return block.NewBuilder()
}

// QueryWithCancel behaves like Session.Query but aborts the exchange and
// drains the server's response if ctx is done first (§4.6.6).
func QueryWithCancel(ctx context.Context, sess *Session, sql string) (QueryResult, error) {
	return sess.QueryWithCancel(ctx, sql)
}
