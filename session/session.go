// Package session implements the Session object of spec §4.7: the single
// physical connection a caller drives through Execute/Query/Insert/Ping/
// Reset, serialized by one mutex per §5's "single-writer socket via
// ownership" scheduling model.
package session

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/olapdb/chconn/block"
	"github.com/olapdb/chconn/cherr"
	"github.com/olapdb/chconn/compress"
	"github.com/olapdb/chconn/proto"
	"github.com/olapdb/chconn/types"
	"github.com/olapdb/chconn/wire"
)

// Session owns one TCP (optionally TLS) connection and the protocol state
// negotiated over it. Exactly one exchange is in flight at a time (§5).
type Session struct {
	cfg Config

	mu   sync.Mutex
	conn net.Conn
	r    *wire.Reader
	w    *wire.Writer

	negotiatedRevision int
	serverInfo         proto.ServerHelloInfo

	lastProgress proto.Progress
	lastProfile  proto.ProfileInfo
}

// Connect dials host:port (optionally through TLS), then runs the
// handshake of §4.6.2.
func Connect(cfg Config) (*Session, error) {
	s := &Session{cfg: cfg}
	if err := s.dialAndHandshake(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Session) dialAndHandshake() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	dialer := &net.Dialer{Timeout: s.cfg.ConnectTimeout}

	var conn net.Conn
	var err error
	if s.cfg.TLS {
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, &tls.Config{ServerName: s.cfg.Host})
	} else {
		conn, err = dialer.Dial("tcp", addr)
	}
	if err != nil {
		return cherr.Wrap(cherr.KindConnection, err, "dialing %s", addr)
	}

	s.conn = conn
	s.r = wire.NewReader(conn)
	s.w = wire.NewWriter(conn)

	if err := s.applyDeadline(s.cfg.SendTimeout, writeDeadline); err != nil {
		return err
	}

	if err := proto.WriteHello(s.w, proto.ClientHelloInfo{
		ClientName:      s.cfg.ClientName,
		VersionMajor:    s.cfg.ClientVersion[0],
		VersionMinor:    s.cfg.ClientVersion[1],
		ProtocolVersion: proto.MinClientRevision,
		Database:        s.cfg.Database,
		User:            s.cfg.User,
		Password:        s.cfg.Password,
	}); err != nil {
		return cherr.Wrap(cherr.KindIO, err, "writing Hello")
	}
	if err := s.w.Flush(); err != nil {
		return cherr.Wrap(cherr.KindIO, err, "flushing Hello")
	}

	if err := s.applyDeadline(s.cfg.RecvTimeout, readDeadline); err != nil {
		return err
	}

	kind, err := proto.ReadPacketKind(s.r)
	if err != nil {
		return cherr.Wrap(cherr.KindIO, err, "reading server Hello kind")
	}
	if kind == proto.ServerException {
		info, eerr := proto.ReadException(s.r)
		if eerr != nil {
			return eerr
		}

		return cherr.NewServer(info)
	}

	info, err := proto.ReadHello(s.r, kind)
	if err != nil {
		return err
	}
	s.serverInfo = info
	s.negotiatedRevision = proto.NegotiatedRevision(proto.MinClientRevision, info.Revision)

	if s.cfg.Logger != nil {
		s.cfg.Logger.Infof("connected to %s (server %s, revision %d)", addr, info.Name, info.Revision)
	}

	return nil
}

type deadlineKind int

const (
	readDeadline deadlineKind = iota
	writeDeadline
)

func (s *Session) applyDeadline(d time.Duration, kind deadlineKind) error {
	if s.conn == nil {
		return nil
	}

	var deadline time.Time
	if d > 0 {
		deadline = time.Now().Add(d)
	}

	var err error
	switch kind {
	case readDeadline:
		err = s.conn.SetReadDeadline(deadline)
	case writeDeadline:
		err = s.conn.SetWriteDeadline(deadline)
	}
	if err != nil {
		return cherr.Wrap(cherr.KindIO, err, "setting deadline")
	}

	return nil
}

// Execute issues sql, consumes all response packets, and discards any
// returned Data blocks (§4.7).
func (s *Session) Execute(sql string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, _, err := s.runQuery(sql)

	return err
}

// Query issues sql and returns the ordered sequence of non-empty Data
// blocks (and Totals/Extremes, reachable on the returned QueryResult).
func (s *Session) Query(sql string) (proto.QueryResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, _, err := s.runQuery(sql)

	return result, err
}

func (s *Session) runQuery(sql string) (proto.QueryResult, *block.Block, error) {
	if err := s.applyDeadline(s.cfg.SendTimeout, writeDeadline); err != nil {
		return proto.QueryResult{}, nil, err
	}

	req := proto.QueryRequest{
		ClientInfo: proto.ClientInfo{
			QueryKind:    1,
			Interface:    1,
			ClientName:   s.cfg.ClientName,
			ClientRevision: uint64(s.negotiatedRevision),
		},
		Stage:              proto.StageComplete,
		CompressionEnabled: s.cfg.Compression != compress.MethodNone,
		SQL:                sql,
	}
	if err := proto.WriteQuery(s.w, s.negotiatedRevision, req); err != nil {
		return proto.QueryResult{}, nil, cherr.Wrap(cherr.KindIO, err, "writing Query")
	}
	if err := s.w.Flush(); err != nil {
		return proto.QueryResult{}, nil, cherr.Wrap(cherr.KindIO, err, "flushing Query")
	}

	if err := s.applyDeadline(s.cfg.RecvTimeout, readDeadline); err != nil {
		return proto.QueryResult{}, nil, err
	}

	result, tmpl, err := proto.RunQueryResponseLoop(s.r, s.cfg.Compression, s.cfg.Logger)
	if err != nil {
		return result, nil, err
	}
	s.lastProgress = result.LastProgress
	s.lastProfile = result.LastProfile

	return result, tmpl, nil
}

// Insert runs the INSERT phase of §4.6.4: it issues "INSERT INTO table
// VALUES", captures the server's schema-template block, validates b's
// columns are a name-matching subset of the template, sends b, then the
// terminating empty Data block, and drains to EndOfStream.
func (s *Session) Insert(table string, b block.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, tmpl, err := s.runQuery(fmt.Sprintf("INSERT INTO %s VALUES", table))
	if err != nil {
		return err
	}
	if tmpl == nil {
		return cherr.New(cherr.KindProtocol, "server did not return an INSERT schema template")
	}

	if err := validateAgainstTemplate(*tmpl, b); err != nil {
		return err
	}

	if err := s.applyDeadline(s.cfg.SendTimeout, writeDeadline); err != nil {
		return err
	}
	if err := proto.WriteData(s.w, b, s.cfg.Compression); err != nil {
		return cherr.Wrap(cherr.KindIO, err, "writing INSERT data block")
	}
	if err := proto.WriteData(s.w, block.Empty, s.cfg.Compression); err != nil {
		return cherr.Wrap(cherr.KindIO, err, "writing INSERT terminator block")
	}
	if err := s.w.Flush(); err != nil {
		return cherr.Wrap(cherr.KindIO, err, "flushing INSERT data")
	}

	if err := s.applyDeadline(s.cfg.RecvTimeout, readDeadline); err != nil {
		return err
	}

	return proto.RunInsertFinish(s.r, s.cfg.Compression, s.cfg.Logger)
}

// validateAgainstTemplate enforces §4.7's "column names must be a subset;
// column types must be exactly the template types after type-text
// normalization" rule.
func validateAgainstTemplate(tmpl, b block.Block) error {
	byName := make(map[string]types.Type, len(tmpl.Columns))
	for _, c := range tmpl.Columns {
		byName[c.Name] = c.Type
	}

	for _, c := range b.Columns {
		tmplType, ok := byName[c.Name]
		if !ok {
			return cherr.New(cherr.KindValidation, "column %q is not part of the INSERT schema template", c.Name)
		}
		if tmplType.String() != c.Type.String() {
			return cherr.New(cherr.KindValidation, "column %q has type %s, template expects %s", c.Name, c.Type.String(), tmplType.String())
		}
	}

	return nil
}

// QueryWithCancel behaves like Query, but watches ctx: if it is done before
// the response loop completes, a blocked read is interrupted via the
// connection's read deadline, a Cancel packet is sent, and the response is
// drained to EndOfStream/Exception before returning ctx.Err() (§4.6.6). A
// cancel before any bytes are sent is a no-op that releases the lock (§5
// "Cancellation").
func (s *Session) QueryWithCancel(ctx context.Context, sql string) (proto.QueryResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-ctx.Done():
		return proto.QueryResult{}, ctx.Err()
	default:
	}

	stopWatch := make(chan struct{})
	defer close(stopWatch)

	go func() {
		select {
		case <-ctx.Done():
			if s.conn != nil {
				_ = s.conn.SetReadDeadline(time.Now())
			}
		case <-stopWatch:
		}
	}()

	result, _, err := s.runQuery(sql)
	if err == nil || ctx.Err() == nil {
		return result, err
	}

	// The blocked read was interrupted by ctx cancellation, not a real I/O
	// failure. Request server-side cancellation and drain before returning.
	if werr := s.applyDeadline(s.cfg.SendTimeout, writeDeadline); werr != nil {
		return proto.QueryResult{}, werr
	}
	if werr := proto.WriteCancel(s.w); werr != nil {
		return proto.QueryResult{}, cherr.Wrap(cherr.KindIO, werr, "writing Cancel")
	}
	if werr := s.w.Flush(); werr != nil {
		return proto.QueryResult{}, cherr.Wrap(cherr.KindIO, werr, "flushing Cancel")
	}
	if rerr := s.applyDeadline(s.cfg.RecvTimeout, readDeadline); rerr != nil {
		return proto.QueryResult{}, rerr
	}
	if derr := proto.DrainCancelled(s.r, s.cfg.Compression, s.cfg.Logger); derr != nil {
		return proto.QueryResult{}, derr
	}

	return proto.QueryResult{}, ctx.Err()
}

// Ping performs a Ping/Pong round trip (§4.6.5).
func (s *Session) Ping() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.applyDeadline(s.cfg.SendTimeout, writeDeadline); err != nil {
		return err
	}
	if err := s.applyDeadline(s.cfg.RecvTimeout, readDeadline); err != nil {
		return err
	}

	return proto.RunPing(s.w, s.r)
}

// Reset tears down the socket and re-runs the handshake; any query in
// progress is aborted (§4.6.5).
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		_ = s.conn.Close()
	}

	return s.dialAndHandshake()
}

// Close releases the underlying connection.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}

	err := s.conn.Close()
	s.conn = nil

	return err
}

// LastServerInfo returns the server's handshake Hello information.
func (s *Session) LastServerInfo() proto.ServerHelloInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.serverInfo
}

// LastProfile returns the most recently received ProfileInfo.
func (s *Session) LastProfile() proto.ProfileInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastProfile
}

// LastProgress returns the most recently received Progress counters.
func (s *Session) LastProgress() proto.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastProgress
}
