package session

import (
	"net"
	"testing"
	"time"

	"github.com/olapdb/chconn/block"
	"github.com/olapdb/chconn/proto"
	"github.com/olapdb/chconn/types"
	"github.com/olapdb/chconn/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServerHandshake drains a client Hello off conn and replies with a
// server Hello, matching §4.6.2 well enough to let Connect succeed.
func fakeServerHandshake(t *testing.T, conn net.Conn) (*wire.Reader, *wire.Writer) {
	t.Helper()

	r := wire.NewReader(conn)
	w := wire.NewWriter(conn)

	_, err := r.Uvarint("client hello kind")
	require.NoError(t, err)
	_, err = r.String() // client name
	require.NoError(t, err)
	_, err = r.Uvarint("version major")
	require.NoError(t, err)
	_, err = r.Uvarint("version minor")
	require.NoError(t, err)
	_, err = r.Uvarint("protocol version")
	require.NoError(t, err)
	_, err = r.String() // database
	require.NoError(t, err)
	_, err = r.String() // user
	require.NoError(t, err)
	_, err = r.String() // password
	require.NoError(t, err)

	require.NoError(t, w.Uvarint(uint64(proto.ServerHello)))
	require.NoError(t, w.String("OLAPDB"))
	require.NoError(t, w.Uvarint(23))
	require.NoError(t, w.Uvarint(8))
	require.NoError(t, w.Uvarint(proto.MinClientRevision))
	require.NoError(t, w.String("UTC"))
	require.NoError(t, w.String("test-server"))
	require.NoError(t, w.Flush())

	return r, w
}

func dialedSession(t *testing.T) (*Session, net.Conn) {
	t.Helper()

	clientConn, serverConn := net.Pipe()

	cfg := DefaultConfig()
	cfg.ConnectTimeout = time.Second

	s := &Session{cfg: cfg}

	done := make(chan struct{})
	go func() {
		fakeServerHandshake(t, serverConn)
		close(done)
	}()

	s.conn = clientConn
	s.r = wire.NewReader(clientConn)
	s.w = wire.NewWriter(clientConn)
	require.NoError(t, s.performHandshakeOverExistingConn())

	<-done

	return s, serverConn
}

// performHandshakeOverExistingConn runs the Hello exchange without dialing,
// for tests that supply their own net.Pipe connection.
func (s *Session) performHandshakeOverExistingConn() error {
	if err := proto.WriteHello(s.w, proto.ClientHelloInfo{
		ClientName:      s.cfg.ClientName,
		VersionMajor:    s.cfg.ClientVersion[0],
		VersionMinor:    s.cfg.ClientVersion[1],
		ProtocolVersion: proto.MinClientRevision,
		Database:        s.cfg.Database,
		User:            s.cfg.User,
		Password:        s.cfg.Password,
	}); err != nil {
		return err
	}
	if err := s.w.Flush(); err != nil {
		return err
	}

	kind, err := proto.ReadPacketKind(s.r)
	if err != nil {
		return err
	}
	info, err := proto.ReadHello(s.r, kind)
	if err != nil {
		return err
	}
	s.serverInfo = info
	s.negotiatedRevision = proto.NegotiatedRevision(proto.MinClientRevision, info.Revision)

	return nil
}

func TestSession_Handshake(t *testing.T) {
	s, serverConn := dialedSession(t)
	defer serverConn.Close()

	assert.Equal(t, "OLAPDB", s.LastServerInfo().Name)
	assert.Equal(t, "test-server", s.LastServerInfo().DisplayName)
}

func TestSession_Ping(t *testing.T) {
	s, serverConn := dialedSession(t)
	defer serverConn.Close()

	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		r := wire.NewReader(serverConn)
		w := wire.NewWriter(serverConn)

		kind, err := proto.ReadPacketKind(r)
		require.NoError(t, err)
		assert.Equal(t, proto.ClientPing, kind)

		require.NoError(t, w.Uvarint(uint64(proto.ServerPong)))
		require.NoError(t, w.Flush())
	}()

	require.NoError(t, s.Ping())
	<-serverDone
}

func TestSession_Execute_SimpleSelect(t *testing.T) {
	s, serverConn := dialedSession(t)
	defer serverConn.Close()

	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		r := wire.NewReader(serverConn)
		w := wire.NewWriter(serverConn)

		kind, err := proto.ReadPacketKind(r)
		require.NoError(t, err)
		assert.Equal(t, proto.ClientQuery, kind)

		_, err = r.String() // query id
		require.NoError(t, err)
		_, err = r.Uint8() // query kind
		require.NoError(t, err)
		_, err = r.String() // initial user
		require.NoError(t, err)
		_, err = r.String() // initial query id
		require.NoError(t, err)
		_, err = r.String() // initial address
		require.NoError(t, err)
		_, err = r.Uint8() // interface
		require.NoError(t, err)
		_, err = r.String() // os user
		require.NoError(t, err)
		_, err = r.String() // client hostname
		require.NoError(t, err)
		_, err = r.String() // client name
		require.NoError(t, err)
		_, err = r.Uvarint("client version major")
		require.NoError(t, err)
		_, err = r.Uvarint("client version minor")
		require.NoError(t, err)
		_, err = r.Uvarint("client revision")
		require.NoError(t, err)
		_, err = r.Bool() // has otel trace
		require.NoError(t, err)
		_, err = r.String() // settings terminator
		require.NoError(t, err)
		_, err = r.String() // interserver secret
		require.NoError(t, err)
		_, err = r.Uvarint("stage")
		require.NoError(t, err)
		_, err = r.Bool() // compression
		require.NoError(t, err)
		_, err = r.String() // sql
		require.NoError(t, err)
		_, err = block.Decode(r) // empty sentinel block
		require.NoError(t, err)

		require.NoError(t, w.Uvarint(uint64(proto.ServerEndOfStream)))
		require.NoError(t, w.Flush())
	}()

	require.NoError(t, s.Execute("SELECT 1"))
	<-serverDone
}

func TestValidateAgainstTemplate_RejectsUnknownColumn(t *testing.T) {
	u64, _ := types.Parse("UInt64")
	tmpl := block.Block{Columns: []block.Column{{Name: "a", Type: u64}}}
	b := block.Block{Columns: []block.Column{{Name: "b", Type: u64}}}

	err := validateAgainstTemplate(tmpl, b)
	require.Error(t, err)
}

func TestValidateAgainstTemplate_RejectsTypeMismatch(t *testing.T) {
	u64, _ := types.Parse("UInt64")
	str, _ := types.Parse("String")
	tmpl := block.Block{Columns: []block.Column{{Name: "a", Type: u64}}}
	b := block.Block{Columns: []block.Column{{Name: "a", Type: str}}}

	err := validateAgainstTemplate(tmpl, b)
	require.Error(t, err)
}

func TestValidateAgainstTemplate_AcceptsSubset(t *testing.T) {
	u64, _ := types.Parse("UInt64")
	str, _ := types.Parse("String")
	tmpl := block.Block{Columns: []block.Column{{Name: "a", Type: u64}, {Name: "b", Type: str}}}
	b := block.Block{Columns: []block.Column{{Name: "b", Type: str}}}

	require.NoError(t, validateAgainstTemplate(tmpl, b))
}
