package proto

import (
	"github.com/olapdb/chconn/cherr"
	"github.com/olapdb/chconn/wire"
)

// ClientHelloInfo is the outgoing Hello packet body (§4.6.2 step 1).
type ClientHelloInfo struct {
	ClientName      string
	VersionMajor    uint64
	VersionMinor    uint64
	ProtocolVersion uint64
	Database        string
	User            string
	Password        string
}

// WriteHello sends the client Hello packet.
func WriteHello(w *wire.Writer, info ClientHelloInfo) error {
	if err := w.Uvarint(uint64(ClientHello)); err != nil {
		return err
	}
	if err := w.String(info.ClientName); err != nil {
		return err
	}
	if err := w.Uvarint(info.VersionMajor); err != nil {
		return err
	}
	if err := w.Uvarint(info.VersionMinor); err != nil {
		return err
	}
	if err := w.Uvarint(info.ProtocolVersion); err != nil {
		return err
	}
	if err := w.String(info.Database); err != nil {
		return err
	}
	if err := w.String(info.User); err != nil {
		return err
	}

	return w.String(info.Password)
}

// ServerHelloInfo is the parsed server Hello response (§4.6.2 step 2).
type ServerHelloInfo struct {
	Name            string
	VersionMajor    uint64
	VersionMinor    uint64
	Revision        uint64
	Timezone        string // set iff Revision >= RevisionServerTimezone
	DisplayName     string // set iff Revision >= RevisionDisplayName
}

// ReadHello reads and parses the server's handshake response. packetKind is
// the server packet kind already peeled off the stream by the caller; an
// Exception here means the handshake failed (§4.6.2 step 3).
func ReadHello(r *wire.Reader, packetKind byte) (ServerHelloInfo, error) {
	if packetKind != ServerHello {
		return ServerHelloInfo{}, cherr.New(cherr.KindProtocol, "expected server Hello, got packet kind %d", packetKind)
	}

	var info ServerHelloInfo
	var err error

	if info.Name, err = r.String(); err != nil {
		return info, err
	}
	if info.VersionMajor, err = r.Uvarint("server version major"); err != nil {
		return info, err
	}
	if info.VersionMinor, err = r.Uvarint("server version minor"); err != nil {
		return info, err
	}
	if info.Revision, err = r.Uvarint("server revision"); err != nil {
		return info, err
	}

	if gate(int(info.Revision), RevisionServerTimezone) {
		if info.Timezone, err = r.String(); err != nil {
			return info, err
		}
	}
	if gate(int(info.Revision), RevisionDisplayName) {
		if info.DisplayName, err = r.String(); err != nil {
			return info, err
		}
	}

	return info, nil
}

// NegotiatedRevision is min(clientRevision, serverRevision) per §6.
func NegotiatedRevision(clientRevision, serverRevision uint64) int {
	if clientRevision < serverRevision {
		return int(clientRevision)
	}

	return int(serverRevision)
}
