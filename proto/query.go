package proto

import (
	"github.com/olapdb/chconn/block"
	"github.com/olapdb/chconn/compress"
	"github.com/olapdb/chconn/wire"
)

// QueryRequest is the outgoing Query packet body (§4.6.3).
type QueryRequest struct {
	QueryID            string
	ClientInfo         ClientInfo
	Stage              uint64 // always StageComplete on this client
	CompressionEnabled bool
	SQL                string
}

// WriteQuery sends the Query packet, its settings (always empty — §4.7
// "Configuration" carries no server-side session settings), the empty
// interserver secret when revision-gated, and the trailing sentinel empty
// Block that signals "no input data" (§4.6.3).
func WriteQuery(w *wire.Writer, negotiatedRevision int, q QueryRequest) error {
	if err := w.Uvarint(uint64(ClientQuery)); err != nil {
		return err
	}
	if err := w.String(q.QueryID); err != nil {
		return err
	}
	if err := q.ClientInfo.write(w, negotiatedRevision); err != nil {
		return err
	}

	// Settings: an empty key-value list is encoded as a single terminating
	// empty-string "key", matching the server's settings sub-protocol.
	if err := w.String(""); err != nil {
		return err
	}

	if gate(negotiatedRevision, RevisionInterserverSecret) {
		if err := w.String(""); err != nil { // interserver secret
			return err
		}
	}

	if err := w.Uvarint(q.Stage); err != nil {
		return err
	}
	if err := w.Bool(q.CompressionEnabled); err != nil {
		return err
	}
	if err := w.String(q.SQL); err != nil {
		return err
	}

	return block.Encode(w, block.Empty)
}

// WritePing sends a Ping packet; the caller then reads for Pong.
func WritePing(w *wire.Writer) error {
	return w.Uvarint(uint64(ClientPing))
}

// WriteCancel sends a Cancel packet, requesting the server stop the
// current SELECT; the caller must still drain to EndOfStream/Exception
// (§4.6.6).
func WriteCancel(w *wire.Writer) error {
	return w.Uvarint(uint64(ClientCancel))
}

// WriteData sends a Data packet carrying b — used both for the INSERT
// phase's user data blocks and its terminating empty Block (§4.6.4). b is
// wrapped in the §4.2 compression envelope when method is not
// compress.MethodNone.
func WriteData(w *wire.Writer, b block.Block, method compress.Method) error {
	if err := w.Uvarint(uint64(ClientData)); err != nil {
		return err
	}
	// Empty table name, matching the server's per-packet external-table tag.
	if err := w.String(""); err != nil {
		return err
	}

	return writeBlock(w, b, method)
}
