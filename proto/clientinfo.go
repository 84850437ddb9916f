package proto

import "github.com/olapdb/chconn/wire"

// ClientInfo accompanies a Query packet (§4.6.3): identifies the query
// initiator for the server's query log and system.processes. OpenTelemetry
// trace fields are carried as zero values when unused, as instructed
// literally by §4.6.3 ("emit zeros if unused") rather than omitted, since
// their presence on the wire is revision-gated, not field-gated.
type ClientInfo struct {
	QueryKind       byte // 0 = no query, 1 = initial query, 2 = secondary query
	InitialUser     string
	InitialQueryID  string
	InitialAddress  string
	Interface       byte // 1 = TCP
	OSUser          string
	ClientHostname  string
	ClientName      string
	ClientVersionMajor uint64
	ClientVersionMinor uint64
	ClientRevision     uint64

	// OpenTelemetry (revision >= RevisionOpenTelemetry); zero when unused.
	OTelTraceID  [16]byte
	OTelSpanID   [8]byte
	OTelTraceState string
	OTelTraceFlags byte
}

func (ci ClientInfo) write(w *wire.Writer, negotiatedRevision int) error {
	if err := w.Uint8(ci.QueryKind); err != nil {
		return err
	}
	if ci.QueryKind == 0 {
		return nil
	}

	for _, s := range []string{ci.InitialUser, ci.InitialQueryID, ci.InitialAddress} {
		if err := w.String(s); err != nil {
			return err
		}
	}
	if err := w.Uint8(ci.Interface); err != nil {
		return err
	}
	for _, s := range []string{ci.OSUser, ci.ClientHostname, ci.ClientName} {
		if err := w.String(s); err != nil {
			return err
		}
	}
	if err := w.Uvarint(ci.ClientVersionMajor); err != nil {
		return err
	}
	if err := w.Uvarint(ci.ClientVersionMinor); err != nil {
		return err
	}
	if err := w.Uvarint(ci.ClientRevision); err != nil {
		return err
	}

	if gate(negotiatedRevision, RevisionOpenTelemetry) {
		hasTrace := ci.OTelTraceID != [16]byte{}
		if err := w.Bool(hasTrace); err != nil {
			return err
		}
		if hasTrace {
			if err := w.WriteAll(ci.OTelTraceID[:]); err != nil {
				return err
			}
			if err := w.WriteAll(ci.OTelSpanID[:]); err != nil {
				return err
			}
			if err := w.String(ci.OTelTraceState); err != nil {
				return err
			}
			if err := w.Uint8(ci.OTelTraceFlags); err != nil {
				return err
			}
		}
	}

	return nil
}
