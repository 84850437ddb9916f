package proto

import (
	"github.com/olapdb/chconn/block"
	"github.com/olapdb/chconn/cherr"
	"github.com/olapdb/chconn/compress"
	"github.com/olapdb/chconn/wire"
)

// Progress reports incremental execution counters (§4.6.3 "Progress").
type Progress struct {
	ReadRows      uint64
	ReadBytes     uint64
	TotalRowsToRead uint64
	WrittenRows   uint64
	WrittenBytes  uint64
	ElapsedNs     uint64
}

// ReadProgress reads a Progress packet body: read_rows, read_bytes,
// total_rows, written_rows and written_bytes. The written_rows/written_bytes
// fields are only sent by servers at RevisionDisplayName or newer; since
// MinClientRevision already exceeds that threshold, this client always
// reads them. No elapsed-time field is read.
func ReadProgress(r *wire.Reader) (Progress, error) {
	var p Progress
	var err error

	if p.ReadRows, err = r.Uvarint("progress read_rows"); err != nil {
		return p, err
	}
	if p.ReadBytes, err = r.Uvarint("progress read_bytes"); err != nil {
		return p, err
	}
	if p.TotalRowsToRead, err = r.Uvarint("progress total_rows"); err != nil {
		return p, err
	}
	if p.WrittenRows, err = r.Uvarint("progress written_rows"); err != nil {
		return p, err
	}
	if p.WrittenBytes, err = r.Uvarint("progress written_bytes"); err != nil {
		return p, err
	}

	return p, nil
}

// ProfileInfo reports result-set statistics (§4.6.3 "ProfileInfo").
type ProfileInfo struct {
	Rows                      uint64
	Blocks                    uint64
	Bytes                     uint64
	AppliedLimit              bool
	RowsBeforeLimit           uint64
	CalculatedRowsBeforeLimit bool
}

func ReadProfileInfo(r *wire.Reader) (ProfileInfo, error) {
	var p ProfileInfo
	var err error

	if p.Rows, err = r.Uvarint("profile rows"); err != nil {
		return p, err
	}
	if p.Blocks, err = r.Uvarint("profile blocks"); err != nil {
		return p, err
	}
	if p.Bytes, err = r.Uvarint("profile bytes"); err != nil {
		return p, err
	}
	if p.AppliedLimit, err = r.Bool(); err != nil {
		return p, err
	}
	if p.RowsBeforeLimit, err = r.Uvarint("profile rows_before_limit"); err != nil {
		return p, err
	}
	if p.CalculatedRowsBeforeLimit, err = r.Bool(); err != nil {
		return p, err
	}

	return p, nil
}

// ReadException parses a server Exception packet, recursing through any
// nested causes (outermost first, per §3's ServerInfo.Nested).
func ReadException(r *wire.Reader) (cherr.ServerInfo, error) {
	var info cherr.ServerInfo
	var err error
	var code int32

	if code, err = r.Int32(); err != nil {
		return info, err
	}
	info.Code = code
	if info.Name, err = r.String(); err != nil {
		return info, err
	}
	if info.Message, err = r.String(); err != nil {
		return info, err
	}
	if info.StackTrace, err = r.String(); err != nil {
		return info, err
	}

	hasNested, err := r.Bool()
	if err != nil {
		return info, err
	}
	if hasNested {
		nested, err := ReadException(r)
		if err != nil {
			return info, err
		}
		deeper := nested.Nested
		nested.Nested = nil
		info.Nested = append(append(info.Nested, nested), deeper...)
	}

	return info, nil
}

// ReadPacketKind reads the leading varint packet-kind tag of a server
// packet.
func ReadPacketKind(r *wire.Reader) (byte, error) {
	v, err := r.Uvarint("server packet kind")
	if err != nil {
		return 0, err
	}

	return byte(v), nil
}

// QueryResult accumulates the response loop's output (§4.6.3).
type QueryResult struct {
	Blocks       []block.Block
	Totals       []block.Block
	Extremes     []block.Block
	LastProgress Progress
	LastProfile  ProfileInfo
	LogRows      []LogRow
	TableColumns []string
}

// RunQueryResponseLoop drives the Query response loop until EndOfStream,
// implementing the pseudocode of §4.6.3. If the first Data packet received
// has n_columns > 0 and n_rows == 0, the loop stops immediately and
// returns that block as the INSERT schema template via insertTemplate,
// handing control to the caller for the INSERT phase (§4.6.4) instead of
// continuing the SELECT loop. method is the negotiated compression method
// (§4.2); every Data/Totals/Extremes/Log/ProfileEvents block is read
// through it. Each Log block's rows are parsed and routed to logger as they
// arrive, in addition to being collected onto QueryResult.LogRows.
func RunQueryResponseLoop(r *wire.Reader, method compress.Method, logger Logger) (result QueryResult, insertTemplate *block.Block, err error) {
	sawData := false

	for {
		kind, kerr := ReadPacketKind(r)
		if kerr != nil {
			return result, nil, kerr
		}

		switch kind {
		case ServerData:
			b, berr := readBlock(r, method)
			if berr != nil {
				return result, nil, berr
			}
			if len(b.Columns) > 0 && b.NRows() == 0 && !sawData {
				return result, &b, nil
			}
			sawData = true
			if b.NRows() > 0 {
				result.Blocks = append(result.Blocks, b)
			}
		case ServerProgress:
			p, perr := ReadProgress(r)
			if perr != nil {
				return result, nil, perr
			}
			result.LastProgress = p
		case ServerProfileInfo:
			p, perr := ReadProfileInfo(r)
			if perr != nil {
				return result, nil, perr
			}
			result.LastProfile = p
		case ServerProfileEvents:
			if _, perr := readBlock(r, method); perr != nil {
				return result, nil, perr
			}
		case ServerTotals:
			b, berr := readBlock(r, method)
			if berr != nil {
				return result, nil, berr
			}
			result.Totals = append(result.Totals, b)
		case ServerExtremes:
			b, berr := readBlock(r, method)
			if berr != nil {
				return result, nil, berr
			}
			result.Extremes = append(result.Extremes, b)
		case ServerTableColumns:
			name, nerr := r.String()
			if nerr != nil {
				return result, nil, nerr
			}
			desc, derr := r.String()
			if derr != nil {
				return result, nil, derr
			}
			result.TableColumns = append(result.TableColumns, name, desc)
		case ServerLog:
			b, berr := readBlock(r, method)
			if berr != nil {
				return result, nil, berr
			}
			rows, rerr := parseLogRows(b)
			if rerr != nil {
				return result, nil, rerr
			}
			result.LogRows = append(result.LogRows, rows...)
			for _, row := range rows {
				routeLogRow(logger, row)
			}
		case ServerException:
			info, eerr := ReadException(r)
			if eerr != nil {
				return result, nil, eerr
			}
			if sawData {
				return result, nil, cherr.NewServerMidStream(info)
			}

			return result, nil, cherr.NewServer(info)
		case ServerEndOfStream:
			return result, nil, nil
		default:
			return result, nil, cherr.New(cherr.KindProtocol, "unexpected server packet kind %d mid-query", kind)
		}
	}
}

// RunPing sends Ping and waits for Pong (§4.6.5).
func RunPing(w *wire.Writer, r *wire.Reader) error {
	if err := WritePing(w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}

	kind, err := ReadPacketKind(r)
	if err != nil {
		return err
	}
	if kind == ServerException {
		info, eerr := ReadException(r)
		if eerr != nil {
			return eerr
		}

		return cherr.NewServer(info)
	}
	if kind != ServerPong {
		return cherr.New(cherr.KindProtocol, "expected Pong, got packet kind %d", kind)
	}

	return nil
}

// DrainCancelled reads packets until EndOfStream or Exception, discarding
// Data/Progress/Log/ProfileEvents in between, per §4.6.6's "must still
// drain" rule. method is the negotiated compression method (§4.2); Log rows
// are still parsed and routed to logger as they arrive.
func DrainCancelled(r *wire.Reader, method compress.Method, logger Logger) error {
	for {
		kind, err := ReadPacketKind(r)
		if err != nil {
			return err
		}

		switch kind {
		case ServerData, ServerTotals, ServerExtremes, ServerProfileEvents:
			if _, err := readBlock(r, method); err != nil {
				return err
			}
		case ServerLog:
			b, berr := readBlock(r, method)
			if berr != nil {
				return berr
			}
			rows, rerr := parseLogRows(b)
			if rerr != nil {
				return rerr
			}
			for _, row := range rows {
				routeLogRow(logger, row)
			}
		case ServerProgress:
			if _, err := ReadProgress(r); err != nil {
				return err
			}
		case ServerProfileInfo:
			if _, err := ReadProfileInfo(r); err != nil {
				return err
			}
		case ServerTableColumns:
			if _, err := r.String(); err != nil {
				return err
			}
			if _, err := r.String(); err != nil {
				return err
			}
		case ServerException:
			info, eerr := ReadException(r)
			if eerr != nil {
				return eerr
			}

			return cherr.NewServer(info)
		case ServerEndOfStream:
			return nil
		default:
			return cherr.New(cherr.KindProtocol, "unexpected server packet kind %d while draining", kind)
		}
	}
}
