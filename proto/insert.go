package proto

import (
	"github.com/olapdb/chconn/cherr"
	"github.com/olapdb/chconn/compress"
	"github.com/olapdb/chconn/wire"
)

// RunInsertFinish drives the post-INSERT response loop to completion
// (§4.6.4): Progress/Log/ProfileEvents may be interleaved before
// EndOfStream; any Exception ends the session. method is the negotiated
// compression method (§4.2); Log rows are parsed and routed to logger.
func RunInsertFinish(r *wire.Reader, method compress.Method, logger Logger) error {
	for {
		kind, err := ReadPacketKind(r)
		if err != nil {
			return err
		}

		switch kind {
		case ServerProgress:
			if _, err := ReadProgress(r); err != nil {
				return err
			}
		case ServerProfileEvents:
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
		case ServerException:
			info, err := ReadException(r)
			if err != nil {
				return err
			}

			return cherr.NewServerMidStream(info)
		case ServerEndOfStream:
			return nil
		default:
			return cherr.New(cherr.KindProtocol, "unexpected server packet kind %d finishing INSERT", kind)
		}
	}
}
