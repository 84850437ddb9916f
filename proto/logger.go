package proto

import (
	"log"
	"time"

	"github.com/olapdb/chconn/block"
	"github.com/olapdb/chconn/cherr"
)

// LogRow is one decoded row of a server Log packet (§4.6.3: "each row is
// {time, severity, query_id, thread_id, priority, source, text}").
type LogRow struct {
	Time     time.Time
	Severity int32
	QueryID  string
	ThreadID uint64
	Priority int32
	Source   string
	Text     string
}

// Logger routes connection lifecycle events and server Log packets (spec
// §6's "Logger(severity, fields…)" external collaborator).
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// stdLogger adapts the standard library's log.Default() to Logger.
type stdLogger struct{}

func (stdLogger) Debugf(format string, args ...any) { log.Printf("DEBUG "+format, args...) }
func (stdLogger) Infof(format string, args ...any)  { log.Printf("INFO "+format, args...) }
func (stdLogger) Warnf(format string, args ...any)  { log.Printf("WARN "+format, args...) }
func (stdLogger) Errorf(format string, args ...any) { log.Printf("ERROR "+format, args...) }

// DefaultLogger returns the stdlib-backed Logger a Session uses when it
// isn't configured with one explicitly.
func DefaultLogger() Logger {
	return stdLogger{}
}

// logColumnNames are the seven named fields a server Log block's columns
// are matched against by name, per §4.6.3.
var logColumnNames = []string{"time", "severity", "query_id", "thread_id", "priority", "source", "text"}

// parseLogRows decodes a Log block's rows into LogRow values, looking up
// each of the seven named columns by name rather than assuming a fixed
// column order.
func parseLogRows(b block.Block) ([]LogRow, error) {
	cols := make(map[string]block.Column, len(logColumnNames))
	for _, col := range b.Columns {
		cols[col.Name] = col
	}

	byName := make(map[string]block.Column, len(logColumnNames))
	for _, name := range logColumnNames {
		col, ok := cols[name]
		if !ok {
			return nil, cherr.New(cherr.KindProtocol, "Log block missing %q column", name)
		}
		byName[name] = col
	}

	n := b.NRows()
	rows := make([]LogRow, n)
	for i := 0; i < n; i++ {
		rows[i] = LogRow{
			Time:     time.Unix(byName["time"].Values[i].Ticks, 0).UTC(),
			Severity: int32(byName["severity"].Values[i].Int),
			QueryID:  byName["query_id"].Values[i].Str,
			ThreadID: byName["thread_id"].Values[i].Uint,
			Priority: int32(byName["priority"].Values[i].Int),
			Source:   byName["source"].Values[i].Str,
			Text:     byName["text"].Values[i].Str,
		}
	}

	return rows, nil
}

// routeLogRow dispatches row to logger at a severity roughly matching
// ClickHouse's own Poco-derived severity numbering (1-3 error-and-worse,
// 4 warning, 5-6 notice/information, >6 debug/trace).
func routeLogRow(logger Logger, row LogRow) {
	if logger == nil {
		return
	}

	switch {
	case row.Severity <= 3:
		logger.Errorf("[%s] query=%s thread=%d: %s", row.Source, row.QueryID, row.ThreadID, row.Text)
	case row.Severity == 4:
		logger.Warnf("[%s] query=%s thread=%d: %s", row.Source, row.QueryID, row.ThreadID, row.Text)
	case row.Severity <= 6:
		logger.Infof("[%s] query=%s thread=%d: %s", row.Source, row.QueryID, row.ThreadID, row.Text)
	default:
		logger.Debugf("[%s] query=%s thread=%d: %s", row.Source, row.QueryID, row.ThreadID, row.Text)
	}
}
