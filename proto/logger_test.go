package proto

import (
	"testing"
	"time"

	"github.com/olapdb/chconn/block"
	"github.com/olapdb/chconn/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeLogBlock(t *testing.T, severity int32, text string) block.Block {
	t.Helper()

	u64, _ := types.Parse("UInt64")
	i32, _ := types.Parse("Int32")
	str, _ := types.Parse("String")
	dt, _ := types.Parse("DateTime")

	col := func(name string, ty types.Type, v types.LogicalValue) block.Column {
		return block.Column{Name: name, Type: ty, Values: []types.LogicalValue{v}}
	}

	return block.Block{Columns: []block.Column{
		col("time", dt, types.LogicalValue{Kind: types.VDateTime, Ticks: 1700000000}),
		col("severity", i32, types.LogicalValue{Kind: types.VInt, Int: int64(severity)}),
		col("query_id", str, types.LogicalValue{Kind: types.VString, Str: "q-1"}),
		col("thread_id", u64, types.LogicalValue{Kind: types.VUint, Uint: 7}),
		col("priority", i32, types.LogicalValue{Kind: types.VInt, Int: 0}),
		col("source", str, types.LogicalValue{Kind: types.VString, Str: "Executor"}),
		col("text", str, types.LogicalValue{Kind: types.VString, Str: text}),
	}}
}

func TestParseLogRows(t *testing.T) {
	b := makeLogBlock(t, 4, "slow query")

	rows, err := parseLogRows(b)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, int32(4), row.Severity)
	assert.Equal(t, "q-1", row.QueryID)
	assert.Equal(t, uint64(7), row.ThreadID)
	assert.Equal(t, "Executor", row.Source)
	assert.Equal(t, "slow query", row.Text)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), row.Time)
}

func TestParseLogRows_MissingColumn(t *testing.T) {
	b := makeLogBlock(t, 4, "x")
	b.Columns = b.Columns[:len(b.Columns)-1] // drop "text"

	_, err := parseLogRows(b)
	require.Error(t, err)
}

type capturingLogger struct {
	debug, info, warn, errs []string
}

func (c *capturingLogger) Debugf(format string, args ...any) { c.debug = append(c.debug, format) }
func (c *capturingLogger) Infof(format string, args ...any)  { c.info = append(c.info, format) }
func (c *capturingLogger) Warnf(format string, args ...any)  { c.warn = append(c.warn, format) }
func (c *capturingLogger) Errorf(format string, args ...any) { c.errs = append(c.errs, format) }

func TestRouteLogRow_SeverityTiers(t *testing.T) {
	cases := []struct {
		severity int32
		check    func(*capturingLogger) int
	}{
		{1, func(c *capturingLogger) int { return len(c.errs) }},
		{4, func(c *capturingLogger) int { return len(c.warn) }},
		{6, func(c *capturingLogger) int { return len(c.info) }},
		{8, func(c *capturingLogger) int { return len(c.debug) }},
	}

	for _, tc := range cases {
		logger := &capturingLogger{}
		routeLogRow(logger, LogRow{Severity: tc.severity})
		assert.Equal(t, 1, tc.check(logger))
	}
}

func TestRouteLogRow_NilLoggerNoPanic(t *testing.T) {
	assert.NotPanics(t, func() { routeLogRow(nil, LogRow{Severity: 1}) })
}
