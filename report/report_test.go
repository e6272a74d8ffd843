package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darragh-downey/goo/report"
)

func TestReportAccumulatesInOrder(t *testing.T) {
	t.Parallel()

	var r report.Report
	r.Error(report.LexerError, "bad token")
	r.Warn(report.TypeError, "narrowing conversion")
	r.Remark(report.ParseError, "style nit")

	require.Len(t, r.Diagnostics(), 3)
	assert.Equal(t, report.Error, r.Diagnostics()[0].Level)
	assert.Equal(t, report.Warning, r.Diagnostics()[1].Level)
	assert.Equal(t, report.Remark, r.Diagnostics()[2].Level)
}

func TestHasErrorsIgnoresWarningsAndRemarks(t *testing.T) {
	t.Parallel()

	var r report.Report
	r.Warn(report.TypeError, "looks odd")
	r.Remark(report.ParseError, "style nit")
	assert.False(t, r.HasErrors())

	r.Error(report.TypeMismatch, "cannot mix signed-int and float")
	assert.True(t, r.HasErrors())
}

func TestPrimaryPositionFromAt(t *testing.T) {
	t.Parallel()

	var r report.Report
	pos := report.Position{File: "a.goo", Line: 3, Column: 7}
	r.Error(report.ParseError, "unexpected token", report.At(pos))

	got := r.Diagnostics()[0].Primary()
	assert.Equal(t, pos, got)
}

func TestStringRendersPositionKindAndMessage(t *testing.T) {
	t.Parallel()

	var r report.Report
	pos := report.Position{File: "a.goo", Line: 1, Column: 5}
	r.Error(report.TypeError, "cannot mix signed-int and float",
		report.At(pos),
		report.Note("add(1, 2) returned i32"),
		report.Help("convert the argument to i32 first"),
	)

	s := r.Diagnostics()[0].String()
	assert.Contains(t, s, "a.goo:1:5")
	assert.Contains(t, s, "error[type-error]")
	assert.Contains(t, s, "cannot mix signed-int and float")
	assert.Contains(t, s, "note: add(1, 2) returned i32")
	assert.Contains(t, s, "help: convert the argument to i32 first")
}

func TestLenTracksDiagnosticCount(t *testing.T) {
	t.Parallel()

	var r report.Report
	assert.Equal(t, 0, r.Len())
	r.Error(report.LexerError, "x")
	r.Warn(report.ParseError, "y")
	assert.Equal(t, 2, r.Len())
}
