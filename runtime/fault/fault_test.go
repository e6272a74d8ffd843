package fault_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darragh-downey/goo/report"
	"github.com/darragh-downey/goo/runtime/fault"
)

func TestContextStartsWithNoFault(t *testing.T) {
	t.Parallel()

	c := fault.NewContext()
	assert.False(t, c.Failed())
	assert.Nil(t, c.Record())
}

func TestFailRecordsKindAndMessage(t *testing.T) {
	t.Parallel()

	c := fault.NewContext()
	c.Fail(fault.ErrOutOfMemory, "allocation of %d bytes failed", 128)

	require.True(t, c.Failed())
	rec := c.Record()
	require.NotNil(t, rec)
	assert.Equal(t, report.OutOfMemory, rec.Code)
	assert.Equal(t, "allocation of 128 bytes failed", rec.Message)
	assert.NotEmpty(t, rec.File)
	assert.Positive(t, rec.Line)
}

func TestSuccessfulCallsDoNotClearAPriorFault(t *testing.T) {
	t.Parallel()

	c := fault.NewContext()
	c.Fail(fault.ErrDoubleFree, "pointer already freed")
	// A subsequent successful operation does not call Fail or Clear; the
	// record must still reflect the earlier failure until the caller
	// explicitly clears it.
	require.True(t, c.Failed())

	c.Clear()
	assert.False(t, c.Failed())
	assert.Nil(t, c.Record())
}

func TestUnmappedErrorFallsBackToTypeError(t *testing.T) {
	t.Parallel()

	c := fault.NewContext()
	c.Fail(assertCustomErr{}, "custom failure")
	require.True(t, c.Failed())
	assert.Equal(t, report.TypeError, c.Record().Code)
}

type assertCustomErr struct{}

func (assertCustomErr) Error() string { return "custom" }
