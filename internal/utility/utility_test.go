package utility

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToFloat64(t *testing.T) {
	d, err := primitive.ParseDecimal128("12.345")
	assert.NoError(t, err)

	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{int32(5), 5, true},
		{int64(7), 7, true},
		{2.5, 2.5, true},
		{d, 12.345, true},
		{"12", 0, false},
		{nil, 0, false},
	}
	for _, c := range cases {
		got, ok := ToFloat64(c.in)
		assert.Equal(t, c.ok, ok, "%v", c.in)
		assert.InDelta(t, c.want, got, 1e-9, "%v", c.in)
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 33.33, Round2(100.0/3))
	assert.Equal(t, 1.01, Round2(1.005))
	assert.Equal(t, -2.5, Round2(-2.499999))
	assert.Equal(t, 0.0, Round2(math.NaN()))
	assert.Equal(t, 0.0, Round2(math.Inf(1)))
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitCSV(" b, a ,,a"))
	assert.Empty(t, SplitCSV(" , "))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Partially Received", Label("partially_received"))
	assert.Equal(t, "Confirmed", Label("confirmed"))
	assert.Equal(t, "", Label(""))
}

func TestParseDateBound(t *testing.T) {
	start, ok := ParseDateBound("2024-01-31", time.UTC, false)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), start)

	end, ok := ParseDateBound("2024-01-31", time.UTC, true)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC), end)

	rfc, ok := ParseDateBound("2024-01-31T10:00:00Z", time.UTC, true)
	assert.True(t, ok)
	assert.Equal(t, 10, rfc.Hour())

	_, ok = ParseDateBound("31/01/2024", time.UTC, false)
	assert.False(t, ok)
}

func TestParseDateBound_DSTDay(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2024-03-10 chỉ có 23 giờ
	end, ok := ParseDateBound("2024-03-10", ny, true)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 10, 23, 59, 59, int(999*time.Millisecond), ny), end)

	// 2024-11-03 có 25 giờ
	end, ok = ParseDateBound("2024-11-03", ny, true)
	require.True(t, ok)
	assert.Equal(t, 3, end.Day())
	assert.Equal(t, 23, end.Hour())
}
