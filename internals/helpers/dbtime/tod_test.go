package dbtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tod, err := Parse("09:30")
	require.NoError(t, err)
	assert.Equal(t, "09:30:00", tod.Format("15:04:05"))

	tod, err = Parse("23:59:59")
	require.NoError(t, err)
	assert.Equal(t, "23:59:59", tod.Format("15:04:05"))

	_, err = Parse("25:00")
	assert.Error(t, err)
}

func TestFromDropsDateAndZone(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	tod := From(time.Date(2025, 3, 10, 9, 30, 15, 0, loc))
	assert.Equal(t, "09:30:15", tod.Format("15:04:05"))
}

func TestScanAndValue(t *testing.T) {
	var tod Tod
	require.NoError(t, tod.Scan("08:00:00"))
	v, err := tod.Value()
	require.NoError(t, err)
	assert.Equal(t, "08:00:00", v)

	require.NoError(t, tod.Scan([]byte("10:15")))
	assert.Equal(t, "10:15:00", tod.Format("15:04:05"))

	require.NoError(t, tod.Scan(nil))
	v, err = tod.Value()
	require.NoError(t, err)
	assert.Equal(t, "00:00:00", v)

	assert.Error(t, tod.Scan(42))
}

func TestCompare(t *testing.T) {
	a, _ := Parse("09:00")
	b, _ := Parse("10:30")

	assert.True(t, a.BeforeTod(b))
	assert.True(t, b.AfterTod(a))
	assert.False(t, a.AfterTod(a))
	assert.False(t, a.BeforeTod(a))
}

func TestJSONRoundTrip(t *testing.T) {
	tod, _ := Parse("09:30")
	raw, err := json.Marshal(tod)
	require.NoError(t, err)
	assert.Equal(t, `"09:30:00"`, string(raw))

	var back Tod
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, "09:30:00", back.Format("15:04:05"))
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	// 2025-03-10 02:00 WIB = 2025-03-09 19:00 UTC; batas hari ikut UTC
	d := DateOnly(time.Date(2025, 3, 10, 2, 0, 0, 0, loc))
	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), d)
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	clock := FixedClock(at)
	assert.Equal(t, at, clock())
	assert.Equal(t, at, clock())
}
