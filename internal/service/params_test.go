package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTZOffset(t *testing.T) {
	tests := []struct {
		raw        string
		wantOffset int
		wantErr    bool
	}{
		{"", 0, false},
		{"+00:00", 0, false},
		{"+05:30", 5*3600 + 30*60, false},
		{"-08:00", -8 * 3600, false},
		{"+14:00", 14 * 3600, false},
		{"+14:30", 0, true},
		{"+05:60", 0, true},
		{"0530", 0, true},
		{"PST", 0, true},
		{"+5:30", 0, true},
		{"+-5:00", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			loc, err := ParseTZOffset(tt.raw)
			if tt.wantErr {
				var paramErr *ParamError
				require.ErrorAs(t, err, &paramErr)
				assert.Equal(t, ParamTimezone, paramErr.Kind)
				return
			}
			require.NoError(t, err)
			_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, loc).Zone()
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestParseDate(t *testing.T) {
	loc := time.FixedZone("UTC-05:00", -5*3600)

	got, err := ParseDate("start_date", "2024-03-01", loc)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 3, 1, 5, 0, 0, 0, time.UTC)))

	got, err = ParseDate("start_date", "2024-03-01T02:00:00Z", loc)
	require.NoError(t, err)
	assert.Equal(t, 29, got.Day(), "RFC3339 instants are read in the analysis location")

	got, err = ParseDate("start_date", "", loc)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = ParseDate("end_date", "03/01/2024", loc)
	var paramErr *ParamError
	require.ErrorAs(t, err, &paramErr)
	assert.Equal(t, "end_date", paramErr.Field)
	assert.Equal(t, ParamDate, paramErr.Kind)
}

func TestParseAnalysisRequest(t *testing.T) {
	req, err := ParseAnalysisRequest("2024-03-01", "", "+02:00")

	require.NoError(t, err)
	assert.True(t, req.End.IsZero())
	_, offset := req.Start.Zone()
	assert.Equal(t, 2*3600, offset)

	_, err = ParseAnalysisRequest("bad", "", "")
	assert.Error(t, err)
}
