package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Duration
		wantErr bool
	}{
		{name: "string", in: `"1.5s"`, want: 1500 * time.Millisecond},
		{name: "nanoseconds", in: `2000000`, want: 2 * time.Millisecond},
		{name: "bad string", in: `"soon"`, wantErr: true},
		{name: "bool", in: `true`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.in), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration)
		})
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Duration{Duration: 3 * time.Second})
	require.NoError(t, err)
	assert.JSONEq(t, `"3s"`, string(b))
}

func TestUnixMillis_RoundTrip(t *testing.T) {
	ts := time.UnixMilli(1700000000123)
	s := UnixMillis(ts)
	assert.Equal(t, "1700000000123", s)

	back, err := ParseUnixMillis(s)
	require.NoError(t, err)
	assert.True(t, ts.Equal(back))

	_, err = ParseUnixMillis("yesterday")
	assert.Error(t, err)
}
