package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	bogota := time.FixedZone("COT", -5*60*60)

	tests := []struct {
		name string
		in   string
		loc  *time.Location
		want Date
	}{
		{"date only keeps calendar day", "2024-03-01", bogota, Date{2024, time.March, 1}},
		{"surrounding whitespace", " 2024-03-01 ", time.UTC, Date{2024, time.March, 1}},
		{"rfc3339 is converted to utc", "2024-03-01T23:30:00-05:00", time.UTC, Date{2024, time.March, 2}},
		{"utc timestamp", "2024-03-01T10:00:00Z", bogota, Date{2024, time.March, 1}},
		{"local evening crosses utc midnight", "2024-03-01T21:00", bogota, Date{2024, time.March, 2}},
		{"local morning stays", "2024-03-01 08:00", bogota, Date{2024, time.March, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeDate(tt.in, tt.loc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeDateRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "01/03/2024", "tomorrow"} {
		_, err := NormalizeDate(in, time.UTC)
		assert.Error(t, err, "input %q", in)
	}
}

func TestDateJSON(t *testing.T) {
	var s struct {
		A Date `json:"a"`
		B Date `json:"b"`
		C Date `json:"c"`
		D Date `json:"d"`
	}
	err := json.Unmarshal([]byte(`{"a":"2024-03-01","b":null,"c":"","d":"2024-05-06T00:00:00.000+00:00"}`), &s)
	require.NoError(t, err)

	assert.Equal(t, Date{2024, time.March, 1}, s.A)
	assert.True(t, s.B.IsZero())
	assert.True(t, s.C.IsZero())
	assert.Equal(t, Date{2024, time.May, 6}, s.D)

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"2024-03-01","b":null,"c":null,"d":"2024-05-06"}`, string(out))
}

func TestDateRejectsNonString(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`20240301`), &d))
}

func TestDateBefore(t *testing.T) {
	assert.True(t, Date{2024, time.March, 1}.Before(Date{2024, time.March, 2}))
	assert.False(t, Date{2024, time.March, 2}.Before(Date{2024, time.March, 2}))
}
