package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2025-03-01T10:20:30Z", "2025-03-01 10:20:30", " 2025-03-01 10:20:30 "} {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.True(t, got.Equal(time.Date(2025, 3, 1, 10, 20, 30, 0, time.UTC)), in)
	}
	_, err := ParseDate("01.03.2025")
	assert.Error(t, err)
}

func TestDomainDecodeMergesReply(t *testing.T) {
	created := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	d := Domain{ID: 7, Domain: "example.com", Note: "old", CreatedDate: &created}

	err := json.Unmarshal([]byte(`{
		"expires": "2025-03-01 00:00:00",
		"since": "",
		"operated": null,
		"note": "after the date",
		"registrant": 11
	}`), &d)

	require.NoError(t, err)
	require.NotNil(t, d.Expires)
	assert.True(t, d.Expires.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.Nil(t, d.Since)
	assert.Nil(t, d.Operated)
	assert.Equal(t, &created, d.CreatedDate, "absent dates are kept")
	assert.Equal(t, "after the date", d.Note)
	assert.Equal(t, int64(11), d.Registrant)
	assert.Equal(t, "example.com", d.Domain)
}

func TestDomainDecodeRejectsUnknownDateForm(t *testing.T) {
	var d Domain
	assert.Error(t, json.Unmarshal([]byte(`{"expires":"01.03.2025"}`), &d))
}

func TestDomainJSONRoundTrip(t *testing.T) {
	exp := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	data, err := json.Marshal(Domain{ID: 1, Domain: "a.com", Expires: &exp})
	require.NoError(t, err)

	var back Domain
	require.NoError(t, json.Unmarshal(data, &back))
	require.NotNil(t, back.Expires)
	assert.True(t, exp.Equal(*back.Expires))
}
